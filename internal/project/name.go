package project

import (
	"fmt"
	"regexp"
	"strings"
)

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// reservedNames are directory names a generated project must not take, plus
// Python keywords that would break generated import paths.
var reservedNames = map[string]bool{
	"test": true, "tests": true, "src": true, "lib": true, "bin": true,
	"dist": true, "build": true, "venv": true,
	"class": true, "def": true, "import": true, "from": true, "global": true,
	"lambda": true, "pass": true, "return": true, "yield": true, "async": true,
	"await": true, "None": true, "True": true, "False": true,
}

// ValidateName checks a project name: it must start with a lowercase letter
// and contain only lowercase letters, digits, and underscores, and must not
// be a reserved word.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("project name must start with a letter and contain only lowercase letters, numbers, and underscores")
	}
	if reservedNames[name] {
		return fmt.Errorf("'%s' is a reserved word and cannot be used as a project name", name)
	}
	return nil
}

// PascalCase converts a snake_case name to PascalCase ("data_collector" ->
// "DataCollector"). Used to derive the class-name variants registered in
// the resource table.
func PascalCase(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
