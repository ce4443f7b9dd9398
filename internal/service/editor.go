// Package service edits a project's server/service.py in place, keeping
// the resource imports and registration lists in sync with generated code.
// Edits are line-based and anchored on the pipegen section markers so the
// rest of the file stays untouched.
package service

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pipegen/pipegen/internal/ir"
)

// FileName is the service entry point relative to the server directory.
const FileName = "service.py"

// markerFor maps a resource kind to its import section marker.
func markerFor(kind ir.Kind) (string, error) {
	switch kind {
	case ir.KindAgent:
		return "# pipegen:imports:agents", nil
	case ir.KindWorkflow:
		return "# pipegen:imports:workflows", nil
	case ir.KindFunction:
		return "# pipegen:imports:functions", nil
	}
	return "", fmt.Errorf("no import section for kind %q", kind)
}

// dirFor maps a resource kind to its source directory name.
func dirFor(kind ir.Kind) string {
	switch kind {
	case ir.KindAgent:
		return "agents"
	case ir.KindWorkflow:
		return "workflows"
	default:
		return "functions"
	}
}

var listPatterns = map[ir.Kind]*regexp.Regexp{
	ir.KindAgent:    regexp.MustCompile(`^(\s*)agents=\[(.*?)\],\s*$`),
	ir.KindWorkflow: regexp.MustCompile(`^(\s*)workflows=\[(.*?)\],\s*$`),
	ir.KindFunction: regexp.MustCompile(`^(\s*)functions=\[(.*?)\],\s*$`),
}

// AddImport inserts an import statement under the kind's section marker.
// It returns the updated source and whether anything changed; re-adding an
// existing import is a no-op.
func AddImport(src string, kind ir.Kind, importLine string) (string, bool, error) {
	marker, err := markerFor(kind)
	if err != nil {
		return src, false, err
	}

	lines := strings.Split(src, "\n")
	markerAt := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == importLine {
			return src, false, nil
		}
		if strings.TrimSpace(line) == marker {
			markerAt = i
		}
	}
	if markerAt == -1 {
		return src, false, fmt.Errorf("service.py is missing the %q marker", marker)
	}

	// Insert after the marker and any imports already in its section.
	at := markerAt + 1
	for at < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[at]), "from ") {
		at++
	}

	updated := make([]string, 0, len(lines)+1)
	updated = append(updated, lines[:at]...)
	updated = append(updated, importLine)
	updated = append(updated, lines[at:]...)
	return strings.Join(updated, "\n"), true, nil
}

// AddToList appends an entry to the kind's registration list in the
// start_service call. Entries are kept on one line, comma separated.
func AddToList(src string, kind ir.Kind, entry string) (string, bool, error) {
	pattern, ok := listPatterns[kind]
	if !ok {
		return src, false, fmt.Errorf("no registration list for kind %q", kind)
	}

	lines := strings.Split(src, "\n")
	for i, line := range lines {
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		indent, existing := m[1], m[2]
		items := splitEntries(existing)
		for _, item := range items {
			if item == entry {
				return src, false, nil
			}
		}
		items = append(items, entry)
		lines[i] = fmt.Sprintf("%s%s=[%s],", indent, dirFor(kind), strings.Join(items, ", "))
		return strings.Join(lines, "\n"), true, nil
	}
	return src, false, fmt.Errorf("service.py has no %s=[...] registration list", dirFor(kind))
}

func splitEntries(s string) []string {
	var items []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// RegisterResource wires one generated resource into the service file at
// path: an import under the matching section marker and an entry in the
// matching registration list. It reports whether the file was modified.
func RegisterResource(path string, kind ir.Kind, projectName, module, className string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	importLine := fmt.Sprintf("from %s.%s.%s import %s", projectName, dirFor(kind), module, className)

	src := string(data)
	src, importChanged, err := AddImport(src, kind, importLine)
	if err != nil {
		return false, err
	}
	src, listChanged, err := AddToList(src, kind, className)
	if err != nil {
		return false, err
	}

	if !importChanged && !listChanged {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}
