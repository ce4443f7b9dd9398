package codegen

import (
	"strings"
	"unicode"
)

// SnakeCase converts a resource name to the module/activity identifier form:
// an underscore is inserted before any uppercase letter that is not first
// and is immediately preceded by a lowercase letter, then the whole string
// is lowercased. Consecutive uppercase letters collapse into one run, so
// acronyms are not segmented ("HTTPFetcher" -> "httpfetcher").
func SnakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
