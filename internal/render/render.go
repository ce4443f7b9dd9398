// Package render produces the scaffolded files of a generated project from
// named templates. Templates are plain text/template definitions compiled
// once at package init; every render receives a common context (generator
// version, timestamp) merged beneath the caller's variables.
package render

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/pipegen/pipegen/internal/version"
)

var templates = template.New("pipegen")

func init() {
	for name, body := range templateSources {
		template.Must(templates.New(name).Parse(body))
	}
}

// now is swapped in tests to pin the timestamp.
var now = func() time.Time { return time.Now().UTC() }

// Render executes the named template. Caller-provided context keys override
// the common ones.
func Render(name string, context map[string]any) (string, error) {
	tpl := templates.Lookup(name)
	if tpl == nil {
		return "", fmt.Errorf("unknown template %q", name)
	}

	full := map[string]any{
		"GeneratorVersion": version.Version,
		"Timestamp":        now().Format(time.RFC3339),
	}
	for k, v := range context {
		full[k] = v
	}

	var b strings.Builder
	if err := tpl.Execute(&b, full); err != nil {
		return "", fmt.Errorf("render template %q: %w", name, err)
	}
	return b.String(), nil
}

// Has reports whether a template with the given name exists.
func Has(name string) bool {
	return templates.Lookup(name) != nil
}
