// Package resource resolves the leaf nodes of a parsed pipeline tree against
// the set of resources defined in a project. The table itself is built by a
// collaborator (see internal/project); this package only consumes it.
package resource

import "github.com/pipegen/pipegen/internal/ir"

// Table maps a resource name to its kind. Multiple name variants of the same
// resource may map to the same kind.
type Table map[string]ir.Kind

// Register adds a name to the table. The first registration wins so that
// more specific name forms are not clobbered by derived variants.
func (t Table) Register(name string, kind ir.Kind) {
	if name == "" {
		return
	}
	if _, ok := t[name]; ok {
		return
	}
	t[name] = kind
}

// Lookup reports the kind registered for a name.
func (t Table) Lookup(name string) (ir.Kind, bool) {
	kind, ok := t[name]
	return kind, ok
}
