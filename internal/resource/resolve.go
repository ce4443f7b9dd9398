package resource

import (
	"fmt"

	"github.com/pipegen/pipegen/internal/ir"
)

// Resolve checks every leaf of the tree against the table and fills each
// unresolved leaf's kind in place, exactly once. It returns (false, err) on
// the first problem so callers can batch-report the message, and (true, nil)
// when every leaf resolves. Re-resolving an already resolved tree is a no-op
// that still succeeds.
func Resolve(node ir.Node, table Table) (bool, error) {
	switch n := node.(type) {
	case *ir.Resource:
		kind, ok := table.Lookup(n.Name)
		if !ok {
			return false, fmt.Errorf("resource '%s' not found in project", n.Name)
		}
		if n.Kind != ir.KindUnknown {
			if n.Kind != kind {
				return false, fmt.Errorf("resource '%s' is a %s, not a %s", n.Name, kind, n.Kind)
			}
			return true, nil
		}
		n.Kind = kind
		return true, nil

	case *ir.Sequence:
		return resolveChildren(n.Children, table)

	case *ir.Concurrent:
		return resolveChildren(n.Children, table)

	case *ir.Branch:
		if ok, err := Resolve(n.True, table); !ok {
			return false, err
		}
		if n.False != nil {
			if ok, err := Resolve(n.False, table); !ok {
				return false, err
			}
		}
		return true, nil
	}

	return false, fmt.Errorf("unknown node type %T", node)
}

func resolveChildren(children []ir.Node, table Table) (bool, error) {
	for _, child := range children {
		if ok, err := Resolve(child, table); !ok {
			return false, err
		}
	}
	return true, nil
}
