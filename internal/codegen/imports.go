package codegen

import (
	"fmt"
	"sort"

	"github.com/pipegen/pipegen/internal/ir"
)

// hasConcurrent reports whether any concurrent group exists anywhere in the
// tree, short-circuiting at the first match. Branch arms are searched too.
func hasConcurrent(node ir.Node) bool {
	switch n := node.(type) {
	case *ir.Concurrent:
		return true
	case *ir.Sequence:
		for _, child := range n.Children {
			if hasConcurrent(child) {
				return true
			}
		}
	case *ir.Branch:
		if hasConcurrent(n.True) {
			return true
		}
		if n.False != nil {
			return hasConcurrent(n.False)
		}
	}
	return false
}

// collectResources gathers every resource leaf in the tree, in walk order.
func collectResources(node ir.Node) []*ir.Resource {
	var out []*ir.Resource
	var walk func(ir.Node)
	walk = func(node ir.Node) {
		switch n := node.(type) {
		case *ir.Resource:
			out = append(out, n)
		case *ir.Sequence:
			for _, child := range n.Children {
				walk(child)
			}
		case *ir.Concurrent:
			for _, child := range n.Children {
				walk(child)
			}
		case *ir.Branch:
			walk(n.True)
			if n.False != nil {
				walk(n.False)
			}
		}
	}
	walk(node)
	return out
}

// generateImports builds the import section for a generated pipeline: the
// orchestration primitives, asyncio when a concurrent group exists, and one
// import per distinct (name, kind) pair, grouped by kind and alphabetically
// sorted within each group.
func generateImports(node ir.Node, projectName string) []string {
	imports := []string{"from pipekit import Workflow, step"}

	if hasConcurrent(node) {
		imports = append(imports, "import asyncio")
	}

	grouped := map[ir.Kind][]string{}
	seen := map[string]bool{}
	for _, res := range collectResources(node) {
		key := res.Name + "/" + string(res.Kind)
		if seen[key] {
			continue
		}
		seen[key] = true
		grouped[res.Kind] = append(grouped[res.Kind], res.Name)
	}

	for _, group := range []struct {
		kind ir.Kind
		pkg  string
	}{
		{ir.KindAgent, "agents"},
		{ir.KindWorkflow, "workflows"},
		{ir.KindFunction, "functions"},
	} {
		names := grouped[group.kind]
		sort.Strings(names)
		for _, name := range names {
			imports = append(imports, fmt.Sprintf(
				"from %s.%s.%s import %s", projectName, group.pkg, SnakeCase(name), name))
		}
	}

	return imports
}
