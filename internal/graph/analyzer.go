// Package graph performs structural analysis of a parsed pipeline tree:
// cycle and reachability checks, execution order, the dependency map, and
// size metrics. It operates on the tree alone and is independent of the
// project resource table.
package graph

import (
	"sort"
	"strings"

	"github.com/pipegen/pipegen/internal/ir"
)

// StructureError reports a structural problem found during analysis.
type StructureError struct {
	Message string
}

// Error implements the error interface for StructureError.
func (e *StructureError) Error() string {
	return e.Message
}

// Analyzer holds a pipeline tree together with the set of resource names
// collected when it was constructed. That set is the canonical "all
// resources" reference the reachability check diffs against.
type Analyzer struct {
	root ir.Node
	all  map[string]struct{}
}

// NewAnalyzer builds an analyzer for the given root, walking the tree once
// to record every resource leaf name.
func NewAnalyzer(root ir.Node) *Analyzer {
	a := &Analyzer{root: root, all: make(map[string]struct{})}
	a.collect(root)
	return a
}

func (a *Analyzer) collect(node ir.Node) {
	switch n := node.(type) {
	case *ir.Resource:
		a.all[n.Name] = struct{}{}
	case *ir.Sequence:
		for _, child := range n.Children {
			a.collect(child)
		}
	case *ir.Concurrent:
		for _, child := range n.Children {
			a.collect(child)
		}
	case *ir.Branch:
		a.collect(n.True)
		if n.False != nil {
			a.collect(n.False)
		}
	}
}

// CheckCycles runs a depth-first search over the tree tracking a recursion
// stack of leaf names. Leaves have no children and a tree cannot reference
// an open ancestor, so this check is structurally always satisfied for
// parser-built trees. It stays here as a defensive invariant check against
// externally constructed or mutated trees, not as a real cycle detector.
func (a *Analyzer) CheckCycles() error {
	visited := make(map[string]bool)
	stack := make(map[string]bool)

	var visit func(node ir.Node, path []string) error
	visit = func(node ir.Node, path []string) error {
		switch n := node.(type) {
		case *ir.Resource:
			if stack[n.Name] {
				start := 0
				for i, name := range path {
					if name == n.Name {
						start = i
						break
					}
				}
				cycle := append(append([]string{}, path[start:]...), n.Name)
				return &StructureError{Message: "cycle detected: " + strings.Join(cycle, " → ")}
			}
			if visited[n.Name] {
				return nil
			}
			visited[n.Name] = true
			stack[n.Name] = true
			// Leaves have no children to descend into.
			delete(stack, n.Name)
			return nil

		case *ir.Sequence:
			for _, child := range n.Children {
				if err := visit(child, path); err != nil {
					return err
				}
			}

		case *ir.Concurrent:
			for _, child := range n.Children {
				if err := visit(child, path); err != nil {
					return err
				}
			}

		case *ir.Branch:
			if err := visit(n.True, path); err != nil {
				return err
			}
			if n.False != nil {
				if err := visit(n.False, path); err != nil {
					return err
				}
			}
		}
		return nil
	}

	return visit(a.root, nil)
}

// CheckUnreachable walks the tree a second time marking every reached leaf
// and diffs the result against the set collected at construction. Any tree
// obtained purely from parsing passes; the check exists to catch manually
// assembled or mutated trees.
func (a *Analyzer) CheckUnreachable() error {
	reached := make(map[string]struct{})

	var mark func(node ir.Node)
	mark = func(node ir.Node) {
		switch n := node.(type) {
		case *ir.Resource:
			reached[n.Name] = struct{}{}
		case *ir.Sequence:
			for _, child := range n.Children {
				mark(child)
			}
		case *ir.Concurrent:
			for _, child := range n.Children {
				mark(child)
			}
		case *ir.Branch:
			mark(n.True)
			if n.False != nil {
				mark(n.False)
			}
		}
	}
	mark(a.root)

	var unreachable []string
	for name := range a.all {
		if _, ok := reached[name]; !ok {
			unreachable = append(unreachable, name)
		}
	}
	if len(unreachable) > 0 {
		sort.Strings(unreachable)
		return &StructureError{Message: "unreachable nodes detected: " + strings.Join(unreachable, ", ")}
	}
	return nil
}

// ExecutionOrder returns resource names in first-visit depth-first order:
// sequence and concurrent children in written order, branch true before
// false. It is a display and debugging aid, not a scheduling guarantee.
func (a *Analyzer) ExecutionOrder() []string {
	var order []string
	seen := make(map[string]bool)

	var walk func(node ir.Node)
	walk = func(node ir.Node) {
		switch n := node.(type) {
		case *ir.Resource:
			if !seen[n.Name] {
				seen[n.Name] = true
				order = append(order, n.Name)
			}
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
	walk(a.root)
	return order
}

// Dependencies maps each resource name to the names that must run before it.
// Sequence children accumulate predecessors left to right, but only direct
// resource children extend the running set: the map does not expand
// transitively through nested concurrent groups or branches. Concurrent
// children and both branch arms inherit the predecessor set they entered
// with. Downstream consumers depend on exactly this non-transitive shape.
func (a *Analyzer) Dependencies() map[string][]string {
	deps := make(map[string][]string, len(a.all))
	for name := range a.all {
		deps[name] = []string{}
	}

	var build func(node ir.Node, preds []string)
	build = func(node ir.Node, preds []string) {
		switch n := node.(type) {
		case *ir.Resource:
			deps[n.Name] = append(deps[n.Name], preds...)

		case *ir.Sequence:
			current := append([]string{}, preds...)
			for _, child := range n.Children {
				build(child, current)
				if leaf, ok := child.(*ir.Resource); ok {
					current = append(current, leaf.Name)
				}
			}

		case *ir.Concurrent:
			for _, child := range n.Children {
				build(child, preds)
			}

		case *ir.Branch:
			build(n.True, preds)
			if n.False != nil {
				build(n.False, preds)
			}
		}
	}
	build(a.root, nil)
	return deps
}

// Metrics summarizes the size and shape of a pipeline tree.
type Metrics struct {
	TotalResources      int `json:"total_resources"`
	MaxDepth            int `json:"max_depth"`
	ParallelSections    int `json:"parallel_sections"`
	ConditionalBranches int `json:"conditional_branches"`
}

// Metrics computes the tree metrics: distinct resource count, maximum
// nesting depth (each composite level adds one), and counts of concurrent
// groups and conditional branches.
func (a *Analyzer) Metrics() Metrics {
	m := Metrics{TotalResources: len(a.all)}

	var analyze func(node ir.Node, depth int)
	analyze = func(node ir.Node, depth int) {
		if depth > m.MaxDepth {
			m.MaxDepth = depth
		}
		switch n := node.(type) {
		case *ir.Sequence:
			for _, child := range n.Children {
				analyze(child, depth+1)
			}
		case *ir.Concurrent:
			m.ParallelSections++
			for _, child := range n.Children {
				analyze(child, depth+1)
			}
		case *ir.Branch:
			m.ConditionalBranches++
			analyze(n.True, depth+1)
			if n.False != nil {
				analyze(n.False, depth+1)
			}
		}
	}
	analyze(a.root, 0)
	return m
}
