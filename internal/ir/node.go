// Package ir defines the intermediate representation for parsed pipeline
// expressions: a tree of resources composed sequentially, concurrently, or
// behind a conditional branch. Trees are built once by the parser, resolved
// once by the resource resolver, and treated as immutable afterwards.
package ir

import (
	"fmt"
	"strings"
)

// Kind classifies a pipeline resource.
type Kind string

const (
	KindAgent    Kind = "agent"
	KindWorkflow Kind = "workflow"
	KindFunction Kind = "function"
	// KindUnknown is assigned by the parser and resolved during validation.
	KindUnknown Kind = "unknown"
)

// ParseKind converts a string into a Kind. It returns an error for anything
// outside the closed set of kinds.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindAgent, KindWorkflow, KindFunction, KindUnknown:
		return Kind(s), nil
	}
	return "", fmt.Errorf("invalid resource kind %q", s)
}

// Node is the closed set of IR tree nodes. The unexported marker method
// keeps the set sealed so consumers can switch exhaustively over the four
// variants.
type Node interface {
	node()
	fmt.Stringer
}

// Resource is a leaf node referencing a named unit of work.
type Resource struct {
	Name string
	Kind Kind
}

// Sequence runs its children in order, threading one result value.
type Sequence struct {
	Children []Node
}

// Concurrent runs its children together and produces a list of results.
type Concurrent struct {
	Children []Node
}

// Branch selects between two subtrees based on a field read off the
// running result. False may be nil.
type Branch struct {
	Condition string
	True      Node
	False     Node
}

func (*Resource) node()   {}
func (*Sequence) node()   {}
func (*Concurrent) node() {}
func (*Branch) node()     {}

// NewResource constructs a leaf node. The name must be non-empty and the
// kind must be one of the closed set.
func NewResource(name string, kind Kind) (*Resource, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("resource name cannot be empty")
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	return &Resource{Name: name, Kind: kind}, nil
}

// NewSequence constructs a sequential composition of at least two children.
func NewSequence(children []Node) (*Sequence, error) {
	if len(children) < 2 {
		return nil, fmt.Errorf("sequence must have at least 2 children, got %d", len(children))
	}
	return &Sequence{Children: children}, nil
}

// NewConcurrent constructs a concurrent composition of at least two children.
func NewConcurrent(children []Node) (*Concurrent, error) {
	if len(children) < 2 {
		return nil, fmt.Errorf("concurrent group must have at least 2 children, got %d", len(children))
	}
	return &Concurrent{Children: children}, nil
}

// NewBranch constructs a conditional node. The condition names a field on
// the running result and must not be blank; false may be nil.
func NewBranch(condition string, trueBranch, falseBranch Node) (*Branch, error) {
	if strings.TrimSpace(condition) == "" {
		return nil, fmt.Errorf("branch condition cannot be empty")
	}
	if trueBranch == nil {
		return nil, fmt.Errorf("branch requires a true subtree")
	}
	return &Branch{Condition: condition, True: trueBranch, False: falseBranch}, nil
}

// String renders the leaf as Kind(Name) for debugging.
func (r *Resource) String() string {
	kind := string(r.Kind)
	return strings.ToUpper(kind[:1]) + kind[1:] + "(" + r.Name + ")"
}

// String renders the children joined by the sequence operator.
func (s *Sequence) String() string {
	return "Sequence[" + joinChildren(s.Children, " → ") + "]"
}

// String renders the children joined by the parallel operator.
func (c *Concurrent) String() string {
	return "Concurrent[" + joinChildren(c.Children, " ⇄ ") + "]"
}

// String renders the branch in ternary form.
func (b *Branch) String() string {
	if b.False != nil {
		return fmt.Sprintf("Branch(%s ? %s : %s)", b.Condition, b.True, b.False)
	}
	return fmt.Sprintf("Branch(%s ? %s)", b.Condition, b.True)
}

func joinChildren(children []Node, sep string) string {
	parts := make([]string, len(children))
	for i, child := range children {
		parts[i] = child.String()
	}
	return strings.Join(parts, sep)
}
