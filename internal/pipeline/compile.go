// Package pipeline wires the compiler stages together: expression text is
// lexed and parsed into an ir tree, resource kinds are resolved against the
// project table, the tree is structurally validated, and orchestration
// source is generated from it. Each Compile call owns an independent tree,
// so concurrent calls are safe.
package pipeline

import (
	"fmt"

	"github.com/pipegen/pipegen/internal/codegen"
	"github.com/pipegen/pipegen/internal/expr"
	"github.com/pipegen/pipegen/internal/graph"
	"github.com/pipegen/pipegen/internal/ir"
	"github.com/pipegen/pipegen/internal/resource"
)

// Options configure a single compilation.
type Options struct {
	// PipelineName is the class name of the generated workflow.
	PipelineName string
	// ProjectName is the package prefix used in generated import paths.
	ProjectName string
	// Strict promotes advisory warnings to validation errors.
	Strict bool
}

// Output is the result of a successful parse: generated source plus the
// aggregate validation outcome. Code is empty when validation failed.
type Output struct {
	Code       string
	Tree       ir.Node
	Validation *graph.Result
}

// Compile runs the whole text-to-text pipeline. Lex and parse errors abort
// immediately since no partial tree is usable; resolution and structural
// problems are collected into the validation result so every problem can be
// reported in one pass. Code generation runs only when the result is valid.
func Compile(src string, table resource.Table, opts Options) (*Output, error) {
	tree, err := expr.Parse(src)
	if err != nil {
		return nil, err
	}

	analyzer := graph.NewAnalyzer(tree)
	result := analyzer.Validate(opts.Strict)

	if ok, resolveErr := resource.Resolve(tree, table); !ok {
		result.Errors = append(result.Errors, resolveErr.Error())
		result.Valid = false
	}

	out := &Output{Tree: tree, Validation: result}
	if !result.Valid {
		return out, nil
	}

	code, err := codegen.Generate(tree, opts.PipelineName, opts.ProjectName)
	if err != nil {
		return nil, fmt.Errorf("generate pipeline code: %w", err)
	}
	out.Code = code
	return out, nil
}
