// Package codegen walks a validated pipeline tree and emits the Python
// orchestration source implementing it: one workflow class with a single
// execute entry point that threads a result value through the tree.
package codegen

import (
	"fmt"
	"strings"

	"github.com/pipegen/pipegen/internal/ir"
)

// Error reports an unrecognized node variant reaching the generator. This
// signals an internal programming error, not bad input: parser and ir
// invariants should make it impossible.
type Error struct {
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

const indentUnit = "    "

// Generate emits the full orchestration source for a validated tree. The
// pipeline and project names are substituted verbatim into the template and
// import paths; both must be non-empty.
func Generate(node ir.Node, pipelineName, projectName string) (string, error) {
	if strings.TrimSpace(pipelineName) == "" {
		return "", fmt.Errorf("pipeline name cannot be empty")
	}
	if strings.TrimSpace(projectName) == "" {
		return "", fmt.Errorf("project name cannot be empty")
	}

	imports := strings.Join(generateImports(node, projectName), "\n")

	body, err := emitNode(node, 2)
	if err != nil {
		return "", err
	}

	code := fmt.Sprintf(`"""
%[1]s workflow.

Auto-generated pipeline from operator expression.
"""

%[2]s


class %[1]s(Workflow):
    """Pipeline workflow: %[1]s."""

    @step
    async def execute(self, input_data: dict) -> dict:
        """Execute the pipeline and return its result."""
        result = input_data
%[3]s        return result
`, pipelineName, imports, body)

	return code, nil
}

// emitNode dispatches on the node variant. Every statement it produces
// reads and reassigns the shared `result` binding.
func emitNode(node ir.Node, indent int) (string, error) {
	switch n := node.(type) {
	case *ir.Resource:
		return emitResource(n, indent), nil
	case *ir.Sequence:
		return emitSequence(n, indent)
	case *ir.Concurrent:
		return emitConcurrent(n, indent)
	case *ir.Branch:
		return emitBranch(n, indent)
	}
	return "", &Error{Message: fmt.Sprintf("unknown node type %T", node)}
}

func emitResource(res *ir.Resource, indent int) string {
	pad := strings.Repeat(indentUnit, indent)
	activity := SnakeCase(res.Name) + "_activity"
	return fmt.Sprintf("%sresult = await self.execute_activity(%s, result)\n", pad, activity)
}

func emitSequence(seq *ir.Sequence, indent int) (string, error) {
	var b strings.Builder
	for _, child := range seq.Children {
		code, err := emitNode(child, indent)
		if err != nil {
			return "", err
		}
		b.WriteString(code)
	}
	return b.String(), nil
}

// emitConcurrent handles a concurrent group whose children are all plain
// resource leaves with a single gather statement; the scalar result is
// replaced by the list of branch results and no merge step is generated.
// Any non-leaf child makes the whole group an unsupported shape, emitted as
// a placeholder comment.
func emitConcurrent(con *ir.Concurrent, indent int) (string, error) {
	pad := strings.Repeat(indentUnit, indent)
	inner := strings.Repeat(indentUnit, indent+1)

	for _, child := range con.Children {
		if _, ok := child.(*ir.Resource); !ok {
			return pad + "# TODO: nested composite shapes inside a concurrent group are not supported\n", nil
		}
	}

	calls := make([]string, len(con.Children))
	for i, child := range con.Children {
		leaf := child.(*ir.Resource)
		calls[i] = fmt.Sprintf("%sself.execute_activity(%s_activity, result)", inner, SnakeCase(leaf.Name))
	}

	var b strings.Builder
	b.WriteString(pad + "results = await asyncio.gather(\n")
	b.WriteString(strings.Join(calls, ",\n"))
	b.WriteString("\n" + pad + ")\n")
	b.WriteString(pad + "result = results\n")
	return b.String(), nil
}

func emitBranch(br *ir.Branch, indent int) (string, error) {
	pad := strings.Repeat(indentUnit, indent)

	var b strings.Builder
	fmt.Fprintf(&b, "%sif result.get('%s'):\n", pad, br.Condition)

	trueCode, err := emitNode(br.True, indent+1)
	if err != nil {
		return "", err
	}
	b.WriteString(trueCode)

	if br.False != nil {
		b.WriteString(pad + "else:\n")
		falseCode, err := emitNode(br.False, indent+1)
		if err != nil {
			return "", err
		}
		b.WriteString(falseCode)
	}

	return b.String(), nil
}
