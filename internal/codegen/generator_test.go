package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipegen/pipegen/internal/ir"
)

func agent(name string) *ir.Resource {
	return &ir.Resource{Name: name, Kind: ir.KindAgent}
}

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"DataCollector": "data_collector",
		"Fetcher":       "fetcher",
		"process_data":  "process_data",
		"HTTPFetcher":   "httpfetcher", // acronym runs collapse, by convention
		"MyHTTPServer":  "my_httpserver",
		"A":             "a",
	}
	for in, want := range cases {
		assert.Equal(t, want, SnakeCase(in), "SnakeCase(%q)", in)
	}
}

func TestGenerateSequence(t *testing.T) {
	tree := &ir.Sequence{Children: []ir.Node{
		agent("Fetcher"), agent("Processor"), agent("Saver"),
	}}

	code, err := Generate(tree, "DataPipeline", "myproject")
	require.NoError(t, err)

	// Three activity invocations, in order.
	first := strings.Index(code, "result = await self.execute_activity(fetcher_activity, result)")
	second := strings.Index(code, "result = await self.execute_activity(processor_activity, result)")
	third := strings.Index(code, "result = await self.execute_activity(saver_activity, result)")
	require.GreaterOrEqual(t, first, 0)
	assert.Greater(t, second, first)
	assert.Greater(t, third, second)

	assert.Contains(t, code, "class DataPipeline(Workflow):")
	assert.Contains(t, code, "async def execute(self, input_data: dict) -> dict:")
	assert.Contains(t, code, "return result")
}

func TestGenerateImports(t *testing.T) {
	t.Run("orchestration primitives always imported", func(t *testing.T) {
		code, err := Generate(agent("Solo"), "P", "proj")
		require.NoError(t, err)
		assert.Contains(t, code, "from pipekit import Workflow, step")
		assert.NotContains(t, code, "import asyncio")
	})

	t.Run("asyncio imported only when a concurrent group exists", func(t *testing.T) {
		tree := &ir.Sequence{Children: []ir.Node{
			agent("A"),
			&ir.Branch{Condition: "check", True: &ir.Concurrent{
				Children: []ir.Node{agent("B"), agent("C")},
			}},
		}}
		code, err := Generate(tree, "P", "proj")
		require.NoError(t, err)
		assert.Contains(t, code, "import asyncio")
	})

	t.Run("grouped by kind and sorted within each group", func(t *testing.T) {
		tree := &ir.Sequence{Children: []ir.Node{
			&ir.Resource{Name: "Zeta", Kind: ir.KindAgent},
			&ir.Resource{Name: "Alpha", Kind: ir.KindAgent},
			&ir.Resource{Name: "Builder", Kind: ir.KindWorkflow},
			&ir.Resource{Name: "save_data", Kind: ir.KindFunction},
		}}
		code, err := Generate(tree, "P", "proj")
		require.NoError(t, err)

		alpha := strings.Index(code, "from proj.agents.alpha import Alpha")
		zeta := strings.Index(code, "from proj.agents.zeta import Zeta")
		builder := strings.Index(code, "from proj.workflows.builder import Builder")
		save := strings.Index(code, "from proj.functions.save_data import save_data")

		require.GreaterOrEqual(t, alpha, 0)
		assert.Greater(t, zeta, alpha)
		assert.Greater(t, builder, zeta)
		assert.Greater(t, save, builder)
	})

	t.Run("duplicate resources import once", func(t *testing.T) {
		tree := &ir.Sequence{Children: []ir.Node{agent("A"), agent("B"), agent("A")}}
		code, err := Generate(tree, "P", "proj")
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(code, "from proj.agents.a import A"))
	})
}

func TestGenerateConcurrent(t *testing.T) {
	t.Run("leaf-only group becomes one gather statement", func(t *testing.T) {
		tree := &ir.Concurrent{Children: []ir.Node{agent("First"), agent("Second")}}
		code, err := Generate(tree, "P", "proj")
		require.NoError(t, err)

		assert.Contains(t, code, "results = await asyncio.gather(")
		assert.Contains(t, code, "self.execute_activity(first_activity, result)")
		assert.Contains(t, code, "self.execute_activity(second_activity, result)")
		assert.Contains(t, code, "result = results")
	})

	t.Run("non-leaf child emits a placeholder comment", func(t *testing.T) {
		tree := &ir.Concurrent{Children: []ir.Node{
			agent("A"),
			&ir.Sequence{Children: []ir.Node{agent("B"), agent("C")}},
		}}
		code, err := Generate(tree, "P", "proj")
		require.NoError(t, err)

		assert.Contains(t, code, "# TODO: nested composite shapes inside a concurrent group are not supported")
		assert.NotContains(t, code, "asyncio.gather(")
	})
}

func TestGenerateBranch(t *testing.T) {
	t.Run("if and else blocks", func(t *testing.T) {
		tree := &ir.Branch{Condition: "needs_review", True: agent("Reviewer"), False: agent("Publisher")}
		code, err := Generate(tree, "P", "proj")
		require.NoError(t, err)

		assert.Contains(t, code, "if result.get('needs_review'):")
		assert.Contains(t, code, "else:")
		assert.Contains(t, code, "reviewer_activity")
		assert.Contains(t, code, "publisher_activity")
	})

	t.Run("else omitted without a false branch", func(t *testing.T) {
		tree := &ir.Branch{Condition: "flag", True: agent("OnlyTrue")}
		code, err := Generate(tree, "P", "proj")
		require.NoError(t, err)

		assert.Contains(t, code, "if result.get('flag'):")
		assert.NotContains(t, code, "else:")
	})
}

func TestGenerateValidatesNames(t *testing.T) {
	_, err := Generate(agent("A"), "", "proj")
	assert.ErrorContains(t, err, "pipeline name")

	_, err = Generate(agent("A"), "P", " ")
	assert.ErrorContains(t, err, "project name")
}

func TestGeneratedSourceShape(t *testing.T) {
	// The emitted text must be well-formed Python: consistent four-space
	// indentation inside the execute body and a trailing newline.
	tree := &ir.Sequence{Children: []ir.Node{
		agent("Fetcher"),
		&ir.Branch{Condition: "ok", True: agent("Saver")},
	}}
	code, err := Generate(tree, "Pipe", "proj")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(code, "return result\n"))
	assert.Contains(t, code, "\n        result = await self.execute_activity(fetcher_activity, result)\n")
	assert.Contains(t, code, "\n        if result.get('ok'):\n            result = await self.execute_activity(saver_activity, result)\n")
}
