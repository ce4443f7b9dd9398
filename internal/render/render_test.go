package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	orig := now
	now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	t.Cleanup(func() { now = orig })

	t.Run("common context is injected", func(t *testing.T) {
		out, err := Render("agent.py", map[string]any{
			"Name":      "DataCollector",
			"SnakeName": "data_collector",
		})
		require.NoError(t, err)

		assert.Contains(t, out, "class DataCollector(Agent):")
		assert.Contains(t, out, "data_collector_activity")
		assert.Contains(t, out, "2026-01-02T03:04:05Z")
	})

	t.Run("caller context overrides common keys", func(t *testing.T) {
		out, err := Render("prompt.md", map[string]any{
			"Name":             "summarize",
			"PromptVersion":    "1.0.0",
			"GeneratorVersion": "override",
		})
		require.NoError(t, err)
		assert.Contains(t, out, "generated_by: pipegen override")
	})

	t.Run("unknown template", func(t *testing.T) {
		_, err := Render("nope.txt", nil)
		assert.ErrorContains(t, err, `unknown template "nope.txt"`)
	})

	t.Run("service template carries section markers", func(t *testing.T) {
		out, err := Render("service.py", map[string]any{
			"ProjectName": "demo",
			"TaskQueue":   "demo",
		})
		require.NoError(t, err)

		assert.Contains(t, out, "# pipegen:imports:agents")
		assert.Contains(t, out, "agents=[],")
		assert.Contains(t, out, "workflows=[],")
		assert.Contains(t, out, "functions=[],")
	})

	t.Run("every template parses and renders", func(t *testing.T) {
		ctx := map[string]any{
			"Name": "X", "SnakeName": "x", "ProjectName": "p", "TaskQueue": "p",
			"Version": "0.1.0", "Description": "d", "EnvPrefix": "P",
			"Model": "gpt-4o", "PromptVersion": "1.0.0", "KindDir": "agents",
		}
		for name := range templateSources {
			_, err := Render(name, ctx)
			assert.NoError(t, err, "template %s", name)
		}
	})
}

func TestHas(t *testing.T) {
	assert.True(t, Has("workflow.py"))
	assert.False(t, Has("missing"))
}
