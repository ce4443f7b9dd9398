package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipegen/pipegen/internal/ir"
)

func TestValidateName(t *testing.T) {
	for _, valid := range []string{"myapp", "my_app", "app2", "a"} {
		assert.NoError(t, ValidateName(valid), valid)
	}

	cases := map[string]string{
		"":        "cannot be empty",
		"MyApp":   "lowercase",
		"2app":    "must start with a letter",
		"my-app":  "must start with a letter",
		"tests":   "reserved word",
		"import":  "reserved word",
		"_hidden": "must start with a letter",
	}
	for name, wantMsg := range cases {
		err := ValidateName(name)
		require.Error(t, err, name)
		assert.ErrorContains(t, err, wantMsg, name)
	}
}

func TestPascalCase(t *testing.T) {
	assert.Equal(t, "DataCollector", PascalCase("data_collector"))
	assert.Equal(t, "Fetcher", PascalCase("fetcher"))
	assert.Equal(t, "AB", PascalCase("a__b"))
}

func TestParseConfig(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		src := []byte(`
project "demo" {
  version    = "0.1.0"
  task_queue = "demo-queue"

  settings {
    log_level  = "debug"
    log_format = "json"
    max_retries = 5
  }
}
`)
		cfg, err := ParseConfig(src, "pipegen.hcl")
		require.NoError(t, err)

		assert.Equal(t, "demo", cfg.Name)
		assert.Equal(t, "0.1.0", cfg.Version)
		assert.Equal(t, "demo-queue", cfg.TaskQueue)
		require.NotNil(t, cfg.Settings)
		assert.Equal(t, "debug", cfg.Settings.LogLevel)
		// Unknown settings attributes are convertible to strings.
		assert.Equal(t, "5", cfg.Settings.Extra["max_retries"])
	})

	t.Run("missing project block", func(t *testing.T) {
		_, err := ParseConfig([]byte(``), "pipegen.hcl")
		assert.ErrorContains(t, err, "missing project block")
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := ParseConfig([]byte(`project "x" {`), "pipegen.hcl")
		assert.ErrorContains(t, err, "parse pipegen.hcl")
	})
}

func TestScaffoldAndLoad(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	path, err := Scaffold(ctx, dir, "demoapp", false)
	require.NoError(t, err)

	t.Run("layout is in place", func(t *testing.T) {
		for _, rel := range []string{
			"pipegen.hcl",
			"pyproject.toml",
			"Makefile",
			"server/service.py",
			"client/client.py",
			"config/settings.yaml",
			"src/demoapp/common/settings.py",
			"src/demoapp/agents/__init__.py",
			"src/demoapp/workflows/__init__.py",
			"src/demoapp/functions/__init__.py",
			"tests",
		} {
			_, err := os.Stat(filepath.Join(path, rel))
			assert.NoError(t, err, rel)
		}
	})

	t.Run("scaffolded config loads", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(path, ConfigFileName))
		require.NoError(t, err)
		assert.Equal(t, "demoapp", cfg.Name)
		assert.Equal(t, "demoapp", cfg.TaskQueue)
	})

	t.Run("existing directory needs force", func(t *testing.T) {
		_, err := Scaffold(ctx, dir, "demoapp", false)
		assert.ErrorContains(t, err, "already exists")

		_, err = Scaffold(ctx, dir, "demoapp", true)
		assert.NoError(t, err)
	})

	t.Run("invalid name is rejected", func(t *testing.T) {
		_, err := Scaffold(ctx, dir, "Bad Name", false)
		assert.Error(t, err)
	})
}

func TestFindRoot(t *testing.T) {
	dir := t.TempDir()
	path, err := Scaffold(context.Background(), dir, "findme", false)
	require.NoError(t, err)

	nested := filepath.Join(path, "src", "findme", "agents")
	root, err := FindRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, path, root)

	_, err = FindRoot(t.TempDir())
	assert.ErrorContains(t, err, "no pipegen.hcl found")
}

func TestScanResources(t *testing.T) {
	dir := t.TempDir()
	path, err := Scaffold(context.Background(), dir, "scanme", false)
	require.NoError(t, err)

	write := func(rel string) {
		full := filepath.Join(path, rel)
		require.NoError(t, os.WriteFile(full, []byte("# stub\n"), 0o644))
	}
	write("src/scanme/agents/data_collector.py")
	write("src/scanme/workflows/processing.py")
	write("src/scanme/functions/save_data.py")

	table, err := ScanResources(path, "scanme")
	require.NoError(t, err)

	expectKind := func(name string, kind ir.Kind) {
		got, ok := table.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, kind, got, name)
	}

	// Agents and workflows register class, base, and module name variants.
	expectKind("DataCollectorAgent", ir.KindAgent)
	expectKind("DataCollector", ir.KindAgent)
	expectKind("data_collector", ir.KindAgent)
	expectKind("ProcessingWorkflow", ir.KindWorkflow)
	expectKind("Processing", ir.KindWorkflow)

	// Functions register module and base name only.
	expectKind("save_data", ir.KindFunction)
	expectKind("SaveData", ir.KindFunction)
	_, ok := table.Lookup("SaveDataFunction")
	assert.False(t, ok)

	// Package markers are skipped.
	_, ok = table.Lookup("__init__")
	assert.False(t, ok)
}
