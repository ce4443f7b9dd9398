package migration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipegen/pipegen/internal/project"
)

// bareProject writes a minimal pre-migration pipegen.hcl: no task_queue,
// no settings block.
func bareProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	src := "project \"legacyapp\" {\n  version = \"0.1.0\"\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, project.ConfigFileName), []byte(src), 0o644))
	return root
}

func TestUpAppliesPendingMigrations(t *testing.T) {
	root := bareProject(t)
	runner := NewRunner(root)
	ctx := context.Background()

	applied, err := runner.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001", "0002", "0003"}, applied)

	cfg, err := project.LoadConfig(filepath.Join(root, project.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, "legacyapp", cfg.TaskQueue)
	require.NotNil(t, cfg.Settings)
	assert.Equal(t, "info", cfg.Settings.LogLevel)

	t.Run("rerun is a no-op", func(t *testing.T) {
		applied, err := runner.Up(ctx)
		require.NoError(t, err)
		assert.Empty(t, applied)
	})
}

func TestUpPreservesExistingValues(t *testing.T) {
	root := t.TempDir()
	src := `project "custom" {
  version    = "0.2.0"
  task_queue = "shared-queue"

  settings {
    log_level = "debug"
  }
}
`
	require.NoError(t, os.WriteFile(filepath.Join(root, project.ConfigFileName), []byte(src), 0o644))

	_, err := NewRunner(root).Up(context.Background())
	require.NoError(t, err)

	cfg, err := project.LoadConfig(filepath.Join(root, project.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, "shared-queue", cfg.TaskQueue)
	assert.Equal(t, "debug", cfg.Settings.LogLevel)
}

func TestDownRevertsInReverseOrder(t *testing.T) {
	root := bareProject(t)
	runner := NewRunner(root)
	ctx := context.Background()

	_, err := runner.Up(ctx)
	require.NoError(t, err)

	id, err := runner.Down(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0003", id)

	cfg, err := project.LoadConfig(filepath.Join(root, project.ConfigFileName))
	require.NoError(t, err)
	assert.Nil(t, cfg.Settings)
	assert.Equal(t, "legacyapp", cfg.TaskQueue)

	id, err = runner.Down(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0002", id)

	cfg, err = project.LoadConfig(filepath.Join(root, project.ConfigFileName))
	require.NoError(t, err)
	assert.Empty(t, cfg.TaskQueue)

	t.Run("reverting past the chain returns no id", func(t *testing.T) {
		id, err := runner.Down(ctx)
		require.NoError(t, err)
		assert.Equal(t, "0001", id)

		id, err = runner.Down(ctx)
		require.NoError(t, err)
		assert.Empty(t, id)
	})
}

func TestStatus(t *testing.T) {
	root := bareProject(t)
	runner := NewRunner(root)
	ctx := context.Background()

	entries, err := runner.Status(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.False(t, e.Applied, e.ID)
	}

	_, err = runner.Up(ctx)
	require.NoError(t, err)

	entries, err = runner.Status(ctx)
	require.NoError(t, err)
	for _, e := range entries {
		assert.True(t, e.Applied, e.ID)
	}
}

func TestLegacyYAMLImport(t *testing.T) {
	root := t.TempDir()
	legacy := `name: oldapp
version: 0.1.0
task_queue: old-queue
settings:
  log_level: warn
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "pipegen.yaml"), []byte(legacy), 0o644))

	_, err := NewRunner(root).Up(context.Background())
	require.NoError(t, err)

	cfg, err := project.LoadConfig(filepath.Join(root, project.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, "oldapp", cfg.Name)
	assert.Equal(t, "old-queue", cfg.TaskQueue)
	require.NotNil(t, cfg.Settings)
	assert.Equal(t, "warn", cfg.Settings.LogLevel)

	// The legacy file stays so the import can be undone.
	_, statErr := os.Stat(filepath.Join(root, "pipegen.yaml"))
	assert.NoError(t, statErr)
}
