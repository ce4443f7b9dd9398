package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGlobalFlags(t *testing.T) {
	var out bytes.Buffer

	cfg, exit, err := Parse([]string{"-log-level", "debug", "-log-format", "json", "-strict", "version"}, &out)
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "version", cfg.Command)
}

func TestParseNoArgsPrintsUsage(t *testing.T) {
	var out bytes.Buffer

	cfg, exit, err := Parse(nil, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseHelpFlag(t *testing.T) {
	var out bytes.Buffer

	_, exit, err := Parse([]string{"-h"}, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseInvalidGlobals(t *testing.T) {
	var out bytes.Buffer

	_, _, err := Parse([]string{"-log-format", "xml", "doctor"}, &out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "invalid log-format")

	_, _, err = Parse([]string{"-log-level", "loud", "doctor"}, &out)
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "invalid log-level")

	_, _, err = Parse([]string{"-no-such-flag"}, &out)
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParseNew(t *testing.T) {
	var out bytes.Buffer

	cfg, _, err := Parse([]string{"new", "myapp", "-force"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "new", cfg.Command)
	assert.Equal(t, "myapp", cfg.New.Name)
	assert.True(t, cfg.New.Force)

	_, _, err = Parse([]string{"new"}, &out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "usage: pipegen new")
}

func TestParseGenerate(t *testing.T) {
	var out bytes.Buffer

	t.Run("resource kinds take a name", func(t *testing.T) {
		cfg, _, err := Parse([]string{"g", "agent", "Fetcher"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "generate", cfg.Command)
		assert.Equal(t, "agent", cfg.Generate.Kind)
		assert.Equal(t, "Fetcher", cfg.Generate.Name)
	})

	t.Run("pipeline takes an operators expression", func(t *testing.T) {
		cfg, _, err := Parse([]string{"g", "pipeline", "DataFlow", "-operators", "A → B"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "pipeline", cfg.Generate.Kind)
		assert.Equal(t, "A → B", cfg.Generate.Operators)
	})

	t.Run("llm-config takes no name", func(t *testing.T) {
		cfg, _, err := Parse([]string{"g", "llm-config", "-backend", "kong", "-model", "gpt-4o-mini"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "llm-config", cfg.Generate.Kind)
		assert.Equal(t, "kong", cfg.Generate.Backend)
		assert.Equal(t, "gpt-4o-mini", cfg.Generate.Model)
	})

	t.Run("prompt takes a version", func(t *testing.T) {
		cfg, _, err := Parse([]string{"g", "prompt", "Summarizer", "-version", "2.1.0"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "prompt", cfg.Generate.Kind)
		assert.Equal(t, "2.1.0", cfg.Generate.Version)

		cfg, _, err = Parse([]string{"g", "prompt", "Summarizer"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "1.0.0", cfg.Generate.Version)
	})

	t.Run("tool-server takes a name", func(t *testing.T) {
		cfg, _, err := Parse([]string{"g", "tool-server", "Search"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "tool-server", cfg.Generate.Kind)
		assert.Equal(t, "Search", cfg.Generate.Name)
	})

	t.Run("generate is an alias for g", func(t *testing.T) {
		cfg, _, err := Parse([]string{"generate", "workflow", "Processing"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "workflow", cfg.Generate.Kind)
	})

	t.Run("missing name is rejected", func(t *testing.T) {
		_, _, err := Parse([]string{"g", "agent", "-force"}, &out)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Contains(t, exitErr.Message, "usage: pipegen g agent")
	})
}

func TestParseMigrate(t *testing.T) {
	var out bytes.Buffer

	cfg, _, err := Parse([]string{"migrate"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "status", cfg.Migrate.Direction)

	cfg, _, err = Parse([]string{"migrate", "up"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "up", cfg.Migrate.Direction)

	_, _, err = Parse([]string{"migrate", "sideways"}, &out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "usage: pipegen migrate")
}

func TestParseStats(t *testing.T) {
	var out bytes.Buffer

	cfg, _, err := Parse([]string{"stats"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "stats", cfg.Command)
}

func TestParseUnknownCommand(t *testing.T) {
	var out bytes.Buffer

	_, _, err := Parse([]string{"destroy"}, &out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, `unknown command "destroy"`)
}
