package app

import "errors"

// Config holds everything one invocation needs: global options plus the
// selected command and its arguments.
type Config struct {
	LogFormat string
	LogLevel  string
	Strict    bool
	Dir       string // working directory override, defaults to "."

	Command  string
	New      NewOptions
	Generate GenerateOptions
	Migrate  MigrateOptions
}

// NewOptions are the arguments of 'pipegen new'.
type NewOptions struct {
	Name  string
	Force bool
}

// GenerateOptions are the arguments of 'pipegen g'.
type GenerateOptions struct {
	Kind      string // agent, workflow, function, pipeline, llm-config, prompt
	Name      string
	Operators string // pipeline expression, pipeline kind only
	Backend   string // llm-config kind only
	Model     string // llm-config kind only
	Version   string // prompt version (semver), prompt kind only
	Force     bool
}

// MigrateOptions are the arguments of 'pipegen migrate'.
type MigrateOptions struct {
	Direction string // up, down, status
}

// NewConfig validates an invocation configuration.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Command == "" {
		return nil, errors.New("Command is a required configuration field and cannot be empty")
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	return &cfg, nil
}
