// Package project owns the layout of a generated application: its
// pipegen.hcl configuration, the directory scaffold, and the resource scan
// that builds the name→kind table consumed by the pipeline resolver.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// ConfigFileName is the project configuration file managed by pipegen.
const ConfigFileName = "pipegen.hcl"

// Settings is the settings block of the project configuration. Attributes
// beyond the well-known ones are collected into Extra as strings.
type Settings struct {
	LogLevel  string            `hcl:"log_level,optional"`
	LogFormat string            `hcl:"log_format,optional"`
	Remain    hcl.Body          `hcl:",remain"`
	Extra     map[string]string // decoded from Remain
}

// Config is the decoded project configuration.
type Config struct {
	Name      string    `hcl:"name,label"`
	Version   string    `hcl:"version"`
	TaskQueue string    `hcl:"task_queue,optional"`
	Settings  *Settings `hcl:"settings,block"`
}

type configFile struct {
	Project *Config `hcl:"project,block"`
}

// LoadConfig parses and decodes the pipegen.hcl at the given path.
func LoadConfig(path string) (*Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project config: %w", err)
	}
	return ParseConfig(src, path)
}

// ParseConfig decodes project configuration from raw HCL bytes. The
// filename is used in diagnostics only.
func ParseConfig(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", filename, diags.Error())
	}

	var cfg configFile
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %s", filename, diags.Error())
	}
	if cfg.Project == nil {
		return nil, fmt.Errorf("%s: missing project block", filename)
	}
	if cfg.Project.Name == "" {
		return nil, fmt.Errorf("%s: project block requires a name label", filename)
	}

	if cfg.Project.Settings != nil && cfg.Project.Settings.Remain != nil {
		extra, err := decodeExtraSettings(cfg.Project.Settings.Remain)
		if err != nil {
			return nil, fmt.Errorf("decode %s settings: %w", filename, err)
		}
		cfg.Project.Settings.Extra = extra
	}

	return cfg.Project, nil
}

// decodeExtraSettings converts the leftover settings attributes to strings.
// Values must be convertible to cty.String; blocks are not allowed here.
func decodeExtraSettings(body hcl.Body) (map[string]string, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("%s", diags.Error())
	}

	extra := make(map[string]string, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluate %s: %s", name, diags.Error())
		}
		str, err := convert.Convert(val, cty.String)
		if err != nil {
			return nil, fmt.Errorf("setting %s is not a string-like value: %w", name, err)
		}
		extra[name] = str.AsString()
	}
	return extra, nil
}

// FindRoot walks upward from dir looking for a pipegen.hcl, returning the
// directory that contains it.
func FindRoot(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(current, ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no %s found in %s or any parent directory", ConfigFileName, dir)
		}
		current = parent
	}
}
