package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pipegen/pipegen/internal/ctxlog"
	"github.com/pipegen/pipegen/internal/render"
)

// defaultSettingsYAML is the runtime settings file scaffolded into config/.
// It is consumed by the generated application, not by pipegen itself.
const defaultSettingsYAML = `log_level: info
llm:
  router: config/llm.yaml
`

// Scaffold creates a new project directory under parentDir with the full
// application layout and its initial files. It refuses to overwrite an
// existing directory unless force is set. The project path is returned.
func Scaffold(ctx context.Context, parentDir, name string, force bool) (string, error) {
	logger := ctxlog.FromContext(ctx)

	if err := ValidateName(name); err != nil {
		return "", err
	}

	projectPath := filepath.Join(parentDir, name)
	if _, err := os.Stat(projectPath); err == nil && !force {
		return "", fmt.Errorf("directory %s already exists (use --force to overwrite)", projectPath)
	}

	dirs := []string{
		filepath.Join(projectPath, "config"),
		filepath.Join(projectPath, "config", "migrations"),
		filepath.Join(projectPath, "server"),
		filepath.Join(projectPath, "client"),
		filepath.Join(projectPath, "src", name, "agents"),
		filepath.Join(projectPath, "src", name, "workflows"),
		filepath.Join(projectPath, "src", name, "functions"),
		filepath.Join(projectPath, "src", name, "common"),
		filepath.Join(projectPath, "tests"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create %s: %w", dir, err)
		}
	}
	logger.Debug("Project directories created.", "path", projectPath)

	tplContext := map[string]any{
		"ProjectName": name,
		"Version":     "0.1.0",
		"Description": "pipekit application: " + name,
		"TaskQueue":   name,
		"EnvPrefix":   envPrefix(name),
	}

	files := []struct {
		path     string
		template string
	}{
		{filepath.Join(projectPath, ConfigFileName), "pipegen.hcl"},
		{filepath.Join(projectPath, "pyproject.toml"), "pyproject.toml"},
		{filepath.Join(projectPath, "Makefile"), "Makefile"},
		{filepath.Join(projectPath, "server", "service.py"), "service.py"},
		{filepath.Join(projectPath, "client", "client.py"), "client.py"},
		{filepath.Join(projectPath, "src", name, "common", "settings.py"), "settings.py"},
	}
	for _, file := range files {
		content, err := render.Render(file.template, tplContext)
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(file.path, []byte(content), 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", file.path, err)
		}
	}

	if err := os.WriteFile(filepath.Join(projectPath, "config", "settings.yaml"),
		[]byte(defaultSettingsYAML), 0o644); err != nil {
		return "", fmt.Errorf("write settings.yaml: %w", err)
	}

	// Package markers so generated imports resolve.
	initFiles := []string{
		filepath.Join(projectPath, "src", name, "__init__.py"),
		filepath.Join(projectPath, "src", name, "agents", "__init__.py"),
		filepath.Join(projectPath, "src", name, "workflows", "__init__.py"),
		filepath.Join(projectPath, "src", name, "functions", "__init__.py"),
		filepath.Join(projectPath, "src", name, "common", "__init__.py"),
	}
	for _, file := range initFiles {
		if err := os.WriteFile(file, nil, 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", file, err)
		}
	}

	logger.Debug("Project files rendered.", "count", len(files)+len(initFiles)+1)
	return projectPath, nil
}

// envPrefix derives the environment-variable prefix from the project name
// ("my_app" -> "MY_APP").
func envPrefix(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}
