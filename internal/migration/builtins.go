package migration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"github.com/pipegen/pipegen/internal/project"
)

// builtins returns the migration chain in order. New migrations append
// here with the next ID.
func builtins() []Migration {
	return []Migration{
		legacyYAMLImport{},
		ensureTaskQueue{},
		ensureSettingsBlock{},
	}
}

// loadProjectFile parses pipegen.hcl for surgical edits and returns the
// file together with its project block.
func loadProjectFile(root string) (*hclwrite.File, *hclwrite.Block, error) {
	path := filepath.Join(root, project.ConfigFileName)
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", project.ConfigFileName, err)
	}

	file, diags := hclwrite.ParseConfig(src, project.ConfigFileName, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, nil, fmt.Errorf("parse %s: %s", project.ConfigFileName, diags.Error())
	}

	for _, block := range file.Body().Blocks() {
		if block.Type() == "project" {
			return file, block, nil
		}
	}
	return nil, nil, fmt.Errorf("%s has no project block", project.ConfigFileName)
}

func writeProjectFile(root string, file *hclwrite.File) error {
	path := filepath.Join(root, project.ConfigFileName)
	if err := os.WriteFile(path, file.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", project.ConfigFileName, err)
	}
	return nil
}

// legacyYAMLImport converts a pre-0.2 pipegen.yaml into pipegen.hcl. The
// legacy file is left in place so the migration can be reverted.
type legacyYAMLImport struct{}

func (legacyYAMLImport) ID() string   { return "0001" }
func (legacyYAMLImport) Name() string { return "import legacy pipegen.yaml" }

// legacyConfig mirrors the pre-0.2 YAML configuration shape.
type legacyConfig struct {
	Name      string            `yaml:"name"`
	Version   string            `yaml:"version"`
	TaskQueue string            `yaml:"task_queue"`
	Settings  map[string]string `yaml:"settings"`
}

func (legacyYAMLImport) Up(_ context.Context, root string) error {
	hclPath := filepath.Join(root, project.ConfigFileName)
	if _, err := os.Stat(hclPath); err == nil {
		return nil
	}

	legacyPath := filepath.Join(root, "pipegen.yaml")
	data, err := os.ReadFile(legacyPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read pipegen.yaml: %w", err)
	}

	var legacy legacyConfig
	if err := yaml.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("decode pipegen.yaml: %w", err)
	}
	if legacy.Name == "" {
		return fmt.Errorf("pipegen.yaml has no project name")
	}
	if legacy.Version == "" {
		legacy.Version = "0.1.0"
	}

	file := hclwrite.NewEmptyFile()
	block := file.Body().AppendNewBlock("project", []string{legacy.Name})
	block.Body().SetAttributeValue("version", cty.StringVal(legacy.Version))
	if legacy.TaskQueue != "" {
		block.Body().SetAttributeValue("task_queue", cty.StringVal(legacy.TaskQueue))
	}
	if len(legacy.Settings) > 0 {
		settings := block.Body().AppendNewBlock("settings", nil)
		for _, key := range sortedKeys(legacy.Settings) {
			settings.Body().SetAttributeValue(key, cty.StringVal(legacy.Settings[key]))
		}
	}

	return writeProjectFile(root, file)
}

func (legacyYAMLImport) Down(_ context.Context, root string) error {
	legacyPath := filepath.Join(root, "pipegen.yaml")
	if _, err := os.Stat(legacyPath); err != nil {
		// Nothing to fall back to; keep the HCL config.
		return nil
	}
	if err := os.Remove(filepath.Join(root, project.ConfigFileName)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ensureTaskQueue adds a task_queue attribute, defaulting to the project
// name, for configs created before queues were configurable.
type ensureTaskQueue struct{}

func (ensureTaskQueue) ID() string   { return "0002" }
func (ensureTaskQueue) Name() string { return "default task_queue to project name" }

func (ensureTaskQueue) Up(_ context.Context, root string) error {
	file, block, err := loadProjectFile(root)
	if err != nil {
		return err
	}
	if block.Body().GetAttribute("task_queue") != nil {
		return nil
	}

	labels := block.Labels()
	if len(labels) == 0 {
		return fmt.Errorf("project block has no name label")
	}
	block.Body().SetAttributeValue("task_queue", cty.StringVal(labels[0]))
	return writeProjectFile(root, file)
}

func (ensureTaskQueue) Down(_ context.Context, root string) error {
	file, block, err := loadProjectFile(root)
	if err != nil {
		return err
	}
	if block.Body().GetAttribute("task_queue") == nil {
		return nil
	}
	block.Body().RemoveAttribute("task_queue")
	return writeProjectFile(root, file)
}

// ensureSettingsBlock adds the settings block with logging defaults.
type ensureSettingsBlock struct{}

func (ensureSettingsBlock) ID() string   { return "0003" }
func (ensureSettingsBlock) Name() string { return "add settings block with logging defaults" }

func (ensureSettingsBlock) Up(_ context.Context, root string) error {
	file, block, err := loadProjectFile(root)
	if err != nil {
		return err
	}
	if block.Body().FirstMatchingBlock("settings", nil) != nil {
		return nil
	}

	settings := block.Body().AppendNewBlock("settings", nil)
	settings.Body().SetAttributeValue("log_level", cty.StringVal("info"))
	settings.Body().SetAttributeValue("log_format", cty.StringVal("text"))
	return writeProjectFile(root, file)
}

func (ensureSettingsBlock) Down(_ context.Context, root string) error {
	file, block, err := loadProjectFile(root)
	if err != nil {
		return err
	}
	settings := block.Body().FirstMatchingBlock("settings", nil)
	if settings == nil {
		return nil
	}
	block.Body().RemoveBlock(settings)
	return writeProjectFile(root, file)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
