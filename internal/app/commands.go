package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pipegen/pipegen/internal/codegen"
	"github.com/pipegen/pipegen/internal/console"
	"github.com/pipegen/pipegen/internal/ctxlog"
	"github.com/pipegen/pipegen/internal/doctor"
	"github.com/pipegen/pipegen/internal/ir"
	"github.com/pipegen/pipegen/internal/migration"
	"github.com/pipegen/pipegen/internal/pipeline"
	"github.com/pipegen/pipegen/internal/project"
	"github.com/pipegen/pipegen/internal/render"
	"github.com/pipegen/pipegen/internal/service"
	"github.com/pipegen/pipegen/internal/stats"
	"github.com/pipegen/pipegen/internal/version"
)

func (a *App) runNew(ctx context.Context) error {
	path, err := project.Scaffold(ctx, a.config.Dir, a.config.New.Name, a.config.New.Force)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.outW, "Created project %s at %s\n", a.config.New.Name, path)
	fmt.Fprintf(a.outW, "Next steps:\n  cd %s\n  pipegen g agent MyFirst\n  pipegen doctor\n", a.config.New.Name)
	return nil
}

// projectContext locates the enclosing project and loads its config.
func (a *App) projectContext() (string, *project.Config, error) {
	root, err := project.FindRoot(a.config.Dir)
	if err != nil {
		return "", nil, err
	}
	cfg, err := project.LoadConfig(filepath.Join(root, project.ConfigFileName))
	if err != nil {
		return "", nil, err
	}
	return root, cfg, nil
}

func (a *App) runGenerate(ctx context.Context) error {
	root, cfg, err := a.projectContext()
	if err != nil {
		return err
	}

	opts := a.config.Generate
	switch opts.Kind {
	case "agent":
		return a.generateResource(ctx, root, cfg, ir.KindAgent, opts)
	case "workflow":
		return a.generateResource(ctx, root, cfg, ir.KindWorkflow, opts)
	case "function":
		return a.generateResource(ctx, root, cfg, ir.KindFunction, opts)
	case "pipeline":
		return a.generatePipeline(ctx, root, cfg, opts)
	case "tool-server":
		return a.generateToolServer(ctx, root, cfg, opts)
	case "llm-config":
		return a.generateLLMConfig(ctx, root, cfg, opts)
	case "prompt":
		return a.generatePrompt(ctx, root, cfg, opts)
	}
	return fmt.Errorf("unknown generator %q (expected agent, workflow, function, pipeline, tool-server, llm-config, or prompt)", opts.Kind)
}

// writeGenerated writes one generated file, refusing to overwrite unless
// force is set.
func writeGenerated(path, content string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// resourceDirs maps a kind to the source subdirectory it lives in.
var resourceDirs = map[ir.Kind]string{
	ir.KindAgent:    "agents",
	ir.KindWorkflow: "workflows",
	ir.KindFunction: "functions",
}

// resourceTemplates maps a kind to its scaffold template.
var resourceTemplates = map[ir.Kind]string{
	ir.KindAgent:    "agent.py",
	ir.KindWorkflow: "workflow.py",
	ir.KindFunction: "function.py",
}

// classSuffixes give generated agent and workflow classes their
// conventional suffix; the scanner registers the same variants.
var classSuffixes = map[ir.Kind]string{
	ir.KindAgent:    "Agent",
	ir.KindWorkflow: "Workflow",
}

// generateResource renders one resource module and registers it with the
// service entry point.
func (a *App) generateResource(ctx context.Context, root string, cfg *project.Config, kind ir.Kind, opts GenerateOptions) error {
	logger := ctxlog.FromContext(ctx)

	module := codegen.SnakeCase(opts.Name)
	if module == "" {
		return fmt.Errorf("generator requires a resource name")
	}
	base := project.PascalCase(module)
	suffix := classSuffixes[kind]
	className := strings.TrimSuffix(base, suffix) + suffix

	tplContext := map[string]any{
		"Name":        className,
		"SnakeName":   module,
		"ProjectName": cfg.Name,
		"TaskQueue":   cfg.TaskQueue,
		"KindDir":     resourceDirs[kind],
	}

	path := filepath.Join(root, "src", cfg.Name, resourceDirs[kind], module+".py")
	content, err := render.Render(resourceTemplates[kind], tplContext)
	if err != nil {
		return err
	}
	if err := writeGenerated(path, content, opts.Force); err != nil {
		return err
	}
	logger.Debug("Resource module written.", "kind", kind, "path", path)

	// Functions register under their module name; classes under the class.
	registered := className
	if kind == ir.KindFunction {
		registered = module
	}
	servicePath := filepath.Join(root, "server", service.FileName)
	if _, err := service.RegisterResource(servicePath, kind, cfg.Name, module, registered); err != nil {
		return fmt.Errorf("update service registration: %w", err)
	}

	testPath, err := a.writeCompanionTest(root, "test_"+resourceTemplates[kind], tplContext, module, opts.Force)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.outW, "Generated %s %s at %s\n", kind, registered, path)
	fmt.Fprintf(a.outW, "  Test: %s\n", testPath)

	// Agents and workflows also get a schedulable client entry point.
	if kind == ir.KindAgent || kind == ir.KindWorkflow {
		clientPath := filepath.Join(root, "client", "run_"+module+".py")
		clientSrc, err := render.Render("run_client.py", tplContext)
		if err != nil {
			return err
		}
		if err := writeGenerated(clientPath, clientSrc, opts.Force); err != nil {
			return err
		}
		fmt.Fprintf(a.outW, "  Client: %s\n", clientPath)
	}
	return nil
}

// writeCompanionTest renders the pytest scaffold that accompanies every
// generated resource so `make test` has something to run from day one.
func (a *App) writeCompanionTest(root, template string, tplContext map[string]any, module string, force bool) (string, error) {
	path := filepath.Join(root, "tests", "test_"+module+".py")
	content, err := render.Render(template, tplContext)
	if err != nil {
		return "", err
	}
	if err := writeGenerated(path, content, force); err != nil {
		return "", err
	}
	return path, nil
}

// generatePipeline compiles an operator expression into a workflow module.
func (a *App) generatePipeline(ctx context.Context, root string, cfg *project.Config, opts GenerateOptions) error {
	logger := ctxlog.FromContext(ctx)

	if strings.TrimSpace(opts.Operators) == "" {
		return fmt.Errorf("pipeline generator requires --operators with a pipeline expression")
	}

	table, err := project.ScanResources(root, cfg.Name)
	if err != nil {
		return err
	}

	className := project.PascalCase(codegen.SnakeCase(opts.Name))
	out, err := pipeline.Compile(opts.Operators, table, pipeline.Options{
		PipelineName: className,
		ProjectName:  cfg.Name,
		Strict:       a.config.Strict,
	})
	if err != nil {
		return err
	}

	for _, w := range out.Validation.Warnings {
		fmt.Fprintf(a.outW, "warning: %s\n", w)
	}
	if !out.Validation.Valid {
		for _, e := range out.Validation.Errors {
			fmt.Fprintf(a.outW, "error: %s\n", e)
		}
		return fmt.Errorf("pipeline validation failed")
	}

	module := codegen.SnakeCase(opts.Name)
	path := filepath.Join(root, "src", cfg.Name, "workflows", module+".py")
	if err := writeGenerated(path, out.Code, opts.Force); err != nil {
		return err
	}
	logger.Debug("Pipeline module written.", "path", path,
		"resources", out.Validation.Metrics.TotalResources)

	servicePath := filepath.Join(root, "server", service.FileName)
	if _, err := service.RegisterResource(servicePath, ir.KindWorkflow, cfg.Name, module, className); err != nil {
		return fmt.Errorf("update service registration: %w", err)
	}

	testPath, err := a.writeCompanionTest(root, "test_pipeline.py", map[string]any{
		"Name":        className,
		"SnakeName":   module,
		"ProjectName": cfg.Name,
	}, module, opts.Force)
	if err != nil {
		return err
	}

	m := out.Validation.Metrics
	fmt.Fprintf(a.outW, "Generated pipeline %s at %s\n", className, path)
	fmt.Fprintf(a.outW, "  Test: %s\n", testPath)
	fmt.Fprintf(a.outW, "  %d resources, depth %d, %d concurrent sections, %d conditional branches\n",
		m.TotalResources, m.MaxDepth, m.ParallelSections, m.ConditionalBranches)
	return nil
}

// generateToolServer scaffolds an MCP tool server module under the
// project's tools directory and records it in the tool registry file. The
// registry is only created, never rewritten, so hand edits survive.
func (a *App) generateToolServer(ctx context.Context, root string, cfg *project.Config, opts GenerateOptions) error {
	logger := ctxlog.FromContext(ctx)

	module := codegen.SnakeCase(opts.Name)
	if module == "" {
		return fmt.Errorf("tool-server generator requires a name")
	}
	className := project.PascalCase(module)

	toolsDir := filepath.Join(root, "src", cfg.Name, "tools")
	if err := os.MkdirAll(toolsDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", toolsDir, err)
	}
	initPath := filepath.Join(toolsDir, "__init__.py")
	if _, err := os.Stat(initPath); os.IsNotExist(err) {
		if err := os.WriteFile(initPath, nil, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", initPath, err)
		}
	}

	tplContext := map[string]any{
		"Name":        className,
		"SnakeName":   module,
		"ProjectName": cfg.Name,
	}

	serverPath := filepath.Join(toolsDir, module+"_server.py")
	content, err := render.Render("tool_server.py", tplContext)
	if err != nil {
		return err
	}
	if err := writeGenerated(serverPath, content, opts.Force); err != nil {
		return err
	}
	logger.Debug("Tool server written.", "path", serverPath)

	fmt.Fprintf(a.outW, "Generated tool server %s at %s\n", className, serverPath)

	registryPath := filepath.Join(root, "config", "tools.yaml")
	if _, err := os.Stat(registryPath); os.IsNotExist(err) {
		registry, err := render.Render("tools.yaml", tplContext)
		if err != nil {
			return err
		}
		if err := os.WriteFile(registryPath, []byte(registry), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", registryPath, err)
		}
		fmt.Fprintf(a.outW, "  Registry: %s\n", registryPath)
	}
	return nil
}

func (a *App) generateLLMConfig(_ context.Context, root string, cfg *project.Config, opts GenerateOptions) error {
	template := "llm_config_direct.yaml"
	switch opts.Backend {
	case "", "direct":
	case "kong":
		template = "llm_config_kong.yaml"
	default:
		return fmt.Errorf("unknown llm-config backend %q (expected direct or kong)", opts.Backend)
	}

	model := opts.Model
	if model == "" {
		model = "gpt-4o"
	}

	content, err := render.Render(template, map[string]any{
		"ProjectName": cfg.Name,
		"Model":       model,
	})
	if err != nil {
		return err
	}

	path := filepath.Join(root, "config", "llm.yaml")
	if _, statErr := os.Stat(path); statErr == nil && !opts.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	fmt.Fprintf(a.outW, "Generated LLM config at %s\n", path)
	return nil
}

func (a *App) generatePrompt(_ context.Context, root string, cfg *project.Config, opts GenerateOptions) error {
	module := codegen.SnakeCase(opts.Name)
	if module == "" {
		return fmt.Errorf("prompt generator requires a name")
	}

	promptVersion := opts.Version
	if promptVersion == "" {
		promptVersion = "1.0.0"
	}
	content, err := render.Render("prompt.md", map[string]any{
		"Name":          opts.Name,
		"ProjectName":   cfg.Name,
		"PromptVersion": promptVersion,
	})
	if err != nil {
		return err
	}

	dir := filepath.Join(root, "config", "prompts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, module+".md")
	if _, statErr := os.Stat(path); statErr == nil && !opts.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	fmt.Fprintf(a.outW, "Generated prompt at %s\n", path)
	return nil
}

func (a *App) runDoctor(ctx context.Context) error {
	root, _, err := a.projectContext()
	if err != nil {
		return err
	}

	results := doctor.RunAll(ctx, root)
	for _, r := range results {
		fmt.Fprintf(a.outW, "[%-4s] %-10s %s\n", r.Status, r.Name, r.Message)
		if r.Details != "" {
			fmt.Fprintf(a.outW, "       %s\n", r.Details)
		}
	}

	if doctor.Summarize(results) == doctor.StatusFail {
		return fmt.Errorf("doctor found problems")
	}
	return nil
}

func (a *App) runMigrate(ctx context.Context) error {
	root, _, err := a.projectContext()
	if err != nil {
		return err
	}
	runner := migration.NewRunner(root)

	switch a.config.Migrate.Direction {
	case "up":
		applied, err := runner.Up(ctx)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Fprintln(a.outW, "Nothing to migrate.")
			return nil
		}
		fmt.Fprintf(a.outW, "Applied %d migration(s): %s\n", len(applied), strings.Join(applied, ", "))
		return nil

	case "down":
		id, err := runner.Down(ctx)
		if err != nil {
			return err
		}
		if id == "" {
			fmt.Fprintln(a.outW, "No applied migrations to revert.")
			return nil
		}
		fmt.Fprintf(a.outW, "Reverted migration %s\n", id)
		return nil

	case "status":
		entries, err := runner.Status(ctx)
		if err != nil {
			return err
		}
		for _, e := range entries {
			state := "pending"
			if e.Applied {
				state = "applied"
			}
			fmt.Fprintf(a.outW, "%s  %-8s %s\n", e.ID, state, e.Name)
		}
		return nil
	}
	return fmt.Errorf("unknown migrate direction %q (expected up, down, or status)", a.config.Migrate.Direction)
}

func (a *App) runStats(_ context.Context) error {
	root, cfg, err := a.projectContext()
	if err != nil {
		return err
	}

	report, err := stats.Run(root, cfg.Name)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.outW, "Project statistics: %s\n\n", report.ProjectName)

	fmt.Fprintln(a.outW, "Code & resource breakdown:")
	for _, name := range stats.ResourceCategories {
		cat := report.Categories[name]
		if cat.Files == 0 {
			continue
		}
		avg := float64(cat.Lines) / float64(cat.Files)
		fmt.Fprintf(a.outW, "  %-10s %4d files %6d lines %8.1f KB %6.1f avg lines/file\n",
			categoryLabel(name), cat.Files, cat.Lines, cat.SizeKB, avg)
	}

	fmt.Fprintln(a.outW, "\nInfrastructure files:")
	for _, name := range stats.InfraCategories {
		cat := report.Categories[name]
		if cat.Files == 0 {
			continue
		}
		fmt.Fprintf(a.outW, "  %s: %d files, %d lines, %.1f KB\n",
			categoryLabel(name), cat.Files, cat.Lines, cat.SizeKB)
	}

	fmt.Fprintf(a.outW, "\nTotals: %d files, %d lines, %.1f KB\n",
		report.Totals.Files, report.Totals.Lines, report.Totals.SizeKB)
	return nil
}

// categoryLabel renders a category key for display ("root_config" becomes
// "Root config").
func categoryLabel(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (a *App) runConsole(ctx context.Context) error {
	root, cfg, err := a.projectContext()
	if err != nil {
		return err
	}

	table, err := project.ScanResources(root, cfg.Name)
	if err != nil {
		return err
	}

	store, err := console.OpenHistory(root)
	if err != nil {
		// History is a convenience; the console still works without it.
		ctxlog.FromContext(ctx).Warn("Console history unavailable.", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	c := console.New(a.inR, a.outW, cfg, table, store)
	return c.Run(ctx)
}

func (a *App) runVersion(_ context.Context) error {
	fmt.Fprintf(a.outW, "pipegen %s\n", version.Version)
	return nil
}
