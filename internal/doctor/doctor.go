// Package doctor runs health checks against a generated project and
// reports what a developer should fix before generating more code.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pipegen/pipegen/internal/ctxlog"
	"github.com/pipegen/pipegen/internal/project"
)

// Status classifies a check outcome.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// CheckResult is the outcome of a single health check.
type CheckResult struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Check inspects one aspect of the project rooted at root.
type Check func(ctx context.Context, root string) CheckResult

// Checks returns the standard check set in execution order.
func Checks() []Check {
	return []Check{
		checkConfig,
		checkLayout,
		checkResourceDirs,
		checkService,
		checkGit,
	}
}

// RunAll executes every standard check against the project root and
// returns the results in order. Checks never abort the run; a broken
// project is exactly what doctor is for.
func RunAll(ctx context.Context, root string) []CheckResult {
	logger := ctxlog.FromContext(ctx)

	results := make([]CheckResult, 0, len(Checks()))
	for _, check := range Checks() {
		result := check(ctx, root)
		logger.Debug("Health check finished.", "check", result.Name, "status", result.Status)
		results = append(results, result)
	}
	return results
}

// Summarize reduces a result set to its worst status.
func Summarize(results []CheckResult) Status {
	worst := StatusOK
	for _, r := range results {
		switch {
		case r.Status == StatusFail:
			return StatusFail
		case r.Status == StatusWarn:
			worst = StatusWarn
		}
	}
	return worst
}

func checkConfig(_ context.Context, root string) CheckResult {
	result := CheckResult{Name: "config"}

	path := filepath.Join(root, project.ConfigFileName)
	cfg, err := project.LoadConfig(path)
	if err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("%s is missing or invalid", project.ConfigFileName)
		result.Details = err.Error()
		return result
	}

	result.Status = StatusOK
	result.Message = fmt.Sprintf("project %q, version %s", cfg.Name, cfg.Version)
	if cfg.TaskQueue == "" {
		result.Status = StatusWarn
		result.Message = "config has no task_queue; run 'pipegen migrate up'"
	}
	return result
}

func checkLayout(_ context.Context, root string) CheckResult {
	result := CheckResult{Name: "layout"}

	cfg, err := project.LoadConfig(filepath.Join(root, project.ConfigFileName))
	if err != nil {
		result.Status = StatusFail
		result.Message = "cannot determine project name without a valid config"
		return result
	}

	var missing []string
	for _, rel := range []string{
		"src/" + cfg.Name,
		"server",
		"client",
		"config",
		"tests",
	} {
		if info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); err != nil || !info.IsDir() {
			missing = append(missing, rel)
		}
	}

	if len(missing) > 0 {
		result.Status = StatusFail
		result.Message = "project layout is incomplete"
		result.Details = "missing: " + strings.Join(missing, ", ")
		return result
	}
	result.Status = StatusOK
	result.Message = "standard layout present"
	return result
}

func checkResourceDirs(_ context.Context, root string) CheckResult {
	result := CheckResult{Name: "resources"}

	cfg, err := project.LoadConfig(filepath.Join(root, project.ConfigFileName))
	if err != nil {
		result.Status = StatusFail
		result.Message = "cannot scan resources without a valid config"
		return result
	}

	table, err := project.ScanResources(root, cfg.Name)
	if err != nil {
		result.Status = StatusFail
		result.Message = "resource scan failed"
		result.Details = err.Error()
		return result
	}

	counts := map[string]int{}
	for _, kind := range table {
		counts[string(kind)]++
	}
	if len(table) == 0 {
		result.Status = StatusWarn
		result.Message = "no resources found; generate some with 'pipegen g'"
		return result
	}
	result.Status = StatusOK
	result.Message = fmt.Sprintf("%d registered names (agents/workflows/functions: %d/%d/%d)",
		len(table), counts["agent"], counts["workflow"], counts["function"])
	return result
}

func checkService(_ context.Context, root string) CheckResult {
	result := CheckResult{Name: "service"}

	path := filepath.Join(root, "server", "service.py")
	data, err := os.ReadFile(path)
	if err != nil {
		result.Status = StatusFail
		result.Message = "server/service.py is missing"
		result.Details = err.Error()
		return result
	}

	for _, marker := range []string{
		"# pipegen:imports:agents",
		"# pipegen:imports:workflows",
		"# pipegen:imports:functions",
	} {
		if !strings.Contains(string(data), marker) {
			result.Status = StatusWarn
			result.Message = "service.py lacks registration markers; generated resources will not be auto-registered"
			result.Details = "missing marker: " + marker
			return result
		}
	}
	result.Status = StatusOK
	result.Message = "service.py present with registration markers"
	return result
}

// checkGit degrades to a warning when git is unavailable; version control
// is recommended, not required.
func checkGit(ctx context.Context, root string) CheckResult {
	result := CheckResult{Name: "git"}

	gitPath, err := exec.LookPath("git")
	if err != nil {
		result.Status = StatusWarn
		result.Message = "git not found on PATH"
		return result
	}

	cmd := exec.CommandContext(ctx, gitPath, "-C", root, "status", "--porcelain")
	out, err := cmd.Output()
	if err != nil {
		result.Status = StatusWarn
		result.Message = "project is not a git repository"
		return result
	}

	if len(strings.TrimSpace(string(out))) > 0 {
		result.Status = StatusWarn
		result.Message = "working tree has uncommitted changes"
		return result
	}
	result.Status = StatusOK
	result.Message = "working tree clean"
	return result
}
