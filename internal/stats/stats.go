// Package stats scans a generated project and aggregates per-category file
// counts, line counts, and sizes into a report the CLI renders.
package stats

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Category accumulates the footprint of one file group.
type Category struct {
	Files  int     `json:"files"`
	Lines  int     `json:"lines"`
	SizeKB float64 `json:"size_kb"`
}

// Report is the aggregated project footprint, keyed by category.
type Report struct {
	ProjectName string              `json:"project_name"`
	Categories  map[string]Category `json:"categories"`
	Totals      Category            `json:"totals"`
}

// countedExtensions are the file types that participate in the report.
var countedExtensions = map[string]bool{
	".py":   true,
	".yaml": true,
	".md":   true,
	".toml": true,
	".hcl":  true,
}

// ResourceCategories is the report order of the generated-code groups.
var ResourceCategories = []string{"agent", "workflow", "function", "tool", "common"}

// InfraCategories is the report order of the supporting-file groups.
var InfraCategories = []string{"test", "client", "server", "config", "root_config", "other"}

// Run scans the project rooted at root and aggregates its footprint. The
// project name decides which src subtree holds resource code; a tree
// without src/<name>/common/settings.py is not a generated project.
func Run(root, projectName string) (*Report, error) {
	marker := filepath.Join(root, "src", projectName, "common", "settings.py")
	if _, err := os.Stat(marker); err != nil {
		return nil, fmt.Errorf("could not determine project structure: expected %s to exist", marker)
	}

	report := &Report{ProjectName: projectName, Categories: map[string]Category{}}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !countedExtensions[filepath.Ext(d.Name())] {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			// Unreadable files are skipped, not fatal.
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		cat := report.Categories[categorize(rel, projectName)]
		cat.Files++
		cat.Lines += countLines(data)
		cat.SizeKB += float64(len(data)) / 1024
		report.Categories[categorize(rel, projectName)] = cat
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, cat := range report.Categories {
		report.Totals.Files += cat.Files
		report.Totals.Lines += cat.Lines
		report.Totals.SizeKB += cat.SizeKB
	}
	return report, nil
}

// categorize assigns one relative path to a report category based on the
// project layout conventions.
func categorize(rel, projectName string) string {
	parts := strings.Split(filepath.ToSlash(rel), "/")

	switch parts[0] {
	case "tests":
		return "test"
	case "client":
		return "client"
	case "config":
		return "config"
	case "server":
		return "server"
	case "src":
		if len(parts) > 2 && parts[1] == projectName {
			switch parts[2] {
			case "agents":
				return "agent"
			case "workflows":
				return "workflow"
			case "functions":
				return "function"
			case "tools":
				return "tool"
			case "common":
				return "common"
			}
		}
	}

	if len(parts) == 1 {
		switch parts[0] {
		case "pyproject.toml", "Makefile", "README.md", "pipegen.hcl":
			return "root_config"
		}
	}
	return "other"
}

// countLines counts lines the way an editor shows them: trailing content
// without a final newline still counts as a line.
func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	lines := bytes.Count(data, []byte("\n"))
	if data[len(data)-1] != '\n' {
		lines++
	}
	return lines
}

