package project

import (
	"path/filepath"
	"strings"

	"github.com/pipegen/pipegen/internal/fsutil"
	"github.com/pipegen/pipegen/internal/ir"
	"github.com/pipegen/pipegen/internal/resource"
)

// kindSuffixes are appended to the PascalCase base when deriving the
// class-name variant of a resource ("data_collector" agent also answers to
// "DataCollectorAgent"). Functions carry no suffix.
var kindSuffixes = map[ir.Kind]string{
	ir.KindAgent:    "Agent",
	ir.KindWorkflow: "Workflow",
}

// ScanResources walks the project's resource directories and builds the
// name→kind table the pipeline resolver consumes. Each module file
// registers several name variants: the exact module name, the PascalCase
// base, and (for agents and workflows) the suffixed class name. The first
// registration of a name wins.
func ScanResources(root, projectName string) (resource.Table, error) {
	table := resource.Table{}
	srcDir := filepath.Join(root, "src", projectName)

	for _, group := range []struct {
		dir  string
		kind ir.Kind
	}{
		{"agents", ir.KindAgent},
		{"workflows", ir.KindWorkflow},
		{"functions", ir.KindFunction},
	} {
		files, err := fsutil.FindFilesByExtension(filepath.Join(srcDir, group.dir), ".py")
		if err != nil {
			return nil, err
		}

		for _, file := range files {
			module := strings.TrimSuffix(filepath.Base(file), ".py")
			if module == "__init__" {
				continue
			}

			base := PascalCase(module)
			if suffix, ok := kindSuffixes[group.kind]; ok {
				table.Register(base+suffix, group.kind)
			}
			table.Register(base, group.kind)
			table.Register(module, group.kind)
		}
	}

	return table, nil
}
