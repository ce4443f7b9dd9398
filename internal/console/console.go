// Package console is the interactive pipeline shell: a read-eval-print
// loop over the expression compiler, with per-project command history.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/pipegen/pipegen/internal/ctxlog"
	"github.com/pipegen/pipegen/internal/expr"
	"github.com/pipegen/pipegen/internal/graph"
	"github.com/pipegen/pipegen/internal/pipeline"
	"github.com/pipegen/pipegen/internal/project"
	"github.com/pipegen/pipegen/internal/resource"
)

const prompt = "pipegen> "

const helpText = `Commands:
  parse <expr>      show the parsed pipeline tree
  validate <expr>   validate structure and resource references
  gen <Name> <expr> generate workflow code for the expression
  order <expr>      show resource execution order
  deps <expr>       show the resource dependency map
  strict on|off     toggle strict validation
  history           show recent commands
  help              show this help
  exit              leave the console

A bare expression is shorthand for 'validate <expr>'.`

// Console drives one interactive session against a project's resources.
type Console struct {
	in        io.Reader
	out       io.Writer
	table     resource.Table
	cfg       *project.Config
	store     *HistoryStore
	sessionID string
	strict    bool
}

// New builds a console over the given streams. The history store may be
// nil, in which case history commands report that persistence is off.
func New(in io.Reader, out io.Writer, cfg *project.Config, table resource.Table, store *HistoryStore) *Console {
	return &Console{
		in:        in,
		out:       out,
		table:     table,
		cfg:       cfg,
		store:     store,
		sessionID: uuid.NewString(),
	}
}

// Run reads commands until exit or EOF.
func (c *Console) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Console session started.", "session_id", c.sessionID, "project", c.cfg.Name)

	fmt.Fprintf(c.out, "pipegen console, project %q (%d known resource names)\n", c.cfg.Name, len(c.table))
	fmt.Fprintln(c.out, `Type "help" for commands.`)

	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		command, ok := c.dispatch(ctx, line)
		c.record(ctx, command, line, ok)
	}
}

// dispatch runs one line and reports the command name and whether it
// succeeded.
func (c *Console) dispatch(ctx context.Context, line string) (string, bool) {
	command, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch command {
	case "help":
		fmt.Fprintln(c.out, helpText)
		return command, true
	case "strict":
		return command, c.cmdStrict(rest)
	case "history":
		return command, c.cmdHistory(ctx)
	case "parse":
		return command, c.cmdParse(rest)
	case "validate":
		return command, c.cmdValidate(rest)
	case "order":
		return command, c.cmdOrder(rest)
	case "deps":
		return command, c.cmdDeps(rest)
	case "gen":
		return command, c.cmdGen(rest)
	default:
		// A bare expression validates.
		return "validate", c.cmdValidate(line)
	}
}

func (c *Console) record(ctx context.Context, command, input string, ok bool) {
	if c.store == nil {
		return
	}
	if err := c.store.Record(ctx, c.sessionID, command, input, ok); err != nil {
		ctxlog.FromContext(ctx).Warn("Could not record console history.", "error", err)
	}
}

func (c *Console) cmdStrict(arg string) bool {
	switch arg {
	case "on":
		c.strict = true
	case "off":
		c.strict = false
	default:
		fmt.Fprintln(c.out, "usage: strict on|off")
		return false
	}
	fmt.Fprintf(c.out, "strict validation: %v\n", c.strict)
	return true
}

func (c *Console) cmdHistory(ctx context.Context) bool {
	if c.store == nil {
		fmt.Fprintln(c.out, "history is not persisted for this session")
		return true
	}

	entries, err := c.store.Recent(ctx, 20)
	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
		return false
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "history is empty")
		return true
	}
	for _, e := range entries {
		status := "ok"
		if !e.OK {
			status = "error"
		}
		fmt.Fprintf(c.out, "%s  [%s]  %s\n", e.CreatedAt.Format("15:04:05"), status, e.Input)
	}
	return true
}

func (c *Console) cmdParse(src string) bool {
	tree, err := expr.Parse(src)
	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
		return false
	}
	fmt.Fprintln(c.out, tree.String())
	return true
}

func (c *Console) cmdValidate(src string) bool {
	tree, err := expr.Parse(src)
	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
		return false
	}

	result := graph.Validate(tree, c.strict)
	if ok, resolveErr := resource.Resolve(tree, c.table); !ok {
		result.Errors = append(result.Errors, resolveErr.Error())
		result.Valid = false
	}

	for _, e := range result.Errors {
		fmt.Fprintf(c.out, "error: %s\n", e)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(c.out, "warning: %s\n", w)
	}
	if result.Valid {
		fmt.Fprintf(c.out, "valid (%d resources, depth %d)\n",
			result.Metrics.TotalResources, result.Metrics.MaxDepth)
	}
	return result.Valid
}

func (c *Console) cmdOrder(src string) bool {
	tree, err := expr.Parse(src)
	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
		return false
	}
	order := graph.NewAnalyzer(tree).ExecutionOrder()
	fmt.Fprintln(c.out, strings.Join(order, " -> "))
	return true
}

func (c *Console) cmdDeps(src string) bool {
	tree, err := expr.Parse(src)
	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
		return false
	}

	deps := graph.NewAnalyzer(tree).Dependencies()
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if len(deps[name]) == 0 {
			fmt.Fprintf(c.out, "%s: (no dependencies)\n", name)
			continue
		}
		fmt.Fprintf(c.out, "%s: %s\n", name, strings.Join(deps[name], ", "))
	}
	return true
}

func (c *Console) cmdGen(rest string) bool {
	name, exprSrc, found := strings.Cut(rest, " ")
	if !found || strings.TrimSpace(exprSrc) == "" {
		fmt.Fprintln(c.out, "usage: gen <Name> <expr>")
		return false
	}

	out, err := pipeline.Compile(strings.TrimSpace(exprSrc), c.table, pipeline.Options{
		PipelineName: name,
		ProjectName:  c.cfg.Name,
		Strict:       c.strict,
	})
	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
		return false
	}
	if !out.Validation.Valid {
		for _, e := range out.Validation.Errors {
			fmt.Fprintf(c.out, "error: %s\n", e)
		}
		return false
	}
	fmt.Fprintln(c.out, out.Code)
	return true
}
