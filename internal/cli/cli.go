package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pipegen/pipegen/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const usageText = `
pipegen - scaffolding and pipeline compiler for pipekit applications.

Usage:
  pipegen [options] <command> [arguments]

Commands:
  new <name>            Create a new project
  g <kind> <name>       Generate code (agent, workflow, function, pipeline,
                        tool-server, llm-config, prompt)
  doctor                Run project health checks
  migrate [direction]   Apply configuration migrations (up, down, status)
  console               Start the interactive pipeline console
  stats                 Report project code statistics
  version               Print the generator version

Options:
`

// Parse processes command-line arguments. It returns a populated app
// configuration, a boolean indicating the program should exit cleanly, or
// an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("pipegen", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, usageText)
		flagSet.PrintDefaults()
	}

	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	strictFlag := flagSet.Bool("strict", false, "Treat pipeline validation warnings as errors.")
	dirFlag := flagSet.String("dir", ".", "Directory to operate in.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config := app.Config{
		LogFormat: logFormat,
		LogLevel:  logLevel,
		Strict:    *strictFlag,
		Dir:       *dirFlag,
	}

	command := flagSet.Arg(0)
	rest := flagSet.Args()[1:]

	var err error
	switch command {
	case "new":
		err = parseNew(&config, rest, output)
	case "g", "generate":
		err = parseGenerate(&config, rest, output)
	case "doctor":
		config.Command = "doctor"
	case "migrate":
		err = parseMigrate(&config, rest)
	case "console":
		config.Command = "console"
	case "stats":
		config.Command = "stats"
	case "version":
		config.Command = "version"
	default:
		err = fmt.Errorf("unknown command %q (run 'pipegen -h' for usage)", command)
	}
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	validated, err := app.NewConfig(config)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("CLI parser finished successfully.", "command", validated.Command)
	return validated, false, nil
}

func parseNew(config *app.Config, args []string, output io.Writer) error {
	fs := flag.NewFlagSet("pipegen new", flag.ContinueOnError)
	fs.SetOutput(output)
	force := fs.Bool("force", false, "Overwrite an existing directory.")

	name, rest, err := takeName(args, "pipegen new <name>")
	if err != nil {
		return err
	}
	if err := fs.Parse(rest); err != nil {
		return err
	}

	config.Command = "new"
	config.New = app.NewOptions{Name: name, Force: *force}
	return nil
}

func parseGenerate(config *app.Config, args []string, output io.Writer) error {
	fs := flag.NewFlagSet("pipegen g", flag.ContinueOnError)
	fs.SetOutput(output)
	operators := fs.String("operators", "", "Pipeline expression (pipeline kind only).")
	backend := fs.String("backend", "direct", "LLM router backend: 'direct' or 'kong' (llm-config kind only).")
	model := fs.String("model", "", "Default model for the LLM router (llm-config kind only).")
	promptVersion := fs.String("version", "1.0.0", "Prompt version, semver (prompt kind only).")
	force := fs.Bool("force", false, "Overwrite an existing file.")

	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return fmt.Errorf("usage: pipegen g <kind> <name> [options]")
	}
	kind := args[0]
	rest := args[1:]

	// llm-config takes no name argument; everything else needs one.
	name := ""
	if kind != "llm-config" {
		var err error
		name, rest, err = takeName(rest, fmt.Sprintf("pipegen g %s <name> [options]", kind))
		if err != nil {
			return err
		}
	}

	if err := fs.Parse(rest); err != nil {
		return err
	}

	config.Command = "generate"
	config.Generate = app.GenerateOptions{
		Kind:      kind,
		Name:      name,
		Operators: *operators,
		Backend:   *backend,
		Model:     *model,
		Version:   *promptVersion,
		Force:     *force,
	}
	return nil
}

func parseMigrate(config *app.Config, args []string) error {
	direction := "status"
	if len(args) > 0 {
		direction = args[0]
	}
	switch direction {
	case "up", "down", "status":
	default:
		return fmt.Errorf("usage: pipegen migrate [up|down|status]")
	}

	config.Command = "migrate"
	config.Migrate = app.MigrateOptions{Direction: direction}
	return nil
}

// takeName pops a leading positional argument, rejecting flags in its place.
func takeName(args []string, usage string) (string, []string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", nil, fmt.Errorf("usage: %s", usage)
	}
	return args[0], args[1:], nil
}
