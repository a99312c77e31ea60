package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/specialistvlad/nucleos/internal/app"
	"github.com/specialistvlad/nucleos/internal/module"
)

// ConfigEnvVar names the environment variable consulted when no -config flag
// is given.
const ConfigEnvVar = "NUCLEOS_CONFIG"

// DefaultConfigPath is used when neither the flag nor the environment names
// a configuration.
const DefaultConfigPath = "nucleos.hcl"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string     { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error { *s = append(*s, v); return nil }

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// Flags may appear before or after the subcommand.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("nucleos", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
nucleos - declarative configuration convergence.

Usage:
  nucleos [options] <command>

Commands:
  apply     Converge every enabled task.
  undo      Reverse every enabled task whose undo is safe (add -risky to include risky ones).
  status    Print the current state of every task.

Options:
`)
		flagSet.PrintDefaults()
	}

	var configPaths stringList
	flagSet.Var(&configPaths, "config", "Path to a configuration file or directory. Repeatable. Defaults to $"+ConfigEnvVar+" or "+DefaultConfigPath+".")
	flagSet.Var(&configPaths, "c", "Path to a configuration file or directory (shorthand).")
	riskyFlag := flagSet.Bool("risky", false, "For undo: also reverse modules whose undo is risky.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		slog.Debug("No command provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	command, err := app.ParseCommand(flagSet.Arg(0))
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	// Flags may follow the subcommand, e.g. `nucleos undo -risky`.
	if err := flagSet.Parse(flagSet.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(flagSet.Args(), " "))}
	}
	slog.Debug("Arguments parsed successfully.", "command", command)

	if len(configPaths) == 0 {
		if env := os.Getenv(ConfigEnvVar); env != "" {
			configPaths = append(configPaths, env)
		} else {
			configPaths = append(configPaths, DefaultConfigPath)
		}
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

	mode := module.ModeSafe
	if *riskyFlag {
		mode = module.ModeRisky
	}

	config, err := app.NewConfig(app.Config{
		ConfigPaths: configPaths,
		Command:     command,
		UndoMode:    mode,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
