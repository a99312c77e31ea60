package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/nucleos/internal/module"
)

// Command is a top-level convergence operation.
type Command string

const (
	CommandApply  Command = "apply"
	CommandUndo   Command = "undo"
	CommandStatus Command = "status"
)

// ParseCommand validates a command name.
func ParseCommand(s string) (Command, error) {
	switch c := Command(s); c {
	case CommandApply, CommandUndo, CommandStatus:
		return c, nil
	default:
		return "", fmt.Errorf("unknown command %q: must be 'apply', 'undo' or 'status'", s)
	}
}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPaths []string // .hcl files or directories
	Command     Command
	UndoMode    module.UndoMode

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ConfigPaths) == 0 {
		return nil, errors.New("at least one configuration path is required")
	}
	if _, err := ParseCommand(string(cfg.Command)); err != nil {
		return nil, err
	}
	if cfg.UndoMode == module.ModeRisky && cfg.Command != CommandUndo {
		return nil, fmt.Errorf("risky mode only applies to the undo command, not %q", cfg.Command)
	}
	return &cfg, nil
}
