package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/nucleos/internal/executor"
	"github.com/specialistvlad/nucleos/internal/task"
)

// Run loads and compiles the configuration, then performs the configured
// command. Load and compile failures stop the run before any module is
// touched. Otherwise every task is attempted and the returned error, if any,
// lists the tasks that failed.
func (a *App) Run(ctx context.Context) error {
	ctx = a.context(ctx)
	a.logger.Debug("App.Run method started.", "command", a.config.Command)

	set, err := a.Compile(ctx)
	if err != nil {
		return err
	}

	exec := executor.New(set)
	var report *executor.Report
	switch a.config.Command {
	case CommandApply:
		report = exec.Apply(ctx)
	case CommandUndo:
		report = exec.Undo(ctx, a.config.UndoMode)
	case CommandStatus:
		report = exec.Status(ctx)
		if err := a.printStatus(report); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown command %q", a.config.Command)
	}

	if err := report.Err(); err != nil {
		return fmt.Errorf("%s finished with %d failed task(s):\n%w", report.Operation, len(report.Failed()), err)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// Compile loads the configuration and compiles it against the registry.
func (a *App) Compile(ctx context.Context) (*task.Set, error) {
	ctx = a.context(ctx)

	model, err := a.loader.Load(ctx, a.config.ConfigPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	a.logger.Debug("Configuration loaded.", "tasks", len(model.Tasks))

	set, err := task.Compile(ctx, model, a.registry)
	if err != nil {
		return nil, err
	}
	return set, nil
}

// printStatus writes one "name: state" line per task.
func (a *App) printStatus(report *executor.Report) error {
	for _, o := range report.Outcomes {
		line := fmt.Sprintf("%s: %s\n", o.Task, o.State)
		if o.Err != nil {
			line = fmt.Sprintf("%s: unknown (%v)\n", o.Task, o.Err)
		}
		if _, err := fmt.Fprint(a.outW, line); err != nil {
			return fmt.Errorf("failed to write status: %w", err)
		}
	}
	return nil
}
