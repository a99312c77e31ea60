package executor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/nucleos/internal/ctxlog"
	"github.com/specialistvlad/nucleos/internal/module"
	"github.com/specialistvlad/nucleos/internal/task"
)

// Executor runs convergence operations over one compiled task set.
type Executor struct {
	tasks *task.Set
}

// New creates an Executor for set.
func New(set *task.Set) *Executor {
	return &Executor{tasks: set}
}

// Apply converges every enabled task.
func (e *Executor) Apply(ctx context.Context) *Report {
	report := &Report{Operation: OpApply}
	e.each(ctx, report, func(ctx context.Context, logger *slog.Logger, t *task.Task) Outcome {
		out := Outcome{Task: t.Name, Module: t.ModuleType}
		if !t.Opts.Enabled {
			logger.Info("⏭️ Task skipped: disabled.")
			out.Action = ActionSkippedDisabled
			return out
		}

		logger.Debug("Applying task.")
		if err := guard(func() error { return t.Module.Apply(ctx) }); err != nil {
			logger.Error("❌ Task failed.", "error", err)
			out.Action, out.Err = ActionFailed, err
			return out
		}

		logger.Info("✅ Task applied.")
		out.Action = ActionApplied
		return out
	})
	return report
}

// Undo reverses every enabled task whose safety tier mode allows. Tasks
// refused by the safety gate are logged at warn level and recorded as
// blocked; Undo is never called on them.
func (e *Executor) Undo(ctx context.Context, mode module.UndoMode) *Report {
	report := &Report{Operation: OpUndo, Mode: mode}
	e.each(ctx, report, func(ctx context.Context, logger *slog.Logger, t *task.Task) Outcome {
		out := Outcome{Task: t.Name, Module: t.ModuleType}
		if !t.Opts.Enabled {
			logger.Info("⏭️ Task skipped: disabled.")
			out.Action = ActionSkippedDisabled
			return out
		}

		safety := t.Module.UndoSafety()
		out.Safety = &safety
		logger = logger.With("safety", safety.String(), "mode", mode.String())
		if !module.Allowed(safety, mode) {
			logger.Warn("🛑 Undo blocked by safety tier.")
			out.Action = ActionBlocked
			return out
		}

		logger.Debug("Undoing task.")
		if err := guard(func() error { return t.Module.Undo(ctx) }); err != nil {
			logger.Error("❌ Task failed.", "error", err)
			out.Action, out.Err = ActionFailed, err
			return out
		}

		logger.Info("↩️ Task undone.")
		out.Action = ActionUndone
		return out
	})
	return report
}

// Status queries every task, including disabled ones, and never mutates.
func (e *Executor) Status(ctx context.Context) *Report {
	report := &Report{Operation: OpStatus}
	e.each(ctx, report, func(ctx context.Context, logger *slog.Logger, t *task.Task) Outcome {
		out := Outcome{Task: t.Name, Module: t.ModuleType}

		var state module.TaskState
		err := guard(func() error {
			var err error
			state, err = t.Module.State(ctx)
			return err
		})
		if err != nil {
			logger.Error("❌ Task state query failed.", "error", err)
			out.Action, out.Err = ActionFailed, err
			return out
		}

		logger.Info("Task state.", "state", state.String(), "enabled", t.Opts.Enabled)
		out.Action, out.State = ActionReported, state
		return out
	})
	return report
}

// each visits the tasks in order, recording one outcome per task.
func (e *Executor) each(ctx context.Context, report *Report, visit func(context.Context, *slog.Logger, *task.Task) Outcome) {
	logger := ctxlog.FromContext(ctx).With("operation", string(report.Operation))
	logger.Info("🚀 Starting run.", "tasks", e.tasks.Len())

	for _, t := range e.tasks.Tasks() {
		taskLogger := logger.With("task", t.Name, "module", t.ModuleType)
		if err := ctx.Err(); err != nil {
			taskLogger.Warn("⏹️ Task not attempted: run canceled.", "error", err)
			report.Outcomes = append(report.Outcomes, Outcome{
				Task: t.Name, Module: t.ModuleType, Action: ActionNotAttempted, Err: err,
			})
			continue
		}
		taskCtx := ctxlog.WithLogger(ctx, taskLogger)
		report.Outcomes = append(report.Outcomes, visit(taskCtx, taskLogger, t))
	}

	logger.Info("🏁 Run finished.", "tasks", len(report.Outcomes), "failed", len(report.Failed()))
}

// guard turns a panicking module call into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("module panicked: %v", r)
		}
	}()
	return fn()
}
