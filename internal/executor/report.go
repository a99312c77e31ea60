package executor

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/nucleos/internal/module"
)

// Operation names a top-level runner operation.
type Operation string

const (
	OpApply  Operation = "apply"
	OpUndo   Operation = "undo"
	OpStatus Operation = "status"
)

// Action is what the runner did with a task.
type Action string

const (
	ActionApplied         Action = "applied"
	ActionUndone          Action = "undone"
	ActionSkippedDisabled Action = "skipped_disabled"
	ActionBlocked         Action = "blocked_safety"
	ActionReported        Action = "reported"
	ActionFailed          Action = "failed"
	ActionNotAttempted    Action = "not_attempted"
)

// Outcome is the result of one task within a run.
type Outcome struct {
	Task   string
	Module string
	Action Action
	// State is set for status runs when the query succeeded.
	State module.TaskState
	// Safety is set for undo runs on enabled tasks and nil otherwise.
	Safety *module.UndoSafety
	Err    error
}

// TaskFailure is a module error attributed to its task.
type TaskFailure struct {
	Task string
	Op   Operation
	Err  error
}

func (f *TaskFailure) Error() string {
	return fmt.Sprintf("task %q: %s: %v", f.Task, f.Op, f.Err)
}

func (f *TaskFailure) Unwrap() error {
	return f.Err
}

// Report collects the outcomes of one run in task order.
type Report struct {
	Operation Operation
	Mode      module.UndoMode
	Outcomes  []Outcome
}

// Failed returns the outcomes that carry an error: failed module operations
// and tasks not attempted because the run was canceled.
func (r *Report) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Count returns how many tasks ended with action.
func (r *Report) Count(action Action) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Action == action {
			n++
		}
	}
	return n
}

// Outcome returns the outcome recorded for the named task.
func (r *Report) Outcome(task string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Task == task {
			return o, true
		}
	}
	return Outcome{}, false
}

// Err joins every task failure, or returns nil when no task failed. Blocked
// and disabled tasks are not failures.
func (r *Report) Err() error {
	var errs []error
	for _, o := range r.Failed() {
		errs = append(errs, &TaskFailure{Task: o.Task, Op: r.Operation, Err: o.Err})
	}
	return errors.Join(errs...)
}
