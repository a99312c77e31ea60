package task

import (
	"fmt"
	"strings"
)

// TaskError attributes a compilation failure to a single task.
type TaskError struct {
	Task   string
	Source string
	Err    error
}

func (e *TaskError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("task %q (%s): %v", e.Task, e.Source, e.Err)
	}
	return fmt.Sprintf("task %q: %v", e.Task, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// CompileError aggregates every problem found while compiling a
// configuration. Task errors are in declaration order; duplicate names are in
// order of first appearance.
type CompileError struct {
	Tasks      []*TaskError
	Duplicates []string
}

func (e *CompileError) Error() string {
	var lines []string
	if len(e.Duplicates) > 0 {
		quoted := make([]string, len(e.Duplicates))
		for i, name := range e.Duplicates {
			quoted[i] = fmt.Sprintf("%q", name)
		}
		lines = append(lines, "duplicate task names: "+strings.Join(quoted, ", "))
	}
	for _, te := range e.Tasks {
		lines = append(lines, te.Error())
	}
	return fmt.Sprintf("compilation failed:\n- %s", strings.Join(lines, "\n- "))
}

// Unwrap exposes the per-task errors to errors.Is and errors.As.
func (e *CompileError) Unwrap() []error {
	errs := make([]error, len(e.Tasks))
	for i, te := range e.Tasks {
		errs[i] = te
	}
	return errs
}

// Failed returns the names of all tasks the error mentions, duplicates first.
func (e *CompileError) Failed() []string {
	names := append([]string{}, e.Duplicates...)
	for _, te := range e.Tasks {
		names = append(names, te.Task)
	}
	return names
}
