// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package module

import "fmt"

// TaskState is the observed state of a task's effect. It is produced fresh on
// every State call and never cached.
type TaskState int

const (
	// StateApplied means the effect is present.
	StateApplied TaskState = iota
	// StateOutOfDate means the effect is present but diverges from the
	// declaration. No built-in module reports it yet.
	StateOutOfDate
	// StateNotApplied means the effect is absent.
	StateNotApplied
	// StateStateless means the module has no observable persisted effect.
	StateStateless
)

var taskStateNames = map[TaskState]string{
	StateApplied:    "applied",
	StateOutOfDate:  "out_of_date",
	StateNotApplied: "not_applied",
	StateStateless:  "stateless",
}

func (s TaskState) String() string {
	if name, ok := taskStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("TaskState(%d)", int(s))
}

// ParseTaskState is the inverse of TaskState.String.
func ParseTaskState(s string) (TaskState, error) {
	for state, name := range taskStateNames {
		if name == s {
			return state, nil
		}
	}
	return 0, fmt.Errorf("unknown task state %q", s)
}

// UndoSafety classifies how safely a module's undo can be invoked
// automatically.
type UndoSafety int

const (
	// UndoSafe is fully revertible without side effects.
	UndoSafe UndoSafety = iota
	// UndoRisky is reversible but may leave or cause side effects.
	UndoRisky
	// UndoImpossible cannot be undone automatically.
	UndoImpossible
)

var undoSafetyNames = map[UndoSafety]string{
	UndoSafe:       "safe",
	UndoRisky:      "risky",
	UndoImpossible: "impossible",
}

func (s UndoSafety) String() string {
	if name, ok := undoSafetyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("UndoSafety(%d)", int(s))
}

// ParseUndoSafety is the inverse of UndoSafety.String.
func ParseUndoSafety(s string) (UndoSafety, error) {
	for safety, name := range undoSafetyNames {
		if name == s {
			return safety, nil
		}
	}
	return 0, fmt.Errorf("unknown undo safety %q", s)
}

// UndoMode is the policy a caller selects for an undo run.
type UndoMode int

const (
	// ModeSafe undoes only modules reporting UndoSafe.
	ModeSafe UndoMode = iota
	// ModeRisky also undoes modules reporting UndoRisky.
	ModeRisky
)

func (m UndoMode) String() string {
	switch m {
	case ModeSafe:
		return "safe"
	case ModeRisky:
		return "risky"
	default:
		return fmt.Sprintf("UndoMode(%d)", int(m))
	}
}

// ParseUndoMode is the inverse of UndoMode.String.
func ParseUndoMode(s string) (UndoMode, error) {
	switch s {
	case "safe":
		return ModeSafe, nil
	case "risky":
		return ModeRisky, nil
	default:
		return 0, fmt.Errorf("unknown undo mode %q", s)
	}
}
