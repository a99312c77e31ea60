// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package module

import "context"

// Module is the capability contract implemented by every module type.
//
// Implementations must tolerate repeated calls: Apply on an already converged
// system succeeds without changing it, and Undo on a system where the effect
// is absent succeeds as a no-op. A single instance is never used from more
// than one goroutine at a time.
type Module interface {
	// Apply performs the module's declared effect.
	Apply(ctx context.Context) error

	// Undo reverses the declared effect, if present.
	Undo(ctx context.Context) error

	// UndoSafety reports the static reversibility tier of Undo. It must be
	// side-effect free.
	UndoSafety() UndoSafety

	// State reports where the system stands relative to the declared effect.
	// It may read external state but must never mutate it.
	State(ctx context.Context) (TaskState, error)
}

// Allowed reports whether an undo of a module with the given safety tier may
// proceed under mode. Impossible is never allowed.
func Allowed(safety UndoSafety, mode UndoMode) bool {
	switch safety {
	case UndoSafe:
		return true
	case UndoRisky:
		return mode == ModeRisky
	default:
		return false
	}
}
