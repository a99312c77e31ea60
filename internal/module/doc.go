// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package module defines the capability contract every task target satisfies,
// together with the small enums the engine uses to talk about a module: the
// observed TaskState, the static UndoSafety tier and the caller-selected
// UndoMode.
//
// A Module is deliberately tiny. It knows how to converge one piece of the
// system (Apply), how to reverse it (Undo), how risky reversing it is
// (UndoSafety) and where the system currently stands (State). Everything else,
// such as enable flags, ordering and error isolation, is the executor's job.
package module
