// Package executor is the convergence runner. It walks a compiled task.Set
// strictly one task at a time, in declaration order, and implements the three
// top-level operations:
//
//   - Apply converges every enabled task.
//   - Undo reverses every enabled task whose undo safety tier is allowed by the
//     requested UndoMode, and logs a warning for every task it refuses.
//   - Status queries every task, enabled or not, without mutating anything.
//
// A failing task never stops the run. Every outcome, success or not, is
// recorded in a Report keyed to the task's name.
package executor
