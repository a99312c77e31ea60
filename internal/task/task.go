// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Task, the unit the executor works on: a named binding of
// one module instance to its task-level options. Tasks are built once per run
// by Compile and are never modified afterwards.
package task

import (
	"github.com/specialistvlad/nucleos/internal/module"
)

// Opts are the task-level controls that apply regardless of module type.
type Opts struct {
	Enabled bool
}

// DefaultOpts returns the options used when a task declares none.
func DefaultOpts() Opts {
	return Opts{Enabled: true}
}

// Task is a compiled, ready-to-run task.
type Task struct {
	Name string
	// ModuleType is the registry name the module was resolved from.
	ModuleType string
	Module     module.Module
	Opts       Opts
	Source     string
}

// Set is the compiler's output: tasks keyed by name, iterated in declaration
// order.
type Set struct {
	order  []*Task
	byName map[string]*Task
}

func newSet(capacity int) *Set {
	return &Set{
		order:  make([]*Task, 0, capacity),
		byName: make(map[string]*Task, capacity),
	}
}

// Len returns the number of tasks.
func (s *Set) Len() int {
	return len(s.order)
}

// Tasks returns the tasks in declaration order. The slice is a copy.
func (s *Set) Tasks() []*Task {
	out := make([]*Task, len(s.order))
	copy(out, s.order)
	return out
}

// Get returns the task named name.
func (s *Set) Get(name string) (*Task, bool) {
	t, ok := s.byName[name]
	return t, ok
}

// Names returns the task names in declaration order.
func (s *Set) Names() []string {
	names := make([]string, len(s.order))
	for i, t := range s.order {
		names[i] = t.Name
	}
	return names
}
