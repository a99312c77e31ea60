package config

import "github.com/zclconf/go-cty/cty"

// Model is the unified representation of every task declared across all
// loaded configuration files, in declaration order.
type Model struct {
	Tasks []*Task
}

// Task is one declared task. Duplicate names are preserved so that the
// compiler can reject them.
type Task struct {
	Name string
	// Module is the module type name to resolve in the registry.
	Module string
	// Options is the module-specific option record. cty.NilVal or a null
	// value means the task declared no options.
	Options cty.Value
	// Opts is the task-level option record. cty.NilVal or a null value means
	// the defaults apply.
	Opts cty.Value
	// Source locates the declaration for error messages, e.g. "main.hcl:3,1-13".
	Source string
}

// Names returns the task names in declaration order.
func (m *Model) Names() []string {
	names := make([]string, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		names = append(names, t.Name)
	}
	return names
}
