// Package echo provides the "echo" module type, which prints a message every
// time it is applied. It has no persisted effect.
package echo

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/nucleos/internal/module"
	"github.com/specialistvlad/nucleos/internal/registry"
)

// TypeName is the name used in task declarations.
const TypeName = "echo"

// Provider implements the registry.Provider interface for this package.
type Provider struct {
	// Out receives the messages. Defaults to os.Stdout.
	Out io.Writer
}

// Options defines the arguments for the echo module.
type Options struct {
	Message string `cty:"message"`
}

// Echo prints its message on Apply.
type Echo struct {
	message string
	out     io.Writer
}

func (e *Echo) Apply(ctx context.Context) error {
	_, err := fmt.Fprintln(e.out, e.message)
	return err
}

// Undo has nothing to reverse.
func (e *Echo) Undo(ctx context.Context) error {
	return nil
}

func (e *Echo) UndoSafety() module.UndoSafety {
	return module.UndoSafe
}

func (e *Echo) State(ctx context.Context) (module.TaskState, error) {
	return module.StateStateless, nil
}

// Register registers the module type with the engine.
func (p *Provider) Register(r *registry.Registry) {
	r.Register(TypeName, &registry.Definition{
		Description: "Prints a message.",
		Options: []registry.OptionSpec{
			{Name: "message", Type: "string", Required: true},
		},
		New: p.build,
	})
}

func (p *Provider) build(ctx context.Context, opts registry.Options) (module.Module, error) {
	var in Options
	if err := opts.Decode(&in); err != nil {
		return nil, err
	}

	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	return &Echo{message: in.Message, out: out}, nil
}
