// Package exec provides the "exec" module type, which runs a command on every
// apply. A command's effects are opaque to nucleos, so it cannot be undone
// and reports no state.
package exec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"strings"

	"github.com/specialistvlad/nucleos/internal/ctxlog"
	"github.com/specialistvlad/nucleos/internal/module"
	"github.com/specialistvlad/nucleos/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// TypeName is the name used in task declarations.
const TypeName = "exec"

// Provider implements the registry.Provider interface for this package.
type Provider struct {
	// Out receives the command's combined output. Defaults to os.Stdout.
	Out io.Writer
}

// Options defines the arguments for the exec module.
type Options struct {
	Command string   `cty:"command"`
	Args    []string `cty:"args"`
	Dir     string   `cty:"dir"`
}

// Exec runs a command.
type Exec struct {
	path string
	args []string
	dir  string
	out  io.Writer
}

func (e *Exec) Apply(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	var buf bytes.Buffer
	cmd := osexec.CommandContext(ctx, e.path, e.args...)
	cmd.Dir = e.dir
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	logger.Debug("Running command.", "command", e.path, "args", e.args)
	err := cmd.Run()
	if _, werr := e.out.Write(buf.Bytes()); werr != nil {
		logger.Warn("Failed to forward command output.", "error", werr)
	}
	if err != nil {
		return fmt.Errorf("command %s failed: %w: %s", e.path, err, strings.TrimSpace(lastLine(buf.String())))
	}
	return nil
}

// Undo is a no-op; see UndoSafety.
func (e *Exec) Undo(ctx context.Context) error {
	return nil
}

func (e *Exec) UndoSafety() module.UndoSafety {
	return module.UndoImpossible
}

func (e *Exec) State(ctx context.Context) (module.TaskState, error) {
	return module.StateStateless, nil
}

func lastLine(s string) string {
	s = strings.TrimRight(s, "\n")
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Register registers the module type with the engine.
func (p *Provider) Register(r *registry.Registry) {
	r.Register(TypeName, &registry.Definition{
		Description: "Runs a command on every apply.",
		Options: []registry.OptionSpec{
			{Name: "command", Type: "string", Required: true},
			{Name: "args", Type: "list(string)", Default: cty.ListValEmpty(cty.String)},
			{Name: "dir", Type: "string", Default: cty.StringVal("")},
		},
		New: p.build,
	})
}

// build resolves the command through PATH so that a missing binary fails
// compilation instead of the run.
func (p *Provider) build(ctx context.Context, opts registry.Options) (module.Module, error) {
	var in Options
	if err := opts.Decode(&in); err != nil {
		return nil, err
	}
	path, err := osexec.LookPath(in.Command)
	if err != nil {
		return nil, fmt.Errorf("option \"command\": %w", err)
	}

	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	return &Exec{path: path, args: in.Args, dir: in.Dir, out: out}, nil
}
