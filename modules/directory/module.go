// Package directory provides the "directory" module type. Undo removes the
// directory together with anything inside it, so it is classified as risky.
package directory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/specialistvlad/nucleos/internal/ctxlog"
	"github.com/specialistvlad/nucleos/internal/fsutil"
	"github.com/specialistvlad/nucleos/internal/module"
	"github.com/specialistvlad/nucleos/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// TypeName is the name used in task declarations.
const TypeName = "directory"

// Provider implements the registry.Provider interface for this package.
type Provider struct{}

// Options defines the arguments for the directory module.
type Options struct {
	Path string `cty:"path"`
	Mode string `cty:"mode"`
}

// Directory converges a single directory.
type Directory struct {
	path string
	mode fs.FileMode
}

func (d *Directory) Apply(ctx context.Context) error {
	if err := os.MkdirAll(d.path, d.mode); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", d.path, err)
	}
	if err := os.Chmod(d.path, d.mode); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", d.path, err)
	}
	ctxlog.FromContext(ctx).Info("Directory ensured.", "path", d.path)
	return nil
}

// Undo removes the directory recursively, including content nucleos did not
// create. Anything at the path that is not a directory is left alone.
func (d *Directory) Undo(ctx context.Context) error {
	info, err := os.Lstat(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", d.path, err)
	}
	if !info.IsDir() {
		ctxlog.FromContext(ctx).Warn("Path is not a directory, nothing to undo.", "path", d.path, "type", info.Mode().Type().String())
		return nil
	}
	if err := os.RemoveAll(d.path); err != nil {
		return fmt.Errorf("failed to remove directory %s: %w", d.path, err)
	}
	ctxlog.FromContext(ctx).Info("Directory removed.", "path", d.path)
	return nil
}

func (d *Directory) UndoSafety() module.UndoSafety {
	return module.UndoRisky
}

func (d *Directory) State(ctx context.Context) (module.TaskState, error) {
	info, err := os.Stat(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return module.StateNotApplied, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", d.path, err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%s exists but is not a directory", d.path)
	}
	return module.StateApplied, nil
}

// Register registers the module type with the engine.
func (p *Provider) Register(r *registry.Registry) {
	r.Register(TypeName, &registry.Definition{
		Description: "Ensures a directory exists.",
		Options: []registry.OptionSpec{
			{Name: "path", Type: "string", Required: true},
			{Name: "mode", Type: "string", Default: cty.StringVal("0755")},
		},
		New: p.build,
	})
}

func (p *Provider) build(ctx context.Context, opts registry.Options) (module.Module, error) {
	var in Options
	if err := opts.Decode(&in); err != nil {
		return nil, err
	}
	path := filepath.Clean(in.Path)
	if in.Path == "" || path == "/" || path == "." {
		return nil, fmt.Errorf("option \"path\" must name a directory other than %q", path)
	}
	mode, err := fsutil.ParseMode(in.Mode)
	if err != nil {
		return nil, fmt.Errorf("option \"mode\": %w", err)
	}
	return &Directory{path: path, mode: mode}, nil
}
