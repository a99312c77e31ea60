// Package file provides the "file" module type: ensure a file exists with the
// declared content and permissions. Undo removes it.
package file

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
const TypeName = "file"

// DefaultContent is written when a task declares no content.
const DefaultContent = "Created by nucleos"

// Provider implements the registry.Provider interface for this package.
type Provider struct{}

// Options defines the arguments for the file module.
type Options struct {
	Path    string `cty:"path"`
	Content string `cty:"content"`
	Mode    string `cty:"mode"`
}

// File converges a single regular file.
type File struct {
	path    string
	content []byte
	mode    fs.FileMode
}

// Apply writes the file, creating missing parent directories. Rewriting an
// existing file with the same content is harmless.
func (f *File) Apply(ctx context.Context) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(f.path, f.content, f.mode); err != nil {
		return fmt.Errorf("failed to write file %s: %w", f.path, err)
	}
	// WriteFile only applies the mode on creation.
	if err := os.Chmod(f.path, f.mode); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", f.path, err)
	}

	ctxlog.FromContext(ctx).Info("File written.", "path", f.path)
	return nil
}

// Undo removes the file if it exists. A directory at the path is left alone.
func (f *File) Undo(ctx context.Context) error {
	info, err := os.Lstat(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", f.path, err)
	}
	if info.IsDir() {
		ctxlog.FromContext(ctx).Warn("Path is a directory, nothing to undo.", "path", f.path)
		return nil
	}
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove file %s: %w", f.path, err)
	}

	ctxlog.FromContext(ctx).Info("File removed.", "path", f.path)
	return nil
}

func (f *File) UndoSafety() module.UndoSafety {
	return module.UndoSafe
}

// State is a presence check on the path.
func (f *File) State(ctx context.Context) (module.TaskState, error) {
	info, err := os.Lstat(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return module.StateNotApplied, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", f.path, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s exists but is a directory", f.path)
	}
	return module.StateApplied, nil
}

// Register registers the module type with the engine.
func (p *Provider) Register(r *registry.Registry) {
	r.Register(TypeName, &registry.Definition{
		Description: "Ensures a file exists with the given content.",
		Options: []registry.OptionSpec{
			{Name: "path", Type: "string", Required: true},
			{Name: "content", Type: "string", Default: cty.StringVal(DefaultContent)},
			{Name: "mode", Type: "string", Default: cty.StringVal("0644")},
		},
		New: p.build,
	})
}

func (p *Provider) build(ctx context.Context, opts registry.Options) (module.Module, error) {
	var in Options
	if err := opts.Decode(&in); err != nil {
		return nil, err
	}
	if in.Path == "" {
		return nil, fmt.Errorf("option \"path\" must not be empty")
	}
	mode, err := fsutil.ParseMode(in.Mode)
	if err != nil {
		return nil, fmt.Errorf("option \"mode\": %w", err)
	}

	return &File{path: filepath.Clean(in.Path), content: []byte(in.Content), mode: mode}, nil
}
