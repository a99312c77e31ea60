package task

import (
	"context"
	"fmt"

	"github.com/specialistvlad/nucleos/internal/config"
	"github.com/specialistvlad/nucleos/internal/ctxlog"
	"github.com/specialistvlad/nucleos/internal/module"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Resolver builds module instances from a type name and its option record.
// *registry.Registry satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, typeName string, options cty.Value) (module.Module, error)
}

var optsType = cty.Object(map[string]cty.Type{
	"enabled": cty.Bool,
})

// Compile validates every task in model and binds it to a module instance.
// Validation is total: every task is checked and every problem is reported
// in a *CompileError, and no Set is returned unless all tasks are valid.
// Constructors run here, but no module's Apply, Undo or State is invoked.
func Compile(ctx context.Context, model *config.Model, resolver Resolver) (*Set, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Compiling tasks.", "declared", len(model.Tasks))

	compileErr := &CompileError{}
	set := newSet(len(model.Tasks))

	seen := make(map[string]int, len(model.Tasks))
	for _, decl := range model.Tasks {
		seen[decl.Name]++
		if seen[decl.Name] == 2 {
			compileErr.Duplicates = append(compileErr.Duplicates, decl.Name)
		}
	}

	for _, decl := range model.Tasks {
		taskCtx, taskLogger := ctxlog.With(ctx, "task", decl.Name, "module", decl.Module)

		if decl.Name == "" {
			compileErr.Tasks = append(compileErr.Tasks, &TaskError{Source: decl.Source, Err: fmt.Errorf("task name must not be empty")})
			continue
		}

		mod, err := resolver.Resolve(taskCtx, decl.Module, decl.Options)
		if err != nil {
			compileErr.Tasks = append(compileErr.Tasks, &TaskError{Task: decl.Name, Source: decl.Source, Err: err})
			continue
		}

		opts, err := decodeOpts(decl.Opts)
		if err != nil {
			compileErr.Tasks = append(compileErr.Tasks, &TaskError{Task: decl.Name, Source: decl.Source, Err: err})
			continue
		}

		if seen[decl.Name] > 1 {
			continue
		}

		set.order = append(set.order, &Task{
			Name:       decl.Name,
			ModuleType: decl.Module,
			Module:     mod,
			Opts:       opts,
			Source:     decl.Source,
		})
		set.byName[decl.Name] = set.order[len(set.order)-1]
		taskLogger.Debug("Task compiled.", "enabled", opts.Enabled)
	}

	if len(compileErr.Tasks) > 0 || len(compileErr.Duplicates) > 0 {
		logger.Error("Compilation failed.", "failed_tasks", compileErr.Failed())
		return nil, compileErr
	}

	logger.Info("Tasks compiled.", "count", set.Len())
	return set, nil
}

// decodeOpts turns a task's raw opts record into Opts. A null record yields
// DefaultOpts; fields absent from a present record keep their defaults.
func decodeOpts(raw cty.Value) (Opts, error) {
	opts := DefaultOpts()
	if raw.IsNull() {
		return opts, nil
	}

	ty := raw.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return opts, fmt.Errorf("opts must be an object, got %s", ty.FriendlyName())
	}
	if !raw.IsWhollyKnown() {
		return opts, fmt.Errorf("opts contain values that are not known until apply")
	}

	attrs := map[string]cty.Value{}
	for it := raw.ElementIterator(); it.Next(); {
		k, v := it.Element()
		name := k.AsString()
		if !optsType.HasAttribute(name) {
			return opts, fmt.Errorf("opts: unsupported option %q", name)
		}
		attrs[name] = v
	}

	if v, ok := attrs["enabled"]; ok && !v.IsNull() {
		converted, err := convert.Convert(v, cty.Bool)
		if err != nil {
			return opts, fmt.Errorf("opts: option \"enabled\": %w", err)
		}
		if err := gocty.FromCtyValue(converted, &opts.Enabled); err != nil {
			return opts, fmt.Errorf("opts: option \"enabled\": %w", err)
		}
	}
	return opts, nil
}
