package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/specialistvlad/nucleos/internal/ctxlog"
	"github.com/specialistvlad/nucleos/internal/module"
	"github.com/zclconf/go-cty/cty"
)

// ErrUnknownModule is returned by Resolve when no module type is registered
// under the requested name.
var ErrUnknownModule = errors.New("unknown module type")

// Provider is implemented by every package that contributes module types.
type Provider interface {
	Register(r *Registry)
}

// Constructor builds a module instance from options that already passed
// schema validation.
type Constructor func(ctx context.Context, opts Options) (module.Module, error)

// Definition describes one module type: its option schema and constructor.
type Definition struct {
	Description string
	Options     []OptionSpec
	New         Constructor
}

type registered struct {
	def   *Definition
	specs []*compiledSpec
}

// Registry holds the module types known to a single application instance.
type Registry struct {
	modules map[string]*registered
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		modules: make(map[string]*registered),
	}
}

// Register adds a module type. Registering a name twice, a nil constructor or
// a malformed option schema is a programming error and panics.
func (r *Registry) Register(typeName string, def *Definition) {
	if typeName == "" {
		panic("module type name must not be empty")
	}
	if _, exists := r.modules[typeName]; exists {
		panic(fmt.Sprintf("module type '%s' already registered", typeName))
	}
	if def == nil || def.New == nil {
		panic(fmt.Sprintf("module type '%s' registered without a constructor", typeName))
	}

	specs, err := compileSpecs(def.Options)
	if err != nil {
		panic(fmt.Sprintf("module type '%s': %v", typeName, err))
	}

	slog.Debug("Registering module type.", "module", typeName, "options", len(specs))
	r.modules[typeName] = &registered{def: def, specs: specs}
}

// Has reports whether typeName is registered.
func (r *Registry) Has(typeName string) bool {
	_, ok := r.modules[typeName]
	return ok
}

// Types returns the registered type names in lexical order.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the registered definition for typeName, or nil.
func (r *Registry) Describe(typeName string) *Definition {
	if reg, ok := r.modules[typeName]; ok {
		return reg.def
	}
	return nil
}

// Resolve validates options against the schema of typeName and constructs a
// new module instance.
func (r *Registry) Resolve(ctx context.Context, typeName string, options cty.Value) (module.Module, error) {
	logger := ctxlog.FromContext(ctx).With("module", typeName)

	reg, ok := r.modules[typeName]
	if !ok {
		return nil, fmt.Errorf("%w %q (known types: %s)", ErrUnknownModule, typeName, strings.Join(r.Types(), ", "))
	}

	opts, err := reg.validate(typeName, options)
	if err != nil {
		return nil, err
	}
	logger.Debug("Module options validated.")

	mod, err := reg.def.New(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("module %q: %w", typeName, err)
	}
	return mod, nil
}
