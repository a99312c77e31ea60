package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/specialistvlad/nucleos/internal/module"
	"github.com/specialistvlad/nucleos/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// FakeType is the module type name registered by FakeProvider.
const FakeType = "fake"

// ErrInjected is returned by a FakeModule operation listed in its fail option.
var ErrInjected = errors.New("injected failure")

// FakeModule is an in-memory module that records every call made to it.
type FakeModule struct {
	mu        sync.Mutex
	name      string
	safety    module.UndoSafety
	stateless bool
	applied   bool
	fail      map[string]bool
	calls     []string
}

// NewFakeModule creates a FakeModule directly, bypassing the registry.
func NewFakeModule(name string, safety module.UndoSafety, failOps ...string) *FakeModule {
	fail := make(map[string]bool, len(failOps))
	for _, op := range failOps {
		fail[op] = true
	}
	return &FakeModule{name: name, safety: safety, fail: fail}
}

func (f *FakeModule) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	if f.fail[op] {
		return fmt.Errorf("%s %s: %w", f.name, op, ErrInjected)
	}
	return nil
}

// Apply marks the fake as applied.
func (f *FakeModule) Apply(ctx context.Context) error {
	if err := f.record("apply"); err != nil {
		return err
	}
	f.mu.Lock()
	f.applied = true
	f.mu.Unlock()
	return nil
}

// Undo marks the fake as not applied.
func (f *FakeModule) Undo(ctx context.Context) error {
	if err := f.record("undo"); err != nil {
		return err
	}
	f.mu.Lock()
	f.applied = false
	f.mu.Unlock()
	return nil
}

// UndoSafety returns the configured tier. It is not recorded as a call.
func (f *FakeModule) UndoSafety() module.UndoSafety {
	return f.safety
}

// State reports Applied or NotApplied, or Stateless when so configured.
func (f *FakeModule) State(ctx context.Context) (module.TaskState, error) {
	if err := f.record("state"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case f.stateless:
		return module.StateStateless, nil
	case f.applied:
		return module.StateApplied, nil
	default:
		return module.StateNotApplied, nil
	}
}

// Calls returns a copy of the recorded operations in call order.
func (f *FakeModule) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// Applied reports whether the last successful mutation was Apply.
func (f *FakeModule) Applied() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.applied
}

// FakeProvider registers the "fake" module type and keeps every instance it
// builds, keyed by the instance's id option.
type FakeProvider struct {
	mu        sync.Mutex
	instances map[string]*FakeModule
}

// NewFakeProvider creates an empty FakeProvider.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{instances: make(map[string]*FakeModule)}
}

type fakeOptions struct {
	ID        string   `cty:"id"`
	Safety    string   `cty:"safety"`
	Fail      []string `cty:"fail"`
	Stateless bool     `cty:"stateless"`
}

// Register implements registry.Provider.
func (p *FakeProvider) Register(r *registry.Registry) {
	r.Register(FakeType, &registry.Definition{
		Description: "In-memory module for tests.",
		Options: []registry.OptionSpec{
			{Name: "id", Type: "string", Required: true},
			{Name: "safety", Type: "string", Default: cty.StringVal("safe")},
			{Name: "fail", Type: "list(string)", Default: cty.ListValEmpty(cty.String)},
			{Name: "stateless", Type: "bool", Default: cty.False},
		},
		New: p.build,
	})
}

func (p *FakeProvider) build(ctx context.Context, opts registry.Options) (module.Module, error) {
	var in fakeOptions
	if err := opts.Decode(&in); err != nil {
		return nil, err
	}
	safety, err := module.ParseUndoSafety(in.Safety)
	if err != nil {
		return nil, err
	}

	f := NewFakeModule(in.ID, safety, in.Fail...)
	f.stateless = in.Stateless

	p.mu.Lock()
	defer p.mu.Unlock()
	p.instances[in.ID] = f
	return f, nil
}

// Get returns the instance built for id, or nil.
func (p *FakeProvider) Get(id string) *FakeModule {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.instances[id]
}

// StaticResolver resolves module type names to prebuilt instances, ignoring
// options. It satisfies task.Resolver.
type StaticResolver map[string]module.Module

// Resolve returns the instance registered under typeName.
func (s StaticResolver) Resolve(ctx context.Context, typeName string, options cty.Value) (module.Module, error) {
	if m, ok := s[typeName]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w %q", registry.ErrUnknownModule, typeName)
}
