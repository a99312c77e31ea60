package testutil

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/nucleos/internal/config"
	"github.com/specialistvlad/nucleos/internal/ctxlog"
	"github.com/specialistvlad/nucleos/internal/registry"
	"github.com/specialistvlad/nucleos/internal/task"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// LoggedContext returns a context carrying a debug-level text logger that
// writes to the returned buffer. Set NUCLEOS_TEST_LOGS=true to dump the
// buffer at the end of the test.
func LoggedContext(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()

	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	t.Cleanup(func() {
		if os.Getenv("NUCLEOS_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})

	return ctxlog.WithLogger(context.Background(), logger), buf
}

// FakeTask declares one task bound to the fake module type.
type FakeTask struct {
	Name      string
	Safety    string
	Fail      []string
	Stateless bool
	Disabled  bool
}

func (f FakeTask) decl() *config.Task {
	opts := map[string]cty.Value{"id": cty.StringVal(f.Name)}
	if f.Safety != "" {
		opts["safety"] = cty.StringVal(f.Safety)
	}
	if len(f.Fail) > 0 {
		fail := make([]cty.Value, len(f.Fail))
		for i, op := range f.Fail {
			fail[i] = cty.StringVal(op)
		}
		opts["fail"] = cty.ListVal(fail)
	}
	if f.Stateless {
		opts["stateless"] = cty.True
	}

	decl := &config.Task{Name: f.Name, Module: FakeType, Options: cty.ObjectVal(opts)}
	if f.Disabled {
		decl.Opts = cty.ObjectVal(map[string]cty.Value{"enabled": cty.False})
	}
	return decl
}

// CompileFakes compiles a task set made only of fake modules.
func CompileFakes(ctx context.Context, t *testing.T, tasks ...FakeTask) (*task.Set, *FakeProvider) {
	t.Helper()

	reg := registry.New()
	provider := NewFakeProvider()
	provider.Register(reg)

	model := &config.Model{}
	for _, ft := range tasks {
		model.Tasks = append(model.Tasks, ft.decl())
	}

	set, err := task.Compile(ctx, model, reg)
	require.NoError(t, err)
	return set, provider
}

// SingleModel returns a model with one task of the given module type and no
// options.
func SingleModel(name, moduleType string) *config.Model {
	return &config.Model{Tasks: []*config.Task{{Name: name, Module: moduleType}}}
}

// WriteFiles writes files (relative name to content) below a fresh temporary
// directory and returns that directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}
