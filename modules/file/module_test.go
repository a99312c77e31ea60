package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/nucleos/internal/module"
	"github.com/specialistvlad/nucleos/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func resolve(t *testing.T, attrs map[string]cty.Value) (module.Module, error) {
	t.Helper()
	reg := registry.New()
	(&Provider{}).Register(reg)
	return reg.Resolve(context.Background(), TypeName, cty.ObjectVal(attrs))
}

func TestFile_ApplyUndoLifecycle(t *testing.T) {
	// --- Arrange ---
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "m")
	mod, err := resolve(t, map[string]cty.Value{"path": cty.StringVal(path)})
	require.NoError(t, err)

	state, err := mod.State(ctx)
	require.NoError(t, err)
	require.Equal(t, module.StateNotApplied, state)

	// Undo without a prior apply is a no-op.
	require.NoError(t, mod.Undo(ctx))

	// --- Act ---
	require.NoError(t, mod.Apply(ctx))
	first, err := mod.State(ctx)
	require.NoError(t, err)
	require.NoError(t, mod.Apply(ctx))
	second, err := mod.State(ctx)
	require.NoError(t, err)

	// --- Assert ---
	assert.Equal(t, module.StateApplied, first)
	assert.Equal(t, first, second)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultContent, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	require.NoError(t, mod.Undo(ctx))
	state, err = mod.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, module.StateNotApplied, state)
	assert.Equal(t, module.UndoSafe, mod.UndoSafety())
}

func TestFile_ContentAndMode(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "conf")
	mod, err := resolve(t, map[string]cty.Value{
		"path":    cty.StringVal(path),
		"content": cty.StringVal("key=value\n"),
		"mode":    cty.StringVal("0600"),
	})
	require.NoError(t, err)

	require.NoError(t, mod.Apply(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "key=value\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFile_StateOnDirectoryIsAnError(t *testing.T) {
	mod, err := resolve(t, map[string]cty.Value{"path": cty.StringVal(t.TempDir())})
	require.NoError(t, err)

	_, err = mod.State(context.Background())
	require.ErrorContains(t, err, "is a directory")
}

func TestFile_UndoLeavesEmptyDirectoryInPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.Mkdir(path, 0o755))

	mod, err := resolve(t, map[string]cty.Value{"path": cty.StringVal(path)})
	require.NoError(t, err)
	require.NoError(t, mod.Undo(context.Background()))

	assert.DirExists(t, path)
}

func TestFile_InvalidOptions(t *testing.T) {
	testCases := []struct {
		name    string
		attrs   map[string]cty.Value
		wantErr string
	}{
		{"missing path", map[string]cty.Value{}, `option "path": required option is missing`},
		{"empty path", map[string]cty.Value{"path": cty.StringVal("")}, `"path" must not be empty`},
		{"bad mode", map[string]cty.Value{"path": cty.StringVal("/tmp/x"), "mode": cty.StringVal("rwx")}, `option "mode"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolve(t, tc.attrs)
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}
