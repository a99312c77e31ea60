package exec

import (
	"bytes"
	"context"
	"runtime"
	"testing"

	"github.com/specialistvlad/nucleos/internal/module"
	"github.com/specialistvlad/nucleos/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func resolve(t *testing.T, out *bytes.Buffer, attrs map[string]cty.Value) (module.Module, error) {
	t.Helper()
	reg := registry.New()
	(&Provider{Out: out}).Register(reg)
	return reg.Resolve(context.Background(), TypeName, cty.ObjectVal(attrs))
}

func TestExec_RunsCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on sh")
	}
	ctx := context.Background()
	var out bytes.Buffer

	mod, err := resolve(t, &out, map[string]cty.Value{
		"command": cty.StringVal("sh"),
		"args":    cty.TupleVal([]cty.Value{cty.StringVal("-c"), cty.StringVal("echo converged")}),
	})
	require.NoError(t, err)

	require.NoError(t, mod.Apply(ctx))
	assert.Equal(t, "converged\n", out.String())

	assert.Equal(t, module.UndoImpossible, mod.UndoSafety())
	require.NoError(t, mod.Undo(ctx))
	state, err := mod.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, module.StateStateless, state)
}

func TestExec_FailureCarriesOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on sh")
	}
	var out bytes.Buffer
	mod, err := resolve(t, &out, map[string]cty.Value{
		"command": cty.StringVal("sh"),
		"args":    cty.TupleVal([]cty.Value{cty.StringVal("-c"), cty.StringVal("echo nope >&2; exit 3")}),
	})
	require.NoError(t, err)

	err = mod.Apply(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 3")
	assert.Contains(t, err.Error(), "nope")
}

func TestExec_MissingCommandFailsResolve(t *testing.T) {
	_, err := resolve(t, &bytes.Buffer{}, map[string]cty.Value{
		"command": cty.StringVal("definitely-not-a-real-binary-nucleos"),
	})
	require.ErrorContains(t, err, `option "command"`)
}
