package echo

import (
	"bytes"
	"context"
	"testing"

	"github.com/specialistvlad/nucleos/internal/module"
	"github.com/specialistvlad/nucleos/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestEcho(t *testing.T) {
	// --- Arrange ---
	var out bytes.Buffer
	reg := registry.New()
	(&Provider{Out: &out}).Register(reg)
	ctx := context.Background()

	mod, err := reg.Resolve(ctx, TypeName, cty.ObjectVal(map[string]cty.Value{
		"message": cty.StringVal("hi"),
	}))
	require.NoError(t, err)

	// --- Act ---
	require.NoError(t, mod.Apply(ctx))
	require.NoError(t, mod.Apply(ctx))
	require.NoError(t, mod.Undo(ctx))

	// --- Assert ---
	assert.Equal(t, "hi\nhi\n", out.String())
	assert.Equal(t, module.UndoSafe, mod.UndoSafety())

	state, err := mod.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, module.StateStateless, state)
}

func TestEcho_RequiresMessage(t *testing.T) {
	reg := registry.New()
	(&Provider{}).Register(reg)

	_, err := reg.Resolve(context.Background(), TypeName, cty.EmptyObjectVal)
	require.ErrorContains(t, err, `option "message": required option is missing`)
}
