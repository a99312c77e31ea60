package task_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/nucleos/internal/config"
	"github.com/specialistvlad/nucleos/internal/registry"
	"github.com/specialistvlad/nucleos/internal/task"
	"github.com/specialistvlad/nucleos/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func fakeDecl(name, id string) *config.Task {
	return &config.Task{
		Name:    name,
		Module:  testutil.FakeType,
		Options: cty.ObjectVal(map[string]cty.Value{"id": cty.StringVal(id)}),
		Source:  name + ".hcl:1,1-10",
	}
}

func newRegistry() (*registry.Registry, *testutil.FakeProvider) {
	reg := registry.New()
	provider := testutil.NewFakeProvider()
	provider.Register(reg)
	return reg, provider
}

func TestCompile_BuildsSetInDeclaredOrder(t *testing.T) {
	t.Parallel()
	reg, provider := newRegistry()

	disabled := fakeDecl("b", "b")
	disabled.Opts = cty.ObjectVal(map[string]cty.Value{"enabled": cty.False})
	model := &config.Model{Tasks: []*config.Task{fakeDecl("c", "c"), disabled, fakeDecl("a", "a")}}

	set, err := task.Compile(context.Background(), model, reg)
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "b", "a"}, set.Names())
	assert.Equal(t, 3, set.Len())

	b, ok := set.Get("b")
	require.True(t, ok)
	assert.False(t, b.Opts.Enabled)
	assert.Equal(t, testutil.FakeType, b.ModuleType)
	assert.Same(t, provider.Get("b"), b.Module)

	a, _ := set.Get("a")
	assert.Equal(t, task.DefaultOpts(), a.Opts, "absent opts must mean defaults")

	_, ok = set.Get("missing")
	assert.False(t, ok)
}

func TestCompile_OptsForms(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		opts        cty.Value
		wantEnabled bool
		wantErr     string
	}{
		{name: "nil value", opts: cty.NilVal, wantEnabled: true},
		{name: "null", opts: cty.NullVal(cty.DynamicPseudoType), wantEnabled: true},
		{name: "empty object", opts: cty.EmptyObjectVal, wantEnabled: true},
		{name: "explicit true", opts: cty.ObjectVal(map[string]cty.Value{"enabled": cty.True}), wantEnabled: true},
		{name: "string false", opts: cty.ObjectVal(map[string]cty.Value{"enabled": cty.StringVal("false")}), wantEnabled: false},
		{name: "map form", opts: cty.MapVal(map[string]cty.Value{"enabled": cty.False}), wantEnabled: false},
		{name: "not an object", opts: cty.True, wantErr: "opts must be an object"},
		{name: "bad type", opts: cty.ObjectVal(map[string]cty.Value{"enabled": cty.StringVal("sometimes")}), wantErr: `option "enabled"`},
		{name: "unknown field", opts: cty.ObjectVal(map[string]cty.Value{"retries": cty.NumberIntVal(3)}), wantErr: `unsupported option "retries"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reg, _ := newRegistry()
			decl := fakeDecl("t", "t")
			decl.Opts = tc.opts

			set, err := task.Compile(context.Background(), &config.Model{Tasks: []*config.Task{decl}}, reg)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				assert.Contains(t, err.Error(), `task "t"`)
				return
			}
			require.NoError(t, err)
			got, _ := set.Get("t")
			assert.Equal(t, tc.wantEnabled, got.Opts.Enabled)
		})
	}
}

func TestCompile_ReportsAllDuplicates(t *testing.T) {
	t.Parallel()
	reg, _ := newRegistry()

	model := &config.Model{Tasks: []*config.Task{
		fakeDecl("greet", "g1"),
		fakeDecl("other", "o1"),
		fakeDecl("greet", "g2"),
		fakeDecl("other", "o2"),
		fakeDecl("greet", "g3"),
		fakeDecl("solo", "s"),
	}}

	set, err := task.Compile(context.Background(), model, reg)
	require.Nil(t, set)

	var compileErr *task.CompileError
	require.True(t, errors.As(err, &compileErr))
	if diff := cmp.Diff([]string{"greet", "other"}, compileErr.Duplicates); diff != "" {
		t.Errorf("duplicates mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, err.Error(), `duplicate task names: "greet", "other"`)
}

func TestCompile_OneBadTaskFailsEverything(t *testing.T) {
	t.Parallel()
	reg, provider := newRegistry()

	var decls []*config.Task
	for i := 0; i < 9; i++ {
		decls = append(decls, fakeDecl(fmt.Sprintf("ok%d", i), fmt.Sprintf("ok%d", i)))
	}
	decls = append(decls[:4], append([]*config.Task{{Name: "bad", Module: "nonexistent"}}, decls[4:]...)...)

	set, err := task.Compile(context.Background(), &config.Model{Tasks: decls}, reg)
	require.Error(t, err)
	require.Nil(t, set)
	assert.True(t, errors.Is(err, registry.ErrUnknownModule))

	var taskErr *task.TaskError
	require.True(t, errors.As(err, &taskErr))
	assert.Equal(t, "bad", taskErr.Task)

	// Constructors ran, but nothing was applied or even queried.
	for i := 0; i < 9; i++ {
		fake := provider.Get(fmt.Sprintf("ok%d", i))
		require.NotNil(t, fake)
		assert.Empty(t, fake.Calls())
	}
}

func TestCompile_ReportsEveryInvalidTaskDeterministically(t *testing.T) {
	t.Parallel()

	model := &config.Model{Tasks: []*config.Task{
		{Name: "missing-id", Module: testutil.FakeType, Source: "main.hcl:1,1-5"},
		fakeDecl("fine", "fine"),
		{Name: "unknown", Module: "ghost"},
	}}

	var messages []string
	for i := 0; i < 3; i++ {
		reg, _ := newRegistry()
		_, err := task.Compile(context.Background(), model, reg)
		require.Error(t, err)
		messages = append(messages, err.Error())

		var compileErr *task.CompileError
		require.True(t, errors.As(err, &compileErr))
		assert.Equal(t, []string{"missing-id", "unknown"}, compileErr.Failed())
	}

	assert.Equal(t, messages[0], messages[1])
	assert.Equal(t, messages[1], messages[2])
	assert.Contains(t, messages[0], `task "missing-id" (main.hcl:1,1-5): module "fake": option "id": required option is missing`)
}

func TestCompile_EmptyModel(t *testing.T) {
	t.Parallel()
	reg, _ := newRegistry()

	set, err := task.Compile(context.Background(), &config.Model{}, reg)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	assert.Empty(t, set.Tasks())
}
