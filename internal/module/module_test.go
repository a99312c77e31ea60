package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowed(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		safety UndoSafety
		mode   UndoMode
		want   bool
	}{
		{UndoSafe, ModeSafe, true},
		{UndoSafe, ModeRisky, true},
		{UndoRisky, ModeSafe, false},
		{UndoRisky, ModeRisky, true},
		{UndoImpossible, ModeSafe, false},
		{UndoImpossible, ModeRisky, false},
	}

	for _, tc := range testCases {
		t.Run(tc.safety.String()+"/"+tc.mode.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, Allowed(tc.safety, tc.mode))
		})
	}
}

func TestTaskState_RoundTripsThroughText(t *testing.T) {
	t.Parallel()

	for _, s := range []TaskState{StateApplied, StateOutOfDate, StateNotApplied, StateStateless} {
		parsed, err := ParseTaskState(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	assert.Equal(t, "not_applied", StateNotApplied.String())
	assert.Equal(t, "TaskState(42)", TaskState(42).String())

	_, err := ParseTaskState("gone")
	require.Error(t, err)
}

func TestUndoSafety_RoundTripsThroughText(t *testing.T) {
	t.Parallel()

	for _, s := range []UndoSafety{UndoSafe, UndoRisky, UndoImpossible} {
		parsed, err := ParseUndoSafety(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseUndoSafety("maybe")
	require.Error(t, err)
}

func TestParseUndoMode(t *testing.T) {
	t.Parallel()

	mode, err := ParseUndoMode("risky")
	require.NoError(t, err)
	assert.Equal(t, ModeRisky, mode)

	mode, err = ParseUndoMode("safe")
	require.NoError(t, err)
	assert.Equal(t, ModeSafe, mode)

	_, err = ParseUndoMode("impossible")
	require.ErrorContains(t, err, `unknown undo mode "impossible"`)
}
