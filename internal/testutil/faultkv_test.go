package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaultyKV_GetFailuresCountDown(t *testing.T) {
	ctx := context.Background()
	f := NewFaultyKV(nil)
	require.NoError(t, f.Set(ctx, "k", "v"))

	boom := errors.New("boom")
	f.FailGets(2, boom)

	_, _, err := f.Get(ctx, "k")
	assert.Same(t, boom, err)
	_, _, err = f.Get(ctx, "k")
	assert.Same(t, boom, err)

	v, ok, err := f.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	assert.Equal(t, 3, f.Gets())
}

func TestFaultyKV_SetFailuresPersist(t *testing.T) {
	ctx := context.Background()
	f := NewFaultyKV(nil)
	quota := errors.New("quota exceeded")
	f.FailSets(quota)

	assert.Same(t, quota, f.Set(ctx, "k", "v"))
	assert.Same(t, quota, f.Set(ctx, "k", "v"))

	_, ok, err := f.Inner().Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	f.FailSets(nil)
	assert.NoError(t, f.Set(ctx, "k", "v"))
	assert.Equal(t, 3, f.Sets())
}

func TestFaultyKV_RemoveFailures(t *testing.T) {
	f := NewFaultyKV(nil)
	denied := errors.New("denied")
	f.FailRemoves(denied)
	assert.Same(t, denied, f.Remove(context.Background(), "k"))
}
