package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStateStore_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newMemoryStateStore(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, s.Set(ctx, "b", []byte("2"), 0))

	v, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	now = now.Add(2 * time.Minute)

	v, err = s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, v)

	ok, err := s.Exists(ctx, "b")
	require.NoError(t, err)
	assert.True(t, ok, "entries without ttl never expire")
}

func TestMemoryStateStore_TakeConsumesOnce(t *testing.T) {
	s := NewMemoryStateStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, KeyPasskeyLogin+"x", []byte("session"), time.Minute))

	v, err := s.Take(ctx, KeyPasskeyLogin+"x")
	require.NoError(t, err)
	assert.Equal(t, []byte("session"), v)

	v, err = s.Take(ctx, KeyPasskeyLogin+"x")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestMemoryStateStore_CopiesValue(t *testing.T) {
	s := NewMemoryStateStore()
	ctx := context.Background()

	buf := []byte("draft")
	require.NoError(t, s.Set(ctx, "k", buf, 0))
	buf[0] = 'X'

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "draft", string(v))
}
