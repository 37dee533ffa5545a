package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "pdf:1", []byte("report bytes"), time.Minute))

	got, err := c.Get(ctx, "pdf:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("report bytes"), got)
}

func TestMemoryCache_GetMiss(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache()
	defer c.Close()

	_, err := c.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_Expiry(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "pdf:1", []byte("x"), 5*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, err := c.Get(ctx, "pdf:1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_Delete(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "pdf:1", []byte("x"), time.Minute))
	require.NoError(t, c.Delete(ctx, "pdf:1"))

	_, err := c.Get(ctx, "pdf:1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_GetOrSet(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	calls := 0
	fn := func() ([]byte, error) {
		calls++
		return []byte("computed"), nil
	}

	first, err := c.GetOrSet(ctx, "pdf:1", time.Minute, fn)
	require.NoError(t, err)
	assert.Equal(t, []byte("computed"), first)

	second, err := c.GetOrSet(ctx, "pdf:1", time.Minute, fn)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "cached value skips recompute")
}

func TestMemoryCache_GetOrSetPropagatesError(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache()
	defer c.Close()

	wantErr := errors.New("render failed")
	_, err := c.GetOrSet(context.Background(), "pdf:1", time.Minute, func() ([]byte, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	// Failures are not cached.
	_, err = c.Get(context.Background(), "pdf:1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_GetReturnsCopy(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "pdf:1", []byte("abc"), time.Minute))

	got, err := c.Get(ctx, "pdf:1")
	require.NoError(t, err)
	got[0] = 'z'

	again, err := c.Get(ctx, "pdf:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again, "callers cannot mutate the cached value")
}
