package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestMemory() (*Memory, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMemory(0)
	m.now = clock.Now
	return m, clock
}

func TestMemory_SetGet(t *testing.T) {
	m, _ := newTestMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "https://example.com/job", "job text", time.Minute))

	value, ok, err := m.Get(ctx, "https://example.com/job")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "job text", value)
}

func TestMemory_Miss(t *testing.T) {
	m, _ := newTestMemory()

	value, ok, err := m.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestMemory_Expiry(t *testing.T) {
	m, clock := newTestMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v", 5*time.Minute))

	clock.Advance(4*time.Minute + 59*time.Second)
	_, ok, _ := m.Get(ctx, "k")
	assert.True(t, ok, "entry should still be fresh")

	clock.Advance(time.Second)
	_, ok, _ = m.Get(ctx, "k")
	assert.False(t, ok, "entry should expire exactly at its TTL")
	assert.Equal(t, 0, m.Len(), "expired entry should be evicted on read")
}

func TestMemory_DefaultTTL(t *testing.T) {
	m, clock := newTestMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v", 0))
	clock.Advance(DefaultTTL - time.Second)
	_, ok, _ := m.Get(ctx, "k")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok, _ = m.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemory_Sweep(t *testing.T) {
	m, clock := newTestMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "short", "v", time.Minute))
	require.NoError(t, m.Set(ctx, "long", "v", time.Hour))

	clock.Advance(2 * time.Minute)
	m.sweep()

	assert.Equal(t, 1, m.Len())
	_, ok, _ := m.Get(ctx, "long")
	assert.True(t, ok)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	m := NewMemory(time.Millisecond)
	defer func() { _ = m.Close() }()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i%5)
			_ = m.Set(ctx, key, "value", time.Minute)
			_, _, _ = m.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, m.Len())
}

func TestMemory_CloseIsIdempotent(t *testing.T) {
	m := NewMemory(time.Minute)
	assert.NoError(t, m.Close())
	assert.NoError(t, m.Close())
}
