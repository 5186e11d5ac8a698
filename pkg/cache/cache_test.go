package cache

import (
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

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestCache_SetThenGet(t *testing.T) {
	clock := newFakeClock()
	c := New(WithClock(clock.Now))

	c.Set("products", []string{"a", "b"}, time.Minute)

	value, ok := c.Get("products")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, value)
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	clock := newFakeClock()
	c := New(WithClock(clock.Now))

	c.Set("k", "v", time.Minute)

	clock.Advance(time.Minute)
	value, ok := c.Get("k")
	assert.True(t, ok, "entry is still valid at exactly expiresAt")
	assert.Equal(t, "v", value)

	clock.Advance(time.Millisecond)
	value, ok = c.Get("k")
	assert.False(t, ok)
	assert.Nil(t, value)
	assert.Equal(t, 0, c.Len(), "expired entry is evicted on read")
}

func TestCache_DefaultTTL(t *testing.T) {
	clock := newFakeClock()
	c := New(WithClock(clock.Now))

	c.Set("k", 1, 0)

	clock.Advance(5 * time.Minute)
	_, ok := c.Get("k")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestCache_EmptyValueIsAHit(t *testing.T) {
	c := New()

	c.Set("empty", []int{}, time.Minute)
	c.Set("nil", nil, time.Minute)

	value, ok := c.Get("empty")
	assert.True(t, ok)
	assert.Equal(t, []int{}, value)

	value, ok = c.Get("nil")
	assert.True(t, ok)
	assert.Nil(t, value)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCache_Clear(t *testing.T) {
	c := New()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Set("c", 3, time.Minute)

	c.Clear("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestCache_Sweep(t *testing.T) {
	clock := newFakeClock()
	c := New(WithClock(clock.Now))

	c.Set("short", 1, time.Second)
	c.Set("long", 2, time.Hour)

	clock.Advance(2 * time.Second)
	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, 1, c.Len())

	_, ok := c.Get("long")
	assert.True(t, ok)
}

func TestCache_OverwriteRefreshesExpiry(t *testing.T) {
	clock := newFakeClock()
	c := New(WithClock(clock.Now))

	c.Set("k", "old", time.Second)
	clock.Advance(900 * time.Millisecond)
	c.Set("k", "new", time.Second)
	clock.Advance(900 * time.Millisecond)

	value, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", value)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set("shared", n, time.Minute)
				c.Get("shared")
				if j%10 == 0 {
					c.Clear("shared")
				}
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 1)
}
