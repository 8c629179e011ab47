package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUCacheSetGet(t *testing.T) {
	c := NewLRUCache(10, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", []byte("value"))
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("value"), got)
}

func TestLRUCacheExpiry(t *testing.T) {
	c := NewLRUCache(10, 10*time.Millisecond)
	c.Set("k", []byte("value"))

	time.Sleep(20 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestLRUCacheEvictsOldest(t *testing.T) {
	c := NewLRUCache(3, time.Minute)
	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), []byte("v"))
		time.Sleep(time.Millisecond)
	}

	c.Set("k3", []byte("v"))
	assert.Equal(t, 3, c.Size())

	_, ok := c.Get("k0")
	assert.False(t, ok, "oldest entry should be evicted")
	_, ok = c.Get("k3")
	assert.True(t, ok)
}

func TestLRUCacheUpdateInPlace(t *testing.T) {
	c := NewLRUCache(2, time.Minute)
	c.Set("k", []byte("old"))
	c.Set("k", []byte("new"))

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), got)
	assert.Equal(t, 1, c.Size())
}

func TestLRUCacheInvalidate(t *testing.T) {
	c := NewLRUCache(10, time.Minute)
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))

	c.Invalidate("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)

	c.InvalidateAll()
	assert.Equal(t, 0, c.Size())
}

func TestLRUCacheClampsBadConfig(t *testing.T) {
	c := NewLRUCache(0, 0)
	c.Set("k", []byte("v"))
	_, ok := c.Get("k")
	assert.True(t, ok)
}
