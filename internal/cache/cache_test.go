package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	c := New[string](time.Minute)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", "one")
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "one", v)

	c.Set("a", "two")
	v, ok = c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "two", v)
}

func TestCache_Expiry(t *testing.T) {
	c := New[int](10 * time.Millisecond)
	c.Set("a", 1)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	time.Sleep(20 * time.Millisecond)

	_, ok = c.Get("a")
	assert.False(t, ok, "expired entry must answer as a miss")
}

func TestCache_SetResetsExpiry(t *testing.T) {
	c := New[int](30 * time.Millisecond)
	c.Set("a", 1)

	time.Sleep(20 * time.Millisecond)
	c.Set("a", 2)
	time.Sleep(20 * time.Millisecond)

	v, ok := c.Get("a")
	require.True(t, ok, "rewritten entry expires from the rewrite, not the first set")
	assert.Equal(t, 2, v)
}

func TestCache_Delete(t *testing.T) {
	c := New[int](time.Minute)
	c.Set("a", 1)
	c.Delete("a")
	c.Delete("missing")

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCache_Clear(t *testing.T) {
	c := New[int](time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	require.Equal(t, 2, c.Len())

	c.Clear()

	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCache_ZeroValueDistinctFromMiss(t *testing.T) {
	c := New[int](time.Minute)
	c.Set("zero", 0)

	v, ok := c.Get("zero")
	require.True(t, ok)
	assert.Equal(t, 0, v)
}
