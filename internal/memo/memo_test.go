package memo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetSet(t *testing.T) {
	c := New[int](4, time.Minute)
	k := Key{Ledger: 1, Profile: 1, Goals: 1, Scope: "overview:2023-12"}

	_, ok := c.Get(k)
	assert.False(t, ok)

	c.Set(k, 42)
	got, ok := c.Get(k)
	assert.True(t, ok)
	assert.Equal(t, 42, got)
}

func TestVersionBumpMisses(t *testing.T) {
	c := New[int](4, time.Minute)
	c.Set(Key{Ledger: 1, Scope: "overview:2023-12"}, 1)

	// Bumping any version component produces a different key.
	_, ok := c.Get(Key{Ledger: 2, Scope: "overview:2023-12"})
	assert.False(t, ok)
	_, ok = c.Get(Key{Ledger: 1, Profile: 1, Scope: "overview:2023-12"})
	assert.False(t, ok)
}

func TestLRUEviction(t *testing.T) {
	c := New[int](2, time.Minute)
	a := Key{Ledger: 1, Scope: "a"}
	b := Key{Ledger: 1, Scope: "b"}
	d := Key{Ledger: 1, Scope: "d"}

	c.Set(a, 1)
	c.Set(b, 2)
	c.Get(a) // a is now most recently used
	c.Set(d, 3)

	_, ok := c.Get(b)
	assert.False(t, ok, "least recently used entry should be evicted")
	_, ok = c.Get(a)
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestExpiry(t *testing.T) {
	c := New[int](4, time.Millisecond)
	k := Key{Ledger: 1, Scope: "overview"}
	c.Set(k, 9)

	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get(k)
	assert.False(t, ok)
	assert.Zero(t, c.CleanExpired())
}

func TestCleanExpired(t *testing.T) {
	c := New[int](8, time.Millisecond)
	c.Set(Key{Scope: "a"}, 1)
	c.Set(Key{Scope: "b"}, 2)

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 2, c.CleanExpired())
	assert.Zero(t, c.Len())
}
