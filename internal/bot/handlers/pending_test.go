package handlers

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hray3182/Organizer/internal/assistant"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestPendingStore_TakeIsAtMostOnce(t *testing.T) {
	clock := &manualClock{now: time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)}
	store := NewPendingStore(time.Minute, clock.Now)

	nonce := store.Put(7, 42, assistant.OpenMap{Destination: "hospital"})

	got, ok := store.Take(7, nonce)
	require.True(t, ok)
	assert.Equal(t, int64(42), got.ChatID)
	assert.Equal(t, nonce, got.Nonce)
	assert.Equal(t, assistant.OpenMap{Destination: "hospital"}, got.Effect)

	_, ok = store.Take(7, nonce)
	assert.False(t, ok)
}

func TestPendingStore_Expiry(t *testing.T) {
	clock := &manualClock{now: time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)}
	store := NewPendingStore(time.Minute, clock.Now)

	nonce := store.Put(7, 42, assistant.OpenDialer{Number: "911"})
	clock.Advance(61 * time.Second)

	_, ok := store.Take(7, nonce)
	assert.False(t, ok)
}

func TestPendingStore_PutReplaces(t *testing.T) {
	store := NewPendingStore(0, nil)

	first := store.Put(7, 42, assistant.OpenContacts{Name: "Ana"})
	second := store.Put(7, 42, assistant.OpenContacts{Name: "Luis"})
	require.NotEqual(t, first, second)

	// The replaced prompt's nonce neither runs nor consumes the newer effect.
	_, ok := store.Take(7, first)
	assert.False(t, ok)

	got, ok := store.Take(7, second)
	require.True(t, ok)
	assert.Equal(t, assistant.OpenContacts{Name: "Luis"}, got.Effect)
}

func TestPendingStore_NoncesAreNotSharedAcrossUsers(t *testing.T) {
	store := NewPendingStore(0, nil)

	a := store.Put(1, 1, assistant.OpenMap{Destination: "a"})
	b := store.Put(2, 2, assistant.OpenMap{Destination: "b"})

	_, ok := store.Take(1, b)
	assert.False(t, ok)
	got, ok := store.Take(1, a)
	require.True(t, ok)
	assert.Equal(t, assistant.OpenMap{Destination: "a"}, got.Effect)
}

func TestPendingStore_Sweep(t *testing.T) {
	clock := &manualClock{now: time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)}
	store := NewPendingStore(time.Minute, clock.Now)

	store.Put(1, 1, assistant.OpenMap{})
	store.Put(2, 2, assistant.OpenMap{})

	clock.Advance(2 * time.Minute)
	third := store.Put(3, 3, assistant.OpenMap{})
	assert.Equal(t, 2, store.Sweep())

	_, ok := store.Take(3, third)
	assert.True(t, ok)
}

func TestPendingStore_ConcurrentTakeRunsOnce(t *testing.T) {
	store := NewPendingStore(time.Minute, nil)
	nonce := store.Put(7, 42, assistant.OpenMap{})

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		taken int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := store.Take(7, nonce); ok {
				mu.Lock()
				taken++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, taken)
}
