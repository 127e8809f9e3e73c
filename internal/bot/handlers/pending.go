package handlers

import (
	"sync"
	"time"

	"github.com/hray3182/Organizer/internal/assistant"
)

// PendingTTL is how long a confirmation button stays valid.
const PendingTTL = 2 * time.Minute

// PendingEffect is an effect waiting for the user to confirm it. Nonce
// identifies the prompt that offered it.
type PendingEffect struct {
	ChatID    int64
	Nonce     uint64
	Effect    assistant.Effect
	ExpiresAt time.Time
}

// PendingStore holds effects awaiting confirmation, one per user. Take
// removes the entry, so each effect runs at most once.
type PendingStore struct {
	mu        sync.Mutex
	pending   map[int64]PendingEffect
	ttl       time.Duration
	now       func() time.Time
	lastNonce uint64
}

func NewPendingStore(ttl time.Duration, now func() time.Time) *PendingStore {
	if ttl <= 0 {
		ttl = PendingTTL
	}
	if now == nil {
		now = time.Now
	}
	return &PendingStore{
		pending: make(map[int64]PendingEffect),
		ttl:     ttl,
		now:     now,
	}
}

// Put replaces any effect already pending for userID and returns the nonce
// the confirming callback must carry.
func (s *PendingStore) Put(userID, chatID int64, effect assistant.Effect) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastNonce++
	s.pending[userID] = PendingEffect{
		ChatID:    chatID,
		Nonce:     s.lastNonce,
		Effect:    effect,
		ExpiresAt: s.now().Add(s.ttl),
	}
	return s.lastNonce
}

// Take removes and returns the effect pending for userID if it was offered
// under nonce. ok is false when there is none, it has expired, or a newer
// prompt replaced it; a newer prompt stays pending.
func (s *PendingStore) Take(userID int64, nonce uint64) (PendingEffect, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[userID]
	if !ok || p.Nonce != nonce {
		return PendingEffect{}, false
	}
	delete(s.pending, userID)
	if s.now().After(p.ExpiresAt) {
		return PendingEffect{}, false
	}
	return p, true
}

// Sweep drops every expired entry and reports how many were removed.
func (s *PendingStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, p := range s.pending {
		if now.After(p.ExpiresAt) {
			delete(s.pending, id)
			n++
		}
	}
	return n
}
