package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// TurnGuard enforces at most one in-flight turn per session. Acquire relies
// on cache.Add, which is atomic: the second caller for the same session id
// gets an error and must be rejected with a conflict.
//
// The TTL is a safety net for a turn whose Release was lost to a crash; it
// is longer than any plausible generation so it never cuts a live turn.
type TurnGuard struct {
	cache *cache.Cache
}

func NewTurnGuard() *TurnGuard {
	return &TurnGuard{
		cache: cache.New(2*time.Minute, 30*time.Second),
	}
}

// Acquire reserves the session for one turn. It returns false when a turn
// is already in flight.
func (g *TurnGuard) Acquire(sessionID string) bool {
	return g.cache.Add(sessionID, struct{}{}, cache.DefaultExpiration) == nil
}

// Release frees the session for the next turn.
func (g *TurnGuard) Release(sessionID string) {
	g.cache.Delete(sessionID)
}
