package memory

import (
	"time"

	"advertiser-chatbot-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// SessionRepository is the hot cache in front of the chat_sessions table.
// A session that expires here is reloaded from the database on next use.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Create a cache with a default expiration time of 1 hour, and which
	// purges expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *entity.ChatSession) {
	r.cache.Set(session.Id.String(), session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*entity.ChatSession, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*entity.ChatSession), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
