package memory

import (
	"ai-docchat-be/pkg/store"
	"time"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Sessions live for a day of inactivity; expired entries are purged hourly.
	c := cache.New(24*time.Hour, 1*time.Hour)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

// GetOrCreate returns the existing session or registers a fresh one under the
// given id. Used by middleware so a restarted server still honors old tokens.
func (r *SessionRepository) GetOrCreate(sessionID, email string) *store.Session {
	if session, found := r.Get(sessionID); found {
		return session
	}
	session := store.NewSession(sessionID, email)
	r.Save(session)
	return session
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
