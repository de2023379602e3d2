package memory

import (
	"context"
	"time"

	"insurance-assistant-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository is the in-memory store.SessionStore backed by go-cache.
// Sessions expire after the configured TTL of inactivity.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Get(ctx context.Context, sessionId string) (*store.SessionContext, bool) {
	if x, found := r.cache.Get(sessionId); found {
		return x.(*store.SessionContext), true
	}
	return nil, false
}

func (r *SessionRepository) Save(ctx context.Context, session *store.SessionContext) error {
	r.cache.Set(session.Id, session, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionId string) error {
	r.cache.Delete(sessionId)
	return nil
}
