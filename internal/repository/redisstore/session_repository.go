package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"insurance-assistant-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "assistant:session:"

// SessionRepository is the Redis-backed store.SessionStore, used when sessions
// must survive restarts or be shared across instances.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &SessionRepository{client: client, ttl: ttl}
}

func (r *SessionRepository) Get(ctx context.Context, sessionId string) (*store.SessionContext, bool) {
	raw, err := r.client.Get(ctx, keyPrefix+sessionId).Bytes()
	if err != nil {
		return nil, false
	}
	var sess store.SessionContext
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, false
	}
	return &sess, true
}

func (r *SessionRepository) Save(ctx context.Context, session *store.SessionContext) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", session.Id, err)
	}
	return r.client.Set(ctx, keyPrefix+session.Id, raw, r.ttl).Err()
}

func (r *SessionRepository) Delete(ctx context.Context, sessionId string) error {
	return r.client.Del(ctx, keyPrefix+sessionId).Err()
}
