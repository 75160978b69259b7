package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"krampus/internal/model"
)

// ErrNoSession is returned for missing, expired or unparseable sessions;
// all three collapse into "no session".
var ErrNoSession = errors.New("no session")

// SessionStore keeps sessions in Redis under an idle TTL. Every Touch
// re-arms the TTL, so expiry is a rolling inactivity window rather than a
// fixed time from login.
type SessionStore struct {
	rdb         *redis.Client
	idleTimeout time.Duration
}

func NewSessionStore(rdb *redis.Client, idleTimeout time.Duration) *SessionStore {
	if idleTimeout <= 0 {
		idleTimeout = 30 * time.Minute
	}
	return &SessionStore{rdb: rdb, idleTimeout: idleTimeout}
}

func sessionKey(token string) string {
	return "session:" + token
}

// Put stores the session with a fresh idle window.
func (s *SessionStore) Put(ctx context.Context, sess *model.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.rdb.Set(ctx, sessionKey(sess.Token), data, s.idleTimeout).Err()
}

// Get returns the session for the token and re-arms its idle window.
func (s *SessionStore) Get(ctx context.Context, token string) (*model.Session, error) {
	val, err := s.rdb.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	var sess model.Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		// Garbled payload counts as no session; drop the key.
		_ = s.rdb.Del(ctx, sessionKey(token)).Err()
		return nil, ErrNoSession
	}

	// Any authenticated request counts as activity.
	_ = s.rdb.Expire(ctx, sessionKey(token), s.idleTimeout).Err()
	return &sess, nil
}

// Delete clears the session unconditionally; deleting an absent session is
// not an error.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionKey(token)).Err()
}
