package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session not found")

const keyPrefix = "session:"

// Store keeps sessions in Redis under opaque uuid ids. The browser only ever
// sees the id; the bearer token stays server-side.
type Store struct {
	rdb        *redis.Client
	defaultTTL time.Duration
}

func NewStore(rdb *redis.Client, defaultTTL time.Duration) *Store {
	return &Store{rdb: rdb, defaultTTL: defaultTTL}
}

// Create persists the session and returns its id and effective TTL. The TTL
// is the configured default, capped by the token's own expiry when the token
// carries one.
func (s *Store) Create(ctx context.Context, sess Session) (string, time.Duration, error) {
	ttl := s.defaultTTL
	if tokenTTL, ok := TokenTTL(sess.Token, time.Now().UTC()); ok && tokenTTL < ttl {
		ttl = tokenTTL
	}

	id := uuid.NewString()
	payload, err := json.Marshal(sess)
	if err != nil {
		return "", 0, fmt.Errorf("encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+id, payload, ttl).Err(); err != nil {
		return "", 0, fmt.Errorf("store session: %w", err)
	}
	return id, ttl, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	payload, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	sess.ID = id
	return &sess, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.rdb.Del(ctx, keyPrefix+id).Err()
}

// Ping satisfies the health handler.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
