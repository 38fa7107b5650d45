// Package session keeps authenticated identities on the server and carries
// an opaque reference to them in a signed cookie or a bearer token.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/olimp/hotel-booking/internal/model"
)

// ErrNoSession is returned by Store.Get when the token is unknown or expired.
var ErrNoSession = errors.New("session not found")

// Store holds session records keyed by opaque token.
type Store interface {
	Create(ctx context.Context, sess model.Session) (string, error)
	Get(ctx context.Context, token string) (*model.Session, error)
	Delete(ctx context.Context, token string) error
}

func newToken() string { return uuid.NewString() }

// RedisStore keeps sessions as JSON values that expire after ttl.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: "sess:", ttl: ttl}
}

func (s *RedisStore) key(token string) string { return s.prefix + token }

func (s *RedisStore) Create(ctx context.Context, sess model.Session) (string, error) {
	payload, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	token := newToken()
	if err := s.rdb.Set(ctx, s.key(token), payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (*model.Session, error) {
	bs, err := s.rdb.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var sess model.Session
	if err := json.Unmarshal(bs, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

type memoryEntry struct {
	sess    model.Session
	expires time.Time
}

// MemoryStore is the process-local fallback used when Redis is not
// configured. Sessions do not survive a restart.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Create(_ context.Context, sess model.Session) (string, error) {
	token := newToken()
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	// sweep on write
	for k, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, k)
		}
	}
	s.entries[token] = memoryEntry{sess: sess, expires: now.Add(s.ttl)}
	return token, nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[token]
	if !ok {
		return nil, ErrNoSession
	}
	if s.now().After(e.expires) {
		delete(s.entries, token)
		return nil, ErrNoSession
	}
	sess := e.sess
	return &sess, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
	return nil
}

// NewStore picks the Redis store when a client is available and the memory
// store otherwise.
func NewStore(rdb *redis.Client, ttl time.Duration) Store {
	if rdb == nil {
		return NewMemoryStore(ttl)
	}
	return NewRedisStore(rdb, ttl)
}
