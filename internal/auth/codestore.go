package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/apperr"
)

// CodeStore holds short-lived one-time exchange codes minted during the
// Google OAuth callback. Take consumes the code so it cannot be replayed.
type CodeStore interface {
	Put(ctx context.Context, code, payload string, ttl time.Duration) error
	Take(ctx context.Context, code string) (string, error)
}

type RedisCodeStore struct {
	client *redis.Client
	prefix string
}

func NewRedisCodeStore(client *redis.Client, prefix string) *RedisCodeStore {
	if prefix == "" {
		prefix = "authcode"
	}
	return &RedisCodeStore{client: client, prefix: prefix}
}

func (s *RedisCodeStore) key(code string) string {
	return fmt.Sprintf("%s:%s", s.prefix, code)
}

func (s *RedisCodeStore) Put(ctx context.Context, code, payload string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(code), payload, ttl).Err()
}

func (s *RedisCodeStore) Take(ctx context.Context, code string) (string, error) {
	payload, err := s.client.GetDel(ctx, s.key(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%w: code expired or already used", apperr.ErrUnauthorized)
		}
		return "", err
	}
	return payload, nil
}

// MemoryCodeStore is the in-process fallback used when Redis is not
// configured, and in tests.
type MemoryCodeStore struct {
	mu    sync.Mutex
	codes map[string]memoryCode
}

type memoryCode struct {
	payload   string
	expiresAt time.Time
}

func NewMemoryCodeStore() *MemoryCodeStore {
	return &MemoryCodeStore{codes: make(map[string]memoryCode)}
}

func (s *MemoryCodeStore) Put(_ context.Context, code, payload string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code] = memoryCode{payload: payload, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryCodeStore) Take(_ context.Context, code string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.codes[code]
	if ok {
		delete(s.codes, code)
	}
	if !ok || time.Now().After(entry.expiresAt) {
		return "", fmt.Errorf("%w: code expired or already used", apperr.ErrUnauthorized)
	}
	return entry.payload, nil
}
