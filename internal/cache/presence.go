package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PresenceStore mirrors online/offline state into Redis so processes other
// than the one holding the socket can answer presence queries.
// Keys: presence:<kind>:<id> -> json {status,last_seen}
type PresenceStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

type presenceRecord struct {
	Status   string `json:"status"`
	LastSeen int64  `json:"last_seen"`
}

func NewPresenceStore(client *redis.Client, prefix string, ttl time.Duration) *PresenceStore {
	if prefix == "" {
		prefix = "presence"
	}
	return &PresenceStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *PresenceStore) key(channel string) string {
	return fmt.Sprintf("%s:%s", s.prefix, channel)
}

func (s *PresenceStore) SetPresence(ctx context.Context, channel string, online bool) error {
	rec := presenceRecord{Status: "offline", LastSeen: time.Now().Unix()}
	if online {
		rec.Status = "online"
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	ttl := s.ttl
	if !online {
		// keep last_seen around, presence reads fall back to offline on miss
		ttl = 24 * time.Hour
	}
	return s.client.Set(ctx, s.key(channel), b, ttl).Err()
}

// GetPresence returns the status string and last-seen time. A missing key
// reads as offline with a zero last-seen.
func (s *PresenceStore) GetPresence(ctx context.Context, channel string) (string, time.Time, error) {
	b, err := s.client.Get(ctx, s.key(channel)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "offline", time.Time{}, nil
		}
		return "", time.Time{}, err
	}
	var rec presenceRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return "", time.Time{}, err
	}
	return rec.Status, time.Unix(rec.LastSeen, 0), nil
}
