package session

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding of the session record

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging
)

// DefaultRedisKey is the key holding the session record
const DefaultRedisKey = "wallet_console:session"

// RedisStore keeps the session record in Redis, for deployments where the
// console runs on shared or ephemeral machines.
type RedisStore struct {
	rdb *redis.Client // Redis client
	key string        // Key holding the record
}

// NewRedisStore creates a redis-backed store; an empty key uses the default
func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{rdb: rdb, key: key}
}

// Login writes the identity record. No TTL: the session lives until Logout.
func (s *RedisStore) Login(id Identity) error {
	b, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return s.rdb.Set(context.Background(), s.key, b, 0).Err()
}

// Logout deletes the record
func (s *RedisStore) Logout() error {
	return s.rdb.Del(context.Background(), s.key).Err()
}

// Current reads the record; a missing key or read failure counts as absent
func (s *RedisStore) Current() (Identity, bool) {
	val, err := s.rdb.Get(context.Background(), s.key).Result()
	if err == redis.Nil {
		return Identity{}, false // No session stored
	} else if err != nil {
		logrus.WithFields(logrus.Fields{
			"key":   s.key,
			"error": err.Error(),
		}).Warn("Session read failed")
		return Identity{}, false
	}
	var id Identity
	if err := json.Unmarshal([]byte(val), &id); err != nil {
		return Identity{}, false
	}
	if id.CustomerID == "" && !id.Admin {
		return Identity{}, false
	}
	return id, true
}
