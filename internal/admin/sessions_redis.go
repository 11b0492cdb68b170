package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sopiautomobile/lead-platform/pkg/logging"
)

const redisSessionPrefix = "admin_session:"

// RedisStore keeps sessions in Redis so they survive restarts and are
// shared when the API runs more than one replica.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewRedisStore creates a Redis-backed session store. A zero ttl falls
// back to DefaultSessionTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration, logger *logging.Logger) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisStore{client: client, ttl: ttl, logger: logger}
}

// Create mints a fresh session token.
func (s *RedisStore) Create(ctx context.Context) (string, error) {
	token, err := newSessionToken()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, redisSessionPrefix+token, "1", s.ttl).Err(); err != nil {
		return "", fmt.Errorf("admin: store session: %w", err)
	}
	return token, nil
}

// Validate reports whether the token belongs to a live session. A Redis
// outage fails closed: no session can be validated, admins see 401.
func (s *RedisStore) Validate(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	n, err := s.client.Exists(ctx, redisSessionPrefix+token).Result()
	if err != nil {
		s.logger.Error("session lookup failed", "error", err)
		return false
	}
	return n == 1
}

// Destroy revokes the session.
func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, redisSessionPrefix+token).Err(); err != nil {
		return fmt.Errorf("admin: destroy session: %w", err)
	}
	return nil
}

var _ SessionStore = (*RedisStore)(nil)
