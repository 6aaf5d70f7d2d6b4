package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const resetCodeKeyPrefix = "password-reset:"

// RedisResetCodeStore keeps password-reset codes in Redis, letting the
// TTL handle expiry.
type RedisResetCodeStore struct {
	client *redis.Client
}

var _ ResetCodeStore = (*RedisResetCodeStore)(nil)

// NewRedisResetCodeStore creates a new RedisResetCodeStore instance.
func NewRedisResetCodeStore(client *redis.Client) *RedisResetCodeStore {
	return &RedisResetCodeStore{client: client}
}

func (s *RedisResetCodeStore) Set(ctx context.Context, code string, userID uuid.UUID, ttl time.Duration) error {
	return s.client.Set(ctx, resetCodeKeyPrefix+code, userID.String(), ttl).Err()
}

func (s *RedisResetCodeStore) Get(ctx context.Context, code string) (uuid.UUID, error) {
	val, err := s.client.Get(ctx, resetCodeKeyPrefix+code).Result()
	if err == redis.Nil {
		return uuid.Nil, ErrInvalidResetCode
	}
	if err != nil {
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, ErrInvalidResetCode
	}
	return userID, nil
}

func (s *RedisResetCodeStore) Delete(ctx context.Context, code string) error {
	return s.client.Del(ctx, resetCodeKeyPrefix+code).Err()
}
