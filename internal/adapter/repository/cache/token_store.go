package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/staco-app/directory-service/internal/directory/usecase"
)

// TokenStore keeps pending email-verification tokens in redis with a
// TTL, so an unused token expires on its own.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) SaveVerification(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, "verify:"+token, userID, ttl).Err()
}

// ConsumeVerification returns the user id the token was issued for and
// deletes it, so a verification link works exactly once.
func (s *TokenStore) ConsumeVerification(ctx context.Context, token string) (string, error) {
	userID, err := s.client.GetDel(ctx, "verify:"+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", usecase.ErrTokenNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}
