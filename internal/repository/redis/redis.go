package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// stringGetter is the slice of *redis.Client the token lookup needs.
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// TokenRepository resolves session tokens written by the auth service.
// Tokens are stored as "token:lookup:{token}" -> user id, with the session TTL.
type TokenRepository struct {
	client stringGetter
}

func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{
		client: client,
	}
}

func tokenLookupKey(token string) string {
	return fmt.Sprintf("token:lookup:%s", token)
}

// ValidateTokenFromRedis returns the user id bound to token.
func (r *TokenRepository) ValidateTokenFromRedis(ctx context.Context, token string) (string, error) {
	userID, err := r.client.Get(ctx, tokenLookupKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", errors.New("token not found or expired")
		}
		return "", fmt.Errorf("failed to validate token: %w", err)
	}

	return userID, nil
}
