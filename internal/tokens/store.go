package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Kind namespaces single-use tokens so a password reset token can never
// be replayed as an email verification token.
type Kind string

const (
	KindVerifyEmail   Kind = "verify_email"
	KindPasswordReset Kind = "password_reset"
)

// ErrTokenNotFound is returned when a token is unknown, expired or
// already consumed.
var ErrTokenNotFound = errors.New("token not found or expired")

// Store keeps single-use tokens in Redis with a TTL. Consuming a token
// deletes it atomically, so each token works at most once.
type Store struct {
	client *redis.Client
}

// NewStore creates a Store backed by the given Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func key(kind Kind, token string) string {
	return fmt.Sprintf("tokens:%s:%s", kind, token)
}

// Save associates token with userID for ttl.
func (s *Store) Save(ctx context.Context, kind Kind, token, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key(kind, token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save %s token: %w", kind, err)
	}
	return nil
}

// Consume looks up the token and removes it in one round trip,
// returning the associated user ID.
func (s *Store) Consume(ctx context.Context, kind Kind, token string) (string, error) {
	userID, err := s.client.GetDel(ctx, key(kind, token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to consume %s token: %w", kind, err)
	}
	return userID, nil
}
