package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTokenNotFound is returned when a verification token is absent, expired,
// or already consumed.
var ErrTokenNotFound = errors.New("verification token not found")

const verificationKeyPrefix = "admin_verify:"

// VerificationTokenStore issues and consumes single-use email verification
// tokens bound to an admin account id.
type VerificationTokenStore interface {
	Issue(ctx context.Context, adminID string) (string, error)
	// Consume returns the bound admin id and deletes the token. A second call
	// with the same token fails with ErrTokenNotFound.
	Consume(ctx context.Context, token string) (string, error)
}

type redisVerificationTokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewVerificationTokenStore returns a Redis-backed store. Expiry is handled by
// the key TTL, so expired tokens read as absent.
func NewVerificationTokenStore(client *redis.Client, ttl time.Duration) VerificationTokenStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisVerificationTokenStore{client: client, ttl: ttl}
}

func (s *redisVerificationTokenStore) Issue(ctx context.Context, adminID string) (string, error) {
	token, err := generateVerificationToken()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, verificationKeyPrefix+token, adminID, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *redisVerificationTokenStore) Consume(ctx context.Context, token string) (string, error) {
	adminID, err := s.client.GetDel(ctx, verificationKeyPrefix+token).Result()
	if err == redis.Nil {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", err
	}
	return adminID, nil
}

func generateVerificationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
