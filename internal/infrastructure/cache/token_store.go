package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-therapy-platform/pkg/jwt"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// TokenStore tracks issued tokens so they can be revoked before expiry.
// A token is valid only while its key exists.
type TokenStore interface {
	Save(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

// tokenKey formats keys as "<type>_token:<user id>:<token id>".
func tokenKey(tokenType jwt.TokenType, userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s_token:%s:%s", tokenType, userID.String(), tokenID)
}

func userTokenPatterns(userID uuid.UUID) []string {
	return []string{
		fmt.Sprintf("%s_token:%s:*", jwt.AccessToken, userID.String()),
		fmt.Sprintf("%s_token:%s:*", jwt.RefreshToken, userID.String()),
	}
}

type redisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

func (s *redisTokenStore) Save(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, tokenKey(tokenType, userID, tokenID), "valid", ttl).Err()
}

func (s *redisTokenStore) Exists(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, tokenKey(tokenType, userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisTokenStore) Revoke(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) error {
	return s.client.Del(ctx, tokenKey(tokenType, userID, tokenID)).Err()
}

func (s *redisTokenStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	for _, pattern := range userTokenPatterns(userID) {
		iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

// memoryTokenStore keeps tokens in process memory. Used when no redis host
// is configured (single instance deployments, tests).
type memoryTokenStore struct {
	cache *gocache.Cache
}

func NewMemoryTokenStore(cleanupInterval time.Duration) TokenStore {
	return &memoryTokenStore{cache: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (s *memoryTokenStore) Save(_ context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	s.cache.Set(tokenKey(tokenType, userID, tokenID), "valid", ttl)
	return nil
}

func (s *memoryTokenStore) Exists(_ context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) (bool, error) {
	_, found := s.cache.Get(tokenKey(tokenType, userID, tokenID))
	return found, nil
}

func (s *memoryTokenStore) Revoke(_ context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) error {
	s.cache.Delete(tokenKey(tokenType, userID, tokenID))
	return nil
}

func (s *memoryTokenStore) RevokeAll(_ context.Context, userID uuid.UUID) error {
	for _, pattern := range userTokenPatterns(userID) {
		prefix := strings.TrimSuffix(pattern, "*")
		for key := range s.cache.Items() {
			if strings.HasPrefix(key, prefix) {
				s.cache.Delete(key)
			}
		}
	}
	return nil
}
