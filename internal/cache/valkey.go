package cache

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type ValkeyClient struct {
	client       *redis.Client
	usersHashKey string
}

const matchListTTL = 30 * time.Second

func NewValkeyClient() (*ValkeyClient, error) {
	addr := os.Getenv("VALKEY_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	password := os.Getenv("VALKEY_PASSWORD")
	usersHashKey := os.Getenv("VALKEY_USERS_HASH_KEY")
	if usersHashKey == "" {
		usersHashKey = "users:auth"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{
		client:       rdb,
		usersHashKey: usersHashKey,
	}, nil
}

// GetUserIDByAuth resolves Basic Auth credentials from the auth hash
// without touching the database.
func (v *ValkeyClient) GetUserIDByAuth(ctx context.Context, email, passwordHash string) (int64, error) {
	authString := fmt.Sprintf("%s:%s", email, passwordHash)
	cacheKey := base64.StdEncoding.EncodeToString([]byte(authString))

	userIDStr, err := v.client.HGet(ctx, v.usersHashKey, cacheKey).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, fmt.Errorf("user not found in cache")
		}
		return 0, fmt.Errorf("cache lookup error: %w", err)
	}

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID in cache: %w", err)
	}

	return userID, nil
}

// CacheUserAuth stores resolved credentials so the next Basic Auth
// lookup skips the database.
func (v *ValkeyClient) CacheUserAuth(ctx context.Context, email, passwordHash string, userID int64) error {
	authString := fmt.Sprintf("%s:%s", email, passwordHash)
	cacheKey := base64.StdEncoding.EncodeToString([]byte(authString))
	return v.client.HSet(ctx, v.usersHashKey, cacheKey, strconv.FormatInt(userID, 10)).Err()
}

func matchListKey(page, pageSize int) string {
	return fmt.Sprintf("matches:list:%d:%d", page, pageSize)
}

// GetMatchListRaw returns a cached match list page as raw JSON to avoid
// a decode/encode round trip in the handler.
func (v *ValkeyClient) GetMatchListRaw(ctx context.Context, page, pageSize int) ([]byte, error) {
	data, err := v.client.Get(ctx, matchListKey(page, pageSize)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("match list not in cache")
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return data, nil
}

// SetMatchList stores a match list page with a short TTL.
func (v *ValkeyClient) SetMatchList(ctx context.Context, page, pageSize int, list interface{}) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal match list: %w", err)
	}
	return v.client.Set(ctx, matchListKey(page, pageSize), data, matchListTTL).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
