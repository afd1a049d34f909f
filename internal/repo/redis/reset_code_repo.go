package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	authsvc "github.com/rukshanyomal11/CeylonHomes/internal/services/auth"
)

const resetCodePrefix = "reset_code:"

// ResetCodeRepo holds password reset codes. A code lives for the
// configured TTL and is deleted on first successful consume.
type ResetCodeRepo struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewResetCodeRepo(client *goredis.Client, ttl time.Duration) *ResetCodeRepo {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ResetCodeRepo{client: client, ttl: ttl}
}

func (r *ResetCodeRepo) Set(ctx context.Context, email, code string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(email) == "" || strings.TrimSpace(code) == "" {
		return authsvc.ErrInvalidInput
	}

	if err := r.client.Set(ctx, resetCodeKey(email), code, r.ttl).Err(); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}
	return nil
}

func (r *ResetCodeRepo) Consume(ctx context.Context, email, code string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	stored, err := r.client.Get(ctx, resetCodeKey(email)).Result()
	if err == goredis.Nil {
		return authsvc.ErrCodeInvalid
	}
	if err != nil {
		return fmt.Errorf("load reset code: %w", err)
	}
	if stored != code {
		return authsvc.ErrCodeInvalid
	}

	if err := r.client.Del(ctx, resetCodeKey(email)).Err(); err != nil {
		return fmt.Errorf("delete reset code: %w", err)
	}
	return nil
}

func resetCodeKey(email string) string {
	return resetCodePrefix + strings.ToLower(strings.TrimSpace(email))
}
