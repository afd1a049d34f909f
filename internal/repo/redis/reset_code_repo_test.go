package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	authsvc "github.com/rukshanyomal11/CeylonHomes/internal/services/auth"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestResetCodeConsumeIsSingleUse(t *testing.T) {
	_, client := newTestClient(t)
	repo := NewResetCodeRepo(client, 10*time.Minute)
	ctx := context.Background()

	if err := repo.Set(ctx, "Seller@Example.com", "123456"); err != nil {
		t.Fatalf("set code: %v", err)
	}

	if err := repo.Consume(ctx, "seller@example.com", "999999"); !errors.Is(err, authsvc.ErrCodeInvalid) {
		t.Fatalf("wrong code must be rejected, got %v", err)
	}
	if err := repo.Consume(ctx, "seller@example.com", "123456"); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if err := repo.Consume(ctx, "seller@example.com", "123456"); !errors.Is(err, authsvc.ErrCodeInvalid) {
		t.Fatalf("second consume must fail, got %v", err)
	}
}

func TestResetCodeExpires(t *testing.T) {
	mr, client := newTestClient(t)
	repo := NewResetCodeRepo(client, time.Minute)
	ctx := context.Background()

	if err := repo.Set(ctx, "seller@example.com", "123456"); err != nil {
		t.Fatalf("set code: %v", err)
	}

	mr.FastForward(61 * time.Second)

	if err := repo.Consume(ctx, "seller@example.com", "123456"); !errors.Is(err, authsvc.ErrCodeInvalid) {
		t.Fatalf("expired code must be rejected, got %v", err)
	}
}
