package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	authsvc "github.com/rukshanyomal11/CeylonHomes/internal/services/auth"
)

func TestSessionRoundTrip(t *testing.T) {
	_, client := newTestClient(t)
	repo := NewSessionRepo(client)
	ctx := context.Background()

	record := authsvc.SessionRecord{
		SID:       "sid-1",
		UserID:    42,
		Role:      "SELLER",
		Email:     "seller@example.com",
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
	}
	if err := repo.Create(ctx, record, "refresh-1"); err != nil {
		t.Fatalf("create session: %v", err)
	}

	got, err := repo.GetSession(ctx, "sid-1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.UserID != 42 || got.Role != "SELLER" || got.Email != "seller@example.com" {
		t.Fatalf("unexpected session: %+v", got)
	}

	byRefresh, err := repo.GetByRefreshToken(ctx, "refresh-1")
	if err != nil {
		t.Fatalf("get by refresh: %v", err)
	}
	if byRefresh.SID != "sid-1" {
		t.Fatalf("unexpected session by refresh: %+v", byRefresh)
	}
}

func TestSessionRotateRefreshInvalidatesOldToken(t *testing.T) {
	_, client := newTestClient(t)
	repo := NewSessionRepo(client)
	ctx := context.Background()

	record := authsvc.SessionRecord{
		SID:       "sid-1",
		UserID:    42,
		Role:      "SELLER",
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
	}
	if err := repo.Create(ctx, record, "refresh-old"); err != nil {
		t.Fatalf("create session: %v", err)
	}

	newExpiry := time.Now().Add(2 * time.Hour).UTC()
	if err := repo.RotateRefresh(ctx, "sid-1", "refresh-old", "refresh-new", newExpiry); err != nil {
		t.Fatalf("rotate refresh: %v", err)
	}

	if _, err := repo.GetByRefreshToken(ctx, "refresh-old"); !errors.Is(err, authsvc.ErrRefreshNotFound) {
		t.Fatalf("old refresh token must be invalid, got %v", err)
	}
	if got, err := repo.GetByRefreshToken(ctx, "refresh-new"); err != nil || got.SID != "sid-1" {
		t.Fatalf("new refresh token must resolve: session=%+v err=%v", got, err)
	}
}

func TestDeleteAllForUserDropsEverySession(t *testing.T) {
	_, client := newTestClient(t)
	repo := NewSessionRepo(client)
	ctx := context.Background()

	expires := time.Now().Add(time.Hour).UTC()
	for i, sid := range []string{"sid-1", "sid-2"} {
		record := authsvc.SessionRecord{SID: sid, UserID: 42, Role: "SELLER", ExpiresAt: expires}
		if err := repo.Create(ctx, record, "refresh-"+sid); err != nil {
			t.Fatalf("create session #%d: %v", i+1, err)
		}
	}

	if err := repo.DeleteAllForUser(ctx, 42); err != nil {
		t.Fatalf("delete all: %v", err)
	}

	for _, sid := range []string{"sid-1", "sid-2"} {
		if _, err := repo.GetSession(ctx, sid); !errors.Is(err, authsvc.ErrSessionNotFound) {
			t.Fatalf("session %s must be gone, got %v", sid, err)
		}
	}
}
