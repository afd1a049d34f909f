package apiapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	authsvc "github.com/rukshanyomal11/CeylonHomes/internal/services/auth"
)

func TestRequireRoleAllowsCaseInsensitiveMatch(t *testing.T) {
	mw := RequireRole("ADMIN")

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{
		UserID: 1,
		SID:    "sid-1",
		Role:   "admin",
	}))
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestRequireRoleRejectsForbiddenRole(t *testing.T) {
	mw := RequireRole("ADMIN")

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{
		UserID: 2,
		SID:    "sid-2",
		Role:   "SELLER",
	}))
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called for forbidden role")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusForbidden)
	}
}

func TestRequireRoleRequiresIdentity(t *testing.T) {
	mw := RequireRole("SELLER")

	req := httptest.NewRequest(http.MethodGet, "/seller/listings", nil)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called without identity")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{header: "Bearer abc", token: "abc", ok: true},
		{header: "bearer abc", token: "abc", ok: true},
		{header: "Bearer ", ok: false},
		{header: "Basic abc", ok: false},
		{header: "", ok: false},
	}

	for _, tt := range tests {
		token, ok := extractBearerToken(tt.header)
		if ok != tt.ok || token != tt.token {
			t.Fatalf("extractBearerToken(%q) = %q,%v", tt.header, token, ok)
		}
	}
}
