package integration_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/rukshanyomal11/CeylonHomes/internal/app/apiapp"
	"github.com/rukshanyomal11/CeylonHomes/internal/config"
)

// Requires a local Postgres and Redis matching config.Default;
// skipped when they are unavailable.
func newTestApp(t *testing.T) *apiapp.App {
	t.Helper()

	cfg := config.Default()
	cfg.HTTP.Addr = ":0"

	app, err := apiapp.New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Skipf("backing services unavailable: %v", err)
	}
	return app
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)

	ts := httptest.NewServer(app.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", resp.StatusCode, http.StatusOK)
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Status != "ok" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestSellerRoutesRequireAuth(t *testing.T) {
	app := newTestApp(t)

	ts := httptest.NewServer(app.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/seller/listings")
	if err != nil {
		t.Fatalf("get seller listings: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}
