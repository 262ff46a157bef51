package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/OpenRouterTeam/spawn-sub007/internal/cache"
	"github.com/OpenRouterTeam/spawn-sub007/internal/config"
)

func releaseServer(t *testing.T, tag string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/OpenRouterTeam/spawn/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tag_name": "` + tag + `", "html_url": "https://github.com/OpenRouterTeam/spawn/releases/tag/` + tag + `"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func useTempCache(t *testing.T) {
	t.Helper()
	cache.SetDir(t.TempDir())
	t.Cleanup(cache.ResetDir)
}

func TestCheckNewerVersionAvailable(t *testing.T) {
	useTempCache(t)
	srv := releaseServer(t, "v1.4.0", nil)

	c := &Checker{BaseURL: srv.URL}
	notice, err := c.Check(context.Background(), "1.2.0")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if notice == nil {
		t.Fatal("expected an upgrade notice")
	}
	if notice.LatestVersion != "1.4.0" {
		t.Errorf("LatestVersion = %q, want %q", notice.LatestVersion, "1.4.0")
	}
	if notice.CurrentVersion != "1.2.0" {
		t.Errorf("CurrentVersion = %q", notice.CurrentVersion)
	}
}

func TestCheckUpToDate(t *testing.T) {
	useTempCache(t)
	srv := releaseServer(t, "v1.2.0", nil)

	c := &Checker{BaseURL: srv.URL}
	notice, err := c.Check(context.Background(), "1.2.0")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if notice != nil {
		t.Fatalf("expected no notice, got %+v", notice)
	}
}

func TestCheckUsesDailyCache(t *testing.T) {
	useTempCache(t)
	var hits atomic.Int32
	srv := releaseServer(t, "v2.0.0", &hits)

	c := &Checker{BaseURL: srv.URL}
	if _, err := c.Check(context.Background(), "1.0.0"); err != nil {
		t.Fatalf("first Check: %v", err)
	}
	notice, err := c.Check(context.Background(), "1.0.0")
	if err != nil {
		t.Fatalf("second Check: %v", err)
	}
	if notice == nil || notice.LatestVersion != "2.0.0" {
		t.Fatalf("cached notice = %+v", notice)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("API hit %d times, want 1", got)
	}
}

func TestCheckDisabledByEnv(t *testing.T) {
	useTempCache(t)
	t.Setenv(config.EnvNoUpdateCheck, "1")
	var hits atomic.Int32
	srv := releaseServer(t, "v9.9.9", &hits)

	c := &Checker{BaseURL: srv.URL}
	notice, err := c.Check(context.Background(), "1.0.0")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if notice != nil {
		t.Fatalf("disabled check produced notice %+v", notice)
	}
	if hits.Load() != 0 {
		t.Error("disabled check hit the API")
	}
}

func TestCheckDevBuildSkipped(t *testing.T) {
	useTempCache(t)
	var hits atomic.Int32
	srv := releaseServer(t, "v9.9.9", &hits)

	c := &Checker{BaseURL: srv.URL}
	notice, err := c.Check(context.Background(), "dev")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if notice != nil || hits.Load() != 0 {
		t.Error("dev builds should skip the check")
	}
}

func TestVersionLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"1.0.0", "1.0.1", true},
		{"1.0.0", "1.1.0", true},
		{"1.9.0", "2.0.0", true},
		{"1.2.3", "1.2.3", false},
		{"2.0.0", "1.9.9", false},
		{"1.2", "1.2.1", true},
		{"1.2.3-rc1", "1.2.4", true},
	}
	for _, tt := range tests {
		if got := versionLess(tt.a, tt.b); got != tt.want {
			t.Errorf("versionLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
