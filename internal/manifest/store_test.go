package manifest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

const validPayload = `{
  "agents": {"claude": {"name": "Claude Code"}},
  "clouds": {"sprite": {"name": "Sprite"}},
  "matrix": {"sprite/claude": "implemented"}
}`

func newTestStore(t *testing.T, url string) *Store {
	t.Helper()
	return &Store{
		URL:       url,
		CachePath: filepath.Join(t.TempDir(), "manifest.json"),
		Now:       time.Now,
	}
}

func countingServer(t *testing.T, payload string, status int, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestParse_RejectsMissingTopLevelKeys(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"all present", validPayload, false},
		{"all present but empty", `{"agents":{},"clouds":{},"matrix":{}}`, false},
		{"missing matrix", `{"agents":{},"clouds":{}}`, true},
		{"missing agents", `{"clouds":{},"matrix":{}}`, true},
		{"missing clouds", `{"agents":{},"matrix":{}}`, true},
		{"not json", `{agents`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.payload))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStatus_AbsentPairIsMissing(t *testing.T) {
	m, err := Parse([]byte(validPayload))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := m.Status("sprite", "claude"); got != StatusImplemented {
		t.Errorf("sprite/claude = %q, want implemented", got)
	}
	if got := m.Status("sprite", "codex"); got != StatusMissing {
		t.Errorf("sprite/codex = %q, want missing", got)
	}
	if got := m.Status("nonexistent", "claude"); got != StatusMissing {
		t.Errorf("nonexistent/claude = %q, want missing", got)
	}
}

func TestLoad_FetchWritesCacheAndSecondLoadSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := countingServer(t, validPayload, http.StatusOK, &hits)

	s := newTestStore(t, srv.URL)
	first, err := s.Load(context.Background(), false)
	if err != nil {
		t.Fatalf("first load failed: %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected 1 fetch, got %d", hits.Load())
	}
	if _, err := os.Stat(s.CachePath); err != nil {
		t.Fatalf("disk cache not written: %v", err)
	}

	// A fresh store pointed at the same cache must resolve from disk
	// without touching the network.
	s2 := &Store{URL: srv.URL, CachePath: s.CachePath, Now: time.Now}
	second, err := s2.Load(context.Background(), false)
	if err != nil {
		t.Fatalf("second load failed: %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("second load hit the network (%d fetches)", hits.Load())
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached manifest differs from fetched (-first +second):\n%s", diff)
	}
}

func TestLoad_MemoizedInstanceReusedUnlessForced(t *testing.T) {
	var hits atomic.Int32
	srv := countingServer(t, validPayload, http.StatusOK, &hits)

	s := newTestStore(t, srv.URL)
	if _, err := s.Load(context.Background(), false); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, err := s.Load(context.Background(), false); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("memoized load refetched (%d fetches)", hits.Load())
	}

	if _, err := s.Load(context.Background(), true); err != nil {
		t.Fatalf("forced load failed: %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("forced refresh did not refetch (%d fetches)", hits.Load())
	}
}

func TestLoad_NetworkFailureFallsBackToStaleCache(t *testing.T) {
	var hits atomic.Int32
	srv := countingServer(t, "unavailable", http.StatusServiceUnavailable, &hits)

	s := newTestStore(t, srv.URL)
	if err := os.WriteFile(s.CachePath, []byte(validPayload), 0o644); err != nil {
		t.Fatalf("failed to seed cache: %v", err)
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(s.CachePath, old, old); err != nil {
		t.Fatalf("failed to age cache: %v", err)
	}

	m, err := s.Load(context.Background(), false)
	if err != nil {
		t.Fatalf("load with stale cache failed: %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected refresh attempt for stale cache, got %d fetches", hits.Load())
	}
	if m.Status("sprite", "claude") != StatusImplemented {
		t.Error("stale cache content not returned")
	}
}

func TestLoad_MalformedFetchNeverPromoted(t *testing.T) {
	var hits atomic.Int32
	srv := countingServer(t, `{"agents":{}}`, http.StatusOK, &hits)

	s := newTestStore(t, srv.URL)
	if err := os.WriteFile(s.CachePath, []byte(validPayload), 0o644); err != nil {
		t.Fatalf("failed to seed cache: %v", err)
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(s.CachePath, old, old); err != nil {
		t.Fatalf("failed to age cache: %v", err)
	}

	m, err := s.Load(context.Background(), false)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, ok := m.Agents["claude"]; !ok {
		t.Error("expected stale cache content, got fetched malformed result")
	}

	data, err := os.ReadFile(s.CachePath)
	if err != nil {
		t.Fatalf("failed to read cache: %v", err)
	}
	if string(data) != validPayload {
		t.Error("malformed fetch result was promoted to the disk cache")
	}
}

func TestLoad_SnapshotIsLastResort(t *testing.T) {
	s := newTestStore(t, "http://127.0.0.1:1")
	s.Snapshot = []byte(validPayload)

	m, err := s.Load(context.Background(), false)
	if err != nil {
		t.Fatalf("load with snapshot failed: %v", err)
	}
	if m.Status("sprite", "claude") != StatusImplemented {
		t.Error("snapshot content not returned")
	}
}

func TestLoad_NoSourceAnywhereFails(t *testing.T) {
	s := newTestStore(t, "http://127.0.0.1:1")

	_, err := s.Load(context.Background(), false)
	if !errors.Is(err, ErrNoManifest) {
		t.Fatalf("error = %v, want ErrNoManifest", err)
	}
}

func TestBundledSnapshotParses(t *testing.T) {
	m, err := Parse(bundledSnapshot)
	if err != nil {
		t.Fatalf("bundled snapshot is malformed: %v", err)
	}
	if m.Status("sprite", "claude") != StatusImplemented {
		t.Error("bundled snapshot missing sprite/claude")
	}
}
