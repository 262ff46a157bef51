package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/OpenRouterTeam/spawn-sub007/internal/httpjson"
)

const (
	// DefaultURL is the well-known location of the published manifest.
	DefaultURL = "https://raw.githubusercontent.com/OpenRouterTeam/spawn/main/manifest.json"

	// FreshFor is the disk cache freshness window. Entries older than
	// this trigger a refresh attempt but remain usable as a fallback
	// indefinitely.
	FreshFor = time.Hour

	fetchTimeout = 15 * time.Second

	appDir    = "spawn"
	cacheFile = "manifest.json"
)

// ErrNoManifest is returned only when no usable manifest exists anywhere:
// network, disk cache, and bundled snapshot all failed.
var ErrNoManifest = errors.New("cannot load manifest")

// Store loads and memoizes the capability matrix. The zero value is not
// usable; construct with NewStore. The fetch URL, HTTP client, clock, and
// cache path are all injectable so tests can build independent instances.
type Store struct {
	URL        string
	CachePath  string
	HTTPClient *http.Client
	Now        func() time.Time

	// Snapshot is the bundled fallback used when both network and disk
	// cache are unavailable. Empty disables the fallback.
	Snapshot []byte

	mu     sync.Mutex
	cached *Manifest
	group  singleflight.Group
}

// NewStore returns a store with production defaults: the published
// manifest URL, the per-user cache file, and the embedded snapshot.
func NewStore() *Store {
	return &Store{
		URL:       DefaultURL,
		CachePath: defaultCachePath(),
		Now:       time.Now,
		Snapshot:  bundledSnapshot,
	}
}

// Load resolves a manifest. Resolution order: in-memory instance (unless
// forced), fresh disk cache (unless forced), network, stale disk cache,
// bundled snapshot. It fails with ErrNoManifest only when every source is
// exhausted.
func (s *Store) Load(ctx context.Context, forceRefresh bool) (*Manifest, error) {
	if !forceRefresh {
		s.mu.Lock()
		if m := s.cached; m != nil {
			s.mu.Unlock()
			return m, nil
		}
		s.mu.Unlock()

		if m, ok := s.readCache(true); ok {
			s.remember(m)
			return m, nil
		}
	}

	// Concurrent loads collapse into one refresh; every caller gets the
	// same resolution.
	v, err, _ := s.group.Do("manifest", func() (any, error) {
		return s.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Manifest), nil
}

// refresh attempts a network fetch and falls back through progressively
// staler sources.
func (s *Store) refresh(ctx context.Context) (*Manifest, error) {
	m, fetchErr := s.fetch(ctx)
	if fetchErr == nil {
		s.writeCache(m)
		s.remember(m)
		return m, nil
	}

	if m, ok := s.readCache(false); ok {
		s.remember(m)
		return m, nil
	}

	if len(s.Snapshot) > 0 {
		if m, err := Parse(s.Snapshot); err == nil {
			s.remember(m)
			return m, nil
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrNoManifest, fetchErr)
}

func (s *Store) fetch(ctx context.Context) (*Manifest, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	client := &httpjson.Client{BaseURL: s.URL, HTTPClient: s.HTTPClient}
	resp, err := client.Request(ctx, http.MethodGet, "", nil)
	if err != nil {
		return nil, err
	}
	return Parse(resp.Data)
}

func (s *Store) remember(m *Manifest) {
	s.mu.Lock()
	s.cached = m
	s.mu.Unlock()
}

// readCache parses the disk cache file. With freshOnly set, entries whose
// mtime falls outside the freshness window count as absent. An unreadable
// or malformed cache is always treated as absent, never as an error.
func (s *Store) readCache(freshOnly bool) (*Manifest, bool) {
	if s.CachePath == "" {
		return nil, false
	}

	info, err := os.Stat(s.CachePath)
	if err != nil {
		return nil, false
	}
	if freshOnly {
		now := time.Now
		if s.Now != nil {
			now = s.Now
		}
		if now().After(info.ModTime().Add(FreshFor)) {
			return nil, false
		}
	}

	data, err := os.ReadFile(s.CachePath)
	if err != nil {
		return nil, false
	}
	m, err := Parse(data)
	if err != nil {
		return nil, false
	}
	return m, true
}

// writeCache overwrites the disk cache wholesale. Concurrent invocations
// may race; the last successful writer wins.
func (s *Store) writeCache(m *Manifest) {
	if s.CachePath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.CachePath), 0o755); err != nil {
		return
	}

	data, err := json.Marshal(m)
	if err != nil {
		return
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.CachePath), cacheFile+".tmp-*")
	if err != nil {
		return
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(name)
		return
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return
	}
	_ = os.Rename(name, s.CachePath)
}

func defaultCachePath() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, appDir, cacheFile)
}
