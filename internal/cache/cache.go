// Package cache provides a small file-backed JSON cache keyed by name,
// with freshness decided by file modification time.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var dirOverride string

// SetDir overrides the cache directory, for tests.
func SetDir(dir string) {
	dirOverride = dir
}

// ResetDir restores the default cache directory resolution.
func ResetDir() {
	dirOverride = ""
}

// Dir returns the directory cache entries live in, creating it if needed.
func Dir() (string, error) {
	if dirOverride != "" {
		return dirOverride, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolving cache directory: %w", err)
	}
	dir := filepath.Join(base, "spawn")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}
	return dir, nil
}

func entryPath(key string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, key+".json"), nil
}

// Get loads the cached value for key into dest if the entry exists and
// its file is younger than maxAge. The second return reports a hit.
func Get(key string, dest any, maxAge time.Duration) (bool, error) {
	path, err := entryPath(key)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if time.Since(info.ModTime()) > maxAge {
		return false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// Corrupt entries are treated as misses so callers refetch.
		return false, nil
	}
	return true, nil
}

// Set writes value as the cached entry for key.
func Set(key string, value any) error {
	path, err := entryPath(key)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache entry %q: %w", key, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".cache-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Invalidate removes the cached entry for key if present.
func Invalidate(key string) error {
	path, err := entryPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
