package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type payload struct {
	Version string `json:"version"`
	Count   int    `json:"count"`
}

func useTempDir(t *testing.T) {
	t.Helper()
	SetDir(t.TempDir())
	t.Cleanup(ResetDir)
}

func TestSetThenGet(t *testing.T) {
	useTempDir(t)

	want := payload{Version: "1.2.3", Count: 4}
	if err := Set("update", want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got payload
	hit, err := Get("update", &got, time.Hour)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cached payload mismatch (-want +got):\n%s", diff)
	}
}

func TestGetMissingKey(t *testing.T) {
	useTempDir(t)

	var got payload
	hit, err := Get("absent", &got, time.Hour)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Fatal("expected miss for absent key")
	}
}

func TestGetExpiredEntry(t *testing.T) {
	dir := t.TempDir()
	SetDir(dir)
	t.Cleanup(ResetDir)

	if err := Set("update", payload{Version: "1.0.0"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "update.json"), old, old); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	var got payload
	hit, err := Get("update", &got, time.Hour)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Fatal("expected expired entry to miss")
	}
}

func TestGetCorruptEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	SetDir(dir)
	t.Cleanup(ResetDir)

	if err := os.WriteFile(filepath.Join(dir, "update.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var got payload
	hit, err := Get("update", &got, time.Hour)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Fatal("expected corrupt entry to miss")
	}
}

func TestInvalidate(t *testing.T) {
	useTempDir(t)

	if err := Set("update", payload{Version: "1.0.0"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := Invalidate("update"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	var got payload
	hit, err := Get("update", &got, time.Hour)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Fatal("expected miss after invalidation")
	}
	if err := Invalidate("update"); err != nil {
		t.Fatalf("Invalidate on absent key: %v", err)
	}
}
