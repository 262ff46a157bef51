package audit

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/OpenRouterTeam/spawn-sub007/internal/auditlog"
	"github.com/OpenRouterTeam/spawn-sub007/internal/database"
)

func useTempDB(t *testing.T) {
	t.Helper()
	database.SetPath(filepath.Join(t.TempDir(), "spawn.db"))
	t.Cleanup(database.ResetPath)
}

func seedEntries(t *testing.T) {
	t.Helper()
	repo, err := auditlog.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer repo.Close()

	entries := []*auditlog.Record{
		{Command: "launch", Agent: "claude", Cloud: "hetzner", Outcome: auditlog.OutcomeSuccess, DurationMs: 900},
		{Command: "server destroy", Cloud: "hetzner", ResourceID: "42", Outcome: auditlog.OutcomeError, Detail: "rate limited"},
	}
	for _, e := range entries {
		if err := repo.Append(context.Background(), e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
}

func TestListCommandTable(t *testing.T) {
	useTempDB(t)
	seedEntries(t)

	cmd := ListCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	got := out.String()
	for _, want := range []string{"launch", "claude", "server destroy", "rate limited", "42"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestListCommandEmpty(t *testing.T) {
	useTempDB(t)

	cmd := ListCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), "No audit entries found.") {
		t.Errorf("output = %q", out.String())
	}
}

func TestPruneCommand(t *testing.T) {
	useTempDB(t)

	repo, err := auditlog.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	old := &auditlog.Record{Command: "launch", Outcome: auditlog.OutcomeSuccess, Timestamp: time.Now().Add(-40 * 24 * time.Hour).UTC()}
	if err := repo.Append(context.Background(), old); err != nil {
		t.Fatalf("Append: %v", err)
	}
	repo.Close()

	cmd := PruneCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--older-than", "30d"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), "Removed 1 audit entries.") {
		t.Errorf("output = %q", out.String())
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{input: "30d", want: 30 * 24 * time.Hour},
		{input: "72h", want: 72 * time.Hour},
		{input: "90m", want: 90 * time.Minute},
		{input: "-5h", wantErr: true},
		{input: "xd", wantErr: true},
		{input: "soon", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseDuration(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseDuration(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDuration(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
