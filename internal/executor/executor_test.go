package executor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// scriptedRunner fails with the queued errors in order, then succeeds.
type scriptedRunner struct {
	failures []error
	runs     int
}

func (r *scriptedRunner) Run(ctx context.Context, content []byte, env []string) error {
	r.runs++
	if len(r.failures) == 0 {
		return nil
	}
	err := r.failures[0]
	r.failures = r.failures[1:]
	return err
}

func instantSleep(ctx context.Context, d time.Duration) bool { return true }

func newTestExecutor(r Runner, warnings *[]string) *Executor {
	return &Executor{
		Runner: r,
		Sleep:  instantSleep,
		Warnf: func(format string, args ...any) {
			*warnings = append(*warnings, fmt.Sprintf(format, args...))
		},
	}
}

func TestIsRetryableExitCode(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"script exited with status 255", true},
		{"exit status 255", true},
		{"script exited with status 0", false},
		{"script exited with status 1", false},
		{"script exited with status 2", false},
		{"script exited with status 126", false},
		{"script exited with status 127", false},
		{"script exited with status 130", false},
		{"connection reset by peer", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsRetryableExitCode(tt.message); got != tt.want {
			t.Errorf("IsRetryableExitCode(%q) = %v, want %v", tt.message, got, tt.want)
		}
	}
}

func TestExecute_SuccessNoRetryBookkeeping(t *testing.T) {
	var warnings []string
	r := &scriptedRunner{}
	e := newTestExecutor(r, &warnings)

	if err := e.Execute(context.Background(), []byte("#!/bin/sh\necho ok\n"), nil); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if r.runs != 1 {
		t.Errorf("runs = %d, want 1", r.runs)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
}

func TestExecute_RetriesOn255ThenSucceeds(t *testing.T) {
	var warnings []string
	r := &scriptedRunner{failures: []error{&ExitError{Code: 255}}}
	e := newTestExecutor(r, &warnings)

	if err := e.Execute(context.Background(), nil, nil); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if r.runs != 2 {
		t.Errorf("runs = %d, want 2", r.runs)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly 1", warnings)
	}
}

func TestExecute_ExhaustionEmitsMaxAttemptsMinusOneWarnings(t *testing.T) {
	var warnings []string
	r := &scriptedRunner{failures: []error{
		&ExitError{Code: 255}, &ExitError{Code: 255}, &ExitError{Code: 255},
	}}
	e := newTestExecutor(r, &warnings)

	err := e.Execute(context.Background(), nil, nil)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 255 {
		t.Fatalf("error = %v, want final 255 failure", err)
	}
	if r.runs != 3 {
		t.Errorf("runs = %d, want 3 (attempt budget)", r.runs)
	}
	if len(warnings) != 2 {
		t.Errorf("warnings = %d, want maxAttempts-1 = 2", len(warnings))
	}
}

func TestExecute_NonRetryableFailsFirstAttempt(t *testing.T) {
	var warnings []string
	r := &scriptedRunner{failures: []error{&ExitError{Code: 1}}}
	e := newTestExecutor(r, &warnings)

	err := e.Execute(context.Background(), nil, nil)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("error = %v, want exit 1", err)
	}
	if r.runs != 1 {
		t.Errorf("runs = %d, want 1", r.runs)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
}

func TestRetryState_AdvanceDoublesUpToCap(t *testing.T) {
	s := &RetryState{Attempt: 1, MaxAttempts: 4, CurrentInterval: 5 * time.Second, MaxInterval: 10 * time.Second}

	s.Advance()
	if s.Attempt != 2 || s.CurrentInterval != 10*time.Second {
		t.Errorf("after first advance: %+v", s)
	}
	s.Advance()
	if s.Attempt != 3 || s.CurrentInterval != 10*time.Second {
		t.Errorf("interval exceeded cap: %+v", s)
	}
}

func TestBashRunner_RunsMinimalScript(t *testing.T) {
	var r bashRunner
	if err := r.Run(context.Background(), []byte("#!/bin/sh\ntrue\n"), nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}

func TestBashRunner_ReportsExitCode(t *testing.T) {
	var r bashRunner
	err := r.Run(context.Background(), []byte("#!/bin/sh\nexit 7\n"), nil)

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want *ExitError", err)
	}
	if exitErr.Code != 7 {
		t.Errorf("code = %d, want 7", exitErr.Code)
	}
}
