// Package executor runs vetted launcher payloads as subprocesses and
// retries outcomes known to be transient connection-layer failures.
package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"time"
)

const (
	defaultMaxAttempts  = 3
	defaultBaseInterval = 5 * time.Second
	defaultMaxInterval  = 10 * time.Second

	// retryableExitCode is the conventional connection-layer failure
	// status (unreachable or not-yet-ready remote host). It is the only
	// exit code the executor ever retries.
	retryableExitCode = 255
)

// exitCodeRe extracts the numeric exit code embedded in a failure
// message, matching both "exit status N" and "exited with status N".
var exitCodeRe = regexp.MustCompile(`exit(?:ed)?(?:\s+with)?\s+(?:status|code)\s+(\d+)`)

// ExitError is the failure outcome of one payload run.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("script exited with status %d", e.Code)
}

// IsRetryableExitCode reports whether a failure message embeds exit code
// 255. Every other code, including 0 (not a failure), and any
// message with no parseable code is non-retryable.
func IsRetryableExitCode(message string) bool {
	m := exitCodeRe.FindStringSubmatch(message)
	if m == nil {
		return false
	}
	code, err := strconv.Atoi(m[1])
	if err != nil {
		return false
	}
	return code == retryableExitCode
}

// RetryState tracks one retry loop. It is mutated in place across
// attempts and never persisted.
type RetryState struct {
	Attempt         int
	MaxAttempts     int
	CurrentInterval time.Duration
	MaxInterval     time.Duration
}

// Advance moves to the next attempt, doubling the wait up to MaxInterval.
func (s *RetryState) Advance() {
	s.Attempt++
	s.CurrentInterval *= 2
	if s.CurrentInterval > s.MaxInterval {
		s.CurrentInterval = s.MaxInterval
	}
}

// Runner executes payload content once and reports its exit outcome.
type Runner interface {
	Run(ctx context.Context, content []byte, env []string) error
}

// Executor drives the retry loop around a Runner. Zero-value fields fall
// back to production defaults; tests inject a stub Runner and an
// immediate Sleep.
type Executor struct {
	Runner Runner

	// Sleep waits between attempts; it returns false when the context
	// was cancelled mid-wait. Nil uses a wall-clock timer.
	Sleep func(ctx context.Context, d time.Duration) bool

	// Warnf receives one transient warning per retry. Nil discards.
	Warnf func(format string, args ...any)

	MaxAttempts  int
	BaseInterval time.Duration
	MaxInterval  time.Duration
}

// New returns an executor with production defaults.
func New() *Executor {
	return &Executor{Runner: &bashRunner{}}
}

// Execute runs the payload, retrying connection-layer failures with an
// increasing delay. Non-retryable failures surface immediately; a
// retryable failure is surfaced only once the attempt budget is spent.
func (e *Executor) Execute(ctx context.Context, content []byte, env []string) error {
	state := &RetryState{
		Attempt:         1,
		MaxAttempts:     e.maxAttempts(),
		CurrentInterval: e.baseInterval(),
		MaxInterval:     e.maxInterval(),
	}

	for {
		err := e.runner().Run(ctx, content, env)
		if err == nil {
			return nil
		}

		if !IsRetryableExitCode(err.Error()) || state.Attempt >= state.MaxAttempts {
			return err
		}

		e.warnf("Connection failed (attempt %d of %d); retrying in %s...",
			state.Attempt, state.MaxAttempts, state.CurrentInterval)

		if !e.sleep(ctx, state.CurrentInterval) {
			return ctx.Err()
		}
		state.Advance()
	}
}

func (e *Executor) runner() Runner {
	if e.Runner != nil {
		return e.Runner
	}
	return &bashRunner{}
}

func (e *Executor) maxAttempts() int {
	if e.MaxAttempts > 0 {
		return e.MaxAttempts
	}
	return defaultMaxAttempts
}

func (e *Executor) baseInterval() time.Duration {
	if e.BaseInterval > 0 {
		return e.BaseInterval
	}
	return defaultBaseInterval
}

func (e *Executor) maxInterval() time.Duration {
	if e.MaxInterval > 0 {
		return e.MaxInterval
	}
	return defaultMaxInterval
}

func (e *Executor) warnf(format string, args ...any) {
	if e.Warnf != nil {
		e.Warnf(format, args...)
	}
}

func (e *Executor) sleep(ctx context.Context, d time.Duration) bool {
	if e.Sleep != nil {
		return e.Sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// bashRunner writes the payload to a private temp file and executes it
// with bash, inheriting the caller's terminal.
type bashRunner struct{}

func (bashRunner) Run(ctx context.Context, content []byte, env []string) error {
	tmp, err := os.CreateTemp("", "spawn-launcher-*.sh")
	if err != nil {
		return fmt.Errorf("failed to stage launcher script: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to stage launcher script: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to stage launcher script: %w", err)
	}
	if err := os.Chmod(path, 0o700); err != nil {
		return fmt.Errorf("failed to stage launcher script: %w", err)
	}

	cmd := exec.CommandContext(ctx, "bash", path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), env...)

	err = cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// Killed by a signal (e.g. Ctrl+C); no exit code to parse,
			// so the retry policy never fires.
			return fmt.Errorf("script terminated by signal: %w", err)
		}
		return &ExitError{Code: code}
	}
	return fmt.Errorf("failed to run script: %w", err)
}
