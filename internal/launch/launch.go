// Package launch drives one agent launch end to end: resolve the
// requested pair against the capability matrix, fetch and vet the
// launcher script, then execute it with bounded retry.
package launch

import (
	"context"
	"fmt"
	"os"

	"github.com/OpenRouterTeam/spawn-sub007/internal/executor"
	"github.com/OpenRouterTeam/spawn-sub007/internal/manifest"
	"github.com/OpenRouterTeam/spawn-sub007/internal/resolve"
	"github.com/OpenRouterTeam/spawn-sub007/internal/script"
)

// NotSupportedError reports a pair whose matrix entry is not
// implemented. The identifiers are valid; the combination is not
// available yet.
type NotSupportedError struct {
	Agent string
	Cloud string
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("%s is not yet supported on %s; run 'spawn list' to see available combinations", e.Agent, e.Cloud)
}

// Service wires the pipeline stages together. Zero-value fields fall
// back to production defaults.
type Service struct {
	Manifest   *manifest.Store
	Downloader *script.Downloader
	Executor   *executor.Executor

	// Warnf receives transient warnings (mirror fallback, retry
	// notices are emitted by the executor itself).
	Warnf func(format string, args ...any)

	// BaseEnv supplies the environment inherited by the launcher
	// script. Defaults to os.Environ.
	BaseEnv func() []string

	// URLs overrides script URL derivation, for tests.
	URLs func(cloud, agent string) (primary, fallback string)
}

// Options select what to launch.
type Options struct {
	Agent        string
	Cloud        string
	ForceRefresh bool
}

// Result describes a completed launch.
type Result struct {
	Agent        string
	Cloud        string
	UsedFallback bool
}

// Run executes the full pipeline. Identifier and matrix problems are
// reported before any script download or subprocess activity.
func (s *Service) Run(ctx context.Context, opts Options) (*Result, error) {
	// Shape problems are reported before the manifest is even loaded.
	if err := resolve.ValidateIdentifier(opts.Agent); err != nil {
		return nil, err
	}
	if err := resolve.ValidateIdentifier(opts.Cloud); err != nil {
		return nil, err
	}

	m, err := s.Manifest.Load(ctx, opts.ForceRefresh)
	if err != nil {
		return nil, err
	}

	agent, cloud, err := resolve.ResolvePair(m, opts.Agent, opts.Cloud)
	if err != nil {
		return nil, err
	}
	if m.Status(cloud, agent) != manifest.StatusImplemented {
		return nil, &NotSupportedError{Agent: agent, Cloud: cloud}
	}

	primary, fallback := s.urls(cloud, agent)
	content, usedFallback, err := s.downloader().DownloadWithFallback(ctx, primary, fallback)
	if err != nil {
		return nil, err
	}
	if usedFallback {
		s.warnf("primary script source unavailable, using mirror")
	}

	if err := script.Validate(content); err != nil {
		return nil, err
	}

	env := append(s.baseEnv(),
		"SPAWN_AGENT="+agent,
		"SPAWN_CLOUD="+cloud,
	)
	if err := s.executor().Execute(ctx, content, env); err != nil {
		return nil, err
	}

	return &Result{Agent: agent, Cloud: cloud, UsedFallback: usedFallback}, nil
}

func (s *Service) urls(cloud, agent string) (string, string) {
	if s.URLs != nil {
		return s.URLs(cloud, agent)
	}
	return script.URLs(cloud, agent)
}

func (s *Service) downloader() *script.Downloader {
	if s.Downloader != nil {
		return s.Downloader
	}
	return &script.Downloader{}
}

func (s *Service) executor() *executor.Executor {
	if s.Executor != nil {
		return s.Executor
	}
	return executor.New()
}

func (s *Service) baseEnv() []string {
	if s.BaseEnv != nil {
		return s.BaseEnv()
	}
	return os.Environ()
}

func (s *Service) warnf(format string, args ...any) {
	if s.Warnf != nil {
		s.Warnf(format, args...)
	}
}
