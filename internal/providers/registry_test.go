package providers

import (
	"context"
	"strings"
	"testing"

	"github.com/OpenRouterTeam/spawn-sub007/internal/domain"
	"github.com/OpenRouterTeam/spawn-sub007/internal/services/auth"
)

// stubProvider satisfies the capability contract for registry tests.
type stubProvider struct{ id string }

func (s stubProvider) ID() string                            { return s.id }
func (s stubProvider) DisplayName() string                   { return s.id }
func (s stubProvider) Authenticate(context.Context) error    { return nil }
func (s stubProvider) EnsureSSHKey(ctx context.Context, name, publicKey string) (string, error) {
	return "1", nil
}
func (s stubProvider) Provision(ctx context.Context, name string, cfg domain.CloudProviderConfig) (*domain.ServerInfo, error) {
	return &domain.ServerInfo{ID: "1", Name: name, Cloud: s.id}, nil
}
func (s stubProvider) WaitReady(context.Context, *domain.ServerInfo) error { return nil }
func (s stubProvider) Run(ctx context.Context, server *domain.ServerInfo, command string) (string, error) {
	return "", nil
}
func (s stubProvider) Upload(ctx context.Context, server *domain.ServerInfo, localPath, remotePath string) error {
	return nil
}
func (s stubProvider) Interactive(ctx context.Context, server *domain.ServerInfo, command string) error {
	return nil
}
func (s stubProvider) Destroy(context.Context, *domain.ServerInfo) error { return nil }

func TestRegistry_RegisterAndGet(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("TestCloud", func(store auth.Store) (Provider, error) {
		return stubProvider{id: "testcloud"}, nil
	})

	p, err := Get("testcloud", auth.NewMockStore())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if p.ID() != "testcloud" {
		t.Errorf("ID = %q, want testcloud", p.ID())
	}

	// Lookup normalizes case and whitespace.
	if _, err := Get("  TESTCLOUD ", auth.NewMockStore()); err != nil {
		t.Errorf("normalized Get failed: %v", err)
	}
}

func TestRegistry_UnknownProvider(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	_, err := Get("nope", auth.NewMockStore())
	if err == nil || !strings.Contains(err.Error(), "unknown provider") {
		t.Fatalf("error = %v, want unknown provider", err)
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	factory := func(store auth.Store) (Provider, error) { return stubProvider{id: "dup"}, nil }
	Register("dup", factory)

	defer func() {
		if recover() == nil {
			t.Fatal("duplicate registration did not panic")
		}
	}()
	Register("dup", factory)
}

func TestRegistry_ListIsSorted(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	factory := func(store auth.Store) (Provider, error) { return stubProvider{}, nil }
	Register("zeta", factory)
	Register("alpha", factory)

	got := List()
	if len(got) != 2 || got[0] != "alpha" || got[1] != "zeta" {
		t.Errorf("List = %v, want [alpha zeta]", got)
	}
}
