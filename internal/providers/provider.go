// Package providers implements the cloud capability contract: every
// vendor exposes the same eight operations, selected through an explicit
// registry keyed by vendor id.
package providers

import (
	"context"

	"github.com/OpenRouterTeam/spawn-sub007/internal/domain"
)

// Provider is the fixed capability contract each cloud vendor implements.
// Implementations own their authentication context for the lifetime of
// one instance and are not safe for concurrent provisioning unless the
// vendor API itself tolerates it.
type Provider interface {
	// ID returns the vendor id used in the registry and the manifest.
	ID() string

	// DisplayName returns the human-readable vendor name.
	DisplayName() string

	// Authenticate performs a lightweight authenticated read purely to
	// validate the stored token.
	Authenticate(ctx context.Context) error

	// EnsureSSHKey registers publicKey under name unless a key with
	// that name already exists, and returns the vendor key id either
	// way. It must never re-register an existing key.
	EnsureSSHKey(ctx context.Context, name, publicKey string) (string, error)

	// Provision creates a server and maps the vendor response into the
	// canonical ServerInfo shape.
	Provision(ctx context.Context, name string, cfg domain.CloudProviderConfig) (*domain.ServerInfo, error)

	// WaitReady blocks until the server accepts SSH connections.
	WaitReady(ctx context.Context, server *domain.ServerInfo) error

	// Run executes a command on the server and returns its output.
	Run(ctx context.Context, server *domain.ServerInfo, command string) (string, error)

	// Upload copies a local file onto the server.
	Upload(ctx context.Context, server *domain.ServerInfo, localPath, remotePath string) error

	// Interactive attaches the caller's terminal to a command on the
	// server.
	Interactive(ctx context.Context, server *domain.ServerInfo, command string) error

	// Destroy deletes the server by its vendor-native id.
	Destroy(ctx context.Context, server *domain.ServerInfo) error
}
