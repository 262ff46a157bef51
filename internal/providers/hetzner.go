package providers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/OpenRouterTeam/spawn-sub007/internal/domain"
	"github.com/OpenRouterTeam/spawn-sub007/internal/retry"
	"github.com/OpenRouterTeam/spawn-sub007/internal/services/auth"
)

const (
	hetznerDefaultServerType = "cpx11"
	hetznerDefaultImage      = "ubuntu-24.04"
	hetznerDefaultUser       = "root"
)

// Compile-time check that HetznerProvider satisfies the capability contract.
var _ Provider = (*HetznerProvider)(nil)

// HetznerProvider implements the capability contract via the Hetzner
// Cloud SDK, with SSH for in-server operations.
type HetznerProvider struct {
	client   *hcloud.Client
	ssh      sshClient
	defaults domain.CloudProviderConfig
}

// NewHetznerProvider creates a provider from cfg. Token is required;
// the optional fields become provisioning defaults. Further hcloud
// client options (e.g. a test endpoint) may be appended.
func NewHetznerProvider(cfg domain.CloudProviderConfig, opts ...hcloud.ClientOption) *HetznerProvider {
	clientOpts := []hcloud.ClientOption{
		hcloud.WithApplication("spawn", "0.1.0"),
		hcloud.WithToken(cfg.Token),
	}
	return &HetznerProvider{
		client:   hcloud.NewClient(append(clientOpts, opts...)...),
		ssh:      newSSHClient(nil),
		defaults: cfg,
	}
}

// RegisterHetzner registers the Hetzner factory with the global registry.
func RegisterHetzner() {
	Register("hetzner", func(store auth.Store) (Provider, error) {
		token, err := auth.ResolveToken(store, "hetzner")
		if err != nil {
			return nil, fmt.Errorf("hetzner auth: %w (set %s or run 'spawn auth login hetzner')", err, auth.EnvVar("hetzner"))
		}
		return NewHetznerProvider(domain.CloudProviderConfig{Token: token}), nil
	})
}

func (h *HetznerProvider) ID() string          { return "hetzner" }
func (h *HetznerProvider) DisplayName() string { return "Hetzner Cloud" }

// Authenticate lists servers purely to validate the token.
func (h *HetznerProvider) Authenticate(ctx context.Context) error {
	if _, err := h.client.Server.All(ctx); err != nil {
		return fmt.Errorf("hetzner: authentication failed, verify your token: %w (%v)", domain.ErrUnauthorized, err)
	}
	return nil
}

// EnsureSSHKey looks the key up by name first; an existing key is reused,
// never re-registered.
func (h *HetznerProvider) EnsureSSHKey(ctx context.Context, name, publicKey string) (string, error) {
	existing, _, err := h.client.SSHKey.GetByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("hetzner: failed to look up SSH key %q: %w", name, err)
	}
	if existing != nil {
		return strconv.FormatInt(existing.ID, 10), nil
	}

	created, _, err := h.client.SSHKey.Create(ctx, hcloud.SSHKeyCreateOpts{
		Name:      name,
		PublicKey: publicKey,
	})
	if err != nil {
		return "", fmt.Errorf("hetzner: failed to register SSH key %q: %w", name, err)
	}
	return strconv.FormatInt(created.ID, 10), nil
}

// Provision creates a server and maps the response into ServerInfo.
func (h *HetznerProvider) Provision(ctx context.Context, name string, cfg domain.CloudProviderConfig) (*domain.ServerInfo, error) {
	serverType := orDefault(cfg.ServerType, orDefault(h.defaults.ServerType, hetznerDefaultServerType))
	image := orDefault(cfg.Image, orDefault(h.defaults.Image, hetznerDefaultImage))
	region := orDefault(cfg.Region, h.defaults.Region)
	publicKey := orDefault(cfg.SSHPublicKey, h.defaults.SSHPublicKey)

	opts := hcloud.ServerCreateOpts{
		Name:       name,
		ServerType: &hcloud.ServerType{Name: serverType},
		Image:      &hcloud.Image{Name: image},
	}
	if region != "" {
		opts.Location = &hcloud.Location{Name: region}
	}
	if publicKey != "" {
		keyID, err := h.EnsureSSHKey(ctx, "spawn-"+name, publicKey)
		if err != nil {
			return nil, err
		}
		id, err := strconv.ParseInt(keyID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("hetzner: unexpected SSH key id %q: %w", keyID, err)
		}
		opts.SSHKeys = append(opts.SSHKeys, &hcloud.SSHKey{ID: id})
	}

	result, _, err := h.client.Server.Create(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("hetzner: failed to create server: %w", err)
	}

	server := result.Server
	info := &domain.ServerInfo{
		ID:    strconv.FormatInt(server.ID, 10),
		Name:  server.Name,
		User:  hetznerDefaultUser,
		Cloud: "hetzner",
	}
	if !server.PublicNet.IPv4.IsUnspecified() {
		info.IP = server.PublicNet.IPv4.IP.String()
		return info, nil
	}

	// The create response occasionally omits the address while the
	// server is still initializing; poll until it appears.
	err = retry.Do(ctx, retry.PollConfig(), func(error) bool { return true }, func() error {
		current, _, err := h.client.Server.GetByID(ctx, server.ID)
		if err != nil {
			return err
		}
		if current == nil || current.PublicNet.IPv4.IsUnspecified() {
			return fmt.Errorf("server %d has no public address yet", server.ID)
		}
		info.IP = current.PublicNet.IPv4.IP.String()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("hetzner: server %s never received a public address: %w", info.ID, err)
	}
	return info, nil
}

func (h *HetznerProvider) WaitReady(ctx context.Context, server *domain.ServerInfo) error {
	return h.ssh.waitReady(ctx, server)
}

func (h *HetznerProvider) Run(ctx context.Context, server *domain.ServerInfo, command string) (string, error) {
	return h.ssh.run(ctx, server, command)
}

func (h *HetznerProvider) Upload(ctx context.Context, server *domain.ServerInfo, localPath, remotePath string) error {
	return h.ssh.upload(ctx, server, localPath, remotePath)
}

func (h *HetznerProvider) Interactive(ctx context.Context, server *domain.ServerInfo, command string) error {
	return h.ssh.interactive(ctx, server, command)
}

// Destroy deletes the server by its numeric Hetzner id.
func (h *HetznerProvider) Destroy(ctx context.Context, server *domain.ServerInfo) error {
	id, err := strconv.ParseInt(server.ID, 10, 64)
	if err != nil {
		return fmt.Errorf("hetzner: invalid server id %q: %w", server.ID, err)
	}

	if _, _, err := h.client.Server.DeleteWithResult(ctx, &hcloud.Server{ID: id}); err != nil {
		return fmt.Errorf("Failed to destroy server %s: %w", server.ID, err)
	}
	return nil
}
