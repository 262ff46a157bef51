package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/OpenRouterTeam/spawn-sub007/internal/domain"
	"github.com/OpenRouterTeam/spawn-sub007/internal/httpjson"
	"github.com/OpenRouterTeam/spawn-sub007/internal/retry"
	"github.com/OpenRouterTeam/spawn-sub007/internal/services/auth"
)

const (
	digitalOceanBaseURL     = "https://api.digitalocean.com/v2"
	digitalOceanDefaultSize = "s-1vcpu-1gb"
	digitalOceanDefaultReg  = "nyc3"
	digitalOceanDefaultImg  = "ubuntu-24-04-x64"
	digitalOceanDefaultUser = "root"
)

var _ Provider = (*DigitalOceanProvider)(nil)

// DigitalOceanProvider implements the capability contract directly on the
// DigitalOcean REST API through the shared JSON client.
type DigitalOceanProvider struct {
	api      *httpjson.Client
	ssh      sshClient
	defaults domain.CloudProviderConfig
}

// NewDigitalOceanProvider creates a provider from cfg. Token is
// required; the optional fields become provisioning defaults.
func NewDigitalOceanProvider(cfg domain.CloudProviderConfig) *DigitalOceanProvider {
	return &DigitalOceanProvider{
		api:      httpjson.New(digitalOceanBaseURL, cfg.Token),
		ssh:      newSSHClient(nil),
		defaults: cfg,
	}
}

// RegisterDigitalOcean registers the DigitalOcean factory with the global
// registry.
func RegisterDigitalOcean() {
	Register("digitalocean", func(store auth.Store) (Provider, error) {
		token, err := auth.ResolveToken(store, "digitalocean")
		if err != nil {
			return nil, fmt.Errorf("digitalocean auth: %w (set %s or run 'spawn auth login digitalocean')", err, auth.EnvVar("digitalocean"))
		}
		return NewDigitalOceanProvider(domain.CloudProviderConfig{Token: token}), nil
	})
}

func (d *DigitalOceanProvider) ID() string          { return "digitalocean" }
func (d *DigitalOceanProvider) DisplayName() string { return "DigitalOcean" }

// --- API request/response types ---

type doSSHKey struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	PublicKey string `json:"public_key,omitempty"`
}

type doDroplet struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Networks struct {
		V4 []struct {
			IPAddress string `json:"ip_address"`
			Type      string `json:"type"`
		} `json:"v4"`
	} `json:"networks"`
}

func (d doDroplet) publicIPv4() string {
	for _, n := range d.Networks.V4 {
		if n.Type == "public" {
			return n.IPAddress
		}
	}
	return ""
}

// Authenticate reads the account purely to validate the token.
func (d *DigitalOceanProvider) Authenticate(ctx context.Context) error {
	if _, err := d.api.Request(ctx, http.MethodGet, "/account", nil); err != nil {
		return fmt.Errorf("digitalocean: authentication failed, verify your token: %w (%v)", domain.ErrUnauthorized, err)
	}
	return nil
}

// EnsureSSHKey is idempotent: an existing key with the same name is
// returned as-is, never re-registered.
func (d *DigitalOceanProvider) EnsureSSHKey(ctx context.Context, name, publicKey string) (string, error) {
	resp, err := d.api.Request(ctx, http.MethodGet, "/account/keys", nil)
	if err != nil {
		return "", fmt.Errorf("digitalocean: failed to list SSH keys: %w", err)
	}
	var listing struct {
		SSHKeys []doSSHKey `json:"ssh_keys"`
	}
	if err := resp.Decode(&listing); err != nil {
		return "", fmt.Errorf("digitalocean: unexpected key listing: %w", err)
	}
	for _, key := range listing.SSHKeys {
		if key.Name == name {
			return strconv.Itoa(key.ID), nil
		}
	}

	resp, err = d.api.Request(ctx, http.MethodPost, "/account/keys", doSSHKey{Name: name, PublicKey: publicKey})
	if err != nil {
		return "", fmt.Errorf("digitalocean: failed to register SSH key %q: %w", name, err)
	}
	var created struct {
		SSHKey doSSHKey `json:"ssh_key"`
	}
	if err := resp.Decode(&created); err != nil {
		return "", fmt.Errorf("digitalocean: unexpected key response: %w", err)
	}
	return strconv.Itoa(created.SSHKey.ID), nil
}

// Provision creates a droplet and polls until it has a public address;
// droplet creation returns before networking is assigned.
func (d *DigitalOceanProvider) Provision(ctx context.Context, name string, cfg domain.CloudProviderConfig) (*domain.ServerInfo, error) {
	publicKey := orDefault(cfg.SSHPublicKey, d.defaults.SSHPublicKey)
	body := map[string]any{
		"name":   name,
		"region": orDefault(cfg.Region, orDefault(d.defaults.Region, digitalOceanDefaultReg)),
		"size":   orDefault(cfg.ServerType, orDefault(d.defaults.ServerType, digitalOceanDefaultSize)),
		"image":  orDefault(cfg.Image, orDefault(d.defaults.Image, digitalOceanDefaultImg)),
	}
	if publicKey != "" {
		keyID, err := d.EnsureSSHKey(ctx, "spawn-"+name, publicKey)
		if err != nil {
			return nil, err
		}
		id, err := strconv.Atoi(keyID)
		if err != nil {
			return nil, fmt.Errorf("digitalocean: unexpected SSH key id %q: %w", keyID, err)
		}
		body["ssh_keys"] = []int{id}
	}

	resp, err := d.api.Request(ctx, http.MethodPost, "/droplets", body)
	if err != nil {
		return nil, fmt.Errorf("digitalocean: failed to create droplet: %w", classifyAPIError(err))
	}
	var created struct {
		Droplet doDroplet `json:"droplet"`
	}
	if err := resp.Decode(&created); err != nil {
		return nil, fmt.Errorf("digitalocean: unexpected droplet response: %w", err)
	}

	info := &domain.ServerInfo{
		ID:    strconv.Itoa(created.Droplet.ID),
		Name:  created.Droplet.Name,
		User:  digitalOceanDefaultUser,
		Cloud: "digitalocean",
	}
	if ip := created.Droplet.publicIPv4(); ip != "" {
		info.IP = ip
		return info, nil
	}

	err = retry.Do(ctx, retry.PollConfig(), func(error) bool { return true }, func() error {
		resp, err := d.api.Request(ctx, http.MethodGet, "/droplets/"+info.ID, nil)
		if err != nil {
			return err
		}
		var current struct {
			Droplet doDroplet `json:"droplet"`
		}
		if err := resp.Decode(&current); err != nil {
			return err
		}
		ip := current.Droplet.publicIPv4()
		if ip == "" {
			return fmt.Errorf("droplet %s has no public address yet", info.ID)
		}
		info.IP = ip
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("digitalocean: droplet %s never received a public address: %w", info.ID, err)
	}
	return info, nil
}

func (d *DigitalOceanProvider) WaitReady(ctx context.Context, server *domain.ServerInfo) error {
	return d.ssh.waitReady(ctx, server)
}

func (d *DigitalOceanProvider) Run(ctx context.Context, server *domain.ServerInfo, command string) (string, error) {
	return d.ssh.run(ctx, server, command)
}

func (d *DigitalOceanProvider) Upload(ctx context.Context, server *domain.ServerInfo, localPath, remotePath string) error {
	return d.ssh.upload(ctx, server, localPath, remotePath)
}

func (d *DigitalOceanProvider) Interactive(ctx context.Context, server *domain.ServerInfo, command string) error {
	return d.ssh.interactive(ctx, server, command)
}

// Destroy deletes the droplet, wrapping vendor errors with the server id.
func (d *DigitalOceanProvider) Destroy(ctx context.Context, server *domain.ServerInfo) error {
	if _, err := d.api.Request(ctx, http.MethodDelete, "/droplets/"+server.ID, nil); err != nil {
		return fmt.Errorf("Failed to destroy server %s: %w", server.ID, classifyAPIError(err))
	}
	return nil
}

// classifyAPIError maps vendor HTTP statuses onto the shared sentinel
// errors so callers can branch without parsing messages. The vendor
// message is preserved verbatim.
func classifyAPIError(err error) error {
	var api *httpjson.APIError
	if !errors.As(err, &api) {
		return err
	}
	switch api.Status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	case http.StatusConflict:
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	}
	return err
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
