// Package auth resolves cloud vendor credentials. Tokens come from a
// per-vendor environment variable when set, falling back to the OS
// keychain entry written by 'spawn auth login'.
package auth

import (
	"errors"
	"os"
	"strings"

	"github.com/OpenRouterTeam/spawn-sub007/internal/util"
)

const ServiceName = "spawn"

var ErrTokenNotFound = errors.New("auth token not found")

// Store persists per-vendor API tokens.
type Store interface {
	SetToken(cloud string, token string) error
	GetToken(cloud string) (string, error)
	DeleteToken(cloud string) error
}

// DefaultStore returns the standard auth store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// NormalizeCloud normalizes a cloud vendor name for consistent key lookup.
func NormalizeCloud(cloud string) string {
	return util.NormalizeKey(cloud)
}

// envVars maps cloud ids to the credential environment variable each
// vendor's users already export.
var envVars = map[string]string{
	"hetzner":      "HETZNER_API_TOKEN",
	"digitalocean": "DIGITALOCEAN_TOKEN",
	"vultr":        "VULTR_API_KEY",
	"linode":       "LINODE_TOKEN",
}

// EnvVar returns the credential environment variable for a cloud, or an
// uppercased "<CLOUD>_API_TOKEN" fallback for clouds without a
// conventional name.
func EnvVar(cloud string) string {
	key := NormalizeCloud(cloud)
	if v, ok := envVars[key]; ok {
		return v
	}
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_")) + "_API_TOKEN"
}

// ResolveToken finds a vendor token, preferring the environment variable
// over the keychain so CI and one-off overrides win without touching
// stored credentials.
func ResolveToken(store Store, cloud string) (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvVar(cloud))); v != "" {
		return v, nil
	}
	if store == nil {
		return "", ErrTokenNotFound
	}
	return store.GetToken(cloud)
}
