// Package sshkeys locates and validates the SSH public key registered
// with cloud providers before provisioning.
package sshkeys

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CommonPaths lists the public key locations probed when no key path
// is configured, most preferred first.
func CommonPaths() []string {
	return []string{
		"~/.ssh/id_ed25519.pub",
		"~/.ssh/id_rsa.pub",
		"~/.ssh/id_ecdsa.pub",
	}
}

// ExpandHomePath expands a leading ~/ to the user's home directory.
func ExpandHomePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}

	return path, nil
}

// Locate returns the validated public key to use. A non-empty
// configured path wins; otherwise the common locations are probed in
// order.
func Locate(configuredPath string) (string, error) {
	if configuredPath != "" {
		expanded, err := ExpandHomePath(configuredPath)
		if err != nil {
			return "", err
		}
		return ReadAndValidatePublicKey(expanded)
	}

	for _, candidate := range CommonPaths() {
		expanded, err := ExpandHomePath(candidate)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(expanded); err != nil {
			continue
		}
		return ReadAndValidatePublicKey(expanded)
	}

	return "", fmt.Errorf("no SSH public key found; generate one with 'ssh-keygen -t ed25519' or set ssh_public_key_path in the config file")
}

// ReadAndValidatePublicKey reads a public key from disk and validates it.
func ReadAndValidatePublicKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read SSH key file: %w", err)
	}

	publicKey := strings.TrimSpace(string(data))
	if publicKey == "" {
		return "", fmt.Errorf("SSH key file is empty")
	}

	return ValidatePublicKey(publicKey)
}

// ValidatePublicKey performs basic validation on an SSH public key string.
func ValidatePublicKey(publicKey string) (string, error) {
	publicKey = strings.TrimSpace(publicKey)
	if publicKey == "" {
		return "", fmt.Errorf("SSH key cannot be empty")
	}

	if strings.Contains(publicKey, "PRIVATE KEY") {
		return "", fmt.Errorf("file appears to contain a private key; please provide the public key (.pub file)")
	}

	validPrefixes := []string{"ssh-rsa", "ssh-ed25519", "ssh-dss", "ecdsa-sha2-"}
	isValid := false
	for _, prefix := range validPrefixes {
		if strings.HasPrefix(publicKey, prefix) {
			isValid = true
			break
		}
	}

	if !isValid {
		return "", fmt.Errorf("file does not appear to be a valid SSH public key (expected ssh-rsa, ssh-ed25519, or ecdsa-sha2-*)")
	}

	return publicKey, nil
}

// KeyName returns the provider-side name used when registering the
// key, derived from the local hostname.
func KeyName() string {
	if hostname, err := os.Hostname(); err == nil {
		name := strings.TrimSpace(hostname)
		if name != "" {
			return "spawn-" + name
		}
	}

	return "spawn-key"
}
