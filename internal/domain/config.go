package domain

// CloudProviderConfig carries everything a provider needs to provision
// compute. Token is required; the remaining fields are optional and fall
// back to vendor-specific defaults.
type CloudProviderConfig struct {
	Token        string
	ServerType   string
	Region       string
	Image        string
	SSHPublicKey string
}
