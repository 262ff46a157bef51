package domain

// ServerInfo is the canonical result of provisioning, independent of the
// cloud vendor that created it. Providers map their heterogeneous API
// responses into this shape.
type ServerInfo struct {
	// ID is the vendor-native server identifier, kept as a string so
	// numeric and UUID-style ids travel through the same field.
	ID   string `json:"id"`
	Name string `json:"name"`

	// IP is the public IPv4 address used for SSH access.
	IP string `json:"ip"`

	// User is the vendor's default login account (e.g. "root").
	User string `json:"user"`

	// Cloud is the vendor id the server belongs to (e.g. "hetzner").
	Cloud string `json:"cloud"`
}

// Address returns the user@host form used for SSH invocations.
func (s ServerInfo) Address() string {
	return s.User + "@" + s.IP
}
