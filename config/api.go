package config

// APIConfig defines settings for the HTTP API server.
type APIConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr"`
	// Token, when set, gates the audit endpoint behind a bearer token.
	Token string `json:"token"`
	// MetricsAddr, when set, serves Prometheus metrics on its own
	// listener.
	MetricsAddr string `json:"metrics_addr"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8000"
	}
}
