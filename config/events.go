package config

// EventsConfig defines settings for the NATS event bridge.
type EventsConfig struct {
	// Enabled turns the bridge on. The in-process bus runs regardless.
	Enabled bool `json:"enabled"`
	// NATSURL is the server to publish to.
	NATSURL string `json:"nats_url"`
	// SubjectPrefix is the first token of every published subject. Empty
	// selects the default.
	SubjectPrefix string `json:"subject_prefix"`
}

// SetDefaults applies sane defaults.
func (c *EventsConfig) SetDefaults() {
	if c.NATSURL == "" {
		c.NATSURL = "nats://127.0.0.1:4222"
	}
}
