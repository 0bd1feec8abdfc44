package config

// APIConfig defines the HTTP surface of the serve command.
type APIConfig struct {
	// Address the JSON API listens on.
	Address string `json:"address"`
	// Token, when set, is required as a bearer token on API requests.
	Token string `json:"token"`
	// PrometheusAddress serves /metrics on its own listener. Empty
	// disables the listener.
	PrometheusAddress string `json:"prometheus_address"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
}
