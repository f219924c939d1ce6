package config

// ServerConfig defines configuration for the HTTP server
type ServerConfig struct {
	ListenAddr          string  `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty" validate:"required"`
	CallbackToken       string  `json:"callback_token,omitempty" yaml:"callback_token,omitempty"`
	ReadTimeoutSecs     int     `json:"read_timeout_secs,omitempty" yaml:"read_timeout_secs,omitempty" validate:"omitempty,gt=0"`
	ShutdownTimeoutSecs int     `json:"shutdown_timeout_secs,omitempty" yaml:"shutdown_timeout_secs,omitempty" validate:"omitempty,gt=0"`
	RateLimitPerSecond  float64 `json:"rate_limit_per_second,omitempty" yaml:"rate_limit_per_second,omitempty" validate:"omitempty,gte=0"`
	RateLimitBurst      int     `json:"rate_limit_burst,omitempty" yaml:"rate_limit_burst,omitempty" validate:"omitempty,gte=0"`
}

// NewDefaultServerConfig creates default server configuration.
// Rate limiting is disabled until a positive rate is configured.
func NewDefaultServerConfig() ServerConfig {
	return ServerConfig{
		ListenAddr:          DefaultListenAddr,
		ReadTimeoutSecs:     DefaultReadTimeoutSecs,
		ShutdownTimeoutSecs: DefaultShutdownTimeoutSecs,
	}
}
