package app

import "errors"

// DefaultListenAddr is where the socket.io server listens unless told otherwise.
const DefaultListenAddr = ":8085"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string // hcl file or directory with editor settings

	// Serve mode.
	ListenAddr string

	// Drive mode. When DrivePath is set the app replays the script against
	// URL instead of serving.
	DrivePath string
	URL       string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

// Driving reports whether the app runs in drive mode.
func (c *Config) Driving() bool {
	return c.DrivePath != ""
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.Driving() {
		if cfg.URL == "" {
			return nil, errors.New("URL is required when a drive script is given")
		}
		return &cfg, nil
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	return &cfg, nil
}
