package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config identifies the app against the hosted chat service and sets
// the few local knobs the client has. Everything durable lives on the
// service side, so this is all there is.
type Config struct {
	AppID   string `yaml:"app_id"`
	Region  string `yaml:"region"`
	AuthKey string `yaml:"auth_key"`

	// PresenceSubscription asks the service to push presence for all
	// users during init.
	PresenceSubscription bool `yaml:"presence_subscription"`

	// APIBase and SocketBase override the endpoints derived from
	// app id + region. Mostly for self-hosted or test backends.
	APIBase    string `yaml:"api_base"`
	SocketBase string `yaml:"socket_base"`

	// LogFile receives structured logs; the terminal belongs to the UI.
	LogFile string `yaml:"log_file"`
}

func defaults() *Config {
	return &Config{
		Region:               "us",
		PresenceSubscription: true,
		LogFile:              "chatterm.log",
	}
}

// Load builds the configuration from defaults, then the YAML file at
// path (absence of the file is not an error), then environment
// overrides, in that order.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("CHATTERM_APP_ID"); v != "" {
		cfg.AppID = v
	}
	if v := os.Getenv("CHATTERM_REGION"); v != "" {
		cfg.Region = v
	}
	if v := os.Getenv("CHATTERM_AUTH_KEY"); v != "" {
		cfg.AuthKey = v
	}
	if v := os.Getenv("CHATTERM_API_BASE"); v != "" {
		cfg.APIBase = v
	}
	if v := os.Getenv("CHATTERM_SOCKET_BASE"); v != "" {
		cfg.SocketBase = v
	}
	if v := os.Getenv("CHATTERM_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("CHATTERM_PRESENCE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.PresenceSubscription = b
		}
	}

	return cfg, nil
}

// Validate checks the fields without which the service cannot be
// reached at all.
func (c *Config) Validate() error {
	if c.AppID == "" {
		return fmt.Errorf("app_id is required (set CHATTERM_APP_ID or the config file)")
	}
	if c.AuthKey == "" {
		return fmt.Errorf("auth_key is required (set CHATTERM_AUTH_KEY or the config file)")
	}
	return nil
}
