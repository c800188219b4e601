package main

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// ClientConfig holds CLI defaults read from the user's config file. Flags and
// environment variables take precedence over values found here.
type ClientConfig struct {
	ServerURL string `toml:"server_url"`
	AuthToken string `toml:"auth_token,omitempty"`
	NATSURL   string `toml:"nats_url,omitempty"`
}

func clientConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "fleetboard", "config.toml"), nil
}

// Cached config file values, loaded once per process.
var (
	configOnce   sync.Once
	cachedConfig ClientConfig
)

func loadClientConfigOnce() {
	configOnce.Do(func() {
		path, err := clientConfigPath()
		if err != nil {
			return
		}
		// A missing or unreadable file just means no defaults.
		_, _ = toml.DecodeFile(path, &cachedConfig)
	})
}

func configServerURL() string { loadClientConfigOnce(); return cachedConfig.ServerURL }
func configAuthToken() string { loadClientConfigOnce(); return cachedConfig.AuthToken }
func configNATSURL() string   { loadClientConfigOnce(); return cachedConfig.NATSURL }
