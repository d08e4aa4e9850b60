package app

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home        string        // config directory, e.g. $HOME/.peerpass
	RelayURL    string        // relay websocket URL; empty means in-process pub/sub
	Interval    time.Duration // broadcast interval
	Discovery   bool          // attempt topic discovery at startup
	MetricsAddr string        // daemon metrics listen address; empty disables
}

// Load reads config.yaml from home (creating home if needed), applying
// defaults for anything unset. A missing config file is not an error.
func Load(home string) (Config, error) {
	if home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return Config{}, err
		}
		home = filepath.Join(dir, ".peerpass")
	}
	if err := os.MkdirAll(home, 0o700); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetDefault("relay_url", "")
	v.SetDefault("broadcast_interval", "5s")
	v.SetDefault("discovery", true)
	v.SetDefault("metrics_addr", "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(home)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	return Config{
		Home:        home,
		RelayURL:    v.GetString("relay_url"),
		Interval:    v.GetDuration("broadcast_interval"),
		Discovery:   v.GetBool("discovery"),
		MetricsAddr: v.GetString("metrics_addr"),
	}, nil
}

// VaultPath returns the vault file location under the config home.
func (c Config) VaultPath() string { return filepath.Join(c.Home, "vault.enc") }

// BlocksDir returns the block store directory under the config home.
func (c Config) BlocksDir() string { return filepath.Join(c.Home, "blocks") }
