package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Load reads the configuration. Values resolve in order: environment
// variables (ISAI_ prefix), the config file, then defaults. A missing
// config file is not an error; path, when non-empty, names an explicit
// file and must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("isai")
	v.SetConfigType("toml")
	v.AddConfigPath("$HOME/.config/isai/")
	v.AddConfigPath(".")

	v.SetEnvPrefix("isai")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("server.host", defaults.Server.Host)
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("mpd.host", defaults.MPD.Host)
	v.SetDefault("mpd.port", defaults.MPD.Port)
	v.SetDefault("mpd.password", "")
	v.SetDefault("library.roots", []string{})
	v.SetDefault("library.min_duration", defaults.Library.MinDuration)
	v.SetDefault("library.watch", defaults.Library.Watch)
	v.SetDefault("library.watch_settle", defaults.Library.WatchSettle)
	v.SetDefault("storage.db_path", defaults.Storage.DBPath)
	v.SetDefault("history.recent_cap", defaults.History.RecentCap)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.pretty", defaults.Log.Pretty)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks configuration values that would otherwise fail at
// runtime.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.MPD.Port <= 0 || c.MPD.Port > 65535 {
		return fmt.Errorf("invalid mpd port: %d", c.MPD.Port)
	}
	if c.Library.MinDuration < 0 {
		return fmt.Errorf("invalid min duration: %d", c.Library.MinDuration)
	}
	return nil
}

func joinHostPort(host string, port int) string {
	return host + ":" + strconv.Itoa(port)
}
