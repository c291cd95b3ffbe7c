// Package config loads the daemon configuration from a config file,
// environment variables, and defaults.
package config

import "time"

// Config represents the complete daemon configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	MPD     MPDConfig     `mapstructure:"mpd"`
	Library LibraryConfig `mapstructure:"library"`
	Storage StorageConfig `mapstructure:"storage"`
	History HistoryConfig `mapstructure:"history"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig contains the HTTP and socket transport settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// MPDConfig contains the playback engine connection settings.
type MPDConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
}

// LibraryConfig contains catalog scan settings.
type LibraryConfig struct {
	// Roots are the directories the filesystem scanner walks. When
	// empty, the catalog is built from the MPD database instead.
	Roots []string `mapstructure:"roots"`
	// MinDuration drops files shorter than this many seconds.
	MinDuration int `mapstructure:"min_duration"`
	// Watch enables automatic rescans when the roots change.
	Watch bool `mapstructure:"watch"`
	// WatchSettle is how many seconds of quiet precede a rescan.
	WatchSettle int `mapstructure:"watch_settle"`
}

// StorageConfig contains persistence settings.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// HistoryConfig contains listening history settings.
type HistoryConfig struct {
	// RecentCap bounds the persisted recency list.
	RecentCap int `mapstructure:"recent_cap"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Addr returns the host:port pair the transport listens on.
func (s *ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// SettleDuration returns the watcher settle time as a duration.
func (l *LibraryConfig) SettleDuration() time.Duration {
	return time.Duration(l.WatchSettle) * time.Second
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 3000,
		},
		MPD: MPDConfig{
			Host: "localhost",
			Port: 6600,
		},
		Library: LibraryConfig{
			MinDuration: 60,
			Watch:       true,
			WatchSettle: 5,
		},
		Storage: StorageConfig{
			DBPath: "data/isai.db",
		},
		History: HistoryConfig{
			RecentCap: 100,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
