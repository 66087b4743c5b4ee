package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Bounds for user-tunable polling settings. Values outside these
// ranges are clamped, never rejected.
const (
	MinPollIntervalSec = 30
	MaxPollIntervalSec = 3600

	MinPageSize = 1
	MaxPageSize = 50

	DefaultPollIntervalSec = 60
	DefaultPageSize        = 20
)

// Settings holds the runtime configuration of the notification watcher.
// The token lives in the system keyring, never in the config file, so
// it carries no mapstructure tag.
type Settings struct {
	// Token is the GitHub personal access token.
	Token string `mapstructure:"-" yaml:"-"`

	// PollIntervalSec is how often (in seconds) page 1 is refetched.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`

	// PageSize is the per_page value used for feed requests.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`
}

// ClampPollInterval normalizes an interval into [MinPollIntervalSec, MaxPollIntervalSec].
func ClampPollInterval(seconds int) int {
	if seconds < MinPollIntervalSec {
		return MinPollIntervalSec
	}
	if seconds > MaxPollIntervalSec {
		return MaxPollIntervalSec
	}
	return seconds
}

// ClampPageSize normalizes a page size into [MinPageSize, MaxPageSize].
func ClampPageSize(size int) int {
	if size < MinPageSize {
		return MinPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// Clamped returns a copy of s with all numeric fields normalized into
// their valid ranges.
func (s Settings) Clamped() Settings {
	s.PollIntervalSec = ClampPollInterval(s.PollIntervalSec)
	s.PageSize = ClampPageSize(s.PageSize)
	return s
}

// PollInterval returns the poll interval as a duration.
func (s Settings) PollInterval() time.Duration {
	return time.Duration(s.PollIntervalSec) * time.Second
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/ghnotify/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "ghnotify", "config.yaml")
}

func defaultSettings() Settings {
	return Settings{
		PollIntervalSec: DefaultPollIntervalSec,
		PageSize:        DefaultPageSize,
	}
}

// LoadSettings reads configuration from the given YAML file path using
// Viper. Missing files resolve to defaults; present values are clamped
// into their valid ranges.
func LoadSettings(path string) (Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("poll_interval_sec", DefaultPollIntervalSec)
	v.SetDefault("page_size", DefaultPageSize)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultSettings(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultSettings(), nil
		}
		return Settings{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultSettings()
	if err := v.Unmarshal(&cfg); err != nil {
		return Settings{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg.Clamped(), nil
}

// SaveSettings writes the given settings to a YAML file at path,
// creating parent directories if needed. The token is deliberately
// excluded; it belongs to the keyring.
func SaveSettings(path string, cfg Settings) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("poll_interval_sec", cfg.PollIntervalSec)
	v.Set("page_size", cfg.PageSize)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// WatchSettings watches the config file at path and invokes onChange
// with freshly loaded (and clamped) settings whenever it is rewritten.
// Reload errors are reported to onError and the previous settings stay
// in effect.
func WatchSettings(path string, onChange func(Settings), onError func(error)) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("watching config %s: %w", path, err)
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := LoadSettings(path)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()

	return nil
}
