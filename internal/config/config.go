package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/treykane/cli-notes-suggest/internal/logging"
	"github.com/treykane/cli-notes-suggest/internal/popup"
)

const (
	configDirName  = ".cli-notes-suggest"
	configFileName = "config.json"
	envPrefix      = "SUGGEST"

	defaultMentionLimit = 8
	defaultMaxVisible   = 8
	defaultListWidth    = 40
	defaultPollInterval = 2 * time.Second
	defaultPreviewStyle = "auto"
)

var log = logging.New("config")

// ErrNotConfigured is returned when an explicitly requested config file does
// not exist.
var ErrNotConfigured = errors.New("cli-notes-suggest is not configured")

// Config stores the editor's settings.
type Config struct {
	PeopleFile string        `mapstructure:"people_file" json:"people_file,omitempty"`
	Document   string        `mapstructure:"document" json:"document,omitempty"`
	LogLevel   string        `mapstructure:"log_level" json:"log_level,omitempty"`
	LogFile    string        `mapstructure:"log_file" json:"log_file,omitempty"`
	Popup      PopupConfig   `mapstructure:"popup" json:"popup"`
	Mention    MentionConfig `mapstructure:"mention" json:"mention"`
	List       ListConfig    `mapstructure:"list" json:"list"`
	Watch      WatchConfig   `mapstructure:"watch" json:"watch"`
	Preview    PreviewConfig `mapstructure:"preview" json:"preview"`
}

// PopupConfig is the overlay geometry in terminal cells.
type PopupConfig struct {
	Gap            int `mapstructure:"gap" json:"gap"`
	MaxHeight      int `mapstructure:"max_height" json:"max_height"`
	FallbackHeight int `mapstructure:"fallback_height" json:"fallback_height"`
}

// MentionConfig tunes the "@" suggestions.
type MentionConfig struct {
	Limit int `mapstructure:"limit" json:"limit"`
}

// ListConfig tunes the suggestion list widget.
type ListConfig struct {
	MaxVisible int `mapstructure:"max_visible" json:"max_visible"`
	Width      int `mapstructure:"width" json:"width"`
}

// WatchConfig controls how the people file is refreshed.
type WatchConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval" json:"poll_interval"`
}

// PreviewConfig selects the Glamour style used by the preview command.
type PreviewConfig struct {
	Style string `mapstructure:"style" json:"style"`
}

// PopupOptions converts the popup section into placement options.
func (c Config) PopupOptions() popup.Options {
	return popup.Options{
		Gap:            c.Popup.Gap,
		MaxHeight:      c.Popup.MaxHeight,
		FallbackHeight: c.Popup.FallbackHeight,
	}
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		LogLevel: "info",
		Popup: PopupConfig{
			Gap:            popup.DefaultGap,
			MaxHeight:      popup.DefaultMaxHeight,
			FallbackHeight: popup.DefaultFallbackHeight,
		},
		Mention: MentionConfig{Limit: defaultMentionLimit},
		List:    ListConfig{MaxVisible: defaultMaxVisible, Width: defaultListWidth},
		Watch:   WatchConfig{PollInterval: defaultPollInterval},
		Preview: PreviewConfig{Style: defaultPreviewStyle},
	}
}

// ConfigPath returns the default configuration file path.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// Exists reports whether the config file at path exists. An empty path means
// the default location.
func Exists(path string) (bool, error) {
	path, err := resolvePath(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat config path: %w", err)
}

// Load reads the configuration.
//
// Values come, in increasing priority, from the defaults, the config file and
// SUGGEST_* environment variables (SUGGEST_PEOPLE_FILE,
// SUGGEST_POPUP_MAX_HEIGHT, ...). With an empty path the default location is
// used and a missing file is not an error; a missing explicit path returns
// ErrNotConfigured.
func Load(path string) (Config, error) {
	v := newViper()

	explicit := strings.TrimSpace(path) != ""
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}
	v.SetConfigFile(resolved)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist) && explicit:
			return Config{}, fmt.Errorf("%w: %s", ErrNotConfigured, resolved)
		case errors.Is(err, os.ErrNotExist):
			log.Debug("no config file, using defaults", "path", resolved)
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes configuration to path, or the default location when path is
// empty.
func Save(path string, cfg Config) error {
	if err := cfg.normalize(); err != nil {
		return err
	}

	path, err := resolvePath(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		log.Error("create config dir", "path", filepath.Dir(path), "error", err)
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		log.Error("write config", "path", path, "error", err)
		return fmt.Errorf("write config: %w", err)
	}
	log.Info("saved config", "path", path)
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault("people_file", d.PeopleFile)
	v.SetDefault("document", d.Document)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("popup.gap", d.Popup.Gap)
	v.SetDefault("popup.max_height", d.Popup.MaxHeight)
	v.SetDefault("popup.fallback_height", d.Popup.FallbackHeight)
	v.SetDefault("mention.limit", d.Mention.Limit)
	v.SetDefault("list.max_visible", d.List.MaxVisible)
	v.SetDefault("list.width", d.List.Width)
	v.SetDefault("watch.poll_interval", d.Watch.PollInterval)
	v.SetDefault("preview.style", d.Preview.Style)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ConfigPath()
	}
	return NormalizePath(path)
}

func (c *Config) normalize() error {
	for _, field := range []struct {
		name string
		val  *string
	}{
		{"people_file", &c.PeopleFile},
		{"document", &c.Document},
		{"log_file", &c.LogFile},
	} {
		if strings.TrimSpace(*field.val) == "" {
			*field.val = ""
			continue
		}
		p, err := NormalizePath(*field.val)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", field.name, err)
		}
		*field.val = p
	}

	switch {
	case c.Popup.Gap < 0:
		return fmt.Errorf("invalid popup.gap: %d is negative", c.Popup.Gap)
	case c.Popup.MaxHeight < 0:
		return fmt.Errorf("invalid popup.max_height: %d is negative", c.Popup.MaxHeight)
	case c.Popup.FallbackHeight < 0:
		return fmt.Errorf("invalid popup.fallback_height: %d is negative", c.Popup.FallbackHeight)
	case c.Mention.Limit < 0:
		return fmt.Errorf("invalid mention.limit: %d is negative", c.Mention.Limit)
	}
	if c.List.MaxVisible <= 0 {
		c.List.MaxVisible = defaultMaxVisible
	}
	if c.List.Width <= 0 {
		c.List.Width = defaultListWidth
	}
	if c.Watch.PollInterval <= 0 {
		c.Watch.PollInterval = defaultPollInterval
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Preview.Style = strings.ToLower(strings.TrimSpace(c.Preview.Style))
	if c.Preview.Style == "" {
		c.Preview.Style = defaultPreviewStyle
	}
	return nil
}

// NormalizePath expands a leading ~ and makes path absolute.
func NormalizePath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is required")
	}

	expanded, err := expandHome(trimmed)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}

	return filepath.Clean(abs), nil
}

func expandHome(path string) (string, error) {
	if path == "~" {
		return userHome()
	}
	if strings.HasPrefix(path, "~/") {
		home, err := userHome()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}
	return path, nil
}

func userHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return home, nil
}
