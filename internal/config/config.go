package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/HaiFongPan/r2review/internal/layout"
)

// Config holds the complete application configuration
type Config struct {
	R2      R2Config      `mapstructure:"r2"`
	Log     LogConfig     `mapstructure:"log"`
	General GeneralConfig `mapstructure:"general"`
	Upload  UploadConfig  `mapstructure:"upload"`
	UI      UIConfig      `mapstructure:"ui"`
	Layout  LayoutConfig  `mapstructure:"layout"`
	Review  ReviewConfig  `mapstructure:"review"`
}

// R2Config holds R2/S3 specific configuration
type R2Config struct {
	AccountID       string   `mapstructure:"account_id"`
	AccessKeyID     string   `mapstructure:"access_key_id"`
	AccessKeySecret string   `mapstructure:"access_key_secret"`
	BucketName      string   `mapstructure:"bucket_name"`
	Endpoint        string   `mapstructure:"endpoint"`
	Region          string   `mapstructure:"region"`
	CustomDomains   []string `mapstructure:"custom_domains"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GeneralConfig holds general application configuration
type GeneralConfig struct {
	DefaultTimeout int `mapstructure:"default_timeout"`
	MaxRetries     int `mapstructure:"max_retries"`
}

// UploadConfig holds upload-specific configuration
type UploadConfig struct {
	DefaultOverwrite      bool   `mapstructure:"default_overwrite"`
	AutoDetectContentType bool   `mapstructure:"auto_detect_content_type"`
	DefaultCompress       string `mapstructure:"default_compress"`
}

// UIConfig holds workspace settings
type UIConfig struct {
	// CompactWidth is the terminal width below which only one panel is shown.
	CompactWidth          int `mapstructure:"compact_width"`
	FrameIntervalMS       int `mapstructure:"frame_interval_ms"`
	ThumbnailCacheEntries int `mapstructure:"thumbnail_cache_entries"`
}

// PanelConfig is the width range and default width of one panel, in percent.
type PanelConfig struct {
	Min     float64 `mapstructure:"min"`
	Max     float64 `mapstructure:"max"`
	Default float64 `mapstructure:"default"`
}

// LayoutConfig holds the panel width settings
type LayoutConfig struct {
	Library  PanelConfig `mapstructure:"library"`
	Player   PanelConfig `mapstructure:"player"`
	Comments PanelConfig `mapstructure:"comments"`
}

// ReviewConfig identifies the local reviewer and where comments are kept
type ReviewConfig struct {
	Author       string `mapstructure:"author"`
	Role         string `mapstructure:"role"`
	DatabasePath string `mapstructure:"database_path"`
}

// Load loads configuration from multiple sources with priority:
// 1. Command line flags (highest)
// 2. Environment variables
// 3. Configuration file
// 4. Defaults (lowest)
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("R2REVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The credentials keep their short names for compatibility with existing shells.
	v.BindEnv("r2.account_id", "R2REVIEW_ACCOUNT_ID")
	v.BindEnv("r2.access_key_id", "R2REVIEW_ACCESS_KEY_ID")
	v.BindEnv("r2.access_key_secret", "R2REVIEW_ACCESS_KEY_SECRET")
	v.BindEnv("r2.bucket_name", "R2REVIEW_BUCKET_NAME")
	v.BindEnv("r2.custom_domains", "R2REVIEW_CUSTOM_DOMAINS")
	v.BindEnv("review.author", "R2REVIEW_AUTHOR")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.r2review")
		v.AddConfigPath("/etc/r2review/")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is not an error - we can use defaults and env vars
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("r2.endpoint", "auto")
	v.SetDefault("r2.region", "auto")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("general.default_timeout", 30)
	v.SetDefault("general.max_retries", 3)

	v.SetDefault("upload.default_overwrite", false)
	v.SetDefault("upload.auto_detect_content_type", true)
	v.SetDefault("upload.default_compress", "")

	v.SetDefault("ui.compact_width", 80)
	v.SetDefault("ui.frame_interval_ms", 16)
	v.SetDefault("ui.thumbnail_cache_entries", 32)

	bounds := layout.DefaultBounds()
	widths := layout.DefaultWidths()
	for _, p := range layout.Panels {
		r := bounds.For(p)
		v.SetDefault("layout."+p.String()+".min", r.Min)
		v.SetDefault("layout."+p.String()+".max", r.Max)
		v.SetDefault("layout."+p.String()+".default", widths.Get(p))
	}

	v.SetDefault("review.author", "")
	v.SetDefault("review.role", "reviewer")
	v.SetDefault("review.database_path", "")
}

// Bounds converts the layout section into panel width ranges.
func (c LayoutConfig) Bounds() layout.Bounds {
	return layout.Bounds{
		Library:  layout.Range{Min: c.Library.Min, Max: c.Library.Max},
		Player:   layout.Range{Min: c.Player.Min, Max: c.Player.Max},
		Comments: layout.Range{Min: c.Comments.Min, Max: c.Comments.Max},
	}
}

// Widths returns the configured three-panel split.
func (c LayoutConfig) Widths() layout.Widths {
	return layout.Widths{
		Library:  c.Library.Default,
		Player:   c.Player.Default,
		Comments: c.Comments.Default,
	}
}

func (c LayoutConfig) panel(p layout.Panel) PanelConfig {
	switch p {
	case layout.PanelLibrary:
		return c.Library
	case layout.PanelPlayer:
		return c.Player
	default:
		return c.Comments
	}
}

// FrameInterval is how often buffered drag moves are applied.
func (c UIConfig) FrameInterval() time.Duration {
	if c.FrameIntervalMS <= 0 {
		return 16 * time.Millisecond
	}
	return time.Duration(c.FrameIntervalMS) * time.Millisecond
}

// Timeout returns the default timeout for storage operations.
func (c GeneralConfig) Timeout() time.Duration {
	return time.Duration(c.DefaultTimeout) * time.Second
}

// GetCustomDomain returns the first configured custom domain, or "" when none is set.
func (c *Config) GetCustomDomain() string {
	for _, d := range c.R2.CustomDomains {
		if d = strings.TrimSpace(d); d != "" {
			return d
		}
	}
	return ""
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.toml"
	}
	return filepath.Join(homeDir, ".r2review", "config.toml")
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() error {
	return os.MkdirAll(filepath.Dir(GetDefaultConfigPath()), 0700)
}
