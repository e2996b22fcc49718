package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HaiFongPan/r2review/internal/layout"
)

const minimalConfig = `
[r2]
account_id = "acc"
access_key_id = "key"
access_key_secret = "secret"
bucket_name = "review-assets"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func validConfig() *Config {
	bounds := layout.DefaultBounds()
	widths := layout.DefaultWidths()
	return &Config{
		R2: R2Config{
			AccountID:       "acc",
			AccessKeyID:     "key",
			AccessKeySecret: "secret",
			BucketName:      "review-assets",
		},
		Log:     LogConfig{Level: "info", Format: "text"},
		General: GeneralConfig{DefaultTimeout: 30, MaxRetries: 3},
		UI:      UIConfig{CompactWidth: 80, FrameIntervalMS: 16, ThumbnailCacheEntries: 8},
		Layout: LayoutConfig{
			Library:  PanelConfig{Min: bounds.Library.Min, Max: bounds.Library.Max, Default: widths.Library},
			Player:   PanelConfig{Min: bounds.Player.Min, Max: bounds.Player.Max, Default: widths.Player},
			Comments: PanelConfig{Min: bounds.Comments.Min, Max: bounds.Comments.Max, Default: widths.Comments},
		},
		Review: ReviewConfig{Role: "reviewer"},
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.R2.Region)
	assert.Equal(t, 80, cfg.UI.CompactWidth)
	assert.Equal(t, 16*time.Millisecond, cfg.UI.FrameInterval())
	assert.Equal(t, 30*time.Second, cfg.General.Timeout())
	assert.Equal(t, "reviewer", cfg.Review.Role)
	assert.Equal(t, layout.DefaultBounds(), cfg.Layout.Bounds())
	assert.Equal(t, layout.DefaultWidths(), cfg.Layout.Widths())
}

func TestLoad_ReadsLayoutSection(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
[layout.library]
min = 20
max = 40
default = 25

[layout.player]
default = 45
`))
	require.NoError(t, err)

	assert.Equal(t, layout.Range{Min: 20, Max: 40}, cfg.Layout.Bounds().Library)
	assert.Equal(t, layout.Widths{Library: 25, Player: 45, Comments: 30}, cfg.Layout.Widths())
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("R2REVIEW_BUCKET_NAME", "from-env")
	t.Setenv("R2REVIEW_UI_COMPACT_WIDTH", "120")

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.R2.BucketName)
	assert.Equal(t, 120, cfg.UI.CompactWidth)
}

func TestLoad_RejectsInvalidFile(t *testing.T) {
	_, err := Load(writeConfig(t, "[r2\nbroken"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing account", func(c *Config) { c.R2.AccountID = " " }, "account_id is required"},
		{"bad bucket", func(c *Config) { c.R2.BucketName = "-bad" }, "invalid bucket_name"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"zero timeout", func(c *Config) { c.General.DefaultTimeout = 0 }, "default_timeout"},
		{"no cache", func(c *Config) { c.UI.ThumbnailCacheEntries = 0 }, "thumbnail_cache_entries"},
		{"inverted range", func(c *Config) { c.Layout.Player.Min = 90 }, "invalid width range"},
		{"default out of range", func(c *Config) { c.Layout.Library.Default = 50 }, "outside"},
		{"defaults do not add up", func(c *Config) {
			c.Layout.Library.Default = 25
		}, "add up to 100"},
		{"pair cannot fill width", func(c *Config) {
			c.Layout.Library.Max = 30
			c.Layout.Comments.Max = 30
			c.Layout.Comments.Default = 30
		}, "library and comments"},
		{"pair misses full width by a fraction", func(c *Config) {
			c.Layout.Library.Max = 30
			c.Layout.Comments.Max = 69.995
		}, "library and comments"},
		{"unknown role", func(c *Config) { c.Review.Role = "admin" }, "unknown role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetCustomDomain(t *testing.T) {
	cfg := validConfig()
	assert.Empty(t, cfg.GetCustomDomain())

	cfg.R2.CustomDomains = []string{"", " cdn.example.com "}
	assert.Equal(t, "cdn.example.com", cfg.GetCustomDomain())
}

func TestUserData_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.data")

	ud := LoadUserDataFrom(path)
	assert.Empty(t, ud.ReviewerName)

	require.NoError(t, ud.SetReviewerName("dana"))
	require.NoError(t, ud.SetLastAsset("clips/intro.mp4"))

	loaded := LoadUserDataFrom(path)
	assert.Equal(t, "dana", loaded.ReviewerName)
	assert.Equal(t, "clips/intro.mp4", loaded.LastAsset)
	assert.False(t, loaded.CreatedAt.IsZero())
}

func TestUserData_CorruptFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.data")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	ud := LoadUserDataFrom(path)
	assert.Empty(t, ud.LastAsset)
}

func TestResolveAuthor(t *testing.T) {
	t.Setenv("USER", "shell-user")
	cfg := validConfig()

	assert.Equal(t, "shell-user", ResolveAuthor(cfg, &UserData{}))
	assert.Equal(t, "stored", ResolveAuthor(cfg, &UserData{ReviewerName: "stored"}))

	cfg.Review.Author = "configured"
	assert.Equal(t, "configured", ResolveAuthor(cfg, &UserData{ReviewerName: "stored"}))
}
