package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/HaiFongPan/r2review/internal/layout"
	"github.com/HaiFongPan/r2review/internal/review"
)

// Validate validates the configuration and returns an error if invalid
func Validate(config *Config) error {
	if err := validateR2Config(&config.R2); err != nil {
		return fmt.Errorf("R2 config validation failed: %w", err)
	}

	if err := validateLogConfig(&config.Log); err != nil {
		return fmt.Errorf("log config validation failed: %w", err)
	}

	if err := validateGeneralConfig(&config.General); err != nil {
		return fmt.Errorf("general config validation failed: %w", err)
	}

	if err := validateUIConfig(&config.UI); err != nil {
		return fmt.Errorf("ui config validation failed: %w", err)
	}

	if err := validateLayoutConfig(&config.Layout); err != nil {
		return fmt.Errorf("layout config validation failed: %w", err)
	}

	if err := validateReviewConfig(&config.Review); err != nil {
		return fmt.Errorf("review config validation failed: %w", err)
	}

	return nil
}

// validateR2Config validates R2 specific configuration
func validateR2Config(config *R2Config) error {
	if strings.TrimSpace(config.AccountID) == "" {
		return fmt.Errorf("account_id is required")
	}

	if strings.TrimSpace(config.AccessKeyID) == "" {
		return fmt.Errorf("access_key_id is required")
	}

	if strings.TrimSpace(config.AccessKeySecret) == "" {
		return fmt.Errorf("access_key_secret is required")
	}

	if strings.TrimSpace(config.BucketName) == "" {
		return fmt.Errorf("bucket_name is required")
	}

	if !isValidBucketName(config.BucketName) {
		return fmt.Errorf("invalid bucket_name format: %s", config.BucketName)
	}

	return nil
}

// validateLogConfig validates log configuration
func validateLogConfig(config *LogConfig) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
		"panic": true,
	}

	if !validLevels[strings.ToLower(config.Level)] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error, fatal, panic)", config.Level)
	}

	format := strings.ToLower(config.Format)
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid log format: %s (valid: text, json)", config.Format)
	}

	return nil
}

// validateGeneralConfig validates general configuration
func validateGeneralConfig(config *GeneralConfig) error {
	if config.DefaultTimeout <= 0 {
		return fmt.Errorf("default_timeout must be positive, got: %d", config.DefaultTimeout)
	}

	if config.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative, got: %d", config.MaxRetries)
	}

	return nil
}

func validateUIConfig(config *UIConfig) error {
	if config.CompactWidth < 0 {
		return fmt.Errorf("compact_width must be non-negative, got: %d", config.CompactWidth)
	}
	if config.FrameIntervalMS < 0 {
		return fmt.Errorf("frame_interval_ms must be non-negative, got: %d", config.FrameIntervalMS)
	}
	if config.ThumbnailCacheEntries <= 0 {
		return fmt.Errorf("thumbnail_cache_entries must be positive, got: %d", config.ThumbnailCacheEntries)
	}
	return nil
}

// validateLayoutConfig checks that every combination of visible panels can
// be laid out inside the configured ranges.
func validateLayoutConfig(config *LayoutConfig) error {
	const tolerance = layout.Tolerance

	for _, p := range layout.Panels {
		pc := config.panel(p)
		if pc.Min < 0 || pc.Max > 100 || pc.Min > pc.Max {
			return fmt.Errorf("%s: invalid width range [%g, %g]", p, pc.Min, pc.Max)
		}
		if pc.Default < pc.Min || pc.Default > pc.Max {
			return fmt.Errorf("%s: default width %g outside [%g, %g]", p, pc.Default, pc.Min, pc.Max)
		}
	}

	var minSum, maxSum, defSum float64
	for _, p := range layout.Panels {
		pc := config.panel(p)
		minSum += pc.Min
		maxSum += pc.Max
		defSum += pc.Default
	}
	if minSum > 100+tolerance || maxSum < 100-tolerance {
		return fmt.Errorf("three panel widths cannot add up to 100 (min %g, max %g)", minSum, maxSum)
	}
	if math.Abs(defSum-100) > tolerance {
		return fmt.Errorf("default widths must add up to 100, got %g", defSum)
	}

	pairs := [][2]layout.Panel{
		{layout.PanelLibrary, layout.PanelPlayer},
		{layout.PanelPlayer, layout.PanelComments},
		{layout.PanelLibrary, layout.PanelComments},
	}
	for _, pair := range pairs {
		left, right := config.panel(pair[0]), config.panel(pair[1])
		_, _, ok := layout.PairInterval(
			layout.Range{Min: left.Min, Max: left.Max},
			layout.Range{Min: right.Min, Max: right.Max},
			100,
		)
		if !ok {
			return fmt.Errorf("%s and %s cannot share the full width", pair[0], pair[1])
		}
	}

	return nil
}

func validateReviewConfig(config *ReviewConfig) error {
	if _, err := review.ParseRole(config.Role); err != nil {
		return err
	}
	return nil
}

// isValidBucketName checks if the bucket name follows basic S3 naming rules
func isValidBucketName(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}

	if !isAlphaNum(name[0]) || !isAlphaNum(name[len(name)-1]) {
		return false
	}

	for i, char := range name {
		if !isAlphaNum(byte(char)) && char != '-' && char != '.' {
			return false
		}

		// Cannot have consecutive periods or period-dash combinations
		if i > 0 {
			prev := name[i-1]
			if char == '.' && (prev == '.' || prev == '-') {
				return false
			}
			if char == '-' && prev == '.' {
				return false
			}
		}
	}

	return true
}

func isAlphaNum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
