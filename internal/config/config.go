package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/gerunddev/slackify/convert"
)

// Config represents the slackify configuration
type Config struct {
	SourceDir        string        `json:"source_dir"`
	OutputDir        string        `json:"output_dir"`
	OutputExt        string        `json:"output_ext"`
	LogFile          string        `json:"log_file"`
	Interval         time.Duration `json:"-"` // Custom JSON handling below
	ExcludePatterns  []string      `json:"exclude_patterns,omitempty"`
	Tables           bool          `json:"tables"`
	Linkify          bool          `json:"linkify"`
	FrontMatter      bool          `json:"front_matter"`
	RequireImageHost bool          `json:"require_image_host"`
}

// DefaultOutputExt is the extension given to converted files
const DefaultOutputExt = ".mrkdwn"

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		SourceDir:        filepath.Join(home, "Documents", "notes"),
		OutputDir:        filepath.Join(home, "Documents", "slack"),
		OutputExt:        DefaultOutputExt,
		LogFile:          "/tmp/slackify.log",
		Interval:         30 * time.Second,
		ExcludePatterns:  []string{}, // No exclusions by default
		RequireImageHost: true,
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to XDG if home dir unavailable
		return filepath.Join(xdg.ConfigHome, "slackify", "config.json")
	}
	return filepath.Join(home, ".config", "slackify", "config.json")
}

// StateFilePath returns the path to the state file
// Uses platform-specific XDG data directory
// Can be overridden for testing
var StateFilePath = func() string {
	return filepath.Join(xdg.DataHome, "slackify", "state.json")
}

// PIDFilePath returns the path to the daemon PID file
var PIDFilePath = func() string {
	return filepath.Join(xdg.DataHome, "slackify", "slackify.pid")
}

// rawConfig is the on-disk form, with the interval kept as a duration string
type rawConfig struct {
	SourceDir        string   `json:"source_dir"`
	OutputDir        string   `json:"output_dir"`
	OutputExt        string   `json:"output_ext,omitempty"`
	LogFile          string   `json:"log_file"`
	Interval         string   `json:"interval"`
	ExcludePatterns  []string `json:"exclude_patterns,omitempty"`
	Tables           bool     `json:"tables"`
	Linkify          bool     `json:"linkify"`
	FrontMatter      bool     `json:"front_matter"`
	RequireImageHost *bool    `json:"require_image_host,omitempty"`
}

// Load reads configuration from the XDG config directory
func Load() (*Config, error) {
	configPath := ConfigPath()
	data, err := os.ReadFile(configPath)
	if err != nil {
		// Return default config if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	interval, err := time.ParseDuration(raw.Interval)
	if err != nil {
		return nil, fmt.Errorf("invalid interval format '%s': %w", raw.Interval, err)
	}

	outputExt := raw.OutputExt
	if outputExt == "" {
		outputExt = DefaultOutputExt
	}

	// Set empty slice for exclude patterns if nil
	excludePatterns := raw.ExcludePatterns
	if excludePatterns == nil {
		excludePatterns = []string{}
	}

	requireImageHost := true
	if raw.RequireImageHost != nil {
		requireImageHost = *raw.RequireImageHost
	}

	cfg := &Config{
		SourceDir:        raw.SourceDir,
		OutputDir:        raw.OutputDir,
		OutputExt:        outputExt,
		LogFile:          raw.LogFile,
		Interval:         interval,
		ExcludePatterns:  excludePatterns,
		Tables:           raw.Tables,
		Linkify:          raw.Linkify,
		FrontMatter:      raw.FrontMatter,
		RequireImageHost: requireImageHost,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the XDG config directory
func (c *Config) Save() error {
	configPath := ConfigPath()
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	requireImageHost := c.RequireImageHost
	raw := rawConfig{
		SourceDir:        c.SourceDir,
		OutputDir:        c.OutputDir,
		OutputExt:        c.OutputExt,
		LogFile:          c.LogFile,
		Interval:         c.Interval.String(),
		ExcludePatterns:  c.ExcludePatterns,
		Tables:           c.Tables,
		Linkify:          c.Linkify,
		FrontMatter:      c.FrontMatter,
		RequireImageHost: &requireImageHost,
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.SourceDir == "" {
		return fmt.Errorf("source_dir cannot be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}
	if c.LogFile == "" {
		return fmt.Errorf("log_file cannot be empty")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if !strings.HasPrefix(c.OutputExt, ".") || len(c.OutputExt) < 2 {
		return fmt.Errorf("invalid output_ext '%s': must start with a dot", c.OutputExt)
	}
	if strings.EqualFold(c.OutputExt, ".md") || strings.EqualFold(c.OutputExt, ".markdown") {
		return fmt.Errorf("invalid output_ext '%s': would overwrite markdown sources", c.OutputExt)
	}

	for _, pattern := range c.ExcludePatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
	}

	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.SourceDir, err = expandPath(c.SourceDir)
	if err != nil {
		return fmt.Errorf("failed to expand source_dir: %w", err)
	}

	c.OutputDir, err = expandPath(c.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to expand output_dir: %w", err)
	}

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	return nil
}

// ConvertOptions returns the converter options selected by the config
func (c *Config) ConvertOptions() convert.Options {
	opts := convert.DefaultOptions()
	opts.Tables = c.Tables
	opts.Linkify = c.Linkify
	opts.FrontMatter = c.FrontMatter
	opts.RequireImageHost = c.RequireImageHost
	return opts
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
