// Package config handles application configuration and command-line argument parsing.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexflint/go-arg"
)

// Default file locations, relative to the working directory.
const (
	DefaultStorePath    = "file_inventory.json"
	DefaultMarkerPath   = "last_scan.json"
	DefaultErrorLogPath = "error_log.json"
	DefaultThemePath    = "colors.json"
	DefaultPageSize     = 10
)

// Exported variables.
var (
	ErrInvalidPageSize = errors.New("page size must be positive")
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrRemoveSelector  = errors.New("remove needs exactly one of --host or --drive")
)

// ScanCmd scans a directory and merges the results into the store.
type ScanCmd struct {
	Path string `arg:"positional" help:"Directory to scan (default: the default root)"`
}

// SummaryCmd prints inventory statistics.
type SummaryCmd struct{}

// RemoveCmd deletes every record of a host or under a drive prefix.
type RemoveCmd struct {
	Host  string `arg:"--host" help:"Remove all records from this host"`
	Drive string `arg:"--drive" help:"Remove all records whose path starts with this prefix"`
}

// TreeCmd prints the folder tree of all stored paths.
type TreeCmd struct {
	Markdown string `arg:"--markdown" help:"Also write the tree as a Markdown outline to this file"`
}

// Config holds the application configuration
type Config struct {
	Scan    *ScanCmd    `arg:"subcommand:scan" help:"Scan a directory without the interactive menu"`
	Summary *SummaryCmd `arg:"subcommand:summary" help:"Print inventory statistics"`
	Remove  *RemoveCmd  `arg:"subcommand:remove" help:"Remove records by host or drive"`
	Tree    *TreeCmd    `arg:"subcommand:tree" help:"Print the directory tree"`

	StorePath    string   `arg:"--store,env:INVENTORY_STORE" default:"file_inventory.json" help:"Inventory file (.json, or .db/.sqlite for SQLite)"`
	MarkerPath   string   `arg:"--marker" default:"last_scan.json" help:"Last-scan marker file"`
	ErrorLogPath string   `arg:"--error-log" default:"error_log.json" help:"File receiving the failures of the last scan"`
	ThemePath    string   `arg:"--theme" default:"colors.json" help:"Colour theme (YAML or JSON)"`
	LogPath      string   `arg:"--log" help:"Write a debug log to this file"`
	LogLevel     string   `arg:"--log-level" default:"info" help:"Log level: debug|info|warn|error"`
	Host         string   `arg:"--host" help:"Host label recorded with scanned files (default: this machine)"`
	FQDN         bool     `arg:"--fqdn" help:"Resolve the canonical host name"`
	DefaultRoot  string   `arg:"--default-root" help:"Folder scanned by the default scan (default: ~/OneDrive/Documents or home)"`
	Include      []string `arg:"--include,separate" help:"Only record files matching this glob (repeatable)"`
	Exclude      []string `arg:"--exclude,separate" help:"Skip paths matching this glob (repeatable)"`
	PageSize     int      `arg:"--page-size" default:"10" help:"Lines per result page"`

	InteractiveMode bool       `arg:"-"`
	Level           slog.Level `arg:"-"`
}

// Description returns the program description for go-arg
func (Config) Description() string {
	return "A personal file inventory with a menu-driven Terminal UI"
}

// Version returns the version string for go-arg
func (Config) Version() string {
	return "inventory 1.0.0"
}

// ParseFlags parses command-line flags and returns configuration
func ParseFlags() (*Config, error) {
	cfg := &Config{
		StorePath:    DefaultStorePath,
		MarkerPath:   DefaultMarkerPath,
		ErrorLogPath: DefaultErrorLogPath,
		ThemePath:    DefaultThemePath,
		LogLevel:     "info",
		PageSize:     DefaultPageSize,
	}

	arg.MustParse(cfg)

	return PostProcessConfig(cfg)
}

// PostProcessConfig applies post-processing logic to a parsed config
func PostProcessConfig(cfg *Config) (*Config, error) {
	// No subcommand means the menu
	cfg.InteractiveMode = cfg.Scan == nil && cfg.Summary == nil && cfg.Remove == nil && cfg.Tree == nil

	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, cfg.PageSize)
	}

	level, err := ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	cfg.Level = level

	if cfg.Remove != nil && (cfg.Remove.Host == "") == (cfg.Remove.Drive == "") {
		return nil, ErrRemoveSelector
	}

	if cfg.DefaultRoot == "" {
		home, _ := os.UserHomeDir()
		cfg.DefaultRoot = ResolveDefaultRoot(home)
	}

	return cfg, nil
}

// ResolveDefaultRoot picks ~/OneDrive/Documents when it exists, else home.
func ResolveDefaultRoot(home string) string {
	if home == "" {
		return "."
	}

	candidate := filepath.Join(home, "OneDrive", "Documents")
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		return candidate
	}

	return home
}

// ParseLogLevel parses debug|info|warn|error, case-insensitively.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %s (valid: debug, info, warn, error)", ErrInvalidLogLevel, s)
	}
}
