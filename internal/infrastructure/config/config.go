// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for kinship configuration.
	DefaultConfigDir = ".kinship"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultTreesFile is the default tree registry file name.
	DefaultTreesFile = "trees.yaml"
	// DefaultDatabaseFile is the SQLite file name inside each tree directory.
	DefaultDatabaseFile = "familytree.db"
	// DefaultTreeName is the tree created by "kin init".
	DefaultTreeName = "default"
	// DefaultServerAddr is where "kin serve" listens unless configured.
	DefaultServerAddr = "127.0.0.1:7421"
	// DefaultBusyTimeoutMS is the SQLite busy timeout in milliseconds.
	DefaultBusyTimeoutMS = 5000
)

// Reference policies for relationship endpoints.
const (
	// ReferencesLoose stores relationships without checking their endpoints.
	ReferencesLoose = "loose"
	// ReferencesStrict rejects relationships whose endpoints do not exist.
	ReferencesStrict = "strict"
)

var (
	// reNonAlphanumeric matches characters that aren't alphanumeric or underscore.
	reNonAlphanumeric = regexp.MustCompile(`[^a-z0-9_]`)
	// reMultipleUnderscores matches consecutive underscores.
	reMultipleUnderscores = regexp.MustCompile(`_+`)
)

// Config holds static configuration (read-only after init).
type Config struct {
	SQLite SQLiteConfig `yaml:"sqlite,omitempty"`
	Log    LogConfig    `yaml:"log,omitempty"`
	Server ServerConfig `yaml:"server,omitempty"`
	Tree   TreeConfig   `yaml:"tree,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite database.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database.
	// For per-tree databases, this is computed dynamically using SQLitePathForTree.
	Path          string `yaml:"path,omitempty"`
	BusyTimeoutMS int    `yaml:"busy_timeout_ms,omitempty"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // json or console
}

// ServerConfig holds settings for the local HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// TreeConfig holds per-tree behavior shared by all trees.
type TreeConfig struct {
	References string `yaml:"references,omitempty"` // loose or strict
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		SQLite: SQLiteConfig{
			BusyTimeoutMS: DefaultBusyTimeoutMS,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
		Tree: TreeConfig{
			References: ReferencesLoose,
		},
	}
}

// Load loads configuration from the .kinship directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'kin init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Tree.References {
	case "", ReferencesLoose, ReferencesStrict:
	default:
		return fmt.Errorf("invalid tree.references %q (valid: loose, strict)", c.Tree.References)
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid log.format %q (valid: json, console)", c.Log.Format)
	}
	if c.SQLite.BusyTimeoutMS < 0 {
		return fmt.Errorf("invalid sqlite.busy_timeout_ms %d", c.SQLite.BusyTimeoutMS)
	}
	return nil
}

// StrictReferences reports whether relationship endpoints must exist.
func (c *Config) StrictReferences() bool {
	return c.Tree.References == ReferencesStrict
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if level := os.Getenv("KIN_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if addr := os.Getenv("KIN_SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
}

// ConfigDir returns the path to the .kinship config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// TreesFilePath returns the path to the tree registry file.
func TreesFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultTreesFile)
}

// Exists checks if a kinship config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}

// SanitizeTreeName converts a tree name to a safe directory name.
func SanitizeTreeName(name string) string {
	// Convert to lowercase
	name = strings.ToLower(name)

	// Replace spaces and hyphens with underscores
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")

	// Remove any characters that aren't alphanumeric or underscore
	name = reNonAlphanumeric.ReplaceAllString(name, "")

	// Remove consecutive underscores
	name = reMultipleUnderscores.ReplaceAllString(name, "_")

	// Trim leading/trailing underscores
	name = strings.Trim(name, "_")

	if name == "" {
		return DefaultTreeName
	}

	return name
}

// SQLitePathForTree returns the SQLite database path for a given tree.
func SQLitePathForTree(basePath, treeName string) string {
	return filepath.Join(TreeDir(basePath, treeName), DefaultDatabaseFile)
}

// TreeDir returns the directory path for a given tree.
func TreeDir(basePath, treeName string) string {
	return filepath.Join(basePath, DefaultConfigDir, "trees", SanitizeTreeName(treeName))
}
