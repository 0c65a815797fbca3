// Package config holds the static configuration read once at startup.
//
// Precedence, lowest to highest: DefaultConfig, the YAML file, environment
// variables (optionally seeded from a .env file with LoadEnvFile).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultEnvFile is the .env file loaded when none is named explicitly.
const DefaultEnvFile = ".env"

// Config is the full server configuration.
type Config struct {
	// Task list limits.
	MaxTodos             int  `yaml:"max_todos"`
	AutoCleanupCompleted bool `yaml:"auto_cleanup_completed"`

	// Memory operations.
	EnableMemoryOps      bool `yaml:"enable_memory_ops"`
	MaxMemoriesPerSearch int  `yaml:"max_memories_per_search"`

	// Reserved: read and reported, not enforced by any operation.
	RequireDeclaration bool `yaml:"require_declaration"`
	AutoSaveContext    bool `yaml:"auto_save_context"`

	// DataDir holds the memory database.
	DataDir string `yaml:"data_dir"`

	// DefaultUserID is used when a request carries no user id. Empty means
	// such requests fail with a missing-identity error.
	DefaultUserID string `yaml:"default_user_id"`

	// HTTPAddr, when set, serves streamable HTTP instead of stdio.
	HTTPAddr string `yaml:"http_addr"`

	Debug bool `yaml:"debug"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		MaxTodos:             50,
		AutoCleanupCompleted: false,
		EnableMemoryOps:      true,
		MaxMemoriesPerSearch: 10,
		RequireDeclaration:   true,
		AutoSaveContext:      false,
		DataDir:              filepath.Join(home, ".mindtools"),
	}
}

// Load reads configuration from a YAML file and applies environment
// overrides. An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// defaults
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing DefaultEnvFile
// is ignored; any other missing path is an error.
func LoadEnvFile(path string) error {
	explicit := path != "" && path != DefaultEnvFile
	if !explicit {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// Validate checks the limits are usable.
func (c *Config) Validate() error {
	if c.MaxTodos < 1 {
		return fmt.Errorf("max_todos must be at least 1, got %d", c.MaxTodos)
	}
	if c.MaxMemoriesPerSearch < 1 {
		return fmt.Errorf("max_memories_per_search must be at least 1, got %d", c.MaxMemoriesPerSearch)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("data_dir must not be empty")
	}
	return nil
}

// applyEnvOverrides applies MINDTOOLS_* environment variables.
func (c *Config) applyEnvOverrides() error {
	if err := envInt("MINDTOOLS_MAX_TODOS", &c.MaxTodos); err != nil {
		return err
	}
	if err := envBool("MINDTOOLS_AUTO_CLEANUP_COMPLETED", &c.AutoCleanupCompleted); err != nil {
		return err
	}
	if err := envBool("MINDTOOLS_ENABLE_MEMORY_OPS", &c.EnableMemoryOps); err != nil {
		return err
	}
	if err := envInt("MINDTOOLS_MAX_MEMORIES_PER_SEARCH", &c.MaxMemoriesPerSearch); err != nil {
		return err
	}
	if err := envBool("MINDTOOLS_DEBUG", &c.Debug); err != nil {
		return err
	}
	if v := os.Getenv("MINDTOOLS_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("MINDTOOLS_DEFAULT_USER_ID"); v != "" {
		c.DefaultUserID = v
	}
	if v := os.Getenv("MINDTOOLS_HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	return nil
}

func envInt(key string, dst *int) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s=%q: expected integer", key, v)
	}
	*dst = n
	return nil
}

func envBool(key string, dst *bool) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s=%q: expected boolean", key, v)
	}
	*dst = b
	return nil
}
