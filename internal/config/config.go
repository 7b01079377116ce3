package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultPageSize       = 500
	DefaultLogLevel       = "warn"
	DefaultDBFileName     = ".ophub.db"
	defaultConfigFileName = ".ophub.toml"

	configDirEnvKey = "OPHUB_CONFIG_DIR"
	urlEnvKey       = "OPHUB_URL"
	apiKeyEnvKey    = "OPHUB_API_KEY"
	dbEnvKey        = "OPHUB_DB"
	logLevelEnvKey  = "OPHUB_LOG_LEVEL"
)

// Config defines runtime configuration for ophub.
type Config struct {
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
	PageSize int    `toml:"page_size"`
	DBPath   string `toml:"db_path"`
	LogLevel string `toml:"log_level"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		PageSize: DefaultPageSize,
		LogLevel: DefaultLogLevel,
	}
}

// HasCredentials reports whether enough is configured to call the server.
func (c *Config) HasCredentials() bool {
	return c.BaseURL != "" && c.APIKey != ""
}

func loadFileIfExists(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func overrideConfigPath() (string, bool) {
	dir := strings.TrimSpace(os.Getenv(configDirEnvKey))
	if dir == "" {
		return "", false
	}
	return filepath.Join(dir, defaultConfigFileName), true
}

// Path returns the path to the config file.
func Path() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, defaultConfigFileName), nil
}

// Load reads config from the config file and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err == nil {
		if loadErr := loadFileIfExists(path, &cfg); loadErr != nil {
			return nil, loadErr
		}
	}

	if url := strings.TrimSpace(os.Getenv(urlEnvKey)); url != "" {
		cfg.BaseURL = url
	}
	if key := strings.TrimSpace(os.Getenv(apiKeyEnvKey)); key != "" {
		cfg.APIKey = key
	}
	if dbPath := os.Getenv(dbEnvKey); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if level := strings.TrimSpace(os.Getenv(logLevelEnvKey)); level != "" {
		cfg.LogLevel = level
	}

	cfg.normalizeDefaults()

	return &cfg, nil
}

// Save writes the config to the config file with owner-only permissions.
// The API key lives in this file, so group/other access is stripped.
func Save(cfg *Config) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return "", err
	}
	return path, nil
}

func (c *Config) normalizeDefaults() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.DBPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.DBPath = filepath.Join(home, DefaultDBFileName)
		}
	}
}
