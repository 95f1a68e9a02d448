package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Database drivers.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverValkey = "valkey"
)

// Config holds the emulator and CLI configuration.
type Config struct {
	Client     ClientConfig    `yaml:"client"`
	HTTP       HTTPConfig      `yaml:"http"`
	Database   DatabaseConfig  `yaml:"database"`
	Storage    StorageConfig   `yaml:"storage"`
	Auth       AuthConfig      `yaml:"auth"`
	Namespaces []string        `yaml:"namespaces"`
	Commands   CommandsConfig  `yaml:"commands"`
	Embedding  EmbeddingConfig `yaml:"embedding"`
	Logging    LoggingConfig   `yaml:"logging"`
}

// ClientConfig holds the settings the CLI uses to reach a Data API endpoint.
type ClientConfig struct {
	Endpoint   string `yaml:"endpoint"`
	Token      string `yaml:"token"`
	Namespace  string `yaml:"namespace"`
	APIPath    string `yaml:"api_path"`
	Caller     string `yaml:"caller"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds the application tokens the emulator accepts. Empty disables auth.
type AuthConfig struct {
	Tokens []string `yaml:"tokens"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int    `yaml:"port"`
	APIPath         string `yaml:"api_path"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	ShutdownSec     int    `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds storage backend settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // memory, redis, valkey (default: memory)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// CommandsConfig holds command limits.
type CommandsConfig struct {
	MaxCount int `yaml:"max_count"` // countDocuments limit before moreData
}

// EmbeddingConfig holds the $vectorize providers, keyed by vector service provider name.
type EmbeddingConfig struct {
	Providers map[string]ProviderConfig `yaml:"providers"`
	Cache     bool                      `yaml:"cache"`
}

// ProviderConfig holds an OpenAI-compatible embedding provider.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	cfg, err := LoadFile(findConfigPath(env))
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFile reads, expands and defaults a config file without validating it.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML after substituting ${VAR} and ${VAR:-default}.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8181
	}
	if c.HTTP.APIPath == "" {
		c.HTTP.APIPath = "api/json/v1"
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverMemory
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "dataapi:"
	}
	if c.Commands.MaxCount <= 0 {
		c.Commands.MaxCount = 1000
	}
	if c.Client.TimeoutSec <= 0 {
		c.Client.TimeoutSec = 30
	}
}

// Validate checks the emulator settings.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverMemory:
	case DriverRedis, DriverValkey:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", c.Database.Driver)
		}
	default:
		return fmt.Errorf("database.driver must be %q, %q or %q, got %q",
			DriverMemory, DriverRedis, DriverValkey, c.Database.Driver)
	}
	for name, p := range c.Embedding.Providers {
		if p.APIKey == "" {
			return fmt.Errorf("embedding.providers.%s.api_key is required", name)
		}
	}
	return nil
}

// ValidateClient checks the settings the CLI needs.
func (c *Config) ValidateClient() error {
	if c.Client.Endpoint == "" {
		return fmt.Errorf("client.endpoint is required")
	}
	if !strings.HasPrefix(c.Client.Endpoint, "http://") && !strings.HasPrefix(c.Client.Endpoint, "https://") {
		return fmt.Errorf("client.endpoint must start with http:// or https://, got %q", c.Client.Endpoint)
	}
	if c.Client.Token == "" {
		return fmt.Errorf("client.token is required")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
