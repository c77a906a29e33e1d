package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/docsearch/internal/domain/fieldmap"
)

// Config holds the docsearch gateway configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	MongoDB MongoDBConfig `yaml:"mongodb"`
	Search  SearchConfig  `yaml:"search"`
	Fields  FieldsConfig  `yaml:"fields"`
	Cache   CacheConfig   `yaml:"cache"`
	CORS    CORSConfig    `yaml:"cors"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// MongoDBConfig holds the document store settings. An empty URI starts the
// gateway disconnected until POST /connect.
type MongoDBConfig struct {
	URI               string `yaml:"uri"`
	DBName            string `yaml:"db_name"`
	Collection        string `yaml:"collection"`
	SearchIndex       string `yaml:"search_index"`
	ConnectTimeoutSec int    `yaml:"connect_timeout_sec"`
}

// SearchConfig holds request limits and the fallback pattern policy.
type SearchConfig struct {
	MinLimit int `yaml:"min_limit"`
	MaxLimit int `yaml:"max_limit"`
	// RawPattern sends fallback queries to $regex unescaped.
	RawPattern bool `yaml:"raw_pattern"`
	// RateLimitRPS caps search requests per second. Zero disables it.
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
}

// FieldsConfig selects a field-mapping profile and overrides parts of it.
type FieldsConfig struct {
	Profile   string           `yaml:"profile"`
	Overrides fieldmap.Mapping `yaml:"overrides"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	Driver    string   `yaml:"driver"` // memory, redis, valkey (default: memory)
	Addrs     []string `yaml:"addrs"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	DB        int      `yaml:"db"`
	KeyPrefix string   `yaml:"key_prefix"`
	TTLSec    int      `yaml:"ttl_sec"`
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML config after env substitution, then applies defaults
// and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
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
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8000
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
	if c.MongoDB.DBName == "" {
		c.MongoDB.DBName = "test"
	}
	if c.MongoDB.Collection == "" {
		c.MongoDB.Collection = "teachings"
	}
	if c.MongoDB.SearchIndex == "" {
		c.MongoDB.SearchIndex = "default"
	}
	if c.MongoDB.ConnectTimeoutSec <= 0 {
		c.MongoDB.ConnectTimeoutSec = 10
	}
	if c.Search.MinLimit <= 0 {
		c.Search.MinLimit = 1
	}
	if c.Search.MaxLimit <= 0 {
		c.Search.MaxLimit = 1000
	}
	if c.Fields.Profile == "" {
		c.Fields.Profile = fieldmap.ProfileTeachings
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "docsearch:"
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Search.RateLimitRPS < 0 {
		return fmt.Errorf("search.rate_limit_rps must not be negative")
	}
	if c.Search.MinLimit > c.Search.MaxLimit {
		return fmt.Errorf("search.min_limit (%d) exceeds search.max_limit (%d)", c.Search.MinLimit, c.Search.MaxLimit)
	}
	if _, err := c.FieldMapping(); err != nil {
		return err
	}
	switch c.Cache.Driver {
	case "memory":
	case "redis", "valkey":
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for driver %q", c.Cache.Driver)
		}
	default:
		return fmt.Errorf("cache.driver must be \"memory\", \"redis\" or \"valkey\", got %q", c.Cache.Driver)
	}
	if c.Cache.TTLSec < 0 {
		return fmt.Errorf("cache.ttl_sec must not be negative, got %d", c.Cache.TTLSec)
	}
	return nil
}

// FieldMapping resolves the configured profile with overrides applied.
func (c *Config) FieldMapping() (fieldmap.Mapping, error) {
	base, err := fieldmap.Profile(c.Fields.Profile)
	if err != nil {
		return fieldmap.Mapping{}, fmt.Errorf("fields.profile: %w", err)
	}
	m := base.Merge(c.Fields.Overrides)
	if err := m.Validate(); err != nil {
		return fieldmap.Mapping{}, fmt.Errorf("fields: %w", err)
	}
	return m, nil
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
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
