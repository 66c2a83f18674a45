package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	applog "productcatalog/internal/log"
)

const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

type Config struct {
	Port      string `yaml:"port"`
	DBDSN     string `yaml:"db_dsn"`
	Store     string `yaml:"store"`
	LogFile   string `yaml:"log_file"`
	RateLimit int    `yaml:"rate_limit"` // requests per minute per client
	SeedDemo  bool   `yaml:"seed_demo"`
}

func Defaults() Config {
	return Config{Port: "8080", DBDSN: "catalog.db", Store: StoreSQLite, RateLimit: 120}
}

// Load layers defaults, the optional YAML file named by CONFIG_FILE, then
// environment variables.
func Load() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.mergeEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	applog.Info(nil, "config.loaded", map[string]any{
		"port": cfg.Port, "db_dsn": cfg.DBDSN, "store": cfg.Store,
		"log_file": cfg.LogFile, "rate_limit": cfg.RateLimit, "seed_demo": cfg.SeedDemo,
	})
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv(getenv func(string) string) {
	if v := getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := getenv("DB_DSN"); v != "" {
		c.DBDSN = v
	}
	if v := getenv("STORE"); v != "" {
		c.Store = strings.ToLower(v)
	}
	if v := getenv("LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if n, err := strconv.Atoi(getenv("RATE_LIMIT")); err == nil {
		c.RateLimit = n
	}
	if b, err := strconv.ParseBool(getenv("SEED_DEMO")); err == nil {
		c.SeedDemo = b
	}
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("unknown store %q (want %s or %s)", c.Store, StoreSQLite, StoreMemory)
	}
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %d", c.RateLimit)
	}
	return nil
}
