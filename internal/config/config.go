package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Match     MatchConfig     `yaml:"match" mapstructure:"match"`
	Warehouse WarehouseConfig `yaml:"warehouse" mapstructure:"warehouse"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
}

// StoreConfig configures the run history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// MatchConfig configures the matching pipeline.
type MatchConfig struct {
	FuzzyThreshold float64 `yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`
	CustomersFile  string  `yaml:"customers_file" mapstructure:"customers_file"`
}

// WarehouseConfig points at the Postgres tables holding staged inputs and
// receiving audit output.
type WarehouseConfig struct {
	DatabaseURL  string `yaml:"database_url" mapstructure:"database_url"`
	PackedTable  string `yaml:"packed_table" mapstructure:"packed_table"`
	ShippedTable string `yaml:"shipped_table" mapstructure:"shipped_table"`
	OrdersTable  string `yaml:"orders_table" mapstructure:"orders_table"`
}

// FetchConfig configures downloads of remote (http, https, ftp) inputs.
type FetchConfig struct {
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	AuthToken   string  `yaml:"auth_token" mapstructure:"auth_token"`
}

// WarehouseURL returns the warehouse connection string, falling back to the
// store database when the store runs on Postgres.
func (c *Config) WarehouseURL() string {
	if c.Warehouse.DatabaseURL != "" {
		return c.Warehouse.DatabaseURL
	}
	if c.Store.Driver == "postgres" {
		return c.Store.DatabaseURL
	}
	return ""
}

// Validate checks the settings a command mode depends on. Modes are
// "match", "serve" and "migrate".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, "store.driver must be sqlite or postgres")
	}
	if c.Store.DatabaseURL == "" {
		errs = append(errs, "store.database_url is required")
	}
	if c.Match.FuzzyThreshold < 0 || c.Match.FuzzyThreshold > 100 {
		errs = append(errs, "match.fuzzy_threshold must be between 0 and 100")
	}

	switch mode {
	case "match":
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
	case "migrate":
		if c.WarehouseURL() == "" {
			errs = append(errs, "warehouse.database_url is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("AUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "audit.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("match.fuzzy_threshold", 75)
	v.SetDefault("match.customers_file", "")
	v.SetDefault("warehouse.database_url", "")
	v.SetDefault("warehouse.packed_table", "staging.packed")
	v.SetDefault("warehouse.shipped_table", "staging.shipped")
	v.SetDefault("warehouse.orders_table", "staging.orders")
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.rate_limit", 5)
	v.SetDefault("fetch.user_agent", "audit-cli/1.0")
	v.SetDefault("fetch.auth_token", "")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
