package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// ConfigPathEnv names the environment variable holding the config file path
const ConfigPathEnv = "WEALTHFLOW_CONFIG"

// Config is the server configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
	Cache    CacheConfig    `toml:"cache"`
}

// ServerConfig holds the listener addresses
type ServerConfig struct {
	GRPCAddr string `toml:"grpc_addr"`
	HTTPAddr string `toml:"http_addr"`
}

// DatabaseConfig holds the PostgreSQL connection settings.
// ConnStr wins over the individual fields when set.
type DatabaseConfig struct {
	ConnStr          string `toml:"conn_str"`
	Host             string `toml:"host"`
	Port             int    `toml:"port"`
	User             string `toml:"user"`
	Password         string `toml:"password"`
	Name             string `toml:"name"`
	MaxOpenConns     int    `toml:"max_open_conns"`
	MaxIdleConns     int    `toml:"max_idle_conns"`
	ConnMaxLifetime  string `toml:"conn_max_lifetime"`
	StatementTimeout string `toml:"statement_timeout"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // json or text
}

// CacheConfig holds in-process cache settings
type CacheConfig struct {
	AssetTypeTTL string `toml:"asset_type_ttl"`
}

// NewDefaultConfig returns the configuration used when no file is present
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			GRPCAddr: ":8080",
			HTTPAddr: ":8081",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Password:        "postgres",
			Name:            "wealthflow",
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: "30m",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Cache: CacheConfig{
			AssetTypeTTL: "10m",
		},
	}
}

// Load reads .env (when present), then the TOML file at path (when present),
// then applies environment overrides
func Load(path string) (*Config, error) {
	// A missing .env is not an error
	_ = godotenv.Load()

	config := NewDefaultConfig()

	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Skip missing files
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("DB_CONN_STR"); v != "" {
		config.Database.ConnStr = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		config.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			config.Database.Port = p
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		config.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		config.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		config.Database.Name = v
	}
	if v := os.Getenv("GRPC_ADDR"); v != "" {
		config.Server.GRPCAddr = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		config.Server.HTTPAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

// Validate checks values that cannot be checked by the TOML decoder
func (c *Config) Validate() error {
	if c.Server.GRPCAddr == "" && c.Server.HTTPAddr == "" {
		return fmt.Errorf("at least one of server.grpc_addr and server.http_addr must be set")
	}

	for name, value := range map[string]string{
		"database.conn_max_lifetime": c.Database.ConnMaxLifetime,
		"database.statement_timeout": c.Database.StatementTimeout,
		"cache.asset_type_ttl":       c.Cache.AssetTypeTTL,
	} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, value, err)
		}
	}

	if c.Database.ConnStr != "" && c.Database.StatementTimeout != "" {
		if strings.Contains(c.Database.ConnStr, "options") {
			return fmt.Errorf("database.statement_timeout cannot be combined with options in database.conn_str")
		}
		if isURL(c.Database.ConnStr) {
			if _, err := url.Parse(c.Database.ConnStr); err != nil {
				return fmt.Errorf("invalid database.conn_str: %w", err)
			}
		}
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("invalid logging.format %q: must be json or text", c.Logging.Format)
	}

	return nil
}

// ConnectionString returns the lib/pq connection string. The statement
// timeout is applied to conn_str too, in its key/value or URL form.
func (d DatabaseConfig) ConnectionString() string {
	conn := d.ConnStr
	if conn == "" {
		conn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			d.Host, d.Port, d.User, d.Password, d.Name)
	}

	timeout, _ := time.ParseDuration(d.StatementTimeout)
	if timeout <= 0 {
		return conn
	}
	option := fmt.Sprintf("-c statement_timeout=%d", timeout.Milliseconds())

	if isURL(conn) {
		u, err := url.Parse(conn)
		if err != nil {
			return conn
		}
		q := u.Query()
		q.Set("options", option)
		u.RawQuery = q.Encode()
		return u.String()
	}

	return conn + fmt.Sprintf(" options='%s'", option)
}

func isURL(conn string) bool {
	return strings.HasPrefix(conn, "postgres://") || strings.HasPrefix(conn, "postgresql://")
}

// Lifetime returns the parsed connection lifetime, zero when unset
func (d DatabaseConfig) Lifetime() time.Duration {
	lifetime, _ := time.ParseDuration(d.ConnMaxLifetime)
	return lifetime
}

// TTL returns the parsed asset type cache lifetime
func (c CacheConfig) TTL() time.Duration {
	ttl, err := time.ParseDuration(c.AssetTypeTTL)
	if err != nil || ttl <= 0 {
		return 10 * time.Minute
	}
	return ttl
}
