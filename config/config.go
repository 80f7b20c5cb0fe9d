package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	URL          string `mapstructure:"url"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	Issuer    string        `mapstructure:"issuer"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SummaryConfig struct {
	CacheSize int           `mapstructure:"cache_size"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	Timezone  string        `mapstructure:"timezone"`
}

type ReportsConfig struct {
	GlobalEnabled bool `mapstructure:"global_enabled"`
}

type AMQPConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Summary  SummaryConfig  `mapstructure:"summary"`
	Reports  ReportsConfig  `mapstructure:"reports"`
	AMQP     AMQPConfig     `mapstructure:"amqp"`
}

const EnvPrefix = "FIN"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", "")
	v.SetDefault("database.url", "./ledger.db")
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "fin-ledger")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("summary.cache_size", 256)
	v.SetDefault("summary.cache_ttl", time.Minute)
	v.SetDefault("summary.timezone", "UTC")

	v.SetDefault("reports.global_enabled", false)

	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.exchange", "fin.events")
}

// Load reads configuration from an optional YAML file and the environment.
// With an empty path, ./config.yaml is used when present. Environment
// variables use the FIN_ prefix (FIN_DATABASE_URL); POSTGRES_URL and
// JWT_SECRET are honoured as well.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "POSTGRES_URL")
	_ = v.BindEnv("auth.jwt_secret", EnvPrefix+"_AUTH_JWT_SECRET", "JWT_SECRET")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Database.Driver == "" {
		c.Database.Driver = driverFor(c.Database.URL)
	}
	return &c, nil
}

// driverFor picks the database driver for a URL without an explicit
// driver: postgres URLs select postgres, anything else is a SQLite path.
func driverFor(dbURL string) string {
	if isPostgresURL(dbURL) {
		return "postgres"
	}
	return "sqlite"
}

func isPostgresURL(dbURL string) bool {
	u, err := url.Parse(dbURL)
	if err != nil {
		return false
	}
	return u.Scheme == "postgres" || u.Scheme == "postgresql"
}

// Location resolves the summary time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Summary.Timezone)
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Address == "" {
		problems = append(problems, "server.address cannot be empty")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		problems = append(problems, fmt.Sprintf("invalid server.mode %q: must be debug, release or test", c.Server.Mode))
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		problems = append(problems, "server timeouts must be positive")
	}

	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		problems = append(problems, fmt.Sprintf("invalid database.driver %q: must be postgres or sqlite", c.Database.Driver))
	}
	if c.Database.URL == "" {
		problems = append(problems, "database.url cannot be empty")
	} else {
		switch {
		case c.Database.Driver == "sqlite" && isPostgresURL(c.Database.URL):
			problems = append(problems, "database.url is a postgres URL but database.driver is sqlite")
		case c.Database.Driver == "postgres" && strings.Contains(c.Database.URL, "://") && !isPostgresURL(c.Database.URL):
			problems = append(problems, "database.url must use the postgres:// or postgresql:// scheme when database.driver is postgres")
		}
	}
	if c.Database.MaxOpenConns < 0 {
		problems = append(problems, "database.max_open_conns cannot be negative")
	}

	if c.Auth.JWTSecret == "" {
		problems = append(problems, "auth.jwt_secret is required (FIN_AUTH_JWT_SECRET or JWT_SECRET)")
	}
	if c.Auth.TokenTTL <= 0 {
		problems = append(problems, "auth.token_ttl must be positive")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log.level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log.format %q: must be text or json", c.Log.Format))
	}

	if c.Summary.CacheSize < 0 || c.Summary.CacheTTL < 0 {
		problems = append(problems, "summary cache size and ttl cannot be negative")
	}
	if _, err := c.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("invalid summary.timezone %q: %v", c.Summary.Timezone, err))
	}

	if c.AMQP.URL != "" {
		if u, err := url.Parse(c.AMQP.URL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid amqp.url: %v", err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid amqp.url scheme %q: must be amqp or amqps", u.Scheme))
		}
		if c.AMQP.Exchange == "" {
			problems = append(problems, "amqp.exchange cannot be empty when amqp.url is set")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}
