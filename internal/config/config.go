package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"
)

// Config holds all configuration for the application, read from the environment
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	DB     DBConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Auth   AuthConfig
}

type ServerConfig struct {
	Port               string
	Environment        string
	CORSAllowedOrigins []string
	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is believed. Empty trusts none.
	TrustedProxies []string
}

type StoreConfig struct {
	Driver string
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	SignInLimit  int
	SignInWindow time.Duration
}

type AuthConfig struct {
	JWTSecret            string
	JWTExpirationHours   int64
	BcryptCost           int
	InitialAdminUsername string
}

// Load reads configuration from environment variables, applying defaults
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("MONGO_DB", "blog")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SIGNIN_RATE_LIMIT", 10)
	v.SetDefault("SIGNIN_RATE_WINDOW", time.Minute)
	v.SetDefault("JWT_EXPIRATION_HOURS", 24)
	v.SetDefault("BCRYPT_COST", 10)
	if err := v.BindEnv("JWT_SECRET", "JWT_SECRET_KEY", "SECRET_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind jwt secret: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               v.GetString("SERVER_PORT"),
			Environment:        v.GetString("APP_ENV"),
			CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			TrustedProxies:     splitList(v.GetString("TRUSTED_PROXIES")),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("STORE_DRIVER")),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DB"),
		},
		Redis: RedisConfig{
			Addr:         v.GetString("REDIS_ADDR"),
			Password:     v.GetString("REDIS_PASSWORD"),
			DB:           v.GetInt("REDIS_DB"),
			SignInLimit:  v.GetInt("SIGNIN_RATE_LIMIT"),
			SignInWindow: v.GetDuration("SIGNIN_RATE_WINDOW"),
		},
		Auth: AuthConfig{
			JWTSecret:            v.GetString("JWT_SECRET"),
			JWTExpirationHours:   v.GetInt64("JWT_EXPIRATION_HOURS"),
			BcryptCost:           v.GetInt("BCRYPT_COST"),
			InitialAdminUsername: v.GetString("INITIAL_ADMIN_USERNAME"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the server cannot start without
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}
	if c.Auth.JWTExpirationHours <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be positive, got %d", c.Auth.JWTExpirationHours)
	}
	for _, proxy := range c.Server.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				return fmt.Errorf("TRUSTED_PROXIES: %q is not an IP or CIDR", proxy)
			}
		}
	}
	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.DB.Host == "" || c.DB.User == "" || c.DB.Name == "" {
			return fmt.Errorf("database environment variables not set (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
		}
	case StoreDriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI not set in environment")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	return nil
}

// RateLimitEnabled reports whether a Redis server was configured for sign-in throttling
func (c *Config) RateLimitEnabled() bool {
	return c.Redis.Addr != "" && c.Redis.SignInLimit > 0
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
