package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string        `mapstructure:"PORT"`
	Env              string        `mapstructure:"ENV"`
	AuthMode         string        `mapstructure:"AUTH_MODE"`
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	DBClusterID      string        `mapstructure:"DB_CLUSTER_ID"`
	DBName           string        `mapstructure:"DB_NAME"`
	DBMaxConns       int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns       int32         `mapstructure:"DB_MIN_CONNS"`
	DBConnectTimeout time.Duration `mapstructure:"DB_CONNECT_TIMEOUT"`
	DBIdleTimeout    time.Duration `mapstructure:"DB_IDLE_TIMEOUT"`
	AuthIssuer       string        `mapstructure:"AUTH_ISSUER"`
	AuthJWKSURL      string        `mapstructure:"AUTH_JWKS_URL"`
	AuthAudience     string        `mapstructure:"AUTH_AUDIENCE"`
	TenantClaim      string        `mapstructure:"TENANT_CLAIM"`
	SharedSchema     string        `mapstructure:"SHARED_SCHEMA"`
	CORSOrigins      []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS     float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst   int           `mapstructure:"RATE_LIMIT_BURST"`
	MigrationsDir    string        `mapstructure:"MIGRATIONS_DIR"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("AUTH_MODE", "") // auto-detect: "" -> inferred from ENV
	v.SetDefault("DB_NAME", "emr")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 0)
	v.SetDefault("DB_CONNECT_TIMEOUT", "10s")
	v.SetDefault("DB_IDLE_TIMEOUT", "5m")
	v.SetDefault("TENANT_CLAIM", "custom:tenant_id")
	v.SetDefault("SHARED_SCHEMA", "shared")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("MIGRATIONS_DIR", "migrations/tenant")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("AUTH_MODE")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_CLUSTER_ID")
	v.BindEnv("DB_NAME")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("DB_CONNECT_TIMEOUT")
	v.BindEnv("DB_IDLE_TIMEOUT")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_JWKS_URL")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("TENANT_CLAIM")
	v.BindEnv("SHARED_SCHEMA")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("MIGRATIONS_DIR")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.IsDev() {
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: DevAuthMiddleware is active; the tenant comes from the X-Tenant-ID header.")
		log.Println("WARNING: Set ENV=production and configure AUTH_ISSUER before any real deployment.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ResolvedAuthMode returns the effective auth mode. If AUTH_MODE is explicitly
// set, it is returned. Otherwise the mode is inferred:
//   - ENV=development → "development" (tenant taken from a request header)
//   - otherwise       → "external"    (bearer tokens from an external issuer)
func (c *Config) ResolvedAuthMode() string {
	if c.AuthMode != "" {
		return c.AuthMode
	}
	if c.IsDev() {
		return "development"
	}
	return "external"
}

// Validate checks that the configuration is safe to run. The database must be
// reachable either through an explicit DATABASE_URL or through credential
// resolution against DB_CLUSTER_ID. In external auth mode an issuer and a
// JWKS endpoint are required so that bearer tokens are actually verified.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" && c.DBClusterID == "" {
		return fmt.Errorf("either DATABASE_URL or DB_CLUSTER_ID is required")
	}

	mode := c.ResolvedAuthMode()
	switch mode {
	case "development":
	case "external":
		if c.AuthIssuer == "" {
			return fmt.Errorf(
				"AUTH_ISSUER must be set when AUTH_MODE is \"external\" (current ENV=%q); "+
					"refusing to start without authentication configuration", c.Env)
		}
		if c.AuthJWKSURL == "" {
			return fmt.Errorf("AUTH_JWKS_URL must be set when AUTH_MODE is \"external\"")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be \"development\" or \"external\", got %q", mode)
	}

	if c.TenantClaim == "" {
		return fmt.Errorf("TENANT_CLAIM must not be empty")
	}
	if c.SharedSchema == "" {
		return fmt.Errorf("SHARED_SCHEMA must not be empty")
	}

	return nil
}
