package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// minJWTSecretLength mirrors the token service's lower bound so a weak
// secret fails at load time.
const minJWTSecretLength = 32

type Config struct {
	Port       string `env:"PORT,        default=8080"`
	Env        string `env:"ENV,         default=development"`
	LogLevel   string `env:"LOG_LEVEL,   default=info"`
	CORSOrigin string `env:"CORS_ORIGIN, default=*"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	Audit AuditConfig
	Seed  SeedConfig
}

type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET, required"`
	JWTTTL        time.Duration `env:"JWT_TTL,              default=24h"`
	BcryptCost    int           `env:"BCRYPT_COST,          default=10"`
	MaxAttempts   int           `env:"LOGIN_MAX_ATTEMPTS,   default=5"`
	LockoutWindow time.Duration `env:"LOGIN_LOCKOUT_WINDOW, default=15m"`
}

type MongoConfig struct {
	URI         string        `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string        `env:"MONGO_DB,            default=record_tracker"`
	MaxPoolSize uint64        `env:"MONGO_MAX_POOL_SIZE, default=50"`
	Timeout     time.Duration `env:"MONGO_TIMEOUT,       default=10s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,        default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=10"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

type SeedConfig struct {
	Enabled       bool   `env:"SEED_ENABLED,        default=false"`
	AdminID       string `env:"SEED_ADMIN_ID,       default=admin001"`
	AdminName     string `env:"SEED_ADMIN_NAME,     default=System Administrator"`
	AdminEmail    string `env:"SEED_ADMIN_EMAIL,    default=admin@example.com"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD"`
}

// IsDevelopment reports whether human-friendly console logging should be used.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// CORSOrigins splits the comma-separated CORS_ORIGIN value.
func (c *Config) CORSOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Validate checks constraints envconfig cannot express.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", minJWTSecretLength)
	}
	if c.Auth.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.Seed.Enabled && c.Seed.AdminPassword == "" {
		return errors.New("SEED_ADMIN_PASSWORD is required when SEED_ENABLED=true")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
