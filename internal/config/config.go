package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration required by the API process.
// All values come from env (optionally seeded from a .env file).
// No business logic should depend on raw environment variables.
type Config struct {
	App     AppConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Auth    AuthConfig
	FreePBX FreePBXConfig
	CORS    CORSConfig
}

type AppConfig struct {
	Env  string
	Port int
}

type MongoConfig struct {
	URL    string
	DBName string
}

// RedisConfig is optional; an empty Addr disables the login rate limiter.
type RedisConfig struct {
	Addr string

	LoginLimit  int
	LoginWindow time.Duration
}

type AuthConfig struct {
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration
}

type FreePBXConfig struct {
	// WebhookSecret is optional. When empty the call-event webhook accepts
	// unauthenticated deliveries; this mirrors the PBX-side default and is a
	// documented weaker mode.
	WebhookSecret string
}

type CORSConfig struct {
	Origins []string
}

// devJWTSecret keeps local setups working without env plumbing.
// Production refuses to start on it.
const devJWTSecret = "helpline-crm-secret-key-2025"

func Load() (Config, error) {
	// Best effort; real deployments set env directly.
	_ = godotenv.Load()

	c := Config{}

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	if c.App.Env == "" {
		c.App.Env = "local"
	}
	c.App.Port = intOr("APP_PORT", 8080)

	c.Mongo.URL = strings.TrimSpace(os.Getenv("MONGO_URL"))
	c.Mongo.DBName = strings.TrimSpace(os.Getenv("DB_NAME"))

	c.Redis.Addr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	c.Redis.LoginLimit = intOr("LOGIN_RATE_LIMIT", 10)
	c.Redis.LoginWindow = durationOr("LOGIN_RATE_WINDOW", time.Minute)

	c.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	if c.Auth.JWTSecret == "" {
		c.Auth.JWTSecret = devJWTSecret
	}
	c.Auth.JWTIssuer = strings.TrimSpace(os.Getenv("JWT_ISSUER"))
	c.Auth.TokenTTL = durationOr("JWT_TTL", 24*time.Hour)

	c.FreePBX.WebhookSecret = os.Getenv("FREEPBX_WEBHOOK_SECRET")

	origins := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if origins == "" {
		origins = "*"
	}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			c.CORS.Origins = append(c.CORS.Origins, o)
		}
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error

	if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	if c.Mongo.URL == "" {
		errs = append(errs, errors.New("MONGO_URL is required"))
	}
	if c.Mongo.DBName == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}

	if c.IsProduction() && c.Auth.JWTSecret == devJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET is required in production"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}

	if c.Redis.Addr != "" {
		if c.Redis.LoginLimit <= 0 {
			errs = append(errs, errors.New("LOGIN_RATE_LIMIT must be positive"))
		}
		if c.Redis.LoginWindow <= 0 {
			errs = append(errs, errors.New("LOGIN_RATE_WINDOW must be positive"))
		}
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func intOr(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func durationOr(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
