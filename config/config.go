// Package config provides configuration management for the nutriplan service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Cache    CacheConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Planner  PlannerConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration
	CORSOrigins    []string
	SwaggerUser    string
	SwaggerPass    string
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string
	Pretty bool
}

// CacheConfig holds plan cache configuration. When RedisURL is set the
// plan cache, rate limit windows and idempotent replays are shared through
// Redis, each under its own key prefix.
type CacheConfig struct {
	Size              int
	TTL               time.Duration
	RedisURL          string
	RedisPrefix       string
	RateLimitPrefix   string
	IdempotencyPrefix string
}

// PlannerConfig holds planning defaults.
type PlannerConfig struct {
	DefaultCurrency string
	// HistoryDepth is how many saved plans feed personalized tips.
	HistoryDepth int
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Enabled          bool
	APIKeys          map[string]bool
	JWTSecretKey     string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	// AdminEmail and AdminPassword seed an admin account at startup when both are set.
	AdminEmail    string
	AdminPassword string
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	LogsTTL      time.Duration
	Enabled      bool
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// Placeholder secrets used when JWT keys are not configured.
const (
	defaultJWTSecret        = "your-secret-key-change-in-production"
	defaultJWTRefreshSecret = "your-refresh-secret-key-change-in-production"
)

// maxHistoryDepth matches the largest history personalized tips accept.
const maxHistoryDepth = 52

// Load reads the configuration from the process environment. Unset or
// unparseable variables keep their defaults.
func Load() Config {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) Config {
	env := envSource(lookup)
	return Config{
		Server: ServerConfig{
			Port:           env.str("PORT", "8080"),
			RateLimit:      read(env, "RATE_LIMIT", 100, strconv.Atoi),
			RateWindow:     read(env, "RATE_WINDOW", time.Minute, time.ParseDuration),
			RequestTimeout: read(env, "REQUEST_TIMEOUT", 10*time.Second, time.ParseDuration),
			CORSOrigins:    splitList(env.str("CORS_ORIGINS", "")),
			SwaggerUser:    env.str("SWAGGER_USER", ""),
			SwaggerPass:    env.str("SWAGGER_PASS", ""),
		},
		Log: LogConfig{
			Level:  env.str("LOG_LEVEL", "info"),
			Pretty: read(env, "LOG_PRETTY", false, strconv.ParseBool),
		},
		Cache: CacheConfig{
			Size:              read(env, "CACHE_SIZE", 1000, strconv.Atoi),
			TTL:               read(env, "CACHE_TTL", 5*time.Minute, time.ParseDuration),
			RedisURL:          env.str("CACHE_REDIS_URL", ""),
			RedisPrefix:       env.str("CACHE_REDIS_PREFIX", "nutriplan:plan:"),
			RateLimitPrefix:   env.str("RATE_LIMIT_REDIS_PREFIX", "nutriplan:rate:"),
			IdempotencyPrefix: env.str("IDEMPOTENCY_REDIS_PREFIX", "nutriplan:idem:"),
		},
		Auth: AuthConfig{
			Enabled:          read(env, "AUTH_ENABLED", false, strconv.ParseBool),
			APIKeys:          keySet(splitList(env.str("API_KEYS", ""))),
			JWTSecretKey:     env.str("JWT_SECRET_KEY", defaultJWTSecret),
			JWTRefreshSecret: env.str("JWT_REFRESH_SECRET_KEY", defaultJWTRefreshSecret),
			AccessTokenTTL:   read(env, "JWT_ACCESS_TOKEN_TTL", 15*time.Minute, time.ParseDuration),
			RefreshTokenTTL:  read(env, "JWT_REFRESH_TOKEN_TTL", 7*24*time.Hour, time.ParseDuration),
			AdminEmail:       env.str("ADMIN_EMAIL", ""),
			AdminPassword:    env.str("ADMIN_PASSWORD", ""),
		},
		Database: DatabaseConfig{
			URI:                            env.str("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:                   env.str("MONGODB_DATABASE", "nutriplan"),
			LogsTTL:                        read(env, "MONGODB_LOGS_TTL", 30*24*time.Hour, time.ParseDuration),
			Enabled:                        read(env, "MONGODB_ENABLED", false, strconv.ParseBool),
			CircuitBreakerFailureThreshold: read(env, "CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5, strconv.Atoi),
			CircuitBreakerSuccessThreshold: read(env, "CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2, strconv.Atoi),
			CircuitBreakerTimeout:          read(env, "CIRCUIT_BREAKER_TIMEOUT", 30*time.Second, time.ParseDuration),
		},
		Planner: PlannerConfig{
			DefaultCurrency: env.str("PLANNER_DEFAULT_CURRENCY", "₹"),
			HistoryDepth:    read(env, "PLANNER_HISTORY_DEPTH", 8, strconv.Atoi),
		},
	}
}

// Validate reports settings the service cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Server.RateLimit < 0 {
		errs = append(errs, errors.New("RATE_LIMIT must not be negative"))
	}
	if c.Cache.Size <= 0 {
		errs = append(errs, errors.New("CACHE_SIZE must be positive"))
	}
	if c.Planner.HistoryDepth < 0 || c.Planner.HistoryDepth > maxHistoryDepth {
		errs = append(errs, fmt.Errorf("PLANNER_HISTORY_DEPTH must be between 0 and %d", maxHistoryDepth))
	}
	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= c.Auth.AccessTokenTTL {
		errs = append(errs, errors.New("JWT_REFRESH_TOKEN_TTL must exceed a positive JWT_ACCESS_TOKEN_TTL"))
	}
	if c.Auth.JWTSecretKey == c.Auth.JWTRefreshSecret {
		errs = append(errs, errors.New("JWT_SECRET_KEY and JWT_REFRESH_SECRET_KEY must differ"))
	}
	return errors.Join(errs...)
}

// InsecureDefaults names the variables still at a development default in a
// deployment that issues tokens.
func (c Config) InsecureDefaults() []string {
	if !c.Database.Enabled {
		return nil
	}
	var names []string
	if c.Auth.JWTSecretKey == defaultJWTSecret {
		names = append(names, "JWT_SECRET_KEY")
	}
	if c.Auth.JWTRefreshSecret == defaultJWTRefreshSecret {
		names = append(names, "JWT_REFRESH_SECRET_KEY")
	}
	return names
}

type envSource func(string) (string, bool)

func (e envSource) str(key, fallback string) string {
	if v, ok := e(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

// read parses key with parse, keeping fallback when it is unset or invalid.
func read[T any](e envSource, key string, fallback T, parse func(string) (T, error)) T {
	raw := e.str(key, "")
	if raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		return fallback
	}
	return v
}

// splitList splits a comma separated value, dropping blank items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func keySet(keys []string) map[string]bool {
	if len(keys) == 0 {
		return nil
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}
