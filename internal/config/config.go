// AngelaMos | 2026
// config.go

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"
)

type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Security  SecurityConfig  `koanf:"security"`
	JWT       JWTConfig       `koanf:"jwt"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
	OAuth     OAuthConfig     `koanf:"oauth"`
	Log       LogConfig       `koanf:"log"`
	Otel      OtelConfig      `koanf:"otel"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	DevURL          string        `koanf:"dev_url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

type SecurityConfig struct {
	SecretKey string `koanf:"secret_key"`
}

type JWTConfig struct {
	AccessTokenExpire  time.Duration `koanf:"access_token_expire"`
	RefreshTokenExpire time.Duration `koanf:"refresh_token_expire"`
	Issuer             string        `koanf:"issuer"`
	Audience           string        `koanf:"audience"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Burst    int           `koanf:"burst"`
}

// CORSConfig keeps the raw comma-separated strings exactly as they arrive
// from the environment; the list accessors below do the splitting.
type CORSConfig struct {
	Enabled          bool   `koanf:"enabled"`
	Origins          string `koanf:"origins"`
	Methods          string `koanf:"methods"`
	Headers          string `koanf:"headers"`
	AllowCredentials bool   `koanf:"allow_credentials"`
	MaxAge           int    `koanf:"max_age"`
	CSP              string `koanf:"csp"`
}

type OAuthConfig struct {
	Google OAuthProviderConfig `koanf:"google"`
	GitHub OAuthProviderConfig `koanf:"github"`
}

type OAuthProviderConfig struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, then validates it. The returned struct is the only
// copy: it is constructed once at startup and handed to collaborators by
// reference, never read back from the environment afterwards.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyProfile(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyProfile resolves profile-dependent fallbacks before validation runs.
func applyProfile(cfg *Config) {
	if cfg.App.Environment == EnvDevelopment && cfg.Database.URL == "" {
		cfg.Database.URL = cfg.Database.DevURL
	}
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "habitflow",
		"app.version":     "1.0.0",
		"app.environment": EnvDevelopment,

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",

		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,

		"jwt.access_token_expire":  "15m",
		"jwt.refresh_token_expire": "168h",
		"jwt.issuer":               "habitflow",
		"jwt.audience":             "habitflow-api",

		"rate_limit.requests": 100,
		"rate_limit.window":   "1m",
		"rate_limit.burst":    20,

		"cors.enabled":           true,
		"cors.origins":           "*",
		"cors.methods":           "GET,POST,PUT,DELETE,OPTIONS",
		"cors.headers":           "Content-Type,Authorization",
		"cors.allow_credentials": false,
		"cors.max_age":           3600,
		"cors.csp":               "default-src 'self'",

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "habitflow",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"SECRET_KEY":               "security.secret_key",
	"DATABASE_URL":             "database.url",
	"DEV_DATABASE_URL":         "database.dev_url",
	"REDIS_URL":                "redis.url",
	"APP_ENV":                  "app.environment",
	"FLASK_ENV":                "app.environment", // legacy deployment alias
	"HOST":                     "server.host",
	"PORT":                     "server.port",
	"LOG_LEVEL":                "log.level",
	"LOG_FORMAT":               "log.format",
	"CORS_ENABLED":             "cors.enabled",
	"CORS_ORIGINS":             "cors.origins",
	"CORS_METHODS":             "cors.methods",
	"CORS_HEADERS":             "cors.headers",
	"CORS_CREDENTIALS":         "cors.allow_credentials",
	"CORS_MAX_AGE":             "cors.max_age",
	"CSP_POLICY":               "cors.csp",
	"GOOGLE_CLIENT_ID":         "oauth.google.client_id",
	"GOOGLE_CLIENT_SECRET":     "oauth.google.client_secret",
	"GITHUB_CLIENT_ID":         "oauth.github.client_id",
	"GITHUB_CLIENT_SECRET":     "oauth.github.client_secret",
	"JWT_ACCESS_TOKEN_EXPIRE":  "jwt.access_token_expire",
	"JWT_REFRESH_TOKEN_EXPIRE": "jwt.refresh_token_expire",
	"JWT_ISSUER":               "jwt.issuer",
	"JWT_AUDIENCE":             "jwt.audience",
	"RATE_LIMIT_REQUESTS":      "rate_limit.requests",
	"RATE_LIMIT_WINDOW":        "rate_limit.window",
	"RATE_LIMIT_BURST":         "rate_limit.burst",
	"OTEL_ENDPOINT":            "otel.endpoint",
	"OTEL_SERVICE_NAME":        "otel.service_name",
	"OTEL_ENABLED":             "otel.enabled",
	"OTEL_INSECURE":            "otel.insecure",
	"OTEL_SAMPLE_RATE":         "otel.sample_rate",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

func (c *Config) IsTesting() bool {
	return c.App.Environment == EnvTesting
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// OriginList returns the parsed CORS origin allow-list. A single "*" entry
// means every origin is allowed.
func (c *CORSConfig) OriginList() []string {
	return splitList(c.Origins)
}

func (c *CORSConfig) MethodList() []string {
	return splitList(c.Methods)
}

func (c *CORSConfig) HeaderList() []string {
	return splitList(c.Headers)
}

func (c *CORSConfig) AllowsAllOrigins() bool {
	origins := c.OriginList()
	return len(origins) == 1 && origins[0] == "*"
}

// AllowsOrigin reports whether the given request origin is on the allow-list.
func (c *CORSConfig) AllowsOrigin(origin string) bool {
	if c.AllowsAllOrigins() {
		return true
	}
	for _, allowed := range c.OriginList() {
		if allowed == origin {
			return true
		}
	}
	return false
}

// Configured reports whether both halves of the OAuth credential pair are set.
func (p *OAuthProviderConfig) Configured() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
