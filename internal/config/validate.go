// AngelaMos | 2026
// validate.go

package config

import (
	"fmt"
	"strings"
)

const minSecretKeyLength = 32

// placeholderSecrets are example values that must never reach a running
// deployment, regardless of environment.
var placeholderSecrets = map[string]struct{}{
	"your-secret-key-here": {},
	"change-me":            {},
	"dev-key":              {},
}

var allowedCORSMethods = map[string]struct{}{
	"GET": {}, "POST": {}, "PUT": {}, "DELETE": {},
	"OPTIONS": {}, "PATCH": {}, "HEAD": {},
}

// ValidationError carries every configuration problem found in one pass so
// startup can report the full list instead of failing one variable at a time.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration validation failed:")
	for _, p := range e.Problems {
		b.WriteString("\n  - ")
		b.WriteString(p)
	}
	return b.String()
}

// Validate checks the resolved configuration against the active environment
// profile. It never consults the process environment; callers validate the
// struct they were handed.
func Validate(c *Config) error {
	var problems []string

	switch c.App.Environment {
	case EnvDevelopment, EnvTesting, EnvProduction:
	default:
		problems = append(problems, fmt.Sprintf(
			"APP_ENV must be one of development, testing, production (got %q)",
			c.App.Environment,
		))
	}

	problems = append(problems, validateProfile(c)...)
	problems = append(problems, validateSecretKey(c)...)
	problems = append(problems, validateDatabase(c)...)
	problems = append(problems, validateCORS(&c.CORS)...)
	problems = append(problems, validateOAuth(&c.OAuth)...)
	problems = append(problems, validateServer(&c.Server)...)

	if c.IsProduction() && c.Otel.Enabled && c.Otel.Insecure {
		problems = append(problems, "OTEL_INSECURE must be false in production")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}

	return nil
}

// validateProfile enforces the per-environment required-variable sets:
// production requires the secret key and a database connection string,
// development and testing require nothing.
func validateProfile(c *Config) []string {
	var problems []string

	switch c.App.Environment {
	case EnvProduction:
		if c.Security.SecretKey == "" {
			problems = append(problems,
				"SECRET_KEY is required in production environment")
		}
		if c.Database.URL == "" {
			problems = append(problems,
				"DATABASE_URL is required in production environment")
		}
	case EnvDevelopment:
		if c.Security.SecretKey == "" {
			problems = append(problems,
				"SECRET_KEY should be set even in development for consistency")
		}
	case EnvTesting:
		// Minimal requirements.
	}

	return problems
}

func validateSecretKey(c *Config) []string {
	key := c.Security.SecretKey
	if key == "" {
		return nil
	}

	var problems []string

	if len(key) < minSecretKeyLength {
		problems = append(problems, fmt.Sprintf(
			"SECRET_KEY should be at least %d characters long",
			minSecretKeyLength,
		))
	}

	if _, bad := placeholderSecrets[key]; bad {
		problems = append(problems,
			"SECRET_KEY should not use default/example values")
	}

	return problems
}

func validateDatabase(c *Config) []string {
	url := c.Database.URL
	if url == "" {
		return nil
	}

	if !strings.HasPrefix(url, "postgres://") &&
		!strings.HasPrefix(url, "postgresql://") {
		return []string{
			"DATABASE_URL must start with postgres:// or postgresql://",
		}
	}

	return nil
}

func validateCORS(c *CORSConfig) []string {
	var problems []string

	if !c.Enabled {
		return nil
	}

	for _, origin := range c.OriginList() {
		if origin == "*" {
			continue
		}
		if !strings.HasPrefix(origin, "http://") &&
			!strings.HasPrefix(origin, "https://") {
			problems = append(problems, fmt.Sprintf(
				"invalid CORS origin format: %s", origin))
		}
	}

	for _, method := range c.MethodList() {
		if _, ok := allowedCORSMethods[method]; !ok {
			problems = append(problems, fmt.Sprintf(
				"invalid CORS method: %s", method))
		}
	}

	if c.MaxAge < 0 {
		problems = append(problems,
			"CORS_MAX_AGE must be a non-negative integer")
	}

	if c.AllowCredentials && c.AllowsAllOrigins() {
		problems = append(problems,
			"CORS wildcard '*' cannot be used with CORS_CREDENTIALS")
	}

	return problems
}

// validateOAuth requires each provider's client id and secret to be set as a
// pair; half a credential is always a deployment mistake.
func validateOAuth(o *OAuthConfig) []string {
	var problems []string

	if o.Google.ClientID != "" && o.Google.ClientSecret == "" {
		problems = append(problems,
			"GOOGLE_CLIENT_SECRET is required when GOOGLE_CLIENT_ID is set")
	}
	if o.Google.ClientSecret != "" && o.Google.ClientID == "" {
		problems = append(problems,
			"GOOGLE_CLIENT_ID is required when GOOGLE_CLIENT_SECRET is set")
	}

	if o.GitHub.ClientID != "" && o.GitHub.ClientSecret == "" {
		problems = append(problems,
			"GITHUB_CLIENT_SECRET is required when GITHUB_CLIENT_ID is set")
	}
	if o.GitHub.ClientSecret != "" && o.GitHub.ClientID == "" {
		problems = append(problems,
			"GITHUB_CLIENT_ID is required when GITHUB_CLIENT_SECRET is set")
	}

	return problems
}

func validateServer(s *ServerConfig) []string {
	var problems []string

	if s.ReadTimeout <= 0 {
		problems = append(problems, "server.read_timeout must be positive")
	}
	if s.WriteTimeout <= 0 {
		problems = append(problems, "server.write_timeout must be positive")
	}

	return problems
}
