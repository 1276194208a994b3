package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

const minSecretLength = 32

type PostgresConfig struct {
	URL      string
	MaxConns int32
	MinConns int32
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL time.Duration
}

type CookieConfig struct {
	Name   string
	Secure bool
}

type I18nConfig struct {
	// Dir holds one <lang>.json bundle per supported language.
	Dir   string
	Langs []string
}

type HTTPConfig struct {
	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is
	// believed. Empty means the peer address is the client.
	TrustedProxies []string
	// AllowedOrigins may call the API cross-origin with credentials.
	AllowedOrigins []string
}

type ObservabilityConfig struct {
	ServiceName  string
	MetricsAddr  string
	PprofAddr    string
	OTELEndpoint string
}

type Config struct {
	Repositories  RepositoriesConfig
	JWT           JWTConfig
	Cookie        CookieConfig
	HTTP          HTTPConfig
	I18n          I18nConfig
	Observability ObservabilityConfig
	ServerPort    string
	LogLevel      string
	AdminPassword string
}

func Load() (*Config, error) {
	maxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt("DB_MIN_CONNS", 1)
	if err != nil {
		return nil, err
	}
	pprofAddr, set := os.LookupEnv("PPROF_ADDR")
	if !set {
		pprofAddr = ":6060"
	}
	secure, err := strconv.ParseBool(getEnvOrDefault("COOKIE_SECURE", "false"))
	if err != nil {
		return nil, fmt.Errorf("COOKIE_SECURE: %w", err)
	}

	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				URL:      os.Getenv("DATABASE_URL"),
				MaxConns: int32(maxConns),
				MinConns: int32(minConns),
			},
		},
		JWT: JWTConfig{
			SecretKey:      os.Getenv("JWT_SECRET"),
			AccessTokenTTL: 24 * time.Hour,
		},
		Cookie: CookieConfig{
			Name:   "nora_auth",
			Secure: secure,
		},
		HTTP: HTTPConfig{
			TrustedProxies: parseList(os.Getenv("TRUSTED_PROXIES")),
			AllowedOrigins: parseList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		},
		I18n: I18nConfig{
			Dir:   getEnvOrDefault("I18N_DIR", "src/i18n"),
			Langs: ParseLangs(getEnvOrDefault("SUPPORTED_LANGS", "en,fi,no,dk")),
		},
		Observability: ObservabilityConfig{
			ServiceName:  getEnvOrDefault("SERVICE_NAME", "nora-content"),
			MetricsAddr:  getEnvOrDefault("METRICS_ADDR", ":9092"),
			PprofAddr:    pprofAddr,
			OTELEndpoint: os.Getenv("OTEL_ENDPOINT"),
		},
		ServerPort:    getEnvOrDefault("SERVER_PORT", "8091"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service must not start with.
func (c *Config) Validate() error {
	if c.Repositories.Postgres.URL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if c.JWT.SecretKey == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if len(c.JWT.SecretKey) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLength)
	}
	if len(c.I18n.Langs) == 0 {
		return fmt.Errorf("SUPPORTED_LANGS must list at least one language")
	}
	for _, proxy := range c.HTTP.TrustedProxies {
		if net.ParseIP(proxy) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(proxy); err != nil {
			return fmt.Errorf("TRUSTED_PROXIES: %q is not an IP or CIDR", proxy)
		}
	}
	for _, origin := range c.HTTP.AllowedOrigins {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("CORS_ALLOWED_ORIGINS: %q must be an http(s) origin", origin)
		}
	}
	if c.Repositories.Postgres.MinConns > c.Repositories.Postgres.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)",
			c.Repositories.Postgres.MinConns, c.Repositories.Postgres.MaxConns)
	}
	return nil
}

func parseList(raw string) []string {
	var items []string
	for _, part := range strings.Split(raw, ",") {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, strings.TrimSuffix(item, "/"))
		}
	}
	return items
}

// ParseLangs splits a comma separated language list, dropping blanks and duplicates.
func ParseLangs(raw string) []string {
	var langs []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		lang := strings.ToLower(strings.TrimSpace(part))
		if lang == "" {
			continue
		}
		if _, ok := seen[lang]; ok {
			continue
		}
		seen[lang] = struct{}{}
		langs = append(langs, lang)
	}
	return langs
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
