package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvProduction = "production"

type Config struct {
	AppEnv      string
	HTTPAddress string
	LogLevel    string

	DatabaseURL string
	RedisURL    string

	JWTSecret       string
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	PasswordPepper  string

	RefreshTokenFromBody bool
	CookieDomain         string
	AllowedOrigins       []string
	AllowCredentials     bool

	KafkaBrokers []string
	KafkaTopic   string

	// bounds each audit event write
	EventPublishTimeout time.Duration

	RateLimitRPS   int
	RateLimitBurst int
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func Load() (*Config, error) {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_ADDRESS", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_ISSUER", "course-service")
	v.SetDefault("ACCESS_TOKEN_TTL", "15m")
	v.SetDefault("REFRESH_TOKEN_TTL", "72h")
	v.SetDefault("REFRESH_TOKEN_FROM_BODY", false)
	v.SetDefault("ALLOW_CREDENTIALS", true)
	v.SetDefault("KAFKA_TOPIC", "auth.events")
	v.SetDefault("EVENT_PUBLISH_TIMEOUT", "2s")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		AppEnv:               v.GetString("APP_ENV"),
		HTTPAddress:          v.GetString("HTTP_ADDRESS"),
		LogLevel:             v.GetString("LOG_LEVEL"),
		DatabaseURL:          v.GetString("DATABASE_URL"),
		RedisURL:             v.GetString("REDIS_URL"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		Issuer:               v.GetString("JWT_ISSUER"),
		AccessTokenTTL:       v.GetDuration("ACCESS_TOKEN_TTL"),
		RefreshTokenTTL:      v.GetDuration("REFRESH_TOKEN_TTL"),
		PasswordPepper:       v.GetString("PASSWORD_PEPPER"),
		RefreshTokenFromBody: v.GetBool("REFRESH_TOKEN_FROM_BODY"),
		CookieDomain:         v.GetString("COOKIE_DOMAIN"),
		AllowedOrigins:       csv(v.GetString("ALLOWED_ORIGINS")),
		AllowCredentials:     v.GetBool("ALLOW_CREDENTIALS"),
		KafkaBrokers:         csv(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:           v.GetString("KAFKA_TOPIC"),
		EventPublishTimeout:  v.GetDuration("EVENT_PUBLISH_TIMEOUT"),
		RateLimitRPS:         v.GetInt("RATE_LIMIT_RPS"),
		RateLimitBurst:       v.GetInt("RATE_LIMIT_BURST"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	required := map[string]string{
		"DATABASE_URL": c.DatabaseURL,
		"REDIS_URL":    c.RedisURL,
		"JWT_SECRET":   c.JWTSecret,
	}
	var missing []string
	for k, val := range required {
		if val == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive: access=%s refresh=%s", c.AccessTokenTTL, c.RefreshTokenTTL)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit must be positive: rps=%d burst=%d", c.RateLimitRPS, c.RateLimitBurst)
	}
	return nil
}

func csv(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
