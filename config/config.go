package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingSecret = errors.New("SECRET_KEY (or JWT_SECRET) must be set")

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Security  SecurityConfig
	LLM       LLMConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Port         string
	Env          string
	Debug        bool
	AllowedHosts []string
}

type DBConfig struct {
	Driver      string // postgres | sqlite
	URL         string
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a redis host is configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type SecurityConfig struct {
	TrustedOrigins []string
	TrustedProxies []string
	CookieSecure   bool
}

type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	Referer     string
	Title       string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("ALLOWED_HOSTS", "*")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "therapy.db")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_AUTO_MIGRATE", true)

	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("JWT_ACCESS_EXPIRY", "15m")
	viper.SetDefault("JWT_REFRESH_EXPIRY", "168h")

	viper.SetDefault("CSRF_TRUSTED_ORIGINS", "")
	viper.SetDefault("COOKIE_SECURE", false)
	viper.SetDefault("TRUSTED_PROXIES", "")

	viper.SetDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1")
	viper.SetDefault("LLM_MODEL", "openai/gpt-4o")
	viper.SetDefault("LLM_TEMPERATURE", 0.7)
	viper.SetDefault("LLM_MAX_TOKENS", 300)
	viper.SetDefault("LLM_TIMEOUT", "30s")
	viper.SetDefault("LLM_REFERER", "http://localhost:8000")
	viper.SetDefault("LLM_TITLE", "Assistente Terapeuta")

	viper.SetDefault("RATE_LIMIT_RPS", 1.0)
	viper.SetDefault("RATE_LIMIT_BURST", 10)
}

// LoadConfig resolves configuration once: environment, then .env, then defaults.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	setDefaults()
	viper.AutomaticEnv()

	secret := viper.GetString("SECRET_KEY")
	if secret == "" {
		secret = viper.GetString("JWT_SECRET")
	}
	if secret == "" {
		return nil, ErrMissingSecret
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	llmTimeout, err := time.ParseDuration(viper.GetString("LLM_TIMEOUT"))
	if err != nil {
		llmTimeout = 30 * time.Second
	}

	config := &Config{
		App: AppConfig{
			Port:         viper.GetString("APP_PORT"),
			Env:          viper.GetString("APP_ENV"),
			Debug:        viper.GetBool("DEBUG"),
			AllowedHosts: splitList(viper.GetString("ALLOWED_HOSTS")),
		},
		DB: DBConfig{
			Driver:      strings.ToLower(viper.GetString("DB_DRIVER")),
			URL:         viper.GetString("DATABASE_URL"),
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASSWORD"),
			Name:        viper.GetString("DB_NAME"),
			SSLMode:     viper.GetString("DB_SSLMODE"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        secret,
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Security: SecurityConfig{
			TrustedOrigins: splitList(viper.GetString("CSRF_TRUSTED_ORIGINS")),
			TrustedProxies: splitList(viper.GetString("TRUSTED_PROXIES")),
			CookieSecure:   viper.GetBool("COOKIE_SECURE"),
		},
		LLM: LLMConfig{
			APIKey:      viper.GetString("OPENROUTER_API_KEY"),
			BaseURL:     strings.TrimRight(viper.GetString("OPENROUTER_BASE_URL"), "/"),
			Model:       viper.GetString("LLM_MODEL"),
			Temperature: float32(viper.GetFloat64("LLM_TEMPERATURE")),
			MaxTokens:   viper.GetInt("LLM_MAX_TOKENS"),
			Timeout:     llmTimeout,
			Referer:     viper.GetString("LLM_REFERER"),
			Title:       viper.GetString("LLM_TITLE"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             viper.GetInt("RATE_LIMIT_BURST"),
		},
	}

	// DATABASE_URL implies postgres unless a driver was chosen explicitly.
	if config.DB.Driver == "" {
		config.DB.Driver = "sqlite"
		if config.DB.URL != "" {
			config.DB.Driver = "postgres"
		}
	}

	return config, nil
}

// splitList parses a comma separated env value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
