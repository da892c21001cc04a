package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port               string        `mapstructure:"API_PORT"`
	Env                string        `mapstructure:"ENV"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	MongoURI           string        `mapstructure:"MONGO_URI"`
	MongoDatabase      string        `mapstructure:"MONGO_DATABASE"`
	AccessTokenSecret  string        `mapstructure:"ACCESS_TOKEN_SECRET"`
	TokenTTL           time.Duration `mapstructure:"TOKEN_TTL"`
	TokenIssuerKeyHash string        `mapstructure:"TOKEN_ISSUER_KEY_HASH"`
	CORSOrigins        []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitPerMin    int           `mapstructure:"RATE_LIMIT_PER_MIN"`
	StoreTimeout       time.Duration `mapstructure:"STORE_TIMEOUT"`
	TextbeltAPIKey     string        `mapstructure:"TEXTBELT_API_KEY"`
	TextbeltURL        string        `mapstructure:"TEXTBELT_URL"`
}

var keys = []string{
	"API_PORT", "ENV", "LOG_LEVEL", "MONGO_URI", "MONGO_DATABASE",
	"ACCESS_TOKEN_SECRET", "TOKEN_TTL", "TOKEN_ISSUER_KEY_HASH", "CORS_ORIGINS",
	"RATE_LIMIT_PER_MIN", "STORE_TIMEOUT", "TEXTBELT_API_KEY", "TEXTBELT_URL",
}

// Load reads .env (when present) and the process environment into a Config.
func Load() (*Config, error) {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("API_PORT", "5000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "doctors_portal")
	v.SetDefault("TOKEN_TTL", "1h")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_PER_MIN", 120)
	v.SetDefault("STORE_TIMEOUT", "5s")
	v.SetDefault("TEXTBELT_URL", "https://textbelt.com/text")

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.CORSOrigins = splitOrigins(v.GetString("CORS_ORIGINS"))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.AccessTokenSecret == "" {
		return errors.New("ACCESS_TOKEN_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive, got %s", c.StoreTimeout)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// AllowAllOrigins reports whether CORS should accept any origin.
func (c *Config) AllowAllOrigins() bool {
	return len(c.CORSOrigins) == 0 || (len(c.CORSOrigins) == 1 && c.CORSOrigins[0] == "*")
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
