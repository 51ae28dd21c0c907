package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DefaultJWTSecret is the development fallback signing secret. Validate
// refuses to run production with it.
const DefaultJWTSecret = "ehr-system-secret-key"

type Config struct {
	Port                string   `mapstructure:"PORT"`
	Env                 string   `mapstructure:"ENV"`
	JWTSecret           string   `mapstructure:"JWT_SECRET"`
	TokenTTLHours       int      `mapstructure:"TOKEN_TTL_HOURS"`
	CORSOrigins         []string `mapstructure:"CORS_ORIGINS"`
	UploadMaxBytes      int64    `mapstructure:"UPLOAD_MAX_BYTES"`
	StorageBucketURL    string   `mapstructure:"STORAGE_BUCKET_URL"`
	StorageTimeoutSecs  int      `mapstructure:"STORAGE_TIMEOUT_SECONDS"`
	SignedURLTTLSeconds int      `mapstructure:"SIGNED_URL_TTL_SECONDS"`
	EnforcePatientRefs  bool     `mapstructure:"ENFORCE_PATIENT_REFS"`
	SeedAdmin           bool     `mapstructure:"SEED_ADMIN"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "3001")
	v.SetDefault("ENV", "development")
	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("TOKEN_TTL_HOURS", 24)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("UPLOAD_MAX_BYTES", 50*1024*1024)
	v.SetDefault("STORAGE_BUCKET_URL", "memory://ehr-medical-files")
	v.SetDefault("STORAGE_TIMEOUT_SECONDS", 30)
	v.SetDefault("SIGNED_URL_TTL_SECONDS", 3600)
	v.SetDefault("ENFORCE_PATIENT_REFS", false)
	v.SetDefault("SEED_ADMIN", true)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("TOKEN_TTL_HOURS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("UPLOAD_MAX_BYTES")
	v.BindEnv("STORAGE_BUCKET_URL")
	v.BindEnv("STORAGE_TIMEOUT_SECONDS")
	v.BindEnv("SIGNED_URL_TTL_SECONDS")
	v.BindEnv("ENFORCE_PATIENT_REFS")
	v.BindEnv("SEED_ADMIN")

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

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Production refuses
// the default signing secret: session tokens signed with a known key are
// forgeable.
func (c *Config) Validate() error {
	if c.IsProduction() && c.JWTSecret == DefaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set to a non-default value when ENV=production")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.TokenTTLHours <= 0 {
		return fmt.Errorf("TOKEN_TTL_HOURS must be positive, got %d", c.TokenTTLHours)
	}
	if c.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", c.UploadMaxBytes)
	}
	return nil
}
