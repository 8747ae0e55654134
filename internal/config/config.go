package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the records service.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	DatabasePath    string
	AttachmentsRoot string
	JWTSecret       string
	TokenTTL        time.Duration
	SeedDefaults    bool
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SRS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Student Records Service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.path", "student_records.db")
	v.SetDefault("attachments.root", "student_attachments")
	v.SetDefault("token.ttl", "12h")
	v.SetDefault("seed.defaults", true)

	ttlString := v.GetString("token.ttl")
	if ttlString == "" {
		ttlString = "12h"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid token ttl: %w", err)
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		DatabasePath:    v.GetString("database.path"),
		AttachmentsRoot: v.GetString("attachments.root"),
		JWTSecret:       v.GetString("jwt.secret"),
		TokenTTL:        ttl,
		SeedDefaults:    v.GetBool("seed.defaults"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}
