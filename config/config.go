// config.go - Handles configuration for the project

package config

import (
	"log"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	Port            string `mapstructure:"PORT"`
	Env             string `mapstructure:"ENV"`
	DBPath          string `mapstructure:"DB_PATH"`
	JWTSecret       string `mapstructure:"JWT_SECRET"`
	SessionTTLHours int    `mapstructure:"SESSION_TTL_HOURS"`

	// Administrator seeding. Only applied when no administrator account
	// exists yet, so a wiped database always has a way in.
	SeedAdmin     bool   `mapstructure:"SEED_ADMIN"`
	AdminUsername string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
}

var (
	appConfig Config
	loadOnce  sync.Once
)

// Load reads configuration once from config.yaml (if present) and the
// environment, with development defaults for everything else.
func Load() *Config {
	loadOnce.Do(func() {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AutomaticEnv()

		viper.SetDefault("PORT", "8080")
		viper.SetDefault("ENV", "development")
		viper.SetDefault("DB_PATH", "data.db")
		viper.SetDefault("JWT_SECRET", "dev-only-secret")
		viper.SetDefault("SESSION_TTL_HOURS", 12)
		viper.SetDefault("SEED_ADMIN", false)
		viper.SetDefault("ADMIN_USERNAME", "admin")
		viper.SetDefault("ADMIN_PASSWORD", "")

		if err := viper.ReadInConfig(); err != nil {
			log.Println("No config file found, using environment variables only")
		}
		if err := viper.Unmarshal(&appConfig); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	})
	return &appConfig
}

// SessionTTL returns the absolute session lifetime.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
