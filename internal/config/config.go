package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	DatabaseURL         string
	RedisURL            string
	NATSURL             string
	JWTSecret           string
	LeaderboardCacheTTL time.Duration
	LeaderboardLimit    int
	WeeklyWindow        time.Duration
	BadgeMinEnrolled    int
	BadgeQueueSize      int
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
	v.SetEnvPrefix("EDULANE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "EduLane API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("leaderboard.cache_ttl", "1m")
	v.SetDefault("leaderboard.limit", 100)
	v.SetDefault("weekly.window", "168h")
	v.SetDefault("badge.min_enrolled", 1)
	v.SetDefault("badge.queue_size", 256)

	cacheTTL, err := time.ParseDuration(v.GetString("leaderboard.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid leaderboard cache ttl: %w", err)
	}

	weeklyWindow, err := time.ParseDuration(v.GetString("weekly.window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid weekly window: %w", err)
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		NATSURL:             v.GetString("nats.url"),
		JWTSecret:           v.GetString("jwt.secret"),
		LeaderboardCacheTTL: cacheTTL,
		LeaderboardLimit:    v.GetInt("leaderboard.limit"),
		WeeklyWindow:        weeklyWindow,
		BadgeMinEnrolled:    v.GetInt("badge.min_enrolled"),
		BadgeQueueSize:      v.GetInt("badge.queue_size"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.LeaderboardLimit <= 0 {
		cfg.LeaderboardLimit = 100
	}

	if cfg.BadgeQueueSize <= 0 {
		cfg.BadgeQueueSize = 256
	}

	return cfg, nil
}
