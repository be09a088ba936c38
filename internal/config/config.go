package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	GW2      GW2Config      `mapstructure:"gw2"`
	Crafting CraftingConfig `mapstructure:"crafting"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// ServerConfig holds the HTTP API configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// GW2Config holds Guild Wars 2 API client configuration
type GW2Config struct {
	BaseURL              string `mapstructure:"base_url"`
	SchemaVersion        string `mapstructure:"schema_version"`
	Timeout              int    `mapstructure:"timeout"`
	MaxRetries           int    `mapstructure:"max_retries"`
	MaxConcurrent        int    `mapstructure:"max_concurrent"`
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`
	PageSize             int    `mapstructure:"page_size"`
}

// CraftingConfig holds recipe resolution limits
type CraftingConfig struct {
	MaxDepth int `mapstructure:"max_depth"`
}

// DatabaseConfig holds the optional local item index database. An empty
// host disables it.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds the optional provider-cache backend. An empty host
// falls back to the in-process cache.
type RedisConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Password   string `mapstructure:"password"`
	Database   int    `mapstructure:"database"`
	ListingTTL int    `mapstructure:"listing_ttl"` // seconds; order books go stale fast
	StaticTTL  int    `mapstructure:"static_ttl"`  // seconds; recipes and item metadata barely change
}

// Load loads configuration from YAML file with environment variable overrides.
// A missing config.yaml is not an error; defaults plus environment apply.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "localhost")

	viper.SetDefault("gw2.base_url", "https://api.guildwars2.com")
	viper.SetDefault("gw2.schema_version", "2022-03-09T02:00:00.000Z")
	viper.SetDefault("gw2.timeout", 30)
	viper.SetDefault("gw2.max_retries", 3)
	viper.SetDefault("gw2.max_concurrent", 10)
	viper.SetDefault("gw2.max_requests_per_second", 5)
	viper.SetDefault("gw2.page_size", 200)

	viper.SetDefault("crafting.max_depth", 10)

	viper.SetDefault("database.host", "")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "gw2crafter")
	viper.SetDefault("database.user", "gw2crafter_user")
	viper.SetDefault("database.password", "gw2crafter_pass")

	viper.SetDefault("redis.host", "")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.database", 0)
	viper.SetDefault("redis.listing_ttl", 60)
	viper.SetDefault("redis.static_ttl", 3600)
}
