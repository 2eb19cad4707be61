package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode            string        `mapstructure:"mode"`
	Port            int           `mapstructure:"port"`
	Secret          string        `mapstructure:"secret"`
	ReadLimit       int64         `mapstructure:"read_limit"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	DefaultCubeSize int           `mapstructure:"default_cube_size"`
	DatabaseURL     string        `mapstructure:"database_url"`
	JoinRateLimit   int           `mapstructure:"join_rate_limit"`
	JoinRateWindow  time.Duration `mapstructure:"join_rate_window"`
}

// Load reads config/config.<CONFIG_ENV>.yaml, falling back to defaults
// when the file is missing. DATABASE_URL from the environment overrides
// the file so deployments can keep credentials out of it.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("read_limit", 32768)
	v.SetDefault("allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("default_cube_size", 3)
	v.SetDefault("join_rate_limit", 10)
	v.SetDefault("join_rate_window", "10s")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("file", fileName).Msg("config loaded")
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		v.Set("database_url", url)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
