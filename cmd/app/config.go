package main

import (
	"errors"
	"fmt"
	"strings"

	"helios_miniapp/internal/notify"
	"helios_miniapp/internal/repository"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Database repository.Config `mapstructure:"database"`
	Server   ServerConfig      `mapstructure:"server"`

	TelegramAuth TelegramAuthConfig `mapstructure:"telegramAuth"`
	Notifier     notify.Config      `mapstructure:"notifier"`
	Cors         CorsConfig         `mapstructure:"cors"`
	Ledger       LedgerConfig       `mapstructure:"ledger"`

	LogLevel string `mapstructure:"logLevel"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type TelegramAuthConfig struct {
	TelegramBotToken string `mapstructure:"telegramBotToken"`
	Enabled          bool   `mapstructure:"enabled"`
	DebugMode        bool   `mapstructure:"debugMode"`
}

type CorsConfig struct {
	AllowOrigins []string `mapstructure:"allowOrigins"`
}

type LedgerConfig struct {
	AtomicCounters bool `mapstructure:"atomicCounters"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "8000")

	v.SetDefault("database.driver", repository.DriverPgx)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "helios")
	v.SetDefault("database.migrate", true)

	v.SetDefault("telegramAuth.telegramBotToken", "")
	v.SetDefault("telegramAuth.enabled", false)
	v.SetDefault("telegramAuth.debugMode", false)

	v.SetDefault("notifier.enabled", true)
	v.SetDefault("notifier.imageUrl", notify.DefaultImageURL)
	v.SetDefault("notifier.queueSize", notify.DefaultQueueSize)

	v.SetDefault("cors.allowOrigins", []string{"https://bamboo-1.vercel.app", "http://localhost:5173"})
	v.SetDefault("ledger.atomicCounters", false)
	v.SetDefault("logLevel", "info")
}

// LoadConfig reads config.yaml from path, if present, with APP_ prefixed environment overrides
// (APP_DATABASE_HOST overrides database.host). A .env file in the working directory is loaded first.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName(configName)
	v.AddConfigPath(path)
	v.SetConfigType(configFormat)

	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
