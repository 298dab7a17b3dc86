package config

import (
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	DbHost        string        `mapstructure:"POSTGRES_HOST"`
	DbPort        string        `mapstructure:"POSTGRES_PORT"`
	DbUser        string        `mapstructure:"POSTGRES_USER"`
	DbPas         string        `mapstructure:"POSTGRES_PASSWORD"`
	DbName        string        `mapstructure:"POSTGRES_DB"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	KafkaBrokers  []string      `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic    string        `mapstructure:"KAFKA_ORDER_TOPIC"`
	TokenKey      string        `mapstructure:"AUTH_TOKEN_KEY"`
	TokenDuration time.Duration `mapstructure:"AUTH_TOKEN_DURATION"`
}

var (
	singleton *Config
	mu        sync.RWMutex
	once      sync.Once
)

// GetConfig 第一次呼叫時載入 .env 並開啟熱重載
func GetConfig() *Config {
	once.Do(func() {
		cf, err := loadConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to read config file")
		}
		singleton = cf

		viper.WatchConfig()
		viper.OnConfigChange(func(e fsnotify.Event) {
			cf, err := loadConfig()
			if err != nil {
				log.Error().Err(err).Msg("failed to reload config file, keeping previous values")
				return
			}
			mu.Lock()
			singleton = cf
			mu.Unlock()
			log.Info().Str("file", e.Name).Msg("config reloaded")
		})
	})

	mu.RLock()
	defer mu.RUnlock()
	return singleton
}

func loadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "3000")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("KAFKA_BROKERS", []string{})
	viper.SetDefault("KAFKA_ORDER_TOPIC", "order-events")
	viper.SetDefault("AUTH_TOKEN_DURATION", time.Hour)

	// .env 不存在時退回純環境變數
	if _, err := os.Stat(".env"); err == nil {
		if err := viper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cf := &Config{}
	if err := viper.Unmarshal(cf); err != nil {
		return nil, err
	}
	return cf, nil
}
