package configs

import (
	"log"
	"sync"

	"github.com/spf13/viper"
)

var (
	config *Config
	once   sync.Once
)

type Config struct {
	Viper *viper.Viper
}

func GetConfig() *Config {
	once.Do(func() {
		v := viper.New()
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")

		v.SetDefault("server.port", 8000)
		v.SetDefault("redis.address", "localhost:6379")
		v.SetDefault("jwt.expiration_time", 86400)
		v.SetDefault("rate_limit.window_seconds", 60)
		v.SetDefault("rate_limit.max_requests", 5)
		v.SetDefault("cache.conversation_ttl_seconds", 60)

		if err := v.ReadInConfig(); err != nil {
			log.Printf("No config file found, using defaults: %v", err)
		}

		config = &Config{Viper: v}
	})
	return config
}
