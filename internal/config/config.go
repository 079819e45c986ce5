package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	AppEnv             string `mapstructure:"APP_ENV"`
	Port               string `mapstructure:"PORT"`
	DatabaseURL        string `mapstructure:"DATABASE_URL"`
	RedisURL           string `mapstructure:"REDIS_URL"`
	RedisPassword      string `mapstructure:"REDIS_PASSWORD"`
	JWTSecret          string `mapstructure:"AUTH_JWT_SECRET"`
	JWTExpireMinutes   int    `mapstructure:"AUTH_JWT_EXPIRE_MINUTES"`
	ResetExpireMinutes int    `mapstructure:"AUTH_RESET_EXPIRE_MINUTES"`
	ResetDelivery      string `mapstructure:"RESET_DELIVERY"`
	ResetQueueKey      string `mapstructure:"RESET_QUEUE_KEY"`
	ConverterURL       string `mapstructure:"CONVERTER_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`
}

func LoadConfig() (config Config, err error) {
	viper.SetDefault("APP_ENV", "local")
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("DATABASE_URL", "sqlite://./auth.db")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("AUTH_JWT_SECRET", "dev-insecure-secret-change")
	viper.SetDefault("AUTH_JWT_EXPIRE_MINUTES", 60)
	viper.SetDefault("AUTH_RESET_EXPIRE_MINUTES", 30)
	viper.SetDefault("RESET_DELIVERY", "log")
	viper.SetDefault("RESET_QUEUE_KEY", "auth:reset_emails")
	viper.SetDefault("CONVERTER_URL", "http://localhost:9000")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:8000")

	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	if err != nil {
		log.Printf("unable to decode into struct, %v", err)
		return
	}

	return
}
