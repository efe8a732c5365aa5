package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func LoadConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/oasprobe/")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Debug().Msg("Config file not found")
		} else {
			log.Panic().Err(err).Msg("Fatal error reading config file")
		}
	}
	SetDefaultConfig()
}

func SetDefaultConfig() {
	viper.SetDefault("scan.rate_limit", 100)
	viper.SetDefault("scan.timeout", 30)
	viper.SetDefault("scan.workers", 10)
	viper.SetDefault("scan.headers", map[string]string{})
	viper.SetDefault("scan.user_agent", "")
	viper.SetDefault("scan.proxy", "")
	viper.SetDefault("scan.http2", false)
	viper.SetDefault("scan.seed", 0)
}
