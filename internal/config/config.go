package config

import "github.com/spf13/viper"

type Config struct {
	Env            string `mapstructure:"ENV"`
	ServerPort     string `mapstructure:"SERVER_PORT"`
	MaxUploadBytes int    `mapstructure:"MAX_UPLOAD_BYTES"`
}

func Load() Config {
	viper.AutomaticEnv()
	viper.SetDefault("ENV", "local")
	viper.SetDefault("SERVER_PORT", ":8080")
	viper.SetDefault("MAX_UPLOAD_BYTES", 8<<20)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
