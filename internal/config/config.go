// Package config loads application configuration from the environment.
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

type Config struct {
	HTTPAddr    string `mapstructure:"http_addr"`
	DatabaseDSN string `mapstructure:"database_dsn"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	SMTPAddr string `mapstructure:"smtp_addr"`
	SMTPFrom string `mapstructure:"smtp_from"`

	QuoteValidityDays int  `mapstructure:"quote_validity_days"`
	SeedDemoData      bool `mapstructure:"seed_demo_data"`
}

func Load() (Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SKYHARBOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("database_dsn", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("smtp_addr", "")
	v.SetDefault("smtp_from", "no-reply@skyharbor.example")
	v.SetDefault("quote_validity_days", 7)
	v.SetDefault("seed_demo_data", true)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var Module = fx.Module("config",
	fx.Provide(Load),
)
