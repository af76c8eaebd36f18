package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Env               string `env:"ENV" envDefault:"development"`
	Port              string `env:"PORT" envDefault:"8080"`
	DBURL             string `env:"DB_URL,required"`
	AccessTokenSecret string `env:"ACCESS_TOKEN_SECRET,required"`
	AccessExpiryMin   int    `env:"ACCESS_TOKEN_EXPIRY" envDefault:"240"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
