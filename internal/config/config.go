package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      App
	HTTP     HTTP
	Postgres Postgres
	Redis    Redis
	Bot      Bot
	Game     Game
}

type App struct {
	Name    string `env:"APP_NAME" envDefault:"bazaar"`
	Version string `env:"APP_VERSION" envDefault:"dev"`
	Debug   bool   `env:"APP_DEBUG" envDefault:"false"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}
