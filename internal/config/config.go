package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"

	"github.com/MOzil-10/banking-api/internal/crypto"
)

type Config struct {
	DatabaseURL   string `env:"DATABASE_URL,required"`
	EncryptionKey string `env:"ENCRYPTION_KEY,required"`
	Port          int    `env:"PORT" envDefault:"8080"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv        string `env:"APP_ENV" envDefault:"production"`

	DBMaxOpenConns     int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if len(cfg.EncryptionKey) != crypto.KeyLength {
		return nil, fmt.Errorf("config.Load: ENCRYPTION_KEY must be %d bytes, got %d", crypto.KeyLength, len(cfg.EncryptionKey))
	}
	return &cfg, nil
}
