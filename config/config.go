/*
 * Copyright (c) Joseph Prichard 2024
 */

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port         int           `env:"PORT" envDefault:"8080"`
	JwtSecretKey string        `env:"JWT_SECRET_KEY,required"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	DbDriver     string        `env:"DB_DRIVER" envDefault:"sqlite3"`
	DbDsn        string        `env:"DB_DSN" envDefault:"sketchparty.db"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty    bool          `env:"LOG_PRETTY" envDefault:"false"`
	TableExpiry  time.Duration `env:"TABLE_EXPIRY" envDefault:"15m"`
	TickPeriod   time.Duration `env:"TICK_PERIOD" envDefault:"1s"`
	SocketRate   float64       `env:"SOCKET_RATE" envDefault:"120"`
	SocketBurst  int           `env:"SOCKET_BURST" envDefault:"60"`
}

const Prefix = "SKETCHPARTY_"

// Load reads the optional .env files into the environment, then parses the prefixed variables
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		// variables already set in the environment win over the file
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}
	return Parse()
}

func Parse() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) Validate() error {
	if cfg.DbDriver != "sqlite3" && cfg.DbDriver != "postgres" {
		return fmt.Errorf("db driver must be sqlite3 or postgres, got %s", cfg.DbDriver)
	}
	if cfg.TickPeriod <= 0 || cfg.TableExpiry <= 0 || cfg.TokenTTL <= 0 {
		return errors.New("tick period, table expiry and token ttl must be positive")
	}
	if cfg.SocketRate <= 0 || cfg.SocketBurst <= 0 {
		return errors.New("socket rate and burst must be positive")
	}
	return nil
}

func (cfg Config) Addr() string {
	return fmt.Sprintf(":%d", cfg.Port)
}
