// Package config loads per-package configuration structs from environment
// variables, with an optional .env file picked up from the working
// directory. It is a thin composition of github.com/caarlos0/env/v11 for
// struct parsing and github.com/joho/godotenv for local development
// convenience.
//
//	type Config struct {
//		Issuer string `env:"MFA_ISSUER" envDefault:"mfakit"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrNilPointer    = errors.New("nil pointer provided to config loader")
	ErrParsingConfig = errors.New("failed to parse environment variables into config")
)

var loadDotEnv sync.Once

// Load parses environment variables into v based on `env` field tags. The
// default .env file is loaded once per process if present; a missing file
// is not an error.
func Load[T any](v *T) error {
	loadDotEnv.Do(func() {
		_ = godotenv.Load()
	})

	if v == nil {
		return ErrNilPointer
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad is Load for configuration the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
