// Package config loads env-tagged structs from the process environment.
//
// A .env file in the working directory is read once, before the first
// parse, and never overrides variables already set in the environment.
package config

import (
	"errors"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrNilPointer is returned when Load receives a nil target.
	ErrNilPointer = errors.New("config: nil target")

	// ErrParse wraps environment parsing and validation failures.
	ErrParse = errors.New("config: failed to parse environment")
)

var dotenvOnce sync.Once

// Load fills v from environment variables using caarlos0/env tags.
//
//	type Config struct {
//		Address string `env:"HTTP_ADDRESS" envDefault:":8080"`
//		Secret  string `env:"SESSION_SECRET,required"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil { ... }
func Load[T any](v *T, files ...string) error {
	if v == nil {
		return ErrNilPointer
	}
	loadDotenv(files...)

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParse, err)
	}
	return nil
}

// MustLoad is Load that panics on failure. For use in main.
func MustLoad[T any](v *T, files ...string) {
	if err := Load(v, files...); err != nil {
		panic(err)
	}
}

// loadDotenv reads the given files (default ".env") once per process.
// Missing files are skipped.
func loadDotenv(files ...string) {
	dotenvOnce.Do(func() {
		if len(files) == 0 {
			files = []string{".env"}
		}
		for _, f := range files {
			if _, err := os.Stat(f); err != nil {
				continue
			}
			_ = godotenv.Load(f)
		}
	})
}
