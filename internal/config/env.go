package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds the environment-driven flags.
type Env struct {
	Name         string `env:"ISOSHELL_ENV"      envDefault:"development"`
	SettingsPath string `env:"ISOSHELL_SETTINGS" envDefault:"settings.yaml"`
	Development  *bool  `env:"ISOSHELL_DEVELOPMENT"`
	DisableSSR   bool   `env:"ISOSHELL_DISABLE_SSR"`
	Addr         string `env:"ISOSHELL_ADDR"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnv parses Env from the process environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := ParseEnv(&e); err != nil {
		return Env{}, err
	}
	return e, nil
}

// DevMode reports whether development mode is on. An explicit
// ISOSHELL_DEVELOPMENT wins over the environment name.
func (e Env) DevMode() bool {
	if e.Development != nil {
		return *e.Development
	}
	return e.Name == "development"
}
