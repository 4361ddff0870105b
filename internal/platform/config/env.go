// Package config holds the environment-driven configuration helpers shared by
// the web and auth services.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads `env` tagged fields of target from the process environment.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
