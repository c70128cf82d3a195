package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds path defaults read from the environment. Flags take
// precedence; unset values fall back to the replay package defaults.
type EnvConfig struct {
	Engine  string `env:"DEMOREPLAY_ENGINE"`
	WadDir  string `env:"DEMOREPLAY_WAD_DIR"`
	DemoDir string `env:"DEMOREPLAY_DEMO_DIR"`
	DB      string `env:"DEMOREPLAY_DB"`
}

// LoadEnvConfig loads EnvConfig from the process environment.
func LoadEnvConfig() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
