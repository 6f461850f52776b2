package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_LATENCY is the simulated assistant latency of every scenario
	Latency time.Duration `envconfig:"E2E_LATENCY" default:"10ms"`
	// E2E_BANNER_WINDOW shortens the auto-collapse of the online banner
	BannerWindow time.Duration `envconfig:"E2E_BANNER_WINDOW" default:"50ms"`
	// E2E_DEBUG_JSON dumps the transcript as JSON after each step
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
