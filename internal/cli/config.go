package cli

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds the overridable defaults. Precedence (highest to lowest):
// flags > GLANCE_* environment variables > built-in defaults.
type Config struct {
	Format      string `koanf:"format"`
	NoPager     bool   `koanf:"no-pager"`
	Verbose     bool   `koanf:"verbose"`
	SampleLines int    `koanf:"sample-lines"`
	SampleSize  int    `koanf:"sample-size"`
}

const (
	defaultFormat      = "table"
	defaultSampleLines = 10
	defaultSampleSize  = 100
)

// loadConfig merges defaults, environment, and flags into a Config.
func loadConfig(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"format":       defaultFormat,
		"no-pager":     false,
		"verbose":      false,
		"sample-lines": defaultSampleLines,
		"sample-size":  defaultSampleSize,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if err := k.Load(env.Provider("GLANCE_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "GLANCE_")), "_", "-")
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, fmt.Errorf("load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
