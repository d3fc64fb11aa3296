// ABOUTME: Configuration loader
// ABOUTME: Layers defaults, YAML file, environment and flags with koanf
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VOICEFLAP_"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) from path, or VOICEFLAP_CONFIG when path is empty
//  3. env (prefix VOICEFLAP_, "__" separates section and key)
//
// Command-line flags are applied by the caller afterwards; call Validate
// once they are in.
func Load(path string) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// VOICEFLAP_GAME__GAP_HEIGHT -> game.gap_height, VOICEFLAP_DEBUG -> debug
	envProvider := env.Provider(EnvPrefix, ".", envKey)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	return &cfg, nil
}

// envKey maps an environment variable name to a config key.
func envKey(s string) string {
	s = strings.ToLower(s)
	s = strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
