// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package config loads the engine's host-supplied parameters from YAML,
// with ${VAR} / ${VAR:-default} environment-variable substitution -- the
// same pattern the corpus's own AnchorConfig loader uses
// (pkg/config/anchor_config.go), trimmed to the handful of knobs this
// engine actually needs.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/certen/bft-lightclient/pkg/lightclient"
)

// EngineConfig holds the parameters a host supplies when wiring the engine.
// CONFIGURED_CHAIN_NAME (spec.md §4.6) is EngineConfig.ChainName, set once
// at construction and never mutated afterward.
type EngineConfig struct {
	// ChainName is the chain identifier this instance accepts withdrawals
	// for; payloads carrying any other chain fail with Exec.WrongChain.
	ChainName string `yaml:"chain_name"`

	// Quorum overrides the default strict two-thirds finalization
	// threshold. When denominator is omitted (zero), ToParams uses 2/3 for
	// both fields; a numerator omitted next to a set denominator stays zero.
	Quorum QuorumConfig `yaml:"quorum"`

	// MetricsEnabled toggles whether pkg/metrics counters are registered.
	MetricsEnabled bool `yaml:"metrics_enabled"`
}

// QuorumConfig mirrors lightclient.QuorumParams for YAML purposes.
type QuorumConfig struct {
	Numerator   uint64 `yaml:"numerator"`
	Denominator uint64 `yaml:"denominator"`
}

// ToParams converts the loaded config into lightclient.QuorumParams,
// defaulting to the spec's strict two-thirds rule when unset.
func (q QuorumConfig) ToParams() lightclient.QuorumParams {
	if q.Denominator == 0 {
		return lightclient.DefaultQuorum
	}
	return lightclient.QuorumParams{Numerator: q.Numerator, Denominator: q.Denominator}
}

var engineEnvVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// substituteEnvVars replaces ${VAR_NAME} or ${VAR_NAME:-default} with the
// corresponding environment variable, falling back to the default.
func substituteEnvVars(content string) string {
	return engineEnvVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := engineEnvVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultValue := ""
		if len(groups) >= 4 {
			defaultValue = groups[3]
		}
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

// LoadEngineConfig reads and parses a YAML config file, substituting
// environment variables before unmarshalling.
func LoadEngineConfig(path string) (*EngineConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	substituted := substituteEnvVars(string(raw))

	var cfg EngineConfig
	if err := yaml.Unmarshal([]byte(substituted), &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.ChainName == "" {
		return nil, fmt.Errorf("config: chain_name is required")
	}
	return &cfg, nil
}
