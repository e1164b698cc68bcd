// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSubstituteEnvVarsUsesEnvironment(t *testing.T) {
	t.Setenv("ENGINE_TEST_CHAIN", "env-chain")
	got := substituteEnvVars("chain_name: ${ENGINE_TEST_CHAIN}")
	want := "chain_name: env-chain"
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestSubstituteEnvVarsFallsBackToDefault(t *testing.T) {
	os.Unsetenv("ENGINE_TEST_MISSING")
	got := substituteEnvVars("chain_name: ${ENGINE_TEST_MISSING:-fallback-chain}")
	want := "chain_name: fallback-chain"
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestLoadEngineConfig(t *testing.T) {
	t.Setenv("ENGINE_TEST_NUMERATOR", "3")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
chain_name: sample-chain
quorum:
  numerator: ${ENGINE_TEST_NUMERATOR}
  denominator: 4
metrics_enabled: true
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadEngineConfig(path)
	if err != nil {
		t.Fatalf("LoadEngineConfig: %v", err)
	}
	if cfg.ChainName != "sample-chain" {
		t.Errorf("ChainName = %q", cfg.ChainName)
	}
	if cfg.Quorum.Numerator != 3 || cfg.Quorum.Denominator != 4 {
		t.Errorf("Quorum = %+v", cfg.Quorum)
	}
	if !cfg.MetricsEnabled {
		t.Error("expected MetricsEnabled to be true")
	}

	params := cfg.Quorum.ToParams()
	if params.Numerator != 3 || params.Denominator != 4 {
		t.Errorf("ToParams() = %+v", params)
	}
}

func TestLoadEngineConfigRequiresChainName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("metrics_enabled: false\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := LoadEngineConfig(path); err == nil {
		t.Fatal("expected error for missing chain_name")
	}
}

func TestQuorumConfigDefaultsToTwoThirds(t *testing.T) {
	var q QuorumConfig
	params := q.ToParams()
	if params.Numerator != 2 || params.Denominator != 3 {
		t.Errorf("expected default 2/3 quorum, got %+v", params)
	}
}
