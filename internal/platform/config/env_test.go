package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Times  int   `env:"RPUTILS_TEST_TIMES" envDefault:"3"`
	Seed   int64 `env:"RPUTILS_TEST_SEED"`
	Detail bool  `env:"RPUTILS_TEST_DETAIL"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Times != 3 {
		t.Fatalf("expected default times 3, got %d", cfg.Times)
	}
	if cfg.Seed != 0 {
		t.Fatalf("expected zero seed, got %d", cfg.Seed)
	}
}

func TestParseEnvReadsProcessEnvironment(t *testing.T) {
	t.Setenv("RPUTILS_TEST_SEED", "42")
	t.Setenv("RPUTILS_TEST_DETAIL", "true")

	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Seed != 42 {
		t.Fatalf("expected seed 42, got %d", cfg.Seed)
	}
	if !cfg.Detail {
		t.Fatal("expected detail to be set")
	}
}

func TestParseEnvFromIgnoresProcessEnvironment(t *testing.T) {
	t.Setenv("RPUTILS_TEST_TIMES", "9")

	var cfg envTestConfig
	if err := ParseEnvFrom(&cfg, map[string]string{"RPUTILS_TEST_SEED": "-7"}); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Times != 3 {
		t.Fatalf("expected default times 3, got %d", cfg.Times)
	}
	if cfg.Seed != -7 {
		t.Fatalf("expected seed -7, got %d", cfg.Seed)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("RPUTILS_TEST_TIMES", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
