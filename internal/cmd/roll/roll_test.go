package roll

import (
	"bytes"
	"context"
	"flag"
	"io"
	"testing"

	"github.com/aawilson/rputils/internal/core/dice"
	"github.com/aawilson/rputils/internal/core/dice/dicetest"
	apperrors "github.com/aawilson/rputils/internal/platform/errors"
	"github.com/aawilson/rputils/internal/services/roller"
)

func sequenceService(values ...int) *roller.Service {
	return roller.NewService(roller.WithSourceFactory(func(int64) dice.Source {
		return dicetest.NewSequence(values...)
	}))
}

func TestParseConfig(t *testing.T) {
	t.Setenv("RPUTILS_ROLL_DETAIL", "true")
	t.Setenv("RPUTILS_ROLL_SEED", "12")

	fs := flag.NewFlagSet("roll", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-seed", "99", "-times", "2", "2d6+3", "4h6"})
	if err != nil {
		t.Fatalf("ParseConfig returned error: %v", err)
	}
	if !cfg.Detail {
		t.Fatal("expected detail from environment")
	}
	seed, err := cfg.SeedValue()
	if err != nil || seed == nil || *seed != 99 {
		t.Fatalf("seed = %v (%v), want 99", seed, err)
	}
	if cfg.Times != 2 {
		t.Fatalf("times = %d, want 2", cfg.Times)
	}
	if len(cfg.Notations) != 2 || cfg.Notations[0] != "2d6+3" || cfg.Notations[1] != "4h6" {
		t.Fatalf("notations = %v", cfg.Notations)
	}
}

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("roll", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"1d6"})
	if err != nil {
		t.Fatalf("ParseConfig returned error: %v", err)
	}
	if cfg.Times != 1 || cfg.Detail || cfg.MCP || cfg.Lua != "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	seed, err := cfg.SeedValue()
	if err != nil || seed != nil {
		t.Fatalf("seed = %v (%v), want nil", seed, err)
	}
}

func TestParseConfigRejectsInvalidSeed(t *testing.T) {
	fs := flag.NewFlagSet("roll", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := ParseConfig(fs, []string{"-seed", "lucky", "1d6"}); err == nil {
		t.Fatal("expected invalid seed error")
	}
}

func TestRunPrintsTotals(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		draws []int
		want  string
	}{
		{
			name:  "single notation",
			cfg:   Config{Times: 1, Notations: []string{"2d6+3"}},
			draws: []int{4},
			want:  "2d6+3: 11\n",
		},
		{
			name:  "several notations",
			cfg:   Config{Times: 1, Notations: []string{"4h6", "3 x 1d4"}},
			draws: []int{2},
			want:  "4h6: 2\n3 x 1d4: 6\n",
		},
		{
			name:  "times",
			cfg:   Config{Times: 3, Notations: []string{"1d6"}},
			draws: []int{1, 2, 3},
			want:  "1d6: 1 2 3\n",
		},
		{
			name:  "detail with successes",
			cfg:   Config{Seed: "1", Times: 1, Detail: true, Notations: []string{"4d6e5"}},
			draws: []int{5, 6, 3, 5},
			want:  "4d6e5: 3\n  4d6e5 [5 6 3 5] = 3\n  seed 1 (client)\n",
		},
		{
			name:  "detail with explosion",
			cfg:   Config{Seed: "7", Times: 1, Detail: true, Notations: []string{"2d6r"}},
			draws: []int{6, 2, 3},
			want:  "2d6r: 8\n  2d6r [6(2) 3] = 8\n  seed 7 (client)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := run(context.Background(), tt.cfg, &out, sequenceService(tt.draws...)); err != nil {
				t.Fatalf("run returned error: %v", err)
			}
			if out.String() != tt.want {
				t.Fatalf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestRunLua(t *testing.T) {
	var out bytes.Buffer
	cfg := Config{Lua: `return dice.roll("2d6") + 1`}
	if err := run(context.Background(), cfg, &out, sequenceService(3)); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if out.String() != "7\n" {
		t.Fatalf("output = %q, want %q", out.String(), "7\n")
	}
}

func TestRunErrors(t *testing.T) {
	t.Run("no notation", func(t *testing.T) {
		if err := run(context.Background(), Config{}, io.Discard, sequenceService(1)); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		cfg := Config{Notations: []string{"2d6", "3q"}}
		var out bytes.Buffer
		err := run(context.Background(), cfg, &out, sequenceService(1))
		if !apperrors.IsCode(err, apperrors.CodeNotationSyntax) {
			t.Fatalf("run error = %v, want code %q", err, apperrors.CodeNotationSyntax)
		}
		if out.String() != "2d6: 2\n" {
			t.Fatalf("output = %q, want first notation only", out.String())
		}
	})

	t.Run("invalid parameter", func(t *testing.T) {
		cfg := Config{Notations: []string{"2d0"}}
		err := run(context.Background(), cfg, io.Discard, sequenceService(1))
		if !apperrors.IsCode(err, apperrors.CodeDiceInvalidParameter) {
			t.Fatalf("run error = %v, want code %q", err, apperrors.CodeDiceInvalidParameter)
		}
	})

	t.Run("invalid seed", func(t *testing.T) {
		cfg := Config{Seed: "x", Notations: []string{"1d6"}}
		if err := run(context.Background(), cfg, io.Discard, sequenceService(1)); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestRunServesMCPOverHTTPUntilCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := Config{MCPAddr: "127.0.0.1:0"}
	if err := run(ctx, cfg, io.Discard, sequenceService(1)); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
}
