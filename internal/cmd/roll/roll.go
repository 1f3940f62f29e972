// Package roll parses roll command flags and prints notation results.
package roll

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	entrypoint "github.com/aawilson/rputils/internal/platform/cmd"
	"github.com/aawilson/rputils/internal/script"
	mcpservice "github.com/aawilson/rputils/internal/services/mcp/service"
	"github.com/aawilson/rputils/internal/services/roller"
)

// Config holds roll command configuration.
type Config struct {
	// Seed is kept as text so an unset seed stays distinct from zero.
	Seed    string `env:"RPUTILS_ROLL_SEED"`
	Detail  bool   `env:"RPUTILS_ROLL_DETAIL"`
	MCP     bool   `env:"RPUTILS_ROLL_MCP"`
	MCPAddr string `env:"RPUTILS_ROLL_MCP_ADDR"`
	Times   int    `env:"RPUTILS_ROLL_TIMES" envDefault:"1"`
	Lua     string `env:"RPUTILS_ROLL_LUA"`

	Notations []string
}

// SeedValue returns the configured seed, or nil when none was given.
func (c Config) SeedValue() (*int64, error) {
	raw := strings.TrimSpace(c.Seed)
	if raw == "" {
		return nil, nil
	}
	seed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid seed %q: %w", c.Seed, err)
	}
	return &seed, nil
}

// ParseConfig parses environment and flags into a Config. Positional
// arguments are notations.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Seed, "seed", cfg.Seed, "Seed to replay a roll")
	fs.BoolVar(&cfg.Detail, "detail", cfg.Detail, "Print per-pool outcomes")
	fs.BoolVar(&cfg.MCP, "mcp", cfg.MCP, "Serve the roll_notation MCP tool over stdio")
	fs.StringVar(&cfg.MCPAddr, "mcp-addr", cfg.MCPAddr, "Serve the roll_notation MCP tool over HTTP on this address")
	fs.IntVar(&cfg.Times, "times", cfg.Times, "Roll each notation this many times")
	fs.StringVar(&cfg.Lua, "lua", cfg.Lua, "Lua chunk to run with the dice table")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Notations = fs.Args()
	if _, err := cfg.SeedValue(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run rolls the configured notations, runs the Lua chunk, or serves MCP.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRoll, func(ctx context.Context) error {
		return run(ctx, cfg, os.Stdout, roller.NewService())
	})
}

func run(ctx context.Context, cfg Config, out io.Writer, svc *roller.Service) error {
	seed, err := cfg.SeedValue()
	if err != nil {
		return err
	}

	if cfg.MCP || cfg.MCPAddr != "" {
		server, err := mcpservice.New(svc)
		if err != nil {
			return err
		}
		if cfg.MCPAddr == "" {
			return server.ServeStdio(ctx)
		}
		settings, err := mcpservice.LoadHTTPSettings()
		if err != nil {
			return err
		}
		return server.ServeHTTP(ctx, cfg.MCPAddr, settings)
	}

	if strings.TrimSpace(cfg.Lua) != "" {
		rt, err := script.New(svc, seed)
		if err != nil {
			return err
		}
		result, err := rt.Run(ctx, cfg.Lua)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, result)
		return err
	}

	if len(cfg.Notations) == 0 {
		return errors.New("at least one notation is required")
	}
	for _, notation := range cfg.Notations {
		resp, err := svc.Roll(ctx, roller.Request{
			Notation: notation,
			Seed:     seed,
			Detail:   cfg.Detail,
			Times:    cfg.Times,
		})
		if err != nil {
			return fmt.Errorf("roll %q: %w", notation, err)
		}
		if err := writeResponse(out, resp, cfg.Detail); err != nil {
			return err
		}
	}
	return nil
}

func writeResponse(w io.Writer, resp roller.Response, detail bool) error {
	totals := make([]string, len(resp.Rolls))
	for i, roll := range resp.Rolls {
		totals[i] = strconv.Itoa(roll.Total)
	}
	if _, err := fmt.Fprintf(w, "%s: %s\n", resp.Canonical, strings.Join(totals, " ")); err != nil {
		return err
	}
	if !detail {
		return nil
	}

	for _, roll := range resp.Rolls {
		for _, pool := range roll.Pools {
			values := make([]string, len(pool.Outcomes))
			for i, value := range pool.Outcomes {
				values[i] = strconv.Itoa(value)
				if i < len(pool.Extra) && len(pool.Extra[i]) > 0 {
					values[i] += "(" + joinInts(pool.Extra[i]) + ")"
				}
			}
			if _, err := fmt.Fprintf(w, "  %s [%s] = %d\n", pool.Notation, strings.Join(values, " "), pool.Aggregate); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "  seed %d (%s)\n", resp.Seed, resp.SeedSource)
	return err
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
