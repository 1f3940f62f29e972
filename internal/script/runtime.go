// Package script runs Lua chunks with a dice table bound to the roller.
//
// Chunks see a global table named dice:
//
//	dice.roll(notation)   -- integer total
//	dice.detail(notation) -- table {total=, pools={ {notation=, outcomes=, aggregate=}, ... }}
//
// The chunk must return an integer.
package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/Shopify/go-lua"
	"github.com/aawilson/rputils/internal/services/roller"
)

// Runtime binds a roller service to fresh Lua states.
type Runtime struct {
	svc  *roller.Service
	seed *int64
}

// New builds a Runtime. When seed is set, the nth dice call in a chunk rolls
// with seed+n so a chunk replays identically.
func New(svc *roller.Service, seed *int64) (*Runtime, error) {
	if svc == nil {
		return nil, fmt.Errorf("roller service is required")
	}
	return &Runtime{svc: svc, seed: seed}, nil
}

// Run executes chunk and returns its integer result.
func (r *Runtime) Run(ctx context.Context, chunk string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if strings.TrimSpace(chunk) == "" {
		return 0, fmt.Errorf("lua chunk is required")
	}

	binding := &diceBinding{ctx: ctx, svc: r.svc, seed: r.seed}
	state := lua.NewState()
	lua.OpenLibraries(state)
	binding.register(state)

	if err := lua.LoadString(state, chunk); err != nil {
		return 0, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		// A dice error the chunk caught with pcall must not mask a later failure.
		if binding.err != nil && strings.HasSuffix(err.Error(), binding.err.Error()) {
			return 0, binding.err
		}
		return 0, fmt.Errorf("run lua: %w", err)
	}

	result, ok := state.ToInteger(-1)
	state.Pop(1)
	if !ok {
		return 0, fmt.Errorf("lua chunk must return an integer")
	}
	return result, nil
}

type diceBinding struct {
	ctx   context.Context
	svc   *roller.Service
	seed  *int64
	calls int64
	// err keeps the typed roller error behind the most recent dice call's
	// lua error.
	err error
}

func (b *diceBinding) register(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, []lua.RegistryFunction{
		{Name: "roll", Function: b.roll},
		{Name: "detail", Function: b.detail},
	}, 0)
	state.SetGlobal("dice")
}

func (b *diceBinding) request(state *lua.State, detail bool) roller.Roll {
	b.err = nil
	notation := lua.CheckString(state, 1)
	req := roller.Request{Notation: notation, Detail: detail}
	if b.seed != nil {
		seed := *b.seed + b.calls
		req.Seed = &seed
	}
	b.calls++

	resp, err := b.svc.Roll(b.ctx, req)
	if err != nil {
		b.err = err
		lua.Errorf(state, "%s", err.Error())
	}
	return resp.Rolls[0]
}

func (b *diceBinding) roll(state *lua.State) int {
	roll := b.request(state, false)
	state.PushInteger(roll.Total)
	return 1
}

func (b *diceBinding) detail(state *lua.State) int {
	roll := b.request(state, true)
	state.NewTable()
	state.PushInteger(roll.Total)
	state.SetField(-2, "total")

	state.NewTable()
	for i, pool := range roll.Pools {
		state.NewTable()
		state.PushString(pool.Notation)
		state.SetField(-2, "notation")
		state.PushInteger(pool.Aggregate)
		state.SetField(-2, "aggregate")
		state.NewTable()
		for j, outcome := range pool.Outcomes {
			state.PushInteger(outcome)
			state.RawSetInt(-2, j+1)
		}
		state.SetField(-2, "outcomes")
		state.RawSetInt(-2, i+1)
	}
	state.SetField(-2, "pools")
	return 1
}
