package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/aawilson/rputils/internal/core/notation"
	apperrors "github.com/aawilson/rputils/internal/platform/errors"
	"github.com/aawilson/rputils/internal/services/roller"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"
)

// RollNotationInput represents the MCP tool input for rolling notation.
type RollNotationInput struct {
	Notation string `json:"notation" jsonschema:"dice notation such as 2d6+3, 4h6, 3dF.1 or 3 x (2d6+1)"`
	Seed     *int64 `json:"seed,omitempty" jsonschema:"optional seed to replay a roll"`
	Times    int    `json:"times,omitempty" jsonschema:"number of independent rolls, default 1"`
	Detail   bool   `json:"detail,omitempty" jsonschema:"include per-pool outcomes"`
}

// RollNotationPool represents the outcomes of one pool.
type RollNotationPool struct {
	Notation  string  `json:"notation" jsonschema:"canonical pool notation"`
	Kind      string  `json:"kind" jsonschema:"die kind: standard, zero-bias or fudge"`
	Sides     int     `json:"sides,omitempty" jsonschema:"number of sides"`
	Variant   string  `json:"variant,omitempty" jsonschema:"fudge variant"`
	Min       int     `json:"min" jsonschema:"lowest face of one die"`
	Max       int     `json:"max" jsonschema:"highest face of one die"`
	Selection string  `json:"selection" jsonschema:"aggregate: sum, highest, lowest or drop-lowest"`
	Modifier  string  `json:"modifier,omitempty" jsonschema:"success modifier"`
	Outcomes  []int   `json:"outcomes" jsonschema:"individual die outcomes"`
	Extra     [][]int `json:"extra,omitempty" jsonschema:"modifier draws per die"`
	Aggregate int     `json:"aggregate" jsonschema:"pool result including its bonus"`
}

// RollNotationRoll represents one evaluation.
type RollNotationRoll struct {
	Total int                `json:"total" jsonschema:"evaluation total"`
	Pools []RollNotationPool `json:"pools,omitempty" jsonschema:"pool breakdown"`
}

// RollNotationResult represents the MCP tool output for rolling notation.
type RollNotationResult struct {
	Notation   string             `json:"notation" jsonschema:"canonical notation"`
	Total      int                `json:"total" jsonschema:"total of the first roll"`
	Rolls      []RollNotationRoll `json:"rolls" jsonschema:"every roll in order"`
	Seed       int64              `json:"seed" jsonschema:"seed used for the rolls"`
	SeedSource string             `json:"seed_source" jsonschema:"client or generated"`
}

// RollNotationTool defines the MCP tool schema for rolling notation.
func RollNotationTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_notation",
		Description: "Rolls dice notation and returns the total",
	}
}

// RollNotationHandler rolls notation through the roller service.
func RollNotationHandler(svc *roller.Service) mcp.ToolHandlerFor[RollNotationInput, RollNotationResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollNotationInput) (*mcp.CallToolResult, RollNotationResult, error) {
		resp, err := svc.Roll(ctx, roller.Request{
			Notation: input.Notation,
			Seed:     input.Seed,
			Times:    input.Times,
			Detail:   input.Detail,
		})
		if err != nil {
			return nil, RollNotationResult{}, toolError(err)
		}

		result := RollNotationResult{
			Notation:   resp.Canonical,
			Total:      resp.Total(),
			Rolls:      make([]RollNotationRoll, 0, len(resp.Rolls)),
			Seed:       resp.Seed,
			SeedSource: string(resp.SeedSource),
		}
		for _, roll := range resp.Rolls {
			item := RollNotationRoll{Total: roll.Total}
			for _, pool := range roll.Pools {
				item.Pools = append(item.Pools, poolResult(pool))
			}
			result.Rolls = append(result.Rolls, item)
		}
		return nil, result, nil
	}
}

func poolResult(pool notation.PoolBreakdown) RollNotationPool {
	out := RollNotationPool{
		Notation:  pool.Notation,
		Kind:      pool.Kind.String(),
		Sides:     pool.Sides,
		Min:       pool.Min,
		Max:       pool.Max,
		Selection: pool.Selection.String(),
		Modifier:  pool.Modifier,
		Outcomes:  pool.Outcomes,
		Extra:     pool.Extra,
		Aggregate: pool.Aggregate,
	}
	if pool.Variant != 0 {
		out.Variant = pool.Variant.String()
	}
	return out
}

// toolError renders err through its gRPC status: status code, message, then
// the domain reason with sorted metadata.
func toolError(err error) error {
	st := status.Convert(apperrors.HandleError(err))
	var b strings.Builder
	b.WriteString(st.Code().String())
	b.WriteString(": ")
	b.WriteString(st.Message())
	for _, detail := range st.Details() {
		info, ok := detail.(*errdetails.ErrorInfo)
		if !ok {
			continue
		}
		b.WriteString(" (reason ")
		b.WriteString(info.GetReason())
		keys := make([]string, 0, len(info.GetMetadata()))
		for key := range info.GetMetadata() {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for i, key := range keys {
			if i == 0 {
				b.WriteString("; ")
			} else {
				b.WriteString(", ")
			}
			b.WriteString(key + "=" + info.GetMetadata()[key])
		}
		b.WriteString(")")
	}
	return errors.New(b.String())
}
