package notation

import "github.com/aawilson/rputils/internal/core/dice"

// Breakdown is an evaluation total with every pool that contributed to it.
type Breakdown struct {
	Total int
	Pools []PoolBreakdown
}

// PoolBreakdown describes one pool's cached draws.
type PoolBreakdown struct {
	Notation  string
	Kind      dice.Kind
	Sides     int
	Variant   dice.FudgeVariant
	// Min and Max are the lowest and highest face of one die.
	Min       int
	Max       int
	Selection Selection
	Modifier  string
	Bonus     int
	Rolled    bool
	Outcomes  []int
	// Extra holds modifier draws per outcome (explosions, bonus checks).
	Extra     [][]int
	Aggregate int
}

func snapshot(n *PoolNode, aggregate int) PoolBreakdown {
	pb := PoolBreakdown{
		Notation:  n.Notation,
		Kind:      n.Die.Kind(),
		Sides:     n.Die.Sides(),
		Variant:   n.Die.Variant(),
		Min:       n.Die.Min(),
		Max:       n.Die.Max(),
		Selection: n.Selection,
		Bonus:     n.Pool.Bonus(),
	}
	if m, ok := n.Pool.Modifier(); ok {
		pb.Modifier = m.String()
	}

	outcomes, ok := n.Pool.Outcomes()
	if !ok {
		return pb
	}
	pb.Rolled = true
	pb.Aggregate = aggregate
	pb.Outcomes = make([]int, len(outcomes))
	hasExtra := false
	for i, o := range outcomes {
		pb.Outcomes[i] = o.Value
		if len(o.Extra) > 0 {
			hasExtra = true
		}
	}
	if hasExtra {
		pb.Extra = make([][]int, len(outcomes))
		for i, o := range outcomes {
			pb.Extra[i] = o.Extra
		}
	}
	return pb
}
