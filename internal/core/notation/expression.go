package notation

import (
	"github.com/aawilson/rputils/internal/core/dice"
)

// Expression is a parsed notation string. It owns its pools; it is not safe
// for concurrent use.
type Expression struct {
	source string
	root   Node
}

// Source returns the notation the expression was parsed from.
func (e *Expression) Source() string { return e.source }

// Root returns the top node of the tree.
func (e *Expression) Root() Node { return e.root }

// String renders the expression in canonical notation.
func (e *Expression) String() string { return e.root.String() }

// Evaluate walks the tree and returns the total. Pools that already hold
// cached outcomes reuse them; repeats always draw fresh.
func (e *Expression) Evaluate(src dice.Source) (int, error) {
	ev := &evaluator{src: src}
	return e.root.eval(ev)
}

// Reroll clears every pool cache, then evaluates.
func (e *Expression) Reroll(src dice.Source) (int, error) {
	e.root.reset()
	return e.Evaluate(src)
}

// Detail evaluates like Evaluate and also records every pool result seen
// during the walk. A pool under a repeat appears once per repetition.
func (e *Expression) Detail(src dice.Source) (Breakdown, error) {
	ev := &evaluator{src: src, detail: true}
	total, err := e.root.eval(ev)
	if err != nil {
		return Breakdown{}, err
	}
	return Breakdown{Total: total, Pools: ev.pools}, nil
}

// Inspect snapshots the current cache of every pool without drawing.
// Unrolled pools are reported with no outcomes.
func (e *Expression) Inspect() []PoolBreakdown {
	var pools []PoolBreakdown
	e.root.walkPools(func(n *PoolNode) {
		aggregate := 0
		if n.Pool.State() == dice.Rolled {
			// A rolled pool never touches its source.
			aggregate, _ = n.Pool.Result(nil)
		}
		pools = append(pools, snapshot(n, aggregate))
	})
	return pools
}

// Reset clears every pool cache without drawing.
func (e *Expression) Reset() { e.root.reset() }

type evaluator struct {
	src    dice.Source
	detail bool
	pools  []PoolBreakdown
}
