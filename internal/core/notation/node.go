package notation

import (
	"strconv"

	"github.com/aawilson/rputils/internal/core/dice"
)

// Node is one element of a parsed expression.
type Node interface {
	String() string

	eval(ev *evaluator) (int, error)
	reset()
	walkPools(fn func(*PoolNode))
}

// Selection names the aggregate a pool kind letter selects.
type Selection int

const (
	SelectSum Selection = iota
	SelectHighest
	SelectLowest
	SelectDropLowest
)

func (s Selection) String() string {
	switch s {
	case SelectHighest:
		return "highest"
	case SelectLowest:
		return "lowest"
	case SelectDropLowest:
		return "drop-lowest"
	default:
		return "sum"
	}
}

func (s Selection) aggregate() dice.Aggregate {
	switch s {
	case SelectHighest:
		return dice.Highest(1)
	case SelectLowest:
		return dice.Lowest(1)
	case SelectDropLowest:
		return dice.DropLowest(1)
	default:
		return dice.Sum
	}
}

// PoolNode is a pool of identical dice.
type PoolNode struct {
	Notation  string
	Count     int
	Die       dice.Die
	Selection Selection
	Pool      *dice.Pool
}

func (n *PoolNode) String() string { return n.Notation }

func (n *PoolNode) eval(ev *evaluator) (int, error) {
	total, err := n.Pool.Result(ev.src)
	if err != nil {
		return 0, err
	}
	if ev.detail {
		ev.pools = append(ev.pools, snapshot(n, total))
	}
	return total, nil
}

func (n *PoolNode) reset() { n.Pool.Reset() }

func (n *PoolNode) walkPools(fn func(*PoolNode)) { fn(n) }

// Literal is a constant integer term.
type Literal int

func (n Literal) String() string { return strconv.Itoa(int(n)) }

func (n Literal) eval(*evaluator) (int, error) { return int(n), nil }

func (Literal) reset() {}

func (Literal) walkPools(func(*PoolNode)) {}

// Operator is a binary arithmetic operator.
type Operator byte

const (
	OpAdd Operator = '+'
	OpSub Operator = '-'
)

// BinaryNode adds or subtracts two terms.
type BinaryNode struct {
	Op    Operator
	Left  Node
	Right Node
}

func (n *BinaryNode) String() string {
	return n.Left.String() + " " + string(n.Op) + " " + n.Right.String()
}

func (n *BinaryNode) eval(ev *evaluator) (int, error) {
	left, err := n.Left.eval(ev)
	if err != nil {
		return 0, err
	}
	right, err := n.Right.eval(ev)
	if err != nil {
		return 0, err
	}
	if n.Op == OpSub {
		return left - right, nil
	}
	return left + right, nil
}

func (n *BinaryNode) reset() {
	n.Left.reset()
	n.Right.reset()
}

func (n *BinaryNode) walkPools(fn func(*PoolNode)) {
	n.Left.walkPools(fn)
	n.Right.walkPools(fn)
}

// GroupNode is a parenthesized expression.
type GroupNode struct {
	Inner Node
}

func (n *GroupNode) String() string { return "(" + n.Inner.String() + ")" }

func (n *GroupNode) eval(ev *evaluator) (int, error) { return n.Inner.eval(ev) }

func (n *GroupNode) reset() { n.Inner.reset() }

func (n *GroupNode) walkPools(fn func(*PoolNode)) { n.Inner.walkPools(fn) }

// RepeatNode rolls Inner Count independent times and sums the results.
type RepeatNode struct {
	Count int
	Inner Node
}

func (n *RepeatNode) String() string {
	return strconv.Itoa(n.Count) + " x " + n.Inner.String()
}

func (n *RepeatNode) eval(ev *evaluator) (int, error) {
	total := 0
	for i := 0; i < n.Count; i++ {
		n.Inner.reset()
		v, err := n.Inner.eval(ev)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

func (n *RepeatNode) reset() { n.Inner.reset() }

func (n *RepeatNode) walkPools(fn func(*PoolNode)) { n.Inner.walkPools(fn) }
