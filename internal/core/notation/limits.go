package notation

import (
	"strconv"

	apperrors "github.com/aawilson/rputils/internal/platform/errors"
)

const (
	// MaxDice is the largest dice count a single pool accepts.
	MaxDice = 1000
	// MaxRepeat is the largest count a repeat accepts.
	MaxRepeat = 1000
	// MaxDraws bounds the die draws one evaluation may make before
	// modifier draws, counting every repetition.
	MaxDraws = 100_000
)

// tooLarge reports a count above limit. got is omitted from the message
// when empty.
func tooLarge(what string, limit, pos int, input, got string) error {
	message := what + " must not exceed " + strconv.Itoa(limit)
	if got != "" {
		message += ", got " + got
	}
	return apperrors.WithMetadata(
		apperrors.CodeDiceInvalidParameter,
		message,
		map[string]string{
			"Limit":    strconv.Itoa(limit),
			"Position": strconv.Itoa(pos),
			"Input":    input,
		},
	)
}

// Draws reports how many base die draws one evaluation makes, not counting
// modifier draws. Values above MaxDraws are reported as MaxDraws+1.
func (e *Expression) Draws() int { return draws(e.root) }

// draws returns how many base draws evaluating n makes, saturating at
// MaxDraws+1.
func draws(n Node) int {
	switch n := n.(type) {
	case *PoolNode:
		return n.Count
	case *BinaryNode:
		return capDraws(draws(n.Left) + draws(n.Right))
	case *GroupNode:
		return draws(n.Inner)
	case *RepeatNode:
		inner := draws(n.Inner)
		if inner > 0 && n.Count > (MaxDraws+1)/inner {
			return MaxDraws + 1
		}
		return capDraws(n.Count * inner)
	default:
		return 0
	}
}

func capDraws(v int) int {
	if v > MaxDraws {
		return MaxDraws + 1
	}
	return v
}
