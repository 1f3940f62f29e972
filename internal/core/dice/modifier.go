package dice

import (
	"strconv"

	apperrors "github.com/aawilson/rputils/internal/platform/errors"
)

// MaxExplosions caps the extra draws an exploding die may make.
const MaxExplosions = 100

// ModifierKind selects how a modifier scores a pool.
type ModifierKind int

const (
	ModifierUnspecified ModifierKind = iota
	// ModifierSuccess counts outcomes at or above the threshold (e).
	ModifierSuccess
	// ModifierExplode rerolls max faces onto the same die (r).
	ModifierExplode
	// ModifierFailure counts successes minus ones (f).
	ModifierFailure
	// ModifierBonus grants an extra success when a max face rerolls into a success (m).
	ModifierBonus
)

// Letter returns the notation letter for the modifier kind.
func (k ModifierKind) Letter() string {
	switch k {
	case ModifierSuccess:
		return "e"
	case ModifierExplode:
		return "r"
	case ModifierFailure:
		return "f"
	case ModifierBonus:
		return "m"
	default:
		return ""
	}
}

// Modifier replaces a pool's plain aggregate with success counting.
type Modifier struct {
	Kind         ModifierKind
	Threshold    int
	HasThreshold bool
}

// NewModifier builds a modifier. Only ModifierExplode may omit the threshold.
func NewModifier(kind ModifierKind, threshold *int) (Modifier, error) {
	switch kind {
	case ModifierSuccess, ModifierExplode, ModifierFailure, ModifierBonus:
	default:
		return Modifier{}, apperrors.New(apperrors.CodeDiceInvalidParameter, "unknown modifier kind")
	}
	if threshold == nil {
		if kind != ModifierExplode {
			return Modifier{}, apperrors.WithMetadata(
				apperrors.CodeDiceInvalidParameter,
				"modifier "+kind.Letter()+" requires a threshold",
				map[string]string{"Modifier": kind.Letter()},
			)
		}
		return Modifier{Kind: kind}, nil
	}
	return Modifier{Kind: kind, Threshold: *threshold, HasThreshold: true}, nil
}

func (m Modifier) String() string {
	if !m.HasThreshold {
		return m.Kind.Letter()
	}
	return m.Kind.Letter() + strconv.Itoa(m.Threshold)
}

// extraDraws performs the additional draws the modifier needs for one member
// that rolled value. Members without a known max face never draw extra.
func (m Modifier) extraDraws(member Rollable, value int, src Source) ([]int, error) {
	faced, ok := member.(Faced)
	if !ok {
		return nil, nil
	}
	top := faced.Max()

	switch m.Kind {
	case ModifierExplode:
		var extra []int
		last := value
		for i := 0; last == top && i < MaxExplosions; i++ {
			next, err := member.Roll(src)
			if err != nil {
				return nil, err
			}
			extra = append(extra, next)
			last = next
		}
		return extra, nil
	case ModifierBonus:
		if value != top {
			return nil, nil
		}
		next, err := member.Roll(src)
		if err != nil {
			return nil, err
		}
		return []int{next}, nil
	default:
		return nil, nil
	}
}

// score computes the modifier result from cached outcomes.
func (m Modifier) score(outcomes []Outcome) int {
	switch m.Kind {
	case ModifierExplode:
		if !m.HasThreshold {
			highest := outcomes[0].Total()
			for _, o := range outcomes[1:] {
				if t := o.Total(); t > highest {
					highest = t
				}
			}
			return highest
		}
		count := 0
		for _, o := range outcomes {
			if o.Total() >= m.Threshold {
				count++
			}
		}
		return count
	case ModifierFailure:
		count := 0
		for _, o := range outcomes {
			if o.Value >= m.Threshold {
				count++
			}
			if o.Value == 1 {
				count--
			}
		}
		return count
	case ModifierBonus:
		count := 0
		for _, o := range outcomes {
			if o.Value >= m.Threshold {
				count++
			}
			if len(o.Extra) > 0 && o.Extra[0] >= m.Threshold {
				count++
			}
		}
		return count
	default:
		count := 0
		for _, o := range outcomes {
			if o.Value >= m.Threshold {
				count++
			}
		}
		return count
	}
}
