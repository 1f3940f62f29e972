package dice

import (
	"fmt"
	"strconv"

	apperrors "github.com/aawilson/rputils/internal/platform/errors"
)

// Kind identifies how a die maps a draw to a face.
type Kind int

const (
	KindUnspecified Kind = iota
	KindStandard
	KindZeroBias
	KindFudge
)

func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindZeroBias:
		return "zero-bias"
	case KindFudge:
		return "fudge"
	default:
		return "unspecified"
	}
}

// FudgeVariant selects the face layout of a fudge die.
type FudgeVariant int

const (
	// FudgeVariant1 has one plus face, one minus face and four blanks.
	FudgeVariant1 FudgeVariant = 1
	// FudgeVariant2 has two of each face.
	FudgeVariant2 FudgeVariant = 2
)

// DefaultFudgeVariant is used when the notation omits the variant.
const DefaultFudgeVariant = FudgeVariant2

func (v FudgeVariant) String() string {
	return "." + strconv.Itoa(int(v))
}

// PercentSides is the number of sides of a percentile die.
const PercentSides = 100

// MaxSides is the largest number of sides a standard or zero-bias die accepts.
const MaxSides = 1_000_000

// Die is an immutable single-die descriptor.
type Die struct {
	kind    Kind
	sides   int
	variant FudgeVariant
}

// NewStandard returns a die rolling 1..sides.
func NewStandard(sides int) (Die, error) {
	if sides < 1 || sides > MaxSides {
		return Die{}, invalidSides(KindStandard, sides)
	}
	return Die{kind: KindStandard, sides: sides}, nil
}

// NewZeroBias returns a die rolling 0..sides.
func NewZeroBias(sides int) (Die, error) {
	if sides < 1 || sides > MaxSides {
		return Die{}, invalidSides(KindZeroBias, sides)
	}
	return Die{kind: KindZeroBias, sides: sides}, nil
}

// NewFudge returns a fudge die of the given variant.
func NewFudge(variant FudgeVariant) (Die, error) {
	if variant != FudgeVariant1 && variant != FudgeVariant2 {
		return Die{}, apperrors.WithMetadata(
			apperrors.CodeDiceInvalidParameter,
			fmt.Sprintf("fudge variant must be .1 or .2, got %s", variant),
			map[string]string{"Kind": KindFudge.String(), "Variant": variant.String()},
		)
	}
	return Die{kind: KindFudge, variant: variant}, nil
}

// NewPercent returns a standard d100.
func NewPercent() Die {
	return Die{kind: KindStandard, sides: PercentSides}
}

// Kind returns the die kind.
func (d Die) Kind() Kind { return d.kind }

// Sides returns the number of sides; zero for fudge dice.
func (d Die) Sides() int { return d.sides }

// Variant returns the fudge variant; zero for other kinds.
func (d Die) Variant() FudgeVariant { return d.variant }

// Draw consumes exactly one value from src and returns the face rolled.
func (d Die) Draw(src Source) int {
	switch d.kind {
	case KindZeroBias:
		return src.Uniform(0, d.sides)
	case KindFudge:
		if d.variant == FudgeVariant1 {
			switch src.Uniform(1, 6) {
			case 1:
				return -1
			case 2:
				return 1
			default:
				return 0
			}
		}
		return src.Uniform(-1, 1)
	default:
		return src.Uniform(1, d.sides)
	}
}

// Roll implements Rollable. A die never fails to roll.
func (d Die) Roll(src Source) (int, error) {
	return d.Draw(src), nil
}

// Min returns the lowest face.
func (d Die) Min() int {
	switch d.kind {
	case KindZeroBias:
		return 0
	case KindFudge:
		return -1
	default:
		return 1
	}
}

// Max returns the highest face.
func (d Die) Max() int {
	if d.kind == KindFudge {
		return 1
	}
	return d.sides
}

func (d Die) String() string {
	switch d.kind {
	case KindZeroBias:
		return "z" + strconv.Itoa(d.sides)
	case KindFudge:
		return "dF" + d.variant.String()
	default:
		return "d" + strconv.Itoa(d.sides)
	}
}
