package dice

import (
	"strconv"

	apperrors "github.com/aawilson/rputils/internal/platform/errors"
)

// ErrInvalidParameter indicates a die or modifier was built with an unusable parameter.
var ErrInvalidParameter = apperrors.New(apperrors.CodeDiceInvalidParameter, "invalid dice parameter")

// ErrEmptyPool indicates a pool was aggregated without any outcomes.
var ErrEmptyPool = apperrors.New(apperrors.CodeDiceEmptyPool, "pool has no dice")

func invalidSides(kind Kind, sides int) error {
	reason := " die must have at least one side, got "
	if sides > MaxSides {
		reason = " die must have at most " + strconv.Itoa(MaxSides) + " sides, got "
	}
	return apperrors.WithMetadata(
		apperrors.CodeDiceInvalidParameter,
		kind.String()+reason+strconv.Itoa(sides),
		map[string]string{"Kind": kind.String(), "Sides": strconv.Itoa(sides)},
	)
}
