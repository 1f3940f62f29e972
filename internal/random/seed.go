// Package random provides seed generation for dice sources.
//
// It uses crypto/rand to generate high-entropy seeds for the seeded
// math/rand sources the dice core rolls against, and resolves whether a
// caller-supplied seed or a generated one drives a roll.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"

	apperrors "github.com/aawilson/rputils/internal/platform/errors"
)

// SeedSource records where a roll's seed came from.
type SeedSource string

const (
	// SeedSourceClient marks a seed supplied by the caller, used for replays.
	SeedSourceClient SeedSource = "client"
	// SeedSourceGenerated marks a seed drawn from system entropy.
	SeedSourceGenerated SeedSource = "generated"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// ResolveSeed returns the requested seed when one is given, otherwise a seed
// from generate. A nil generate falls back to NewSeed.
func ResolveSeed(requested *int64, generate func() (int64, error)) (int64, SeedSource, error) {
	if requested != nil {
		return *requested, SeedSourceClient, nil
	}
	if generate == nil {
		generate = NewSeed
	}
	seed, err := generate()
	if err != nil {
		return 0, "", apperrors.Wrap(apperrors.CodeSeedUnavailable, "generate seed", err)
	}
	return seed, SeedSourceGenerated, nil
}
