// Package dice implements dice, pools of dice, and the modifiers that turn a
// pool's cached draws into a single result.
//
// # Determinism
//
// Every draw goes through a Source. Given a Source that returns a fixed
// sequence, rolling the same pool always produces the same outcomes and the
// same result. NewRandSource wraps math/rand for seeded replays.
//
// # Caching
//
// A Pool starts Unrolled. The first call to Result draws every member once,
// in order, and moves the pool to Rolled. Further calls to Result reuse the
// cached outcomes; only Reroll discards them.
package dice
