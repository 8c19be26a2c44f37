// Package seed hands out the single world seed a game instance is
// authoritative for. It is generated once at process start, broadcast to
// every client on its world_init handshake, and also handed to the
// GameInstance itself as a *rand.Rand: every seed-derived decision in the
// simulation (spawn candidate selection, spawn point choice, powerup
// rolls) draws from that one Rand instead of the global source, so a
// predictor or replay tool given the same seed reproduces the same
// sequence of decisions.
package seed

import "math/rand/v2"

// Authority holds the process-wide world seed, generated once.
type Authority struct {
	value int64
}

// New generates a fresh Authority from a cryptographically-seeded PRNG.
func New() *Authority {
	return &Authority{value: int64(rand.Uint64() >> 1)}
}

// FromValue builds an Authority around an explicit seed, for deterministic
// replay or testing.
func FromValue(v int64) *Authority {
	return &Authority{value: v}
}

// Value returns the world seed.
func (a *Authority) Value() int64 { return a.value }

// Rand builds a PCG-backed *rand.Rand deterministically derived from the
// authority's seed value. Two Authorities built with the same seed
// (FromValue or a replayed New) produce Rands that draw identical
// sequences.
func (a *Authority) Rand() *rand.Rand {
	return rand.New(rand.NewPCG(uint64(a.value), uint64(a.value)^0x9E3779B97F4A7C15))
}
