// Package rng implements ports.RNGPort with math/rand sources derived from a
// base seed and the name of the stream being requested.
package rng

import (
	"context"
	"math/rand"
)

// Adapter derives independent, reproducible streams from a base seed
type Adapter struct{}

// NewAdapter creates a new RNG adapter
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Stream creates a deterministic RNG stream for a specific stage/key.
// The seed is mixed with hashes of stageName and key so different genes
// draw from different sequences while a fixed seed stays reproducible.
func (a *Adapter) Stream(ctx context.Context, stageName, key string, seed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rand.New(rand.NewSource(StreamSeed(stageName, key, seed))), nil
}

// StreamSeed returns the source seed used for a (stage, key, seed) triple
func StreamSeed(stageName, key string, seed int64) int64 {
	mixed := seed
	if stageName != "" {
		mixed = int64(hashString(stageName)) + mixed*31
	}
	if key != "" {
		mixed = int64(hashString(key)) + mixed*31
	}
	return mixed
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c) // djb2
	}
	return hash
}
