package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for the resampling estimator
type RNGPort interface {
	// Stream returns a deterministic generator for one (stage, key) pair.
	// Identical stage, key and seed always yield the same sequence.
	Stream(ctx context.Context, stageName, key string, seed int64) (*rand.Rand, error)
}
