// Package testutil provides testing utilities for go-fits.
//
// This package is intended for use in tests only. It provides a seeded
// random generator for values of every supported type, and helpers for
// scratch files.
//
// # Random Values
//
//	rng := testutil.NewRNG(seed)
//	pixels := testutil.Values[float32](rng, 64)
//	shape := rng.Shape(3, 8)
package testutil
