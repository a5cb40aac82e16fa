package testutil

import (
	"math/rand"
	"path/filepath"
	"sync"
	"testing"
)

// Value is the set of value types the generator produces.
type Value interface {
	bool | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 |
		float32 | float64 | complex64 | complex128 | string
}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Shape returns a random shape of rank axes, each in [1, maxExtent].
func (r *RNG) Shape(rank int, maxExtent int64) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	shape := make([]int64, rank)
	for i := range shape {
		shape[i] = 1 + r.rand.Int63n(maxExtent)
	}
	return shape
}

// Values returns n random values of T.
// Integers span the whole range of their type, floats lie in
// [-1000, 1000) and strings hold 0 to 16 letters and digits.
func Values[T Value](r *RNG, n int) []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, n)
	for i := range out {
		out[i] = random[T](r.rand)
	}
	return out
}

// One returns a single random value of T.
func One[T Value](r *RNG) T {
	return Values[T](r, 1)[0]
}

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func random[T Value](rnd *rand.Rand) T {
	var v T
	switch p := any(&v).(type) {
	case *bool:
		*p = rnd.Intn(2) == 1
	case *int8:
		*p = int8(rnd.Uint64())
	case *int16:
		*p = int16(rnd.Uint64())
	case *int32:
		*p = int32(rnd.Uint64())
	case *int64:
		*p = int64(rnd.Uint64())
	case *uint8:
		*p = uint8(rnd.Uint64())
	case *uint16:
		*p = uint16(rnd.Uint64())
	case *uint32:
		*p = uint32(rnd.Uint64())
	case *uint64:
		*p = rnd.Uint64()
	case *float32:
		*p = float32(rnd.Float64()*2000 - 1000)
	case *float64:
		*p = rnd.Float64()*2000 - 1000
	case *complex64:
		*p = complex(float32(rnd.Float64()*2000-1000), float32(rnd.Float64()*2000-1000))
	case *complex128:
		*p = complex(rnd.Float64()*2000-1000, rnd.Float64()*2000-1000)
	case *string:
		b := make([]byte, rnd.Intn(17))
		for i := range b {
			b[i] = alphabet[rnd.Intn(len(alphabet))]
		}
		*p = string(b)
	}
	return v
}

// TempPath returns the path of a file named name in a directory removed
// when the test ends.
func TempPath(t testing.TB, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}
