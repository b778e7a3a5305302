package utils

import (
	crand "crypto/rand"
	"math/big"
	"math/rand"
)

// SecureRandomInt returns a random integer in [0, n) using crypto/rand.
// Falls back to math/rand if the system entropy source fails.
func SecureRandomInt(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return rand.Intn(n) //nolint:gosec // fallback only; game randomness, not key material
	}
	return int(v.Int64())
}

// Shuffle performs an in-place Fisher-Yates shuffle using the provided rng.
// rng must return an integer in [0, n).
func Shuffle[T any](s []T, rng func(int) int) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
