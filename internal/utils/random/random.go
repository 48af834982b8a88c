package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Shuffle permutes slice in place using crypto/rand.
func Shuffle[T any](slice []T) error {
	for i := len(slice) - 1; i > 0; i-- {
		j, err := intn(i + 1)
		if err != nil {
			return err
		}
		slice[i], slice[j] = slice[j], slice[i]
	}
	return nil
}

// Sample returns up to n distinct elements of src in random order. src is not modified.
func Sample[T any](src []T, n int) ([]T, error) {
	out := append([]T(nil), src...)
	if err := Shuffle(out); err != nil {
		return nil, err
	}
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out, nil
}

func intn(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random number: %w", err)
	}
	return int(v.Int64()), nil
}
