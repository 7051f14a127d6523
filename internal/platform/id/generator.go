package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator creates opaque tokens for backup names and scratch directories.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct {
	size int
}

// NewRandomGenerator returns a generator of hex tokens built from size random
// bytes; sizes below 4 fall back to 8.
func NewRandomGenerator(size int) *RandomGenerator {
	if size < 4 {
		size = 8
	}
	return &RandomGenerator{size: size}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, g.size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
