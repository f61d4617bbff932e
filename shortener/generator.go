package shortener

import (
	"crypto/rand"
	"math/big"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeGenerator produces candidate short codes. Injected so tests can
// force collisions with a fixed sequence.
type CodeGenerator interface {
	Generate() (string, error)
}

// RandomGenerator draws codes uniformly from the 62-symbol
// alphanumeric alphabet using crypto/rand.
type RandomGenerator struct {
	length int
}

// NewRandomGenerator creates a generator for codes of the given length.
func NewRandomGenerator(length int) *RandomGenerator {
	return &RandomGenerator{length: length}
}

func (g *RandomGenerator) Generate() (string, error) {
	result := make([]byte, g.length)
	max := big.NewInt(int64(len(charset)))
	for i := range result {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		result[i] = charset[num.Int64()]
	}
	return string(result), nil
}
