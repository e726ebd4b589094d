// Package dice implements the low-level die draws for the roll engine.
package dice

import (
	"errors"
	"math/rand"
)

// Source supplies uniform random integers for die draws. *rand.Rand
// satisfies it; tests may supply scripted sequences instead.
type Source interface {
	Intn(n int) int
}

// ErrInvalidSides indicates a die with a non-positive number of faces.
var ErrInvalidSides = errors.New("dice must have positive sides")

// ErrInvalidCount indicates a non-positive number of dice.
var ErrInvalidCount = errors.New("dice count must be positive")

// NewSource returns a deterministic Source for the given seed.
//
// Given the same seed, draws from the returned Source always produce the
// same sequence, which keeps roll evaluation reproducible.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// Roll draws one die with the provided number of sides.
func Roll(src Source, sides int) int {
	return src.Intn(sides) + 1
}

// RollN draws count dice with the provided number of sides, in draw order.
func RollN(src Source, count, sides int) ([]int, error) {
	if sides <= 0 {
		return nil, ErrInvalidSides
	}
	if count <= 0 {
		return nil, ErrInvalidCount
	}

	results := make([]int, count)
	for i := range results {
		results[i] = Roll(src, sides)
	}
	return results, nil
}

// D10 draws a single ten-sided die, the Storyteller system's base die.
func D10(src Source) int {
	return Roll(src, 10)
}
