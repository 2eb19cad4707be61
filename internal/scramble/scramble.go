// Package scramble generates randomized scramble sequences for NxN cube
// puzzles. Generation is a pure function of its inputs and the supplied
// random source.
package scramble

import (
	"errors"
	"math/rand"
)

var ErrInvalidSize = errors.New("scramble: cube size must be at least 2")

var faces = [...]string{"U", "D", "L", "R", "F", "B"}

// Move is a single scramble turn. SliceIndex selects the layer counted
// from the named face, always within [0, size/2 - 1].
type Move struct {
	Face       string `json:"face"`
	SliceIndex int    `json:"sliceIndex"`
	Clockwise  bool   `json:"clockwise"`
}

// Generate produces length moves for an NxN cube of the given size.
// No two consecutive moves share a face, so adjacent turns can never
// trivially cancel.
func Generate(r *rand.Rand, length, size int) ([]Move, error) {
	if size <= 1 {
		return nil, ErrInvalidSize
	}
	maxSlice := size/2 - 1

	moves := make([]Move, 0, length)
	last := ""
	for i := 0; i < length; i++ {
		face := faces[r.Intn(len(faces))]
		for face == last {
			face = faces[r.Intn(len(faces))]
		}
		last = face

		moves = append(moves, Move{
			Face:       face,
			SliceIndex: r.Intn(maxSlice + 1),
			Clockwise:  r.Intn(2) == 0,
		})
	}
	return moves, nil
}
