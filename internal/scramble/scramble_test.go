package scramble_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cubeduel/internal/scramble"
)

func TestGenerate_InvalidSize(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{name: "size zero", size: 0},
		{name: "size one", size: 1},
		{name: "negative size", size: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rand.New(rand.NewSource(1))
			moves, err := scramble.Generate(r, 20, tt.size)
			require.ErrorIs(t, err, scramble.ErrInvalidSize)
			assert.Nil(t, moves)
		})
	}
}

func TestGenerate_Constraints(t *testing.T) {
	tests := []struct {
		name     string
		length   int
		size     int
		maxSlice int
	}{
		{name: "2x2 short scramble", length: 10, size: 2, maxSlice: 0},
		{name: "3x3 standard scramble", length: 20, size: 3, maxSlice: 0},
		{name: "4x4", length: 20, size: 4, maxSlice: 1},
		{name: "5x5", length: 20, size: 5, maxSlice: 1},
		{name: "7x7 long", length: 40, size: 7, maxSlice: 2},
	}

	valid := map[string]bool{"U": true, "D": true, "L": true, "R": true, "F": true, "B": true}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rand.New(rand.NewSource(42))
			moves, err := scramble.Generate(r, tt.length, tt.size)
			require.NoError(t, err)
			require.Len(t, moves, tt.length)

			for i, m := range moves {
				assert.True(t, valid[m.Face], "unknown face %q at %d", m.Face, i)
				assert.GreaterOrEqual(t, m.SliceIndex, 0)
				assert.LessOrEqual(t, m.SliceIndex, tt.maxSlice)
				if i > 0 {
					assert.NotEqual(t, moves[i-1].Face, m.Face,
						"consecutive moves share face at %d", i)
				}
			}
		})
	}
}

func TestGenerate_DeterministicPerSeed(t *testing.T) {
	a, err := scramble.Generate(rand.New(rand.NewSource(7)), 20, 3)
	require.NoError(t, err)
	b, err := scramble.Generate(rand.New(rand.NewSource(7)), 20, 3)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerate_ZeroLength(t *testing.T) {
	moves, err := scramble.Generate(rand.New(rand.NewSource(1)), 0, 3)
	require.NoError(t, err)
	assert.Empty(t, moves)
}
