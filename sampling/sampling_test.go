package sampling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hasDuplicates(picks []int) bool {
	seen := map[int]bool{}
	for _, p := range picks {
		if seen[p] {
			return true
		}
		seen[p] = true
	}
	return false
}

// TestFixedSize verifies the batch is always full and that duplicates only
// appear when there are fewer candidates than requested.
func TestFixedSize(t *testing.T) {
	src := NewSource(7)
	tests := []struct {
		name       string
		n          int
		size       int
		replace    bool
		duplicates bool
	}{
		{"more candidates than batch", 100, 16, false, false},
		{"equal", 16, 16, false, false},
		{"fewer candidates", 3, 16, true, true},
		{"single candidate", 1, 4, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for trial := 0; trial < 20; trial++ {
				picks, err := FixedSize(src, tt.n, tt.size)
				require.NoError(t, err)
				require.Len(t, picks, tt.size)
				for _, p := range picks {
					assert.GreaterOrEqual(t, p, 0)
					assert.Less(t, p, tt.n)
				}
				if !tt.duplicates {
					assert.False(t, hasDuplicates(picks), "no duplicates expected without replacement")
				}
			}
			if tt.duplicates {
				// Pigeonhole: more picks than candidates must repeat.
				picks, err := FixedSize(src, tt.n, tt.size)
				require.NoError(t, err)
				assert.True(t, hasDuplicates(picks))
			}
		})
	}
}

func TestFixedSize_CoversPopulation(t *testing.T) {
	picks, err := FixedSize(NewSource(3), 10, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, picks)
}

func TestChoice_Errors(t *testing.T) {
	src := NewSource(1)

	_, err := Choice(src, 3, 5, false)
	assert.Error(t, err, "distinct draw larger than population")

	_, err = Choice(src, 0, 5, true)
	assert.Error(t, err, "empty population")

	_, err = Choice(src, -1, 2, true)
	assert.Error(t, err)

	picks, err := Choice(src, 0, 0, false)
	require.NoError(t, err)
	assert.Empty(t, picks)
}

func TestNewSource_Reproducible(t *testing.T) {
	a, err := FixedSize(NewSource(42), 50, 20)
	require.NoError(t, err)
	b, err := FixedSize(NewSource(42), 50, 20)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := FixedSize(NewSource(42), 3, 20)
	require.NoError(t, err)
	d, err := FixedSize(NewSource(42), 3, 20)
	require.NoError(t, err)
	assert.Equal(t, c, d)
}
