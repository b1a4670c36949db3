package qkd

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShuffleAndSplitSizes(t *testing.T) {
	tcs := []struct {
		name     string
		n        int
		fraction float64
		eHead    int
	}{
		{name: "half of even", n: 10, fraction: 0.5, eHead: 5},
		{name: "half of odd", n: 5, fraction: 0.5, eHead: 3},
		{name: "none", n: 8, fraction: 0, eHead: 0},
		{name: "all", n: 8, fraction: 1, eHead: 8},
		{name: "quarter", n: 10, fraction: 0.25, eHead: 3},
		{name: "empty input", n: 0, fraction: 0.5, eHead: 0},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			head, tail := shuffleAndSplit(sequence(tc.n), tc.fraction, rng)
			require.Len(t, head, tc.eHead)
			require.Len(t, tail, tc.n-tc.eHead)

			seen := map[int]bool{}
			for _, i := range append(append([]int{}, head...), tail...) {
				require.False(t, seen[i], "index %d appears twice", i)
				require.GreaterOrEqual(t, i, 0)
				require.Less(t, i, tc.n)
				seen[i] = true
			}
			require.Len(t, seen, tc.n)
		})
	}
}

func TestShuffleAndSplitLeavesInputUntouched(t *testing.T) {
	idx := sequence(16)
	shuffleAndSplit(idx, 0.5, rand.New(rand.NewSource(1)))
	require.Equal(t, sequence(16), idx)
}

func TestShuffleAndSplitDeterministic(t *testing.T) {
	h1, t1 := shuffleAndSplit(sequence(64), 0.5, rand.New(rand.NewSource(7)))
	h2, t2 := shuffleAndSplit(sequence(64), 0.5, rand.New(rand.NewSource(7)))
	require.Equal(t, h1, h2)
	require.Equal(t, t1, t2)

	h3, _ := shuffleAndSplit(sequence(64), 0.5, rand.New(rand.NewSource(8)))
	require.NotEqual(t, h1, h3)
}
