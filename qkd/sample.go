package qkd

import (
	"math"
	"math/rand"

	"qkdsim/qkd/bitstring"
)

// shuffleAndSplit uniformly permutes idx and splits the permutation into two
// disjoint parts, the first holding round(fraction*len(idx)) elements. The
// input slice is left untouched. Both halves come back in permuted order;
// callers that need a canonical ordering sort them.
func shuffleAndSplit(idx []int, fraction float64, rng *rand.Rand) (head, tail []int) {
	shuffled := make([]int, len(idx))
	copy(shuffled, idx)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	k := int(math.Round(fraction * float64(len(shuffled))))
	if k > len(shuffled) {
		k = len(shuffled)
	}
	if k < 0 {
		k = 0
	}
	return shuffled[:k], shuffled[k:]
}

// sequence returns the indices [0, n).
func sequence(n int) []int {
	r := make([]int, n)
	for i := range r {
		r[i] = i
	}
	return r
}

// randomBit draws a single uniform bit.
func randomBit(rng *rand.Rand) bool {
	return rng.Intn(2) == 1
}

// gather collects the bits of d at the given positions, in order.
func gather(d bitstring.Dense, positions []int) bitstring.Dense {
	r := bitstring.Empty()
	for _, i := range positions {
		r.AppendBit(d.Get(i))
	}
	return r
}
