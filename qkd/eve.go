package qkd

import (
	"math/rand"

	"qkdsim/qkd/bitstring"
	"qkdsim/qkd/quantum"
)

// An interception records which positions the eavesdropper measured and the
// outcomes she observed there. Positions outside the hit mask carry no
// information.
type interception struct {
	hit  bitstring.Dense
	bits bitstring.Dense
}

// An eavesdropper mounts the intercept-resend attack: it measures selected
// in-flight qubits in a uniformly random basis, which collapses each one to
// the measured bit re-encoded in that basis before it travels on to the
// receiver.
type eavesdropper struct {
	bases []quantum.Basis
	rng   *rand.Rand
}

func newEavesdropper(pol policy, rng *rand.Rand) *eavesdropper {
	return &eavesdropper{
		bases: pol.eveBases,
		rng:   rng,
	}
}

// intercept measures round(rate*len(qubits)) positions, chosen uniformly.
// When the random basis happens to match the encoding basis the qubit is
// forwarded undisturbed; otherwise the re-encoding flips the receiver's
// eventual outcome with probability one half per mismatched basis pair.
func (e *eavesdropper) intercept(qubits []quantum.Qubit, rate float64) interception {
	n := len(qubits)
	rec := interception{
		hit:  bitstring.NewDense(nil, n),
		bits: bitstring.NewDense(nil, n),
	}
	targets, _ := shuffleAndSplit(sequence(n), rate, e.rng)
	for _, i := range targets {
		basis := e.rng.Intn(len(e.bases))
		bit := e.bases[basis].Measure(&qubits[i], e.rng)
		rec.hit.Set(i, true)
		rec.bits.Set(i, bit)
	}
	return rec
}
