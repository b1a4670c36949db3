package qkd

import (
	"math/rand"

	"qkdsim/qkd/bitstring"
	"qkdsim/qkd/quantum"
)

// An interpretFunc decodes a raw measurement outcome, given the index of the
// measurement basis, into a logical bit and a conclusiveness flag.
type interpretFunc func(raw bool, basis int) (bit, conclusive bool)

// A reception is the receiver's per-position record of one trial: the
// decoded bits, the measurement basis indices, and which outcomes were
// conclusive.
type reception struct {
	bits       bitstring.Dense
	bases      []int
	conclusive bitstring.Dense
}

// A receiver independently chooses measurement bases and measures incoming
// qubits. Each measurement collapses the corresponding qubit in place.
type receiver struct {
	bases     []quantum.Basis
	interpret interpretFunc
	rng       *rand.Rand
}

func newReceiver(pol policy, rng *rand.Rand) *receiver {
	return &receiver{
		bases:     pol.receiverBases,
		interpret: pol.interpret,
		rng:       rng,
	}
}

// measure measures every qubit in a uniformly random basis and records the
// decoded outcome.
func (r *receiver) measure(qubits []quantum.Qubit) reception {
	n := len(qubits)
	rx := reception{
		bits:       bitstring.NewDense(nil, n),
		bases:      make([]int, n),
		conclusive: bitstring.NewDense(nil, n),
	}
	for i := range qubits {
		basis := r.rng.Intn(len(r.bases))
		raw := r.bases[basis].Measure(&qubits[i], r.rng)
		bit, ok := r.interpret(raw, basis)
		rx.bits.Set(i, bit)
		rx.bases[i] = basis
		rx.conclusive.Set(i, ok)
	}
	return rx
}

// interpretDirect takes the raw outcome as the logical bit; every
// measurement is conclusive.
func interpretDirect(raw bool, basis int) (bool, bool) {
	return raw, true
}

// interpretB92 treats only raw-1 outcomes as conclusive: measuring 1 in the
// rectilinear basis rules out |0>, so the sender's bit was 1; measuring 1 in
// the diagonal basis rules out |+>, so the bit was 0.
func interpretB92(raw bool, basis int) (bool, bool) {
	return basis == 0, raw
}
