package qkd

import (
	"math/rand"

	"qkdsim/qkd/bitstring"
	"qkdsim/qkd/quantum"
)

// A prepareFunc generates one raw bit, the index of the basis used to encode
// it, and the encoded qubit. Protocol variants differ in how much basis
// freedom the sender has.
type prepareFunc func(rng *rand.Rand, bases []quantum.Basis) (bit bool, basis int, q quantum.Qubit)

// A transmission is the sender's authoritative per-position record of one
// trial: the generated bits, the encoding basis indices, and the qubits in
// flight. The qubit slice is mutated downstream as the eavesdropper and
// receiver measure it.
type transmission struct {
	bits   bitstring.Dense
	bases  []int
	qubits []quantum.Qubit
}

// A sender generates raw bits and encodes them for the quantum channel.
type sender struct {
	bases   []quantum.Basis
	prepare prepareFunc
	rng     *rand.Rand
}

func newSender(pol policy, rng *rand.Rand) *sender {
	return &sender{
		bases:   pol.senderBases,
		prepare: pol.prepare,
		rng:     rng,
	}
}

// transmit generates and encodes n qubits.
func (s *sender) transmit(n int) transmission {
	tx := transmission{
		bits:   bitstring.NewDense(nil, n),
		bases:  make([]int, n),
		qubits: make([]quantum.Qubit, n),
	}
	for i := 0; i < n; i++ {
		bit, basis, q := s.prepare(s.rng, s.bases)
		tx.bits.Set(i, bit)
		tx.bases[i] = basis
		tx.qubits[i] = q
	}
	return tx
}

// prepareRandomBasis draws an independent uniform bit and a uniform encoding
// basis, as in BB84 and the six-state variant.
func prepareRandomBasis(rng *rand.Rand, bases []quantum.Basis) (bool, int, quantum.Qubit) {
	bit := randomBit(rng)
	basis := rng.Intn(len(bases))
	return bit, basis, bases[basis].Encode(bit)
}

// prepareB92 encodes with no basis freedom: the bit itself selects one of two
// fixed non-orthogonal states, |0> for 0 and |+> for 1.
func prepareB92(rng *rand.Rand, bases []quantum.Basis) (bool, int, quantum.Qubit) {
	bit := randomBit(rng)
	basis := 0
	if bit {
		basis = 1
	}
	return bit, basis, bases[basis].Encode(false)
}
