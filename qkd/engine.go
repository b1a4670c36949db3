package qkd

import (
	"math"
	"time"

	"github.com/pkg/errors"

	"qkdsim/qkd/bitstring"
)

// Run executes one trial: transmit, optionally eavesdrop, measure, sift,
// estimate the error rate, and decide security. Degenerate data conditions
// (no retained positions, an empty estimation sample) resolve to an insecure
// result, never an error; only invalid arguments fail.
func (e *Engine) Run(numQubits int, interceptionRate float64) (Result, error) {
	if numQubits < 0 {
		return Result{}, errors.Errorf("negative qubit count %d", numQubits)
	}
	if math.IsNaN(interceptionRate) || interceptionRate < 0 || interceptionRate > 1 {
		return Result{}, errors.Errorf("interception rate %v outside [0,1]", interceptionRate)
	}

	start := time.Now()
	res := Result{
		Protocol:         e.protocol,
		NumQubits:        numQubits,
		InterceptionRate: interceptionRate,
		QBER:             QBERSentinel,
	}

	alice := newSender(e.pol, e.rng)
	tx := alice.transmit(numQubits)

	var eveRec interception
	if interceptionRate > 0 {
		eve := newEavesdropper(e.pol, e.eveRng)
		eveRec = eve.intercept(tx.qubits, interceptionRate)
	}

	bob := newReceiver(e.pol, e.rng)
	rx := bob.measure(tx.qubits)

	disc, keyIdx := e.discuss(tx, rx)
	e.decide(&res, tx, disc, keyIdx, eveRec)

	res.Elapsed = time.Since(start)
	return res, nil
}

// discuss performs the public phase: sift, then split the retained positions
// into an estimation sample and the raw key, and compare bits over the
// sample.
func (e *Engine) discuss(tx transmission, rx reception) (Discussion, []int) {
	retained := e.pol.sift(tx, rx)
	sampled, keyIdx := shuffleAndSplit(retained, e.sampleProp, e.rng)

	disc := Discussion{
		Retained: retained,
		Sampled:  sampled,
		QBER:     QBERSentinel,
	}
	if len(sampled) == 0 {
		return disc, keyIdx
	}
	aliceSample := gather(tx.bits, sampled)
	bobSample := gather(rx.bits, sampled)
	mismatches := bitstring.CountOnes(bitstring.XOr(aliceSample, bobSample))
	disc.QBER = float64(mismatches) / float64(len(sampled))
	return disc, keyIdx
}

// decide applies the protocol's disturbance threshold. On a secure run the
// key is the sender's bits at the unsampled retained positions; the receiver
// holds the same bits up to errors, with error correction idealized away.
func (e *Engine) decide(res *Result, tx transmission, disc Discussion, keyIdx []int, eveRec interception) {
	unverifiable := len(disc.Sampled) == 0 || len(keyIdx) == 0
	if unverifiable || disc.QBER > e.pol.maxQBER {
		return
	}
	res.Secure = true
	res.QBER = disc.QBER
	res.Key = gather(tx.bits, keyIdx)
	res.KeyLength = res.Key.Size()
	res.EveKeyKnowledge = eveKnowledge(tx.bits, eveRec, keyIdx)
}

// eveKnowledge returns the fraction of key positions where the eavesdropper
// measured and her outcome agrees with the sender's bit.
func eveKnowledge(bits bitstring.Dense, eveRec interception, keyIdx []int) float64 {
	if len(keyIdx) == 0 {
		return 0
	}
	known := 0
	for _, i := range keyIdx {
		if eveRec.hit.Get(i) && eveRec.bits.Get(i) == bits.Get(i) {
			known++
		}
	}
	return float64(known) / float64(len(keyIdx))
}
