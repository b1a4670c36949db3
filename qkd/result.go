package qkd

import (
	"time"

	"qkdsim/qkd/bitstring"
)

// QBERSentinel is the error rate reported for runs that produced no usable
// key, either because the estimated disturbance crossed the protocol's
// threshold or because there was no sample to estimate it from.
const QBERSentinel = -1.0

// A Result records the outcome of a single protocol trial.
type Result struct {
	// Protocol identifies the variant that produced this result.
	Protocol Protocol

	// NumQubits is the number of qubits transmitted during the trial.
	NumQubits int

	// InterceptionRate is the fraction of qubits subjected to the
	// intercept-resend attack.
	InterceptionRate float64

	// Elapsed is the wall-clock duration of the trial.
	Elapsed time.Duration

	// Secure reports whether the estimated error rate stayed within the
	// protocol's tolerable disturbance.
	Secure bool

	// KeyLength is the number of bits in the negotiated key. Zero iff the
	// trial was insecure.
	KeyLength int

	// QBER is the quantum bit error rate estimated over the publicly
	// compared sample, or QBERSentinel if the trial was insecure.
	QBER float64

	// EveKeyKnowledge is the fraction of the final key bits that the
	// eavesdropper measured correctly. Zero when no key was retained.
	EveKeyKnowledge float64

	// Key holds the negotiated key bits. Empty iff the trial was insecure.
	Key bitstring.Dense
}

// A Discussion captures the outcome of the public phase of a trial: which
// positions survived basis reconciliation, which of those were consumed to
// estimate the error rate, and the estimate itself.
type Discussion struct {
	// Retained lists the positions kept after sifting.
	Retained []int

	// Sampled lists the retained positions publicly compared for error
	// estimation. Sampled positions never contribute key bits.
	Sampled []int

	// QBER is the fraction of mismatches observed over Sampled, or
	// QBERSentinel if Sampled is empty.
	QBER float64
}
