// Package qkd simulates quantum key distribution between two cooperating
// parties over a channel that is noiseless except for an optional
// intercept-resend eavesdropper. It implements the BB84, six-state, and B92
// protocol variants behind a single policy-driven engine.
package qkd

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"qkdsim/qkd/quantum"
)

// DefaultSampleProportion is the fraction of sifted positions consumed for
// error-rate estimation when Options does not say otherwise.
const DefaultSampleProportion = 0.5

// A Protocol names one of the supported QKD variants.
type Protocol string

const (
	BB84     Protocol = "BB84"
	SixState Protocol = "SixState"
	B92      Protocol = "B92"
)

// Protocols lists the supported variants in a stable order.
func Protocols() []Protocol {
	return []Protocol{BB84, SixState, B92}
}

// A siftFunc selects the positions retained by the public discussion.
type siftFunc func(tx transmission, rx reception) []int

// A policy packages the per-variant behavior the engine is written against:
// the basis sets of each party, the encoding and decoding rules, the sifting
// rule, and the maximum tolerable error rate.
type policy struct {
	senderBases   []quantum.Basis
	receiverBases []quantum.Basis
	eveBases      []quantum.Basis
	prepare       prepareFunc
	interpret     interpretFunc
	sift          siftFunc
	maxQBER       float64
}

var (
	twoBases   = []quantum.Basis{quantum.Rectilinear, quantum.Diagonal}
	threeBases = []quantum.Basis{quantum.Rectilinear, quantum.Diagonal, quantum.Circular}

	policies = map[Protocol]policy{
		BB84: {
			senderBases:   twoBases,
			receiverBases: twoBases,
			eveBases:      twoBases,
			prepare:       prepareRandomBasis,
			interpret:     interpretDirect,
			sift:          siftMatchingBases,
			// Shor-Preskill bound for BB84.
			maxQBER: 0.11,
		},
		SixState: {
			senderBases:   threeBases,
			receiverBases: threeBases,
			eveBases:      threeBases,
			prepare:       prepareRandomBasis,
			interpret:     interpretDirect,
			sift:          siftMatchingBases,
			// Six-state tolerates slightly more disturbance than BB84.
			maxQBER: 0.126,
		},
		B92: {
			senderBases:   twoBases,
			receiverBases: twoBases,
			eveBases:      twoBases,
			prepare:       prepareB92,
			interpret:     interpretB92,
			sift:          siftConclusive,
			// Conservative: intercept-resend drives B92 well past this.
			maxQBER: 0.05,
		},
	}
)

// siftMatchingBases retains the positions where sender and receiver chose
// the same basis.
func siftMatchingBases(tx transmission, rx reception) []int {
	var retained []int
	for i := range tx.bases {
		if tx.bases[i] == rx.bases[i] {
			retained = append(retained, i)
		}
	}
	return retained
}

// siftConclusive retains the positions where the receiver's measurement was
// conclusive.
func siftConclusive(tx transmission, rx reception) []int {
	var retained []int
	for i := range tx.bases {
		if rx.conclusive.Get(i) {
			retained = append(retained, i)
		}
	}
	return retained
}

// Options configures an Engine. The zero value is usable: a time-seeded
// generator and the default sample proportion.
type Options struct {
	// Rand is the trial's source of randomness. Runs with the same seed,
	// protocol, and arguments produce bit-identical results. Defaults to a
	// time-seeded generator.
	Rand *rand.Rand

	// EveRand, when non-nil, gives the eavesdropper a randomness source of
	// her own. Defaults to Rand. The eavesdropping stage consumes no
	// randomness at all when the interception rate is zero.
	EveRand *rand.Rand

	// SampleProportion is the fraction of sifted positions consumed for
	// error estimation. Defaults to DefaultSampleProportion.
	SampleProportion float64
}

// An Engine runs trials of a single protocol variant. Engines are not safe
// for concurrent use; concurrent repetitions should each construct their own
// with independently seeded generators.
type Engine struct {
	protocol   Protocol
	pol        policy
	rng        *rand.Rand
	eveRng     *rand.Rand
	sampleProp float64
}

// New returns an Engine for the given protocol, or an error if the protocol
// is unknown or the options are nonsensical.
func New(protocol Protocol, opts Options) (*Engine, error) {
	pol, ok := policies[protocol]
	if !ok {
		return nil, errors.Errorf("unknown protocol %q", protocol)
	}
	if opts.SampleProportion < 0 || opts.SampleProportion > 1 {
		return nil, errors.Errorf("sample proportion %v outside [0,1]", opts.SampleProportion)
	}
	sampleProp := opts.SampleProportion
	if sampleProp == 0 {
		sampleProp = DefaultSampleProportion
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	eveRng := opts.EveRand
	if eveRng == nil {
		eveRng = rng
	}
	return &Engine{
		protocol:   protocol,
		pol:        pol,
		rng:        rng,
		eveRng:     eveRng,
		sampleProp: sampleProp,
	}, nil
}

// RunBB84 runs one BB84 trial with a time-seeded generator.
func RunBB84(numQubits int, interceptionRate float64) (Result, error) {
	return runProtocol(BB84, numQubits, interceptionRate)
}

// RunSixState runs one six-state trial with a time-seeded generator.
func RunSixState(numQubits int, interceptionRate float64) (Result, error) {
	return runProtocol(SixState, numQubits, interceptionRate)
}

// RunB92 runs one B92 trial with a time-seeded generator.
func RunB92(numQubits int, interceptionRate float64) (Result, error) {
	return runProtocol(B92, numQubits, interceptionRate)
}

func runProtocol(p Protocol, numQubits int, interceptionRate float64) (Result, error) {
	e, err := New(p, Options{})
	if err != nil {
		return Result{}, err
	}
	return e.Run(numQubits, interceptionRate)
}
