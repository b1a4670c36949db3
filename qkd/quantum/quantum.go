// Package quantum provides the state-vector primitives underlying the
// simulated quantum channel: qubits as pairs of complex amplitudes, 2x2
// unitaries, and basis-relative encoding and measurement.
package quantum

import (
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/pkg/errors"
)

// A Matrix is a 2x2 complex matrix, indexed [row][column].
type Matrix [2][2]complex128

var (
	// Identity leaves the computational basis in place.
	Identity = Matrix{{1, 0}, {0, 1}}

	// Hadamard rotates into the +-45 degree basis.
	Hadamard = Matrix{
		{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)},
		{complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0)},
	}

	// CircularRot rotates into the circularly-polarized basis.
	CircularRot = Matrix{
		{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)},
		{complex(0, 1/math.Sqrt2), complex(0, -1/math.Sqrt2)},
	}

	// PauliX is the bit-flip operator.
	PauliX = Matrix{{0, 1}, {1, 0}}
)

// Invert returns the inverse of m, or an error if m is singular.
func (m Matrix) Invert() (Matrix, error) {
	a, b := m[0][0], m[0][1]
	c, d := m[1][0], m[1][1]
	det := a*d - b*c
	if det == 0 {
		return Matrix{}, errors.New("matrix is not invertible")
	}
	inv := 1 / det
	return Matrix{
		{d * inv, -b * inv},
		{-c * inv, a * inv},
	}, nil
}

// Apply computes the matrix-vector product m|q>.
func (m Matrix) Apply(q Qubit) Qubit {
	return Qubit{
		a0: q.a0*m[0][0] + q.a1*m[0][1],
		a1: q.a0*m[1][0] + q.a1*m[1][1],
	}
}

// A Qubit is a two-dimensional quantum state a0|0> + a1|1>. Amplitudes are
// kept normalized: |a0|^2 + |a1|^2 == 1, up to floating point error.
type Qubit struct {
	a0, a1 complex128
}

// Zero returns a qubit in the |0> state.
func Zero() Qubit {
	return Qubit{a0: 1}
}

// Amplitudes returns the coefficients for the |0> and |1> states.
func (q Qubit) Amplitudes() (complex128, complex128) {
	return q.a0, q.a1
}

// A Basis is a named, invertible basis rotation. Encoding applies the
// rotation to a computational-basis state; measurement applies its inverse
// before projecting onto |0> and |1>.
type Basis struct {
	name string
	u    Matrix
	uInv Matrix
}

// NewBasis builds a Basis from a rotation matrix, precomputing its inverse.
func NewBasis(name string, u Matrix) (Basis, error) {
	uInv, err := u.Invert()
	if err != nil {
		return Basis{}, errors.Wrapf(err, "building basis %q", name)
	}
	return Basis{name: name, u: u, uInv: uInv}, nil
}

func mustBasis(name string, u Matrix) Basis {
	b, err := NewBasis(name, u)
	if err != nil {
		panic(err)
	}
	return b
}

var (
	// Rectilinear is the computational basis {|0>, |1>}.
	Rectilinear = mustBasis("rectilinear", Identity)

	// Diagonal is the Hadamard basis {|+>, |->}.
	Diagonal = mustBasis("diagonal", Hadamard)

	// Circular is the circularly-polarized basis {|R>, |L>}, used by the
	// three-basis six-state variant.
	Circular = mustBasis("circular", CircularRot)
)

// Name returns the basis's name.
func (b Basis) Name() string { return b.name }

// Encode produces a fresh qubit carrying bit in this basis.
func (b Basis) Encode(bit bool) Qubit {
	q := Zero()
	if bit {
		q = PauliX.Apply(q)
	}
	return b.u.Apply(q)
}

// Measure projects q onto this basis and collapses it. The outcome bit is
// drawn with probability |<b1|q>|^2; afterwards q holds the measured bit
// re-encoded in this basis, so a measured qubit forwarded downstream behaves
// exactly as an intercept-resend copy. Measurement is destructive: the
// original state is not recoverable.
func (b Basis) Measure(q *Qubit, rng *rand.Rand) bool {
	rotated := b.uInv.Apply(*q)
	p1 := prob(rotated.a1)
	if p1 > 1 {
		p1 = 1
	}
	bit := rng.Float64() < p1
	*q = b.Encode(bit)
	return bit
}

func prob(amplitude complex128) float64 {
	norm := cmplx.Abs(amplitude)
	return norm * norm
}
