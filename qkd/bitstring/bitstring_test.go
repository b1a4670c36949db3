package bitstring

import (
	"math/rand"
	"testing"
)

func mustDense(t *testing.T, s string) Dense {
	t.Helper()
	d, err := FromString(s)
	if err != nil {
		t.Fatalf("Building bitstring from %q: %v", s, err)
	}
	return d
}

func TestBinaryOperators(t *testing.T) {
	tcs := []struct {
		name string
		a, b Dense
		eout Dense
		op   func(a, b Dense) Dense
	}{
		{
			name: "AND aligned",
			a:    mustDense(t, "10100000"),
			b:    mustDense(t, "01100000"),
			eout: mustDense(t, "00100000"),
			op:   And,
		}, {
			name: "AND short a",
			a:    mustDense(t, "101"),
			b:    mustDense(t, "01111000"),
			eout: mustDense(t, "001"),
			op:   And,
		}, {
			name: "OR aligned",
			a:    mustDense(t, "10100000"),
			b:    mustDense(t, "01100000"),
			eout: mustDense(t, "11100000"),
			op:   Or,
		}, {
			name: "OR short b",
			a:    mustDense(t, "01111000"),
			b:    mustDense(t, "101"),
			eout: mustDense(t, "11111000"),
			op:   Or,
		}, {
			name: "XOR aligned",
			a:    mustDense(t, "10100000"),
			b:    mustDense(t, "01100000"),
			eout: mustDense(t, "11000000"),
			op:   XOr,
		}, {
			name: "XOR multibyte",
			a:    mustDense(t, "1010 1010 1100 0110"),
			b:    mustDense(t, "0111 1000 1011 1011"),
			eout: mustDense(t, "1101 0010 0111 1101"),
			op:   XOr,
		}, {
			name: "XNOR aligned",
			a:    mustDense(t, "10100000"),
			b:    mustDense(t, "01100000"),
			eout: mustDense(t, "00111111"),
			op:   XNor,
		}, {
			name: "XNOR ragged",
			a:    mustDense(t, "101"),
			b:    mustDense(t, "011"),
			eout: mustDense(t, "001"),
			op:   XNor,
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			out := tc.op(tc.a, tc.b)
			if !Equal(out, tc.eout) {
				t.Errorf("got %v, want %v", out.Data(), tc.eout.Data())
			}
		})
	}
}

func TestSelect(t *testing.T) {
	tcs := []struct {
		name string
		data Dense
		mask Dense
		eout Dense
	}{
		{
			name: "every other",
			data: mustDense(t, "1100 1100"),
			mask: mustDense(t, "1010 1010"),
			eout: mustDense(t, "1010"),
		}, {
			name: "empty mask",
			data: mustDense(t, "1111"),
			mask: Empty(),
			eout: Empty(),
		}, {
			name: "full mask",
			data: mustDense(t, "10110"),
			mask: mustDense(t, "11111"),
			eout: mustDense(t, "10110"),
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			out := Select(tc.data, tc.mask)
			if !Equal(out, tc.eout) {
				t.Errorf("got %v, want %v", out.Data(), tc.eout.Data())
			}
		})
	}
}

func TestAppendAndGet(t *testing.T) {
	d := Empty()
	pattern := []bool{true, false, false, true, true, false, true, true, false, true}
	for _, bit := range pattern {
		d.AppendBit(bit)
	}
	if d.Size() != len(pattern) {
		t.Fatalf("Size() = %d, want %d", d.Size(), len(pattern))
	}
	for i, want := range pattern {
		if got := d.Get(i); got != want {
			t.Errorf("Get(%d) = %v, want %v", i, got, want)
		}
	}
	if d.Get(len(pattern)) {
		t.Errorf("Get past the end = true, want false")
	}
}

func TestSetAndFlip(t *testing.T) {
	d := NewDense(nil, 12)
	d.Set(3, true)
	d.Set(11, true)
	d.Set(3, false)
	d.Flip(0)
	d.Flip(11)
	want := mustDense(t, "1000 0000 0000")
	if !Equal(d, want) {
		t.Errorf("got %v, want %v", d.Data(), want.Data())
	}
}

func TestShuffle(t *testing.T) {
	d := mustDense(t, "1111 0000 1111 0000")
	ones := CountOnes(d)
	d.Shuffle(rand.New(rand.NewSource(42)))
	if got := CountOnes(d); got != ones {
		t.Errorf("shuffle changed popcount: got %d, want %d", got, ones)
	}
	d2 := mustDense(t, "1111 0000 1111 0000")
	d2.Shuffle(rand.New(rand.NewSource(42)))
	if !Equal(d, d2) {
		t.Errorf("same-seed shuffles disagree: %v != %v", d.Data(), d2.Data())
	}
}

func TestNewDenseClampsTail(t *testing.T) {
	d := NewDense([]byte{0xFF}, 4)
	if got := CountOnes(d); got != 4 {
		t.Errorf("CountOnes = %d, want 4", got)
	}
}

func TestFromStringRejectsGarbage(t *testing.T) {
	if _, err := FromString("10x1"); err == nil {
		t.Errorf("FromString with invalid rune: got nil error")
	}
}

func TestEqual(t *testing.T) {
	if !Equal(mustDense(t, "1010"), mustDense(t, "1010")) {
		t.Errorf("identical bitstrings reported unequal")
	}
	if Equal(mustDense(t, "1010"), mustDense(t, "1011")) {
		t.Errorf("different bitstrings reported equal")
	}
	if Equal(mustDense(t, "1010"), mustDense(t, "10100")) {
		t.Errorf("different-length bitstrings reported equal")
	}
}
