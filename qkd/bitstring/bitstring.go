// Package bitstring provides densely-packed arrays of bits, used for
// participant bit records, position masks, and negotiated keys.
package bitstring

import (
	"fmt"
	"math/bits"
	"math/rand"
)

// TODO: this could be more efficient on many architectures if we used larger
//   blocks than 8-bit bytes.
const byteSize = 8

// A Dense is a bit string where every bit is explicitly represented.
type Dense struct {
	bits []byte
	len  int
}

// NewDense returns a new dense bit string whose contents are a view of data,
// and whose length is bitLen. If bitLen is longer than data, then trailing
// zeros are added. If bitLen is negative, then it is inferred from data.
func NewDense(data []byte, bitLen int) Dense {
	if bitLen < 0 {
		bitLen = len(data) * byteSize
	}
	r := Dense{
		bits: data,
		len:  bitLen,
	}
	for len(r.bits) < r.SizeBytes() {
		r.bits = append(r.bits, 0)
	}
	r.clearTail()
	return r
}

// Empty returns an empty, dense bit string.
func Empty() Dense {
	return Dense{}
}

// FromString converts a string of '1's and '0's to a Dense. Spaces are
// ignored, to allow for readable groupings.
func FromString(s string) (Dense, error) {
	d := Dense{}
	for _, c := range s {
		switch c {
		case '1':
			d.AppendBit(true)
		case '0':
			d.AppendBit(false)
		case ' ':
			continue
		default:
			return Dense{}, fmt.Errorf("invalid bitstring rep: %s", s)
		}
	}
	return d, nil
}

// Get returns the i-th bit. Bits beyond the end read as zero.
func (d Dense) Get(i int) bool {
	if i >= d.len {
		return false
	}
	j, pos := i/byteSize, i%byteSize
	return 0 < d.bits[j]&(1<<pos)
}

// Set assigns the i-th bit.
func (d *Dense) Set(i int, bit bool) {
	j, pos := i/byteSize, i%byteSize
	if bit {
		d.bits[j] |= 1 << pos
	} else {
		d.bits[j] &= ^byte(1 << pos)
	}
}

// Flip inverts the i-th bit.
func (d *Dense) Flip(i int) {
	j, pos := i/byteSize, i%byteSize
	d.bits[j] ^= 1 << pos
}

// Size returns the number of bits in this bit string.
func (d Dense) Size() int {
	return d.len
}

// SizeBytes returns the number of bytes needed to hold this bit string.
func (d Dense) SizeBytes() int {
	return BytesFor(d.len)
}

// Data returns a view of the bytes underlying this bit string. Modifying the
// returned slice modifies the bit string.
func (d Dense) Data() []byte {
	return d.bits
}

// AppendBit adds a single bit to the end of d.
func (d *Dense) AppendBit(bit bool) {
	i, pos := d.len/byteSize, d.len%byteSize
	d.len += 1
	if pos == 0 {
		d.bits = append(d.bits, 0)
	}
	if bit {
		d.bits[i] |= 1 << pos
	}
}

// Shuffle randomly permutes the contents of d, using r as a source of
// randomness.
func (d *Dense) Shuffle(r *rand.Rand) {
	r.Shuffle(d.len, d.swap)
}

func (d *Dense) swap(i, j int) {
	a, b := d.Get(i), d.Get(j)
	if a == b {
		return
	}
	d.Flip(i)
	d.Flip(j)
}

// Select selects a subset of bits from data, according to which bits are set
// in mask.
func Select(data, mask Dense) Dense {
	var d Dense
	for i := 0; i < data.Size(); i++ {
		if !mask.Get(i) {
			continue
		}
		d.AppendBit(data.Get(i))
	}
	return d
}

// And returns the bitwise AND of two bit strings. If one is shorter than the
// other, trailing zeros are implied to make the sizes match.
func And(a, b Dense) Dense {
	short := shorter(a, b)
	r := Dense{
		bits: make([]byte, 0, BytesFor(short.len)),
		len:  short.len,
	}
	for i := range short.bits {
		r.bits = append(r.bits, a.bits[i]&b.bits[i])
	}
	return r
}

// Or returns the bitwise OR of two bit strings, zero-extending the shorter.
func Or(a, b Dense) Dense {
	short, long := order(a, b)
	r := Dense{
		bits: make([]byte, 0, BytesFor(long.len)),
		len:  long.len,
	}
	for i := range short.bits {
		r.bits = append(r.bits, a.bits[i]|b.bits[i])
	}
	for i := len(short.bits); i < len(long.bits); i++ {
		r.bits = append(r.bits, long.bits[i])
	}
	return r
}

// XOr returns the bitwise XOR of two bit strings, zero-extending the shorter.
func XOr(a, b Dense) Dense {
	short, long := order(a, b)
	r := Dense{
		bits: make([]byte, 0, BytesFor(long.len)),
		len:  long.len,
	}
	for i := range short.bits {
		r.bits = append(r.bits, a.bits[i]^b.bits[i])
	}
	for i := len(short.bits); i < len(long.bits); i++ {
		r.bits = append(r.bits, long.bits[i])
	}
	return r
}

// XNor returns the bitwise XNOR of two bit strings, zero-extending the
// shorter.
func XNor(a, b Dense) Dense {
	short, long := order(a, b)
	r := Dense{
		bits: make([]byte, 0, BytesFor(long.len)),
		len:  long.len,
	}
	for i := range short.bits {
		r.bits = append(r.bits, ^(a.bits[i] ^ b.bits[i]))
	}
	for i := len(short.bits); i < len(long.bits); i++ {
		r.bits = append(r.bits, ^long.bits[i])
	}
	r.clearTail()
	return r
}

// CountOnes returns the total number of bits set in d.
func CountOnes(d Dense) int {
	var sum int
	for _, b := range d.bits {
		sum += bits.OnesCount8(b)
	}
	return sum
}

// Equal returns true iff a and b have the same size and contain the same
// bits.
func Equal(a, b Dense) bool {
	return a.len == b.len && CountOnes(XOr(a, b)) == 0
}

// BytesFor returns the number of bytes necessary to hold the provided number
// of bits.
func BytesFor(bits int) int {
	return (bits + byteSize - 1) / byteSize
}

func shorter(a, b Dense) Dense {
	if b.len < a.len {
		return b
	}
	return a
}

func order(a, b Dense) (short, long Dense) {
	if b.len < a.len {
		return b, a
	}
	return a, b
}

// clearTail zeroes the unused high bits of the last byte, so that CountOnes
// and Equal see only in-range bits.
func (d *Dense) clearTail() {
	off := d.len % byteSize
	if off == 0 || len(d.bits) == 0 {
		return
	}
	d.bits[len(d.bits)-1] &= 0xFF >> (byteSize - off)
}
