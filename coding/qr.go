// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level QR coding details.
package coding // import "github.com/qrgrid/qr/coding"

import (
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/qrgrid/qr/gf256"
)

var (
	ErrLevel   = errors.New("qr: invalid level")
	ErrVersion = errors.New("qr: invalid version")
)

// Field is the field for QR error correction.
var Field = gf256.NewField(0x11d, 2)

// A Version represents a QR version.
// The version specifies the size of the QR code:
// a QR code with version v has 4v+17 pixels on a side.
// Versions run from 1 to 40: the larger the version,
// the more information the code can store.
type Version int

const (
	MinVersion Version = 1  // Minimum QR version
	MaxVersion Version = 40 // Maximum QR version
)

func (v Version) String() string {
	return strconv.Itoa(int(v))
}

func (v Version) valid() bool { return MinVersion <= v && v <= MaxVersion }

// QR version size classes.  The size class determines the length of
// the character count field.
const (
	Class0 = iota // QR versions 1 to 9
	Class1        // QR versions 10 to 26
	Class2        // QR versions 27 to 40
)

// SizeClass returns the size class of v, as documented under Class0.
func (v Version) SizeClass() int {
	if v <= 9 {
		return Class0
	}
	if v <= 26 {
		return Class1
	}
	return Class2
}

// Size returns the number of modules on a side of a QR code with
// version v.
func (v Version) Size() int {
	return int(v)*4 + 17
}

// RemainderBits returns the number of zero bits appended to the
// codewords of a QR code with version v to fill the symbol.
func (v Version) RemainderBits() int {
	return vtab[v].remainder
}

// Codewords returns the total number of data and error correction
// codewords in a QR code with version v.
func (v Version) Codewords() int {
	return vtab[v].bytes
}

// Alignment returns the centre coordinates of alignment patterns of
// a QR code with version v.  Patterns are placed at every pair of
// coordinates not overlapping a finder pattern.
func (v Version) Alignment() []int {
	return append([]int(nil), vtab[v].align...)
}

// Pattern returns the 18 bit version information word of a QR code
// with version v, or 0 for versions below 7.
func (v Version) Pattern() uint32 {
	return vtab[v].pattern
}

// Capacity returns the capacity and block structure of a QR code with
// the given version and level.
func (v Version) Capacity(l Level) Capacity {
	return vtab[v].level[l]
}

// DataBytes returns the number of data bytes that can be
// stored in a QR code with the given version and level.
func (v Version) DataBytes(l Level) int {
	return vtab[v].level[l].DataBytes
}

// DataBits returns the number of data bits that can be
// stored in a QR code with the given version and level.
func (v Version) DataBits(l Level) int {
	return v.DataBytes(l) * 8
}

// Chars returns the maximum number of characters encodable in mode m
// in a QR code with the given version and level.  Chars returns 0 for
// versions outside 1 to 40.
func (v Version) Chars(l Level, m Mode) int {
	if !v.valid() || getMode(m) == nil {
		return 0
	}
	return vtab[v].level[l].Chars[m]
}

// A Group describes blocks of equal length.
type Group struct {
	Blocks    int // number of blocks
	DataBytes int // data codewords per block
}

// Capacity describes the capacity of a QR code with a specific
// version and level.  Group2 is zero if all blocks are of the same
// length.
type Capacity struct {
	Chars      [4]int // maximum characters per Mode
	DataBytes  int    // total data codewords
	CheckBytes int    // error correction codewords per block
	Group1     Group  // short blocks
	Group2     Group  // long blocks, one codeword longer
}

// Blocks returns the total number of blocks.
func (c Capacity) Blocks() int {
	return c.Group1.Blocks + c.Group2.Blocks
}

// Split splits data codewords into blocks, short blocks first.
// The blocks share the underlying array of data.
func (c Capacity) Split(data []byte) [][]byte {
	if len(data) != c.DataBytes {
		panic("qr: wrong data length")
	}
	blocks := make([][]byte, 0, c.Blocks())
	for _, g := range [2]Group{c.Group1, c.Group2} {
		for i := 0; i < g.Blocks; i++ {
			blocks = append(blocks, data[:g.DataBytes:g.DataBytes])
			data = data[g.DataBytes:]
		}
	}
	return blocks
}

// A Level represents a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

func (l Level) String() string {
	if L <= l && l <= H {
		return "LMQH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}

// Format returns the 15 bit format information word for the level
// and mask, including BCH bits, masked with 101010000010010.
func (l Level) Format(mask int) uint16 {
	return ftab[l][mask]
}

// Bits is an append-only string of bits, most significant bit first.
type Bits struct {
	b    []byte
	nbit int
}

// NewBits returns Bits with enough capacity for a QR code of the
// given version.
func NewBits(v Version) *Bits {
	return &Bits{b: make([]byte, 0, vtab[v].bytes)}
}

// Bits returns the length of b in bits.
func (b *Bits) Bits() int {
	return b.nbit
}

// Bytes returns the contents of b.  It panics unless the length of b
// is a multiple of 8.
func (b *Bits) Bytes() []byte {
	if b.nbit%8 != 0 {
		panic("qr: fractional byte")
	}
	return b.b
}

// Bit returns bit i of b as 0 or 1.
func (b *Bits) Bit(i int) byte {
	return b.b[i>>3] >> (7 &^ i) & 1
}

// Write appends the nbit low bits of v to b, most significant first.
// nbit must not exceed 32.
func (b *Bits) Write(v uint32, nbit int) {
	if nbit == 0 {
		return
	}
	v <<= 32 - nbit
	if rem := -b.nbit & 7; rem != 0 {
		b.b[len(b.b)-1] |= byte(v >> (32 - rem))
		if rem >= nbit {
			b.nbit += nbit
			return
		}
		b.nbit += rem
		nbit -= rem
		v <<= rem
	}
	for n := nbit; n > 0; n -= 8 {
		b.b = append(b.b, byte(v>>24))
		v <<= 8
	}
	b.nbit += nbit
}

// PadTo pads b to n bits, which must be a multiple of 8: up to 4
// terminator bits, zero bits to a byte boundary, then alternating pad
// codewords 11101100 and 00010001.  PadTo panics if b is longer than n.
func (b *Bits) PadTo(n int) {
	if b.nbit > n {
		panic("qr: too much data")
	}
	b.Write(0, min(4, n-b.nbit))
	b.Write(0, -b.nbit&7)
	for pad := uint32(0xec); b.nbit < n; pad ^= 0xec ^ 0x11 {
		b.Write(pad, 8)
	}
}

// BitStream reads a fixed number of bits from the underlying buffer.
type BitStream struct {
	b    []byte
	nbit int
	pos  int
}

// NewBitStream returns a BitStream reading nbit bits from b.  Bits
// past the end of b read as 0.
func NewBitStream(b []byte, nbit int) *BitStream {
	return &BitStream{b: b, nbit: nbit}
}

// Len returns the number of unread bits.
func (s *BitStream) Len() int { return s.nbit - s.pos }

// Next returns the next bit from s as 0 or 1.  It panics if no bits
// are left.
func (s *BitStream) Next() byte {
	if s.pos >= s.nbit {
		panic("qr: bit stream exhausted")
	}
	var b byte
	if i := s.pos >> 3; i < len(s.b) {
		b = s.b[i] >> (7 &^ s.pos) & 1
	}
	s.pos++
	return b
}

// interleave appends to dst the codewords of the blocks, taking one
// from each block in turn and skipping exhausted blocks.
func interleave(dst []byte, blocks [][]byte) []byte {
	for i := 0; ; i++ {
		n := 0
		for _, b := range blocks {
			if i < len(b) {
				dst = append(dst, b[i])
				n++
			}
		}
		if n == 0 {
			return dst
		}
	}
}

// checkBytes returns the error correction codewords for the blocks.
func checkBytes(blocks [][]byte, c Capacity) [][]byte {
	rs := rsEncoder(c.CheckBytes)
	check := make([][]byte, len(blocks))
	for i, b := range blocks {
		check[i] = rs.Check(b)
	}
	return check
}

// Reed-Solomon encoders by number of error correction bytes, shared
// by all encoders.
var rsEncoders = func() (rs [31]*gf256.RSEncoder) {
	for v := MinVersion; v <= MaxVersion; v++ {
		for _, c := range vtab[v].level {
			if rs[c.CheckBytes] == nil {
				rs[c.CheckBytes] = gf256.NewRSEncoder(Field, c.CheckBytes)
			}
		}
	}
	return rs
}()

func rsEncoder(c int) *gf256.RSEncoder {
	if c < len(rsEncoders) && rsEncoders[c] != nil {
		return rsEncoders[c]
	}
	return gf256.NewRSEncoder(Field, c)
}

// Compose returns the final codeword sequence for data padded to the
// data capacity of the given version and level: the data codewords
// interleaved across blocks followed by the interleaved error
// correction codewords.  The remainder bits are not included.
func Compose(data []byte, v Version, l Level) []byte {
	c := vtab[v].level[l]
	blocks := c.Split(data)
	dst := make([]byte, 0, vtab[v].bytes)
	dst = interleave(dst, blocks)
	return interleave(dst, checkBytes(blocks, c))
}

// A Code is a square pixel grid.
type Code struct {
	Bitmap []byte // one byte per pixel, row by row; 1 is black, 0 is white
	Size   int    // number of pixels on a side
	Mask   int    // mask number
}

// Black reports whether the pixel at (x,y) is black.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Size+x] != 0
}

// Encoder encodes a QR code.
type Encoder struct {
	p *Plan
	l Level
	b *Bits
}

// NewEncoder returns an Encoder for the given version and level.
func NewEncoder(version Version, level Level) (*Encoder, error) {
	if level < L || level > H {
		return nil, ErrLevel
	}
	p, err := makePlan(version)
	if err != nil {
		return nil, err
	}
	return &Encoder{p: p, l: level, b: NewBits(version)}, nil
}

// Write adds text to e.
func (e *Encoder) Write(text ...Segment) error {
	class := e.p.Version.SizeClass()
	for _, t := range text {
		if err := t.Encode(e.b, class); err != nil {
			return err
		}
	}
	return nil
}

// Data returns the data bits written to e, padded to the data
// capacity of the code.
func (e *Encoder) Data() (*Bits, error) {
	nb := e.p.Version.DataBits(e.l)
	if e.b.Bits() > nb {
		return nil, fmt.Errorf("qr: cannot encode %d bits into %d-bit code",
			e.b.Bits(), nb)
	}
	e.b.PadTo(nb)
	return e.b, nil
}

// Code returns a QR code containing data written to e.
func (e *Encoder) Code() (*Code, error) {
	b, err := e.Data()
	if err != nil {
		return nil, err
	}
	v := e.p.Version
	cw := Compose(b.Bytes(), v, e.l)
	// Now we have the data and the checksum codewords.
	// Place them in the free modules of the plan.
	m := e.p.Matrix.Clone()
	m.Serialise(NewBitStream(cw, len(cw)*8+v.RemainderBits()))
	return chooseMask(m, e.l), nil
}

// chooseMask applies each mask to m and returns the code with the
// smallest penalty; the lowest mask number wins a tie.  Masks are
// scored concurrently.
func chooseMask(m *Matrix, l Level) *Code {
	var (
		g     errgroup.Group
		codes [8]*Code
		pen   [8]int
	)
	for mask := range codes {
		g.Go(func() error {
			mm := m.Clone()
			mm.SetFormat(l.Format(mask))
			mm.ApplyMask(mask)
			codes[mask] = mm.Code(mask)
			pen[mask] = codes[mask].Penalty()
			return nil
		})
	}
	_ = g.Wait() // scoring never fails
	best := 0
	for mask := 1; mask < len(codes); mask++ {
		if pen[mask] < pen[best] {
			best = mask
		}
	}
	return codes[best]
}

// Encode is a wrapper around Write and Code.
func (e *Encoder) Encode(text ...Segment) (*Code, error) {
	if err := e.Write(text...); err != nil {
		return nil, err
	}
	return e.Code()
}

// Encode encodes text using an Encoder with the given version and level.
func Encode(version Version, level Level, text ...Segment) (*Code, error) {
	e, err := NewEncoder(version, level)
	if err != nil {
		return nil, err
	}
	return e.Encode(text...)
}
