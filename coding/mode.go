// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
)

// Encoding modes.
const (
	Numeric      Mode = iota // numeric mode, decimal digits
	Alphanumeric             // alphanumeric mode, digits, A-Z and " $%*+-./:"
	Byte                     // byte mode, text encoded as ISO 8859-1
	Kanji                    // kanji mode, text encoded as Shift JIS
)

// A Mode is a QR segment encoding mode.
type Mode int

// modeEncoder implements a QR segment encoding.
//
// The encoder calls a non-nil Encode{N} repeatedly as long as N
// source bytes are available, in descending order of N.  If all are
// nil, each byte is encoded as 8 bits.
type modeEncoder struct {
	Name      string // name for error reporting
	Indicator byte   // 4 bit mode indicator

	// CountLength lists lengths of the character count field in the
	// three QR version size classes.
	CountLength [3]byte

	// Accepts reports whether the encoding mode accepts the rune.
	Accepts func(rune) bool

	// Transform returns the string converted to the bytes the mode
	// encodes.  If nil, the string is used as is.
	Transform func(string) (string, error)

	// Count returns the character count of the transformed string.
	// If nil, the length of the string in bytes is used.
	Count func(string) int

	Encode3 func([3]byte) (uint32, int)
	Encode2 func([2]byte) (uint32, int)
	Encode1 func(byte) (uint32, int)
}

const alphamask uint64 = 0x07fffffe_07ffec31 // SPACE $% *+ -./ [0-9] : [A-Z]

// Alphanumeric encoding table.  Used after validation.
// "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"
var alpha = [64]byte{
	00, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, // 0x40
	25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 00, 00, 00, 00, 00, // 0x50
	36, 00, 00, 00, 37, 38, 00, 00, 00, 00, 39, 40, 00, 41, 42, 43, // 0x20
	00, 01, 02, 03, 04, 05, 06, 07, 010, 9, 44, 00, 00, 00, 00, 00, // 0x30
}

// Shift JIS double byte ranges encodable in kanji mode.
const (
	kanjiLow1, kanjiHigh1 = 0x8140, 0x9ffc
	kanjiLow2, kanjiHigh2 = 0xe040, 0xebbf
)

// ideographicSpace replaces ASCII space in kanji mode.
const ideographicSpace = '　'

// ShiftJIS returns the Shift JIS double byte code of r and whether r
// has one in the ranges encodable in kanji mode.  ASCII space is
// looked up as the ideographic space U+3000.
func ShiftJIS(r rune) (uint16, bool) {
	if r == ' ' {
		r = ideographicSpace
	}
	if r < 0x80 {
		return 0, false
	}
	s, err := japanese.ShiftJIS.NewEncoder().String(string(r))
	if err != nil || len(s) != 2 {
		return 0, false
	}
	c := uint16(s[0])<<8 | uint16(s[1])
	return c, kanjiLow1 <= c && c <= kanjiHigh1 ||
		kanjiLow2 <= c && c <= kanjiHigh2
}

// IsKanji reports whether r is encodable in kanji mode.
func IsKanji(r rune) bool {
	_, ok := ShiftJIS(r)
	return ok
}

// kanjiTransform converts UTF-8 text to Shift JIS, checking every
// character against the kanji mode ranges.
func kanjiTransform(s string) (string, error) {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		c, ok := ShiftJIS(r)
		if !ok {
			return "", KanjiError(r)
		}
		b = append(b, byte(c>>8), byte(c))
	}
	return string(b), nil
}

// encodeKanji returns the 13 bit encoding of a Shift JIS double byte
// character.  The character must be in one of the kanji ranges.
func encodeKanji(c uint16) uint32 {
	if c <= kanjiHigh1 {
		c -= kanjiLow1
	} else {
		c -= 0xc140
	}
	return uint32(c>>8)*0xc0 + uint32(c&0xff)
}

var modes = [...]modeEncoder{
	Numeric: {
		Name:        "numeric",
		Indicator:   1,
		CountLength: [3]byte{10, 12, 14},
		Accepts:     func(r rune) bool { return uint32(r-'0') < 10 },
		Encode1: func(b byte) (uint32, int) {
			return uint32(b - '0'), 4
		},
		Encode2: func(b [2]byte) (uint32, int) {
			return uint32(b[0]-'0')*10 + uint32(b[1]-'0'), 7
		},
		Encode3: func(b [3]byte) (uint32, int) {
			return uint32(b[0]-'0')*100 + uint32(b[1]-'0')*10 +
				uint32(b[2]-'0'), 10
		},
	},
	Alphanumeric: {
		Name:        "alphanumeric",
		Indicator:   2,
		CountLength: [3]byte{9, 11, 13},
		Accepts: func(r rune) bool {
			return alphamask>>(uint32(r)-' ')&1 != 0
		},
		Encode1: func(b byte) (uint32, int) {
			return uint32(alpha[b&0x3f]), 6
		},
		Encode2: func(b [2]byte) (uint32, int) {
			return uint32(alpha[b[0]&0x3f])*45 +
				uint32(alpha[b[1]&0x3f]), 11
		},
	},
	Byte: {
		Name:        "byte",
		Indicator:   4,
		CountLength: [3]byte{8, 16, 16},
		Accepts:     func(r rune) bool { return uint32(r) < 0x100 },
		Transform: func(s string) (string, error) {
			return charmap.ISO8859_1.NewEncoder().String(s)
		},
	},
	Kanji: {
		Name:        "kanji",
		Indicator:   8,
		CountLength: [3]byte{8, 10, 12},
		Accepts:     IsKanji,
		Transform:   kanjiTransform,
		Count:       func(s string) int { return len(s) >> 1 },
		Encode2: func(b [2]byte) (uint32, int) {
			return encodeKanji(uint16(b[0])<<8 | uint16(b[1])), 13
		},
	},
}

func getMode(mode Mode) *modeEncoder {
	if mode >= 0 && int(mode) < len(modes) {
		return &modes[mode]
	}
	return nil
}

func (mode Mode) String() string {
	if m := getMode(mode); m != nil {
		return m.Name
	}
	return strconv.Itoa(int(mode))
}

// Indicator returns the 4 bit mode indicator of mode, or 0 if mode is
// invalid.
func (mode Mode) Indicator() int {
	if m := getMode(mode); m != nil {
		return int(m.Indicator)
	}
	return 0
}

// CountLength returns the length in bits of the character count field
// for mode at the given QR version size class, or 0 if mode is
// invalid.
func (mode Mode) CountLength(class int) int {
	if m := getMode(mode); m != nil && class >= Class0 && class <= Class2 {
		return int(m.CountLength[class])
	}
	return 0
}

// Is reports whether r is encodable in mode.
func Is(r rune, mode Mode) bool {
	m := getMode(mode)
	return m != nil && m.Accepts(r)
}

// A Segment describes a QR code segment.
type Segment struct {
	Text string // data to encode, UTF-8
	Mode Mode   // encoding mode
}

// SegmentError represents an invalid Segment.
type SegmentError Segment

func (e SegmentError) Error() string {
	if m := getMode(e.Mode); m != nil {
		return fmt.Sprintf("qr: non-%s string %#q", m.Name, e.Text)
	}
	return fmt.Sprintf("qr: invalid mode %d", e.Mode)
}

// KanjiError reports a character accepted for kanji mode whose Shift
// JIS code is outside the kanji mode ranges.
type KanjiError rune

func (e KanjiError) Error() string {
	return fmt.Sprintf("qr: character %q (%U) outside kanji mode range",
		rune(e), rune(e))
}

// IsValid reports whether seg is encodable.  An empty string is valid
// in every mode.  In kanji mode ASCII space stands for the ideographic
// space.
func (seg Segment) IsValid() bool {
	m := getMode(seg.Mode)
	if m == nil {
		return false
	}
	for _, r := range seg.Text {
		if !m.Accepts(r) {
			return false
		}
	}
	return true
}

// Len returns the number of characters in seg.
func (seg Segment) Len() int {
	return utf8.RuneCountInString(seg.Text)
}

// EncodedLength returns the encoded length in bits of seg, including
// the header, at the given QR version size class.  EncodedLength
// returns 0 if the mode is invalid.  The segment is not validated.
func (seg Segment) EncodedLength(class int) int {
	m := getMode(seg.Mode)
	if m == nil {
		return 0
	}
	n := seg.Len()
	bits := 4 + int(m.CountLength[class])
	switch seg.Mode {
	case Numeric:
		bits += (10*n + 2) / 3
	case Alphanumeric:
		bits += (11*n + 1) / 2
	case Byte:
		bits += 8 * n
	case Kanji:
		bits += 13 * n
	}
	return bits
}

// Encode writes seg encoded for the given QR version size class to b.
func (seg Segment) Encode(b *Bits, class int) error {
	m := getMode(seg.Mode)
	if m == nil {
		return SegmentError(seg)
	} else if !seg.IsValid() {
		return SegmentError(seg)
	}
	s := seg.Text
	if m.Transform != nil {
		var err error
		if s, err = m.Transform(s); err != nil {
			var ke KanjiError
			if errors.As(err, &ke) {
				return ke
			}
			return SegmentError(seg)
		}
	}
	// write header
	b.Write(uint32(m.Indicator), 4)
	w := len(s)
	if m.Count != nil {
		w = m.Count(s)
	}
	b.Write(uint32(w), int(m.CountLength[class]))
	// encode the string
	enc3, enc2, enc1 := m.Encode3, m.Encode2, m.Encode1
	if enc3 == nil && enc2 == nil && enc1 == nil {
		for i := 0; i < len(s); i++ {
			b.Write(uint32(s[i]), 8)
		}
		return nil
	}
	if enc3 != nil {
		for len(s) >= 3 {
			b.Write(enc3([3]byte{s[0], s[1], s[2]}))
			s = s[3:]
		}
	}
	if enc2 != nil {
		for len(s) >= 2 {
			b.Write(enc2([2]byte{s[0], s[1]}))
			s = s[2:]
		}
	}
	if enc1 != nil {
		for len(s) >= 1 {
			b.Write(enc1(s[0]))
			s = s[1:]
		}
	}
	if s != "" {
		panic("qr: " + m.Name + " mode internal error")
	}
	return nil
}
