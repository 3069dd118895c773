// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bitString returns the bits of b as a string of 0 and 1.
func bitString(b *Bits) string {
	var sb strings.Builder
	for i := 0; i < b.Bits(); i++ {
		sb.WriteByte('0' + b.Bit(i))
	}
	return sb.String()
}

func encodeSegment(t *testing.T, seg Segment, class int) string {
	t.Helper()
	b := NewBits(MinVersion)
	require.NoError(t, seg.Encode(b, class))
	return bitString(b)
}

func TestSegmentEncode(t *testing.T) {
	for _, tt := range []struct {
		seg   Segment
		class int
		want  []string
	}{
		{Segment{"01234567", Numeric}, Class0,
			[]string{"0001", "0000001000",
				"0000001100", "0101011001", "1000011"}},
		{Segment{"8", Numeric}, Class1,
			[]string{"0001", "000000000001", "1000"}},
		{Segment{"HELLO WORLD", Alphanumeric}, Class0,
			[]string{"0010", "000001011",
				"01100001011", "01111000110", "10001011100",
				"10110111000", "10011010100", "001101"}},
		{Segment{"AC-42", Alphanumeric}, Class0,
			[]string{"0010", "000000101",
				"00111001110", "11100111001", "000010"}},
		{Segment{"é!", Byte}, Class0,
			[]string{"0100", "00000010", "11101001", "00100001"}},
		{Segment{"点茗", Kanji}, Class0,
			[]string{"1000", "00000010",
				"0110110011111", "1101010101010"}},
		{Segment{"", Alphanumeric}, Class2,
			[]string{"0010", "0000000000000"}},
	} {
		t.Run(tt.seg.Text, func(t *testing.T) {
			got := encodeSegment(t, tt.seg, tt.class)
			assert.Equal(t, strings.Join(tt.want, ""), got)
			assert.Equal(t, len(got), tt.seg.EncodedLength(tt.class))
		})
	}
}

func TestSegmentError(t *testing.T) {
	b := NewBits(MinVersion)
	for _, seg := range []Segment{
		{"12a", Numeric},
		{"hello", Alphanumeric},
		{"€", Byte},
		{"a", Kanji},
		{"1", Mode(7)},
	} {
		err := seg.Encode(b, Class0)
		var se SegmentError
		require.True(t, errors.As(err, &se), "%q: %v", seg.Text, err)
		assert.Equal(t, seg, Segment(se))
		assert.Zero(t, b.Bits(), "nothing written")
	}
	assert.Equal(t, "qr: invalid mode 7", SegmentError{"", 7}.Error())
	assert.Equal(t, "qr: non-numeric string `12a`",
		SegmentError{"12a", Numeric}.Error())
}

func TestKanji(t *testing.T) {
	for _, tt := range []struct {
		r    rune
		sjis uint16
		enc  uint32
	}{
		{'点', 0x935f, 0xd9f},
		{'茗', 0xe4aa, 0x1aaa},
		{'荷', 0x89d7, 0x697},
		{'　', 0x8140, 0},
		{' ', 0x8140, 0},
	} {
		c, ok := ShiftJIS(tt.r)
		require.True(t, ok, "%q", tt.r)
		assert.Equal(t, tt.sjis, c, "%q", tt.r)
		assert.Equal(t, tt.enc, encodeKanji(c), "%q", tt.r)
	}
	for _, r := range []rune{'a', 'é', '•', '\U0001f600', 'ｱ'} {
		assert.False(t, IsKanji(r), "%q", r)
	}

	_, err := kanjiTransform("点a")
	assert.Equal(t, KanjiError('a'), err)
	assert.EqualError(t, err,
		"qr: character 'a' (U+0061) outside kanji mode range")
	s, err := kanjiTransform("点 茗")
	require.NoError(t, err)
	assert.Equal(t, "\x93\x5f\x81\x40\xe4\xaa", s)
}

func TestModeRepertoire(t *testing.T) {
	// Every digit is alphanumeric and every alphanumeric
	// character is a Latin-1 byte.
	for r := rune(0); r < 0x100; r++ {
		if Is(r, Numeric) {
			assert.True(t, Is(r, Alphanumeric), "%q", r)
		}
		if Is(r, Alphanumeric) {
			assert.True(t, Is(r, Byte), "%q", r)
		}
	}
	n := 0
	for r := rune(0); r < 0x100; r++ {
		if Is(r, Alphanumeric) {
			n++
		}
	}
	assert.Equal(t, 45, n)
	assert.False(t, Is('a', Alphanumeric))
	assert.False(t, Is(0x100, Byte))
	assert.False(t, Is('1', Mode(-1)))
}

func TestModeNames(t *testing.T) {
	for _, tt := range []struct {
		m         Mode
		name      string
		indicator int
		count     [3]int
	}{
		{Numeric, "numeric", 1, [3]int{10, 12, 14}},
		{Alphanumeric, "alphanumeric", 2, [3]int{9, 11, 13}},
		{Byte, "byte", 4, [3]int{8, 16, 16}},
		{Kanji, "kanji", 8, [3]int{8, 10, 12}},
		{Mode(9), "9", 0, [3]int{}},
	} {
		assert.Equal(t, tt.name, tt.m.String())
		assert.Equal(t, tt.indicator, tt.m.Indicator())
		for class := Class0; class <= Class2; class++ {
			assert.Equal(t, tt.count[class], tt.m.CountLength(class))
		}
	}
}
