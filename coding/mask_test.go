// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskAt(t *testing.T) {
	// The 6×6 repeating block of each mask, # where modules flip.
	want := [8][6]string{
		{"#.#.#.", ".#.#.#", "#.#.#.", ".#.#.#", "#.#.#.", ".#.#.#"},
		{"######", "......", "######", "......", "######", "......"},
		{"#..#..", "#..#..", "#..#..", "#..#..", "#..#..", "#..#.."},
		{"#..#..", "..#..#", ".#..#.", "#..#..", "..#..#", ".#..#."},
		{"###...", "###...", "...###", "...###", "###...", "###..."},
		{"######", "#.....", "#..#..", "#.#.#.", "#..#..", "#....."},
		{"######", "###...", "##.##.", "#.#.#.", "#.##.#", "#...##"},
		{"#.#.#.", "...###", "#...##", ".#.#.#", "###...", ".###.."},
	}
	for mask, rows := range want {
		for i, row := range rows {
			for j, c := range row {
				assert.Equal(t, c == '#', MaskAt(mask, i, j),
					"mask %d at %d,%d", mask, i, j)
				assert.Equal(t, c == '#', MaskAt(mask, i+12, j+12),
					"mask %d at %d,%d", mask, i+12, j+12)
			}
		}
	}
}

func TestApplyMask(t *testing.T) {
	m := NewMatrix(6)
	for i := range m.Modules {
		m.Modules[i] = Data0
	}
	m.Set(0, 0, Light)
	m.Set(0, 2, Dark)
	m.Set(2, 0, Reserved)
	m.Set(1, 1, Data1)
	orig := m.Clone()

	m.ApplyMask(1)
	assert.Equal(t, Light, m.At(0, 0))
	assert.Equal(t, Dark, m.At(0, 2))
	assert.Equal(t, Reserved, m.At(2, 0))
	assert.Equal(t, Data1, m.At(0, 1))
	assert.Equal(t, Data1, m.At(1, 1))
	assert.Equal(t, Data0, m.At(1, 0))
	assert.Equal(t, Data1, m.At(4, 5))

	m.ApplyMask(1)
	assert.Equal(t, orig, m)
}

func uniformCode(siz int, row func(i, j int) byte) *Code {
	c := &Code{Size: siz, Bitmap: make([]byte, siz*siz)}
	for i := 0; i < siz; i++ {
		for j := 0; j < siz; j++ {
			c.Bitmap[i*siz+j] = row(i, j)
		}
	}
	return c
}

func b2i(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func TestPenalty(t *testing.T) {
	finderB := "00001011101"
	finderA := "10111010000"
	for _, tt := range []struct {
		name string
		c    *Code
		want int
	}{
		// 42 runs of 21: 42×19; 20×20 boxes: 1200; 0%: 100
		{"white", uniformCode(21, func(i, j int) byte { return 0 }), 2098},
		// as white, 100%: 100
		{"black", uniformCode(21, func(i, j int) byte { return 1 }), 2098},
		// 220 of 441 dark, 49%
		{"checkerboard", uniformCode(21, func(i, j int) byte {
			return byte(i+j) & 1
		}), 0},
		// 11 patterns in rows: 440; 11 columns of 11: 99;
		// 5 pairs of equal columns × 10 boxes: 150; 55 of 121, 45%: 10
		{"finder before", uniformCode(11, func(i, j int) byte {
			return finderB[j] - '0'
		}), 699},
		{"finder after", uniformCode(11, func(i, j int) byte {
			return finderA[j] - '0'
		}), 699},
		// transposed: same score
		{"finder columns", uniformCode(11, func(i, j int) byte {
			return finderB[i] - '0'
		}), 699},
		// 20 rows of 20: 20×18; 20 columns with runs of 9 and 11: 20×16;
		// 19×18 boxes: 1026; 45%: 10
		{"45% dark", uniformCode(20, func(i, j int) byte {
			return b2i(i < 9)
		}), 1716},
		// inverse of the above, 55%: 10
		{"55% dark", uniformCode(20, func(i, j int) byte {
			return b2i(i >= 9)
		}), 1716},
		// runs of 8 and 12: 20×16; 40%: 20
		{"40% dark", uniformCode(20, func(i, j int) byte {
			return b2i(i < 8)
		}), 1726},
		{"60% dark", uniformCode(20, func(i, j int) byte {
			return b2i(i >= 8)
		}), 1726},
	} {
		assert.Equal(t, tt.want, tt.c.Penalty(), tt.name)
	}
}

func TestChooseMask(t *testing.T) {
	for _, tt := range []struct {
		v    Version
		l    Level
		text string
	}{
		{1, M, "HELLO WORLD"},
		{2, H, "HELLO WORLD"},
		{7, L, "https://example.com/a/rather/long/path?with=query"},
	} {
		e, err := NewEncoder(tt.v, tt.l)
		require.NoError(t, err)
		require.NoError(t, e.Write(Segment{tt.text, Byte}))
		b, err := e.Data()
		require.NoError(t, err)
		cw := Compose(b.Bytes(), tt.v, tt.l)
		m := e.p.Matrix.Clone()
		m.Serialise(NewBitStream(cw, len(cw)*8+tt.v.RemainderBits()))

		best, pen := -1, 0
		for mask := 0; mask < 8; mask++ {
			mm := m.Clone()
			mm.SetFormat(tt.l.Format(mask))
			mm.ApplyMask(mask)
			if p := mm.Code(mask).Penalty(); best < 0 || p < pen {
				best, pen = mask, p
			}
		}
		c := chooseMask(m, tt.l)
		assert.Equal(t, best, c.Mask, "%v-%v", tt.v, tt.l)
		assert.Equal(t, pen, c.Penalty(), "%v-%v", tt.v, tt.l)
		assert.Equal(t, tt.v.Size(), c.Size)
	}
}

func BenchmarkEncode(b *testing.B) {
	seg := Segment{"0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:", Alphanumeric}
	for i := 0; i < b.N; i++ {
		if _, err := Encode(10, Q, seg); err != nil {
			b.Fatal(err)
		}
	}
}
