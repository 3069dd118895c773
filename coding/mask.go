// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// Mask conditions by mask number.  A data module at row i, column j
// is inverted when the condition holds.
var masks = [8]func(i, j int) bool{
	func(i, j int) bool { return (i+j)%2 == 0 },
	func(i, j int) bool { return i%2 == 0 },
	func(i, j int) bool { return j%3 == 0 },
	func(i, j int) bool { return (i+j)%3 == 0 },
	func(i, j int) bool { return (i/2+j/3)%2 == 0 },
	func(i, j int) bool { return i*j%2+i*j%3 == 0 },
	func(i, j int) bool { return (i*j%2+i*j%3)%2 == 0 },
	func(i, j int) bool { return ((i+j)%2+i*j%3)%2 == 0 },
}

// MaskAt reports whether mask inverts the module at row i, column j.
func MaskAt(mask, i, j int) bool {
	return masks[mask](i, j)
}

// ApplyMask inverts data modules of m selected by mask.  Function
// modules are left alone.
func (m *Matrix) ApplyMask(mask int) {
	f := masks[mask]
	for i := 0; i < m.Size; i++ {
		row := m.Modules[i*m.Size : (i+1)*m.Size]
		for j, v := range row {
			if (v == Data0 || v == Data1) && f(i, j) {
				row[j] = v ^ Data0 ^ Data1
			}
		}
	}
}

// Penalty returns the penalty value for a QR code.  The value is used
// for choosing the mask.
func (c *Code) Penalty() int {
	// Total penalty is the sum of penalties for runs and boxes
	// of same-colour pixels, finder-like patterns and colour balance.
	//
	//   - RunP: for runs of n pixels in a row or column, n>=5 -> n-2
	//   - BoxP: for possibly overlapping 2x2 boxes -> 3
	//   - FindP: for 00001011101 or 10111010000 in a row or column,
	//     possibly overlapping, within the code -> 40
	//   - BalP: for n% (rounded down) of black pixels, 10 for every
	//     5% step between 50 and the nearest multiple of 5 to n
	const (
		MinRun    = 5  // RunP:  minimum run length
		RunPDelta = -2 // RunP:  add to run length
		BoxPP     = 3  // BoxP:  points per box
		FindPP    = 40 // FindP: points per pattern
		BalPP     = 10 // BalP:  points per 5%

		FindMask = 1<<11 - 1
		FindB    = 0b0000_1011101 // light before
		FindA    = 0b1011101_0000 // light after
	)

	siz := c.Size
	bm := c.Bitmap
	p := 0

	// line scores runs and finder-like patterns in siz pixels of bm
	// starting at off, step apart.
	line := func(off, step int) {
		r := 0
		var pat uint16
		var last byte
		for k := 0; k < siz; k++ {
			px := bm[off+k*step]
			if k == 0 || px != last {
				if r >= MinRun {
					p += r + RunPDelta // RunP
				}
				r = 0
			}
			r++
			last = px
			pat = (pat<<1 | uint16(px)) & FindMask
			if k >= 10 && (pat == FindB || pat == FindA) {
				p += FindPP // FindP
			}
		}
		if r >= MinRun {
			p += r + RunPDelta // RunP
		}
	}
	for i := 0; i < siz; i++ {
		line(i*siz, 1) // row i
		line(i, siz)   // column i
	}

	// BoxP
	for y := 0; y < siz-1; y++ {
		for x := 0; x < siz-1; x++ {
			o := y*siz + x
			v := bm[o]
			if bm[o+1] == v && bm[o+siz] == v && bm[o+siz+1] == v {
				p += BoxPP
			}
		}
	}

	// BalP
	dark := 0
	for _, v := range bm {
		dark += int(v)
	}
	pct := dark * 100 / (siz * siz)
	prev := pct - pct%5
	next := prev
	if pct%5 != 0 {
		next += 5
	}
	p += min(abs(prev-50), abs(next-50)) / 5 * BalPP
	return p
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
