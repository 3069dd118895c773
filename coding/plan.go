// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "sync"

// A Module is the state of one QR code module.
type Module byte

// Module states.  Light and Dark are function modules: finder,
// separator, alignment and timing patterns, the dark module, format
// and version information.  Reserved modules are set to Light or Dark
// when the format information is written.
const (
	Unfilled Module = iota // free, no data placed yet
	Reserved               // format information, not yet written
	Light                  // function module, light
	Dark                   // function module, dark
	Data0                  // data module, light before masking
	Data1                  // data module, dark before masking
)

// IsFunction reports whether m is a function module, including
// reserved modules.
func (m Module) IsFunction() bool {
	return m == Reserved || m == Light || m == Dark
}

// IsDark reports whether m is dark.
func (m Module) IsDark() bool {
	return m == Dark || m == Data1
}

func (m Module) String() string {
	return [...]string{"unfilled", "reserved", "light", "dark",
		"data0", "data1"}[m]
}

func funcModule(dark bool) Module {
	if dark {
		return Dark
	}
	return Light
}

func dataModule(bit byte) Module {
	return Data0 + Module(bit&1)
}

// A Matrix is a square grid of modules.
type Matrix struct {
	Size    int      // number of modules on a side
	Modules []Module // row by row
}

// NewMatrix returns an unfilled matrix with siz modules on a side.
func NewMatrix(siz int) *Matrix {
	return &Matrix{Size: siz, Modules: make([]Module, siz*siz)}
}

// At returns the module at the given row and column.
func (m *Matrix) At(row, col int) Module {
	return m.Modules[row*m.Size+col]
}

// Set sets the module at the given row and column.
func (m *Matrix) Set(row, col int, v Module) {
	m.Modules[row*m.Size+col] = v
}

// Clone returns a copy of m.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{Size: m.Size, Modules: append([]Module(nil), m.Modules...)}
}

// Count returns the number of modules in state v.
func (m *Matrix) Count(v Module) int {
	n := 0
	for _, x := range m.Modules {
		if x == v {
			n++
		}
	}
	return n
}

// Code returns the pixels of m.  Unfilled and reserved modules are
// white.
func (m *Matrix) Code(mask int) *Code {
	c := &Code{Size: m.Size, Mask: mask, Bitmap: make([]byte, len(m.Modules))}
	for i, v := range m.Modules {
		if v.IsDark() {
			c.Bitmap[i] = 1
		}
	}
	return c
}

// A Plan describes how to construct a QR code with a specific version.
type Plan struct {
	Version Version // QR code version
	Size    int     // number of modules on a side

	// Matrix holds the function patterns and the version information.
	// Format information is Reserved, data modules are Unfilled.
	Matrix *Matrix
}

// DataModules returns the number of data modules, equal to the number
// of codeword bits plus the remainder bits.
func (p *Plan) DataModules() int {
	return p.Matrix.Count(Unfilled)
}

// Plans are created the first time a version is used.  Each is 4 words
// plus a module per pixel, from 441 bytes for version 1 to 31 KB for
// version 40.
var plans [MaxVersion + 1]struct {
	once sync.Once
	p    *Plan
}

// makePlan returns plans[version].
// If it doesn't exist, it is created.
func makePlan(version Version) (*Plan, error) {
	if !version.valid() {
		return nil, ErrVersion
	}
	p := &plans[version]
	p.once.Do(func() { p.p = vplan(version) })
	return p.p, nil
}

// NewPlan returns a Plan for a QR code with the given version.
func NewPlan(version Version) (*Plan, error) {
	pp, err := makePlan(version)
	if err != nil {
		return nil, err
	}
	p := *pp
	p.Matrix = pp.Matrix.Clone()
	return &p, nil
}

// vplan creates a Plan for the given version.
func vplan(v Version) *Plan {
	siz := v.Size()
	p := &Plan{Version: v, Size: siz, Matrix: NewMatrix(siz)}
	m := p.Matrix

	// Position boxes with separators.
	posBox(m, 0, 0)
	posBox(m, 0, siz-7)
	posBox(m, siz-7, 0)

	// Alignment boxes.
	for _, y := range vtab[v].align {
		for _, x := range vtab[v].align {
			alignBox(m, y, x)
		}
	}

	// Timing markers.
	for i := 8; i < siz-8; i++ {
		m.Set(6, i, funcModule(i&1 == 0))
		m.Set(i, 6, funcModule(i&1 == 0))
	}

	// One lonely black pixel.
	m.Set(siz-8, 8, Dark)

	// Format information.
	for i := 0; i < 9; i++ {
		if i != 6 {
			m.Set(i, 8, Reserved)
			m.Set(8, i, Reserved)
		}
	}
	for i := 0; i < 8; i++ {
		m.Set(8, siz-1-i, Reserved)
	}
	for i := 0; i < 7; i++ {
		m.Set(siz-1-i, 8, Reserved)
	}

	// Version information.
	if pat := vtab[v].pattern; pat != 0 {
		// Bit 3i+j goes to row i, column siz-11+j at top right
		// and to the transposed position at bottom left.
		for i := 0; i < 6; i++ {
			for j := 0; j < 3; j++ {
				bit := funcModule(pat>>(3*i+j)&1 != 0)
				m.Set(i, siz-11+j, bit)
				m.Set(siz-11+j, i, bit)
			}
		}
	}
	return p
}

// posBox draws a position (big) box with its separator at upper left
// row, col.  The separator is clipped to the matrix.
func posBox(m *Matrix, row, col int) {
	for y := -1; y <= 7; y++ {
		for x := -1; x <= 7; x++ {
			r, c := row+y, col+x
			if r < 0 || r >= m.Size || c < 0 || c >= m.Size {
				continue
			}
			// Dark: 7x7 border and 3x3 centre.
			dark := y >= 0 && y <= 6 && x >= 0 && x <= 6 &&
				(y == 0 || y == 6 || x == 0 || x == 6 ||
					y >= 2 && y <= 4 && x >= 2 && x <= 4)
			m.Set(r, c, funcModule(dark))
		}
	}
}

// alignBox draws an alignment (small) box centred at row, col, unless
// it would overlap a position box or its separator.
func alignBox(m *Matrix, row, col int) {
	y, x := row-2, col-2
	lim := m.Size - 8
	if x <= 7 && y <= 7 || x <= 7 && y+4 >= lim || x+4 >= lim && y <= 7 {
		return
	}
	for dy := 0; dy < 5; dy++ {
		for dx := 0; dx < 5; dx++ {
			dark := dy == 0 || dy == 4 || dx == 0 || dx == 4 ||
				dy == 2 && dx == 2
			m.Set(y+dy, x+dx, funcModule(dark))
		}
	}
}

// Serialise writes bits from s to the unfilled modules of m in zigzag
// scan order: two columns at a time from the right, upwards first,
// right column before left.  Column 6 holds the vertical timing
// pattern and is skipped.  Serialise panics unless the number of
// unfilled modules equals s.Len().
func (m *Matrix) Serialise(s *BitStream) {
	siz := m.Size
	up := true
	for x := siz - 1; x > 0; x -= 2 {
		if x == 6 { // vertical timing strip
			x--
		}
		for i := 0; i < siz; i++ {
			y := i
			if up {
				y = siz - 1 - i
			}
			for _, xx := range [2]int{x, x - 1} {
				if m.At(y, xx) == Unfilled {
					m.Set(y, xx, dataModule(s.Next()))
				}
			}
		}
		up = !up
	}
	if s.Len() != 0 {
		panic("qr: internal error: bits left after placement")
	}
}

// SetFormat writes the 15 bit format information word fb to the
// reserved modules, most significant bit first: around the top left
// position box, and again split between the top right and bottom left
// boxes.
func (m *Matrix) SetFormat(fb uint16) {
	siz := m.Size
	bit := func(i int) Module { return funcModule(fb>>(14-i)&1 != 0) }
	for i := 0; i < 6; i++ {
		m.Set(8, i, bit(i))
		m.Set(i, 8, bit(14-i))
	}
	m.Set(8, 7, bit(6))
	m.Set(8, 8, bit(7))
	m.Set(7, 8, bit(8))
	for i := 0; i < 8; i++ {
		m.Set(8, siz-1-i, bit(14-i))
	}
	for i := 0; i < 7; i++ {
		m.Set(siz-1-i, 8, bit(i))
	}
}
