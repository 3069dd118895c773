// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"io"
	"strconv"
)

// EncodePBM writes a Portable Bit Map image displaying the code to w,
// for use with netpbm.
func (c *Code) EncodePBM(w io.Writer) error {
	if !c.isValid() {
		return ErrArgs
	}
	b := bufio.NewWriter(w)
	siz := c.Size
	scale := c.Scale
	bord := c.Border
	length := scale * (siz + bord*2)
	ls := strconv.Itoa(length)
	if _, err := b.WriteString("P4\n" + ls + " " + ls + "\n"); err != nil {
		return err
	}
	row := make([]byte, (length+7)/8)
	var white byte
	if c.Reverse {
		white = 1
	}
	for y := -bord; y < siz+bord; y++ {
		pbmRow(row, c, y, white)
		for i := 0; i < scale; i++ {
			if _, err := b.Write(row); err != nil {
				return err
			}
		}
	}
	return b.Flush()
}

// pbmRow encodes row y of c including the quiet zone into row, most
// significant bit first, 1 for black.
func pbmRow(row []byte, c *Code, y int, white byte) {
	for i := range row {
		row[i] = 0
	}
	scale := c.Scale
	j := 0
	for x := -c.Border; x < c.Size+c.Border; x++ {
		var v byte
		if c.Black(x, y) {
			v = 1
		}
		v ^= white
		for i := 0; i < scale; i++ {
			row[j>>3] |= v << (7 &^ j)
			j++
		}
	}
}
