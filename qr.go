// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qr encodes QR codes.

Encode picks the encoding mode, the error correction level and the
version from the text: the text is encoded in a single segment in the
most compact mode that accepts every character, at the highest level
whose largest version can hold it, in the smallest version that fits.
*/
package qr // import "github.com/qrgrid/qr"

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"unicode/utf8"

	"github.com/qrgrid/qr/coding"
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

func (l Level) String() string { return coding.Level(l).String() }

var (
	ErrEmpty   = errors.New("qr: empty text")
	ErrTooLong = errors.New("qr: text too long to encode as QR")
	ErrArgs    = errors.New("qr: invalid arguments")
)

// CharError reports a character encodable in none of the modes.
type CharError rune

func (e CharError) Error() string {
	return fmt.Sprintf("qr: invalid character %q (%U)", rune(e), rune(e))
}

// Classify returns the most compact mode accepting every character of
// text.  Modes are tried in order: numeric, alphanumeric, kanji, byte.
// An empty text is alphanumeric.  In kanji mode ASCII space stands for
// the ideographic space.
func Classify(text string) (coding.Mode, error) {
	if text != "" && (coding.Segment{Text: text, Mode: coding.Numeric}).IsValid() {
		return coding.Numeric, nil
	}
	for _, m := range [...]coding.Mode{
		coding.Alphanumeric, coding.Kanji, coding.Byte,
	} {
		if (coding.Segment{Text: text, Mode: m}).IsValid() {
			return m, nil
		}
	}
	// Report the first character that is neither Latin-1 nor
	// kanji, or, if the text mixes the two, the first kanji.
	var first rune = -1
	for _, r := range text {
		if r > 0xff {
			if !coding.IsKanji(r) {
				return 0, CharError(r)
			}
			if first < 0 {
				first = r
			}
		}
	}
	return 0, CharError(first)
}

// selectLevel returns the highest level at which n characters fit in
// mode at the largest version, or L.
func selectLevel(n int, mode coding.Mode) Level {
	for l := H; l > L; l-- {
		if coding.MaxVersion.Chars(coding.Level(l), mode) >= n {
			return l
		}
	}
	return L
}

// selectVersion returns the smallest version holding n characters in
// mode at the given level.  n must fit at the largest version.
func selectVersion(mode coding.Mode, level Level, n int) coding.Version {
	l := coding.Level(level)
	lo, hi := coding.MinVersion, coding.MaxVersion
	for v := coding.Version(20); lo <= hi; v = (lo + hi) / 2 {
		switch {
		case v.Chars(l, mode) < n:
			lo = v + 1
		case (v-1).Chars(l, mode) >= n:
			hi = v - 1
		default:
			return v
		}
	}
	panic(fmt.Sprintf("qr: no version for %d %v characters at level %v",
		n, mode, level))
}

// Encode returns a QR code encoding text.  The level, version and mode
// are chosen automatically.
func Encode(text string) (*Code, error) {
	mode, err := Classify(text)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, ErrEmpty
	}
	n := utf8.RuneCountInString(text)
	if n > coding.MaxVersion.Chars(coding.L, mode) {
		return nil, ErrTooLong
	}
	level := selectLevel(n, mode)
	v := selectVersion(mode, level, n)

	cc, err := coding.Encode(v, coding.Level(level),
		coding.Segment{Text: text, Mode: mode})
	if err != nil {
		return nil, err
	}
	return &Code{
		Bitmap:  cc.Bitmap,
		Size:    cc.Size,
		Version: v,
		Level:   level,
		Mode:    mode,
		Mask:    cc.Mask,
		Scale:   8,
		Border:  4,
	}, nil
}

// A Code is a square pixel grid.
// It implements image.Image and direct PBM encoding.
type Code struct {
	Bitmap  []byte         // one byte per pixel, row by row; 1 is black, 0 is white
	Size    int            // number of pixels on a side
	Version coding.Version // QR version
	Level   Level          // error correction level
	Mode    coding.Mode    // encoding mode
	Mask    int            // mask number

	Scale   int  // number of image pixels per QR pixel
	Border  int  // quiet zone width in QR pixels
	Reverse bool // reverse colours
}

func (c *Code) isValid() bool {
	return c.Size > 0 && len(c.Bitmap) == c.Size*c.Size &&
		c.Scale > 0 && c.Border >= 0
}

// Black returns true if the pixel at (x,y) is black.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Size+x] != 0
}

// Matrix returns the pixels of c, row 0 on top, 1 for black and 0 for
// white.
func (c *Code) Matrix() [][]int {
	m := make([][]int, c.Size)
	for y := range m {
		m[y] = make([]int, c.Size)
		for x, v := range c.Bitmap[y*c.Size : (y+1)*c.Size] {
			m[y][x] = int(v)
		}
	}
	return m
}

// String returns the code with its quiet zone drawn with block
// elements, two pixels per character, white in the foreground colour.
// If c.Reverse is set, black is in the foreground.
func (c *Code) String() string {
	var b strings.Builder
	bord := c.Border
	blocks := [4]string{"█", "▀", "▄", " "}
	if c.Reverse {
		blocks = [4]string{" ", "▄", "▀", "█"}
	}
	for y := -bord; y < c.Size+bord; y += 2 {
		for x := -bord; x < c.Size+bord; x++ {
			n := 0
			if c.Black(x, y) {
				n = 2
			}
			if c.Black(x, y+1) || y+1 >= c.Size+bord && !c.Reverse {
				n++
			}
			b.WriteString(blocks[n])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Image returns an Image displaying the code.
func (c *Code) Image() image.Image {
	return &codeImage{c}
}

// codeImage implements image.Image
type codeImage struct {
	*Code
}

var (
	whiteColor color.Color = color.Gray{0xFF}
	blackColor color.Color = color.Gray{0x00}
)

func (c *codeImage) Bounds() image.Rectangle {
	d := (c.Size + 2*c.Border) * c.Scale
	return image.Rect(0, 0, d, d)
}

func (c *codeImage) At(x, y int) color.Color {
	if x < 0 || y < 0 {
		return whiteColor
	}
	if c.Black(x/c.Scale-c.Border, y/c.Scale-c.Border) != c.Reverse {
		return blackColor
	}
	return whiteColor
}

func (c *codeImage) ColorModel() color.Model {
	return color.GrayModel
}
