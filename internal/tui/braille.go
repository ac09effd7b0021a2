package tui

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// dotBits maps a micro-pixel inside a cell (column, row) to its braille bit.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// brailleBuf is a w x h cell canvas with a 2x4 micro-pixel grid per cell.
// Each cell remembers the average color of the pixels inked into it.
type brailleBuf struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell 8-bit mask
	ink  [][][4]uint32
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	ink := make([][][4]uint32, h)
	for i := range m {
		m[i] = make([]uint8, w)
		ink[i] = make([][4]uint32, w)
	}
	return &brailleBuf{w: w, h: h, m: m, ink: ink}
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell).
func (b *brailleBuf) setPixel(mx, my int) bool {
	if mx < 0 || my < 0 {
		return false
	}
	cx, cy := mx/2, my/4
	if cy >= b.h || cx >= b.w {
		return false
	}
	b.m[cy][cx] |= dotBits[mx%2][my%4]
	return true
}

// setInk sets a micro-pixel and adds c to its cell color.
func (b *brailleBuf) setInk(mx, my int, c color.RGBA) {
	if !b.setPixel(mx, my) {
		return
	}
	acc := &b.ink[my/4][mx/2]
	acc[0] += uint32(c.R)
	acc[1] += uint32(c.G)
	acc[2] += uint32(c.B)
	acc[3]++
}

// drawLineMicro draws a line on the microgrid using Bresenham.
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// toLines renders the canvas; cells with ink are colored when color is set.
func (b *brailleBuf) toLines(colored bool) []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		var row strings.Builder
		for x := 0; x < b.w; x++ {
			mask := b.m[y][x]
			if mask == 0 {
				row.WriteByte(' ')
				continue
			}
			glyph := string(rune(0x2800 + int(mask)))
			acc := b.ink[y][x]
			if colored && acc[3] > 0 {
				hex := fmt.Sprintf("#%02X%02X%02X", acc[0]/acc[3], acc[1]/acc[3], acc[2]/acc[3])
				glyph = lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(glyph)
			}
			row.WriteString(glyph)
		}
		out[y] = row.String()
	}
	return out
}
