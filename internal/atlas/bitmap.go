package atlas

import "fmt"

// Bitmap marks which grid cells carry an asset, indexed [x][y] with y growing upwards.
type Bitmap [][]bool

// NewBitmap returns an empty bitmap of the given size.
func NewBitmap(width, height int) Bitmap {
	b := make(Bitmap, width)
	for x := range b {
		b[x] = make([]bool, height)
	}
	return b
}

// ParseBitmap builds a bitmap from text rows listed top to bottom, the way the
// map looks on screen. '1' and '#' mark a present cell, '0' and '.' an empty one.
func ParseBitmap(rows []string) (Bitmap, error) {
	if len(rows) == 0 {
		return Bitmap{}, nil
	}
	width := len(rows[0])
	height := len(rows)
	b := NewBitmap(width, height)

	for r, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("bitmap row %d has %d cells, want %d", r, len(row), width)
		}
		y := height - 1 - r
		for x := 0; x < width; x++ {
			switch row[x] {
			case '1', '#':
				b[x][y] = true
			case '0', '.':
			default:
				return nil, fmt.Errorf("bitmap row %d: invalid cell %q at column %d", r, row[x], x)
			}
		}
	}
	return b, nil
}

// Has reports whether cell (x, y) is marked. Cells outside the bitmap are empty.
func (b Bitmap) Has(x, y int) bool {
	if x < 0 || x >= len(b) {
		return false
	}
	col := b[x]
	if y < 0 || y >= len(col) {
		return false
	}
	return col[y]
}

// Set marks or clears cell (x, y). Out-of-range cells are ignored.
func (b Bitmap) Set(x, y int, present bool) {
	if x < 0 || x >= len(b) || y < 0 || y >= len(b[x]) {
		return
	}
	b[x][y] = present
}

// Count returns the number of marked cells.
func (b Bitmap) Count() int {
	n := 0
	for _, col := range b {
		for _, v := range col {
			if v {
				n++
			}
		}
	}
	return n
}
