// Package tile implements one grid cell: its screen geometry and stacked layer images.
package tile

import (
	"fmt"
	"strings"

	"github.com/Faultbox/tilescene/internal/engine/batch"
	"github.com/Faultbox/tilescene/pkg/math"
)

// HighlightTint is multiplied into a selected tile's images.
var HighlightTint = [4]float32{1, 1, 0.55, 1}

// Image is a layer image attached to a tile.
type Image struct {
	Sprite *batch.Sprite
	Name   string
	Layer  int
}

// Tile is a grid cell at a fixed world position.
type Tile struct {
	Col, Row int

	x, y          float32
	width, height float32

	images   []Image
	selected bool
}

// New creates the tile for cell (col, row) with the given pixel pitch.
// The tile covers one pitch in each direction.
func New(col, row int, xGap, yGap float32) *Tile {
	return &Tile{
		Col:    col,
		Row:    row,
		x:      float32(col) * xGap,
		y:      float32(row) * yGap,
		width:  xGap,
		height: yGap,
	}
}

// X returns the left edge in world units.
func (t *Tile) X() float32 { return t.x }

// Y returns the bottom edge in world units.
func (t *Tile) Y() float32 { return t.y }

// Width returns the tile width in world units.
func (t *Tile) Width() float32 { return t.width }

// Height returns the tile height in world units.
func (t *Tile) Height() float32 { return t.height }

// Rect returns the tile bounds.
func (t *Tile) Rect() math.Rect {
	return math.Rect{X: t.x, Y: t.y, Width: t.width, Height: t.height}
}

// SetXY moves the tile and every attached image.
func (t *Tile) SetXY(x, y float32) {
	t.x = x
	t.y = y
	for _, img := range t.images {
		img.Sprite.SetPosition(x, y)
	}
}

// AddImage attaches a layer image and places it on the tile.
func (t *Tile) AddImage(s *batch.Sprite, name string, layer int) {
	s.SetPosition(t.x, t.y)
	if t.selected {
		s.Tint = HighlightTint
	}
	t.images = append(t.images, Image{Sprite: s, Name: name, Layer: layer})
}

// Images returns the attached images in attach order.
func (t *Tile) Images() []Image {
	return t.images
}

// Select highlights the tile.
func (t *Tile) Select() {
	t.selected = true
	for _, img := range t.images {
		img.Sprite.Tint = HighlightTint
	}
}

// Deselect removes the highlight.
func (t *Tile) Deselect() {
	t.selected = false
	for _, img := range t.images {
		img.Sprite.Tint = batch.White
	}
}

// Selected reports whether the tile is highlighted.
func (t *Tile) Selected() bool {
	return t.selected
}

// Describe lists the attached images for debugging, e.g. "grass@0, flowers@1".
func (t *Tile) Describe() string {
	if len(t.images) == 0 {
		return "empty"
	}
	parts := make([]string, len(t.images))
	for i, img := range t.images {
		parts[i] = fmt.Sprintf("%s@%d", img.Name, img.Layer)
	}
	return strings.Join(parts, ", ")
}
