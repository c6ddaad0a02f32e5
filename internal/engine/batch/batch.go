// Package batch groups drawable images so the renderer can submit them together.
package batch

import (
	"image"

	"github.com/Faultbox/tilescene/pkg/math"
)

// White is the neutral tint: the image is drawn with its own colours.
var White = [4]float32{1, 1, 1, 1}

// Sprite is one image placed in world (or screen) space inside a Batch.
type Sprite struct {
	Image         image.Image
	X, Y          float32
	Width, Height float32
	Tint          [4]float32
	Visible       bool
}

// SetPosition moves the sprite's bottom-left corner.
func (s *Sprite) SetPosition(x, y float32) {
	s.X = x
	s.Y = y
}

// Rect returns the area covered by the sprite.
func (s *Sprite) Rect() math.Rect {
	return math.Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
}

// Batch is an ordered collection of sprites flushed to the GPU in one pass.
// Sprites draw in insertion order, so later sprites cover earlier ones.
type Batch struct {
	name    string
	sprites []*Sprite
}

// New creates an empty batch.
func New(name string) *Batch {
	return &Batch{name: name}
}

// Name returns the key the batch was created under.
func (b *Batch) Name() string {
	return b.name
}

// Add appends a sprite for img, sized to the image bounds and placed at the origin.
func (b *Batch) Add(img image.Image) *Sprite {
	s := &Sprite{
		Image:   img,
		Tint:    White,
		Visible: true,
	}
	if img != nil {
		size := img.Bounds().Size()
		s.Width = float32(size.X)
		s.Height = float32(size.Y)
	}
	b.sprites = append(b.sprites, s)
	return s
}

// Remove drops s from the batch, preserving the order of the rest.
// It reports whether s was found.
func (b *Batch) Remove(s *Sprite) bool {
	for i, cur := range b.sprites {
		if cur == s {
			copy(b.sprites[i:], b.sprites[i+1:])
			b.sprites[len(b.sprites)-1] = nil
			b.sprites = b.sprites[:len(b.sprites)-1]
			return true
		}
	}
	return false
}

// Sprites returns the sprites in draw order. The slice must not be modified.
func (b *Batch) Sprites() []*Sprite {
	return b.sprites
}

// Len returns the number of sprites in the batch.
func (b *Batch) Len() int {
	return len(b.sprites)
}
