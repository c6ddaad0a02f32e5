// Package character implements named sprites that can stand on grid tiles.
package character

import (
	"fmt"
	"image"

	"github.com/Faultbox/tilescene/internal/engine/batch"
	"github.com/Faultbox/tilescene/internal/engine/texture"
)

// Character is a named unit with a single sprite image.
type Character struct {
	Name   string
	image  image.Image
	sprite *batch.Sprite
}

// New creates a character from an already decoded image.
func New(name string, img image.Image) *Character {
	return &Character{Name: name, image: img}
}

// Load creates a character whose image is read from path.
func Load(name, path string) (*Character, error) {
	img, err := texture.Load(path)
	if err != nil {
		return nil, fmt.Errorf("character %s: %w", name, err)
	}
	return New(name, img), nil
}

// SetImage creates the character's sprite inside b and returns it.
// A previous sprite is forgotten, not removed from its batch.
func (c *Character) SetImage(b *batch.Batch) *batch.Sprite {
	c.sprite = b.Add(c.image)
	return c.sprite
}

// Sprite returns the sprite created by the last SetImage, or nil.
func (c *Character) Sprite() *batch.Sprite {
	return c.sprite
}
