package character

import (
	"image"
	"path/filepath"
	"testing"

	"github.com/Faultbox/tilescene/internal/engine/batch"
)

func TestSetImage(t *testing.T) {
	c := New("knight", image.NewRGBA(image.Rect(0, 0, 24, 48)))
	if c.Sprite() != nil {
		t.Fatal("expected no sprite before SetImage")
	}

	b := batch.New("characters")
	s := c.SetImage(b)
	if s == nil || c.Sprite() != s {
		t.Fatal("expected SetImage to return and remember the sprite")
	}
	if s.Width != 24 || s.Height != 48 {
		t.Errorf("expected 24x48 sprite, got %gx%g", s.Width, s.Height)
	}
	if b.Len() != 1 {
		t.Errorf("expected 1 sprite in batch, got %d", b.Len())
	}
}

func TestLoadMissingImage(t *testing.T) {
	if _, err := Load("ghost", filepath.Join(t.TempDir(), "ghost.png")); err == nil {
		t.Error("expected error for missing image")
	}
}
