package renderer

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/tilescene/internal/engine/texture"
)

// textureCache uploads each distinct image once and keeps the GL name for
// the lifetime of the renderer. Atlas images are shared between sprites, so
// the cache stays small.
type textureCache struct {
	ids map[image.Image]uint32
}

func newTextureCache() *textureCache {
	return &textureCache{ids: make(map[image.Image]uint32)}
}

// get returns the texture for img, uploading it on first use.
func (c *textureCache) get(img image.Image) uint32 {
	if id, ok := c.ids[img]; ok {
		return id
	}

	rgba := texture.ToRGBA(img)
	b := rgba.Bounds()

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))

	c.ids[img] = id
	return id
}

func (c *textureCache) release() {
	for img, id := range c.ids {
		gl.DeleteTextures(1, &id)
		delete(c.ids, img)
	}
}
