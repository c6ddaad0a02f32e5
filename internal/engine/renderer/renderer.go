// Package renderer implements draw.Surface on OpenGL 4.1 core.
package renderer

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/tilescene/internal/engine/batch"
	"github.com/Faultbox/tilescene/internal/engine/draw"
	"github.com/Faultbox/tilescene/internal/engine/shader"
	"github.com/Faultbox/tilescene/internal/logger"
	"github.com/Faultbox/tilescene/pkg/math"
)

const (
	spriteStride = 8 // pos2 + uv2 + tint4
	solidStride  = 6 // pos2 + color4
	floatSize    = 4
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer draws batches, lines and rectangles with the projection on top
// of its stack. All calls must come from the thread owning the GL context.
type Renderer struct {
	width, height int

	sprite *shader.Program
	solid  *shader.Program

	spriteVAO, spriteVBO uint32
	solidVAO, solidVBO   uint32

	textures *textureCache

	projection math.Mat4
	stack      []math.Mat4

	vertices []float32

	log *zap.Logger
}

// New creates a renderer. The GL context must be current.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r := &Renderer{
		textures:   newTextureCache(),
		projection: math.Identity(),
		vertices:   make([]float32, 0, 4096),
		log:        logger.Named("renderer"),
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	var err error
	r.sprite, err = shader.New("sprite", spriteVertexShader, spriteFragmentShader, "uProjection", "uTexture")
	if err != nil {
		return nil, err
	}
	r.solid, err = shader.New("solid", solidVertexShader, solidFragmentShader, "uProjection")
	if err != nil {
		r.sprite.Delete()
		return nil, err
	}

	r.spriteVAO, r.spriteVBO = newVertexArray(spriteStride, 2, 2, 4)
	r.solidVAO, r.solidVBO = newVertexArray(solidStride, 2, 4)

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// newVertexArray creates a VAO/VBO pair with float attributes of the given sizes.
func newVertexArray(stride int, sizes ...int32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	offset := 0
	for i, size := range sizes {
		gl.VertexAttribPointerWithOffset(uint32(i), size, gl.FLOAT, false, int32(stride*floatSize), uintptr(offset*floatSize))
		gl.EnableVertexAttribArray(uint32(i))
		offset += int(size)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return vao, vbo
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.textures.release()
	gl.DeleteVertexArrays(1, &r.spriteVAO)
	gl.DeleteBuffers(1, &r.spriteVBO)
	gl.DeleteVertexArrays(1, &r.solidVAO)
	gl.DeleteBuffers(1, &r.solidVBO)
	r.sprite.Delete()
	r.solid.Delete()
}

// Resize reinitialises the fixed render state for a framebuffer size.
func (r *Renderer) Resize(width, height int) {
	r.width = width
	r.height = height

	gl.ClearColor(0, 0, 0, 0)
	gl.Enable(gl.LINE_SMOOTH)
	gl.Enable(gl.POLYGON_SMOOTH)
	gl.Hint(gl.LINE_SMOOTH_HINT, gl.NICEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.MULTISAMPLE)
	gl.Disable(gl.DEPTH_TEST)
	gl.Viewport(0, 0, int32(width), int32(height))

	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Clear clears the colour buffer.
func (r *Renderer) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// PushProjection saves the current projection and installs m.
func (r *Renderer) PushProjection(m math.Mat4) {
	r.stack = append(r.stack, r.projection)
	r.projection = m
}

// PopProjection restores the previous projection. Popping an empty stack
// restores identity.
func (r *Renderer) PopProjection() {
	n := len(r.stack)
	if n == 0 {
		r.projection = math.Identity()
		return
	}
	r.projection = r.stack[n-1]
	r.stack = r.stack[:n-1]
}

// DrawBatch submits the visible sprites of b. Consecutive sprites sharing a
// texture go out in one draw call.
func (r *Renderer) DrawBatch(b *batch.Batch) {
	sprites := b.Sprites()
	if len(sprites) == 0 {
		return
	}

	r.sprite.Use()
	r.sprite.SetMat4("uProjection", r.projection)
	r.sprite.SetInt("uTexture", 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(r.spriteVAO)

	r.vertices = r.vertices[:0]
	var current image.Image
	for _, s := range sprites {
		if !s.Visible || s.Image == nil {
			continue
		}
		if s.Image != current && len(r.vertices) > 0 {
			r.flushSprites(current)
		}
		current = s.Image
		r.vertices = appendSpriteQuad(r.vertices, s)
	}
	if len(r.vertices) > 0 {
		r.flushSprites(current)
	}

	gl.BindVertexArray(0)
}

func (r *Renderer) flushSprites(img image.Image) {
	gl.BindTexture(gl.TEXTURE_2D, r.textures.get(img))
	r.upload(r.spriteVBO)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(r.vertices)/spriteStride))
	r.vertices = r.vertices[:0]
}

// appendSpriteQuad emits two triangles. Image rows are uploaded top first,
// so v=0 is the top edge.
func appendSpriteQuad(v []float32, s *batch.Sprite) []float32 {
	x0, y0 := s.X, s.Y
	x1, y1 := s.X+s.Width, s.Y+s.Height
	t := s.Tint
	return append(v,
		x0, y0, 0, 1, t[0], t[1], t[2], t[3],
		x1, y0, 1, 1, t[0], t[1], t[2], t[3],
		x1, y1, 1, 0, t[0], t[1], t[2], t[3],
		x0, y0, 0, 1, t[0], t[1], t[2], t[3],
		x1, y1, 1, 0, t[0], t[1], t[2], t[3],
		x0, y1, 0, 0, t[0], t[1], t[2], t[3],
	)
}

// DrawLines draws independent segments from consecutive point pairs.
func (r *Renderer) DrawLines(c draw.Color, points []math.Vec2) {
	if len(points) < 2 {
		return
	}
	r.vertices = r.vertices[:0]
	for _, p := range points[:len(points)&^1] {
		r.vertices = append(r.vertices, p.X, p.Y, c.R, c.G, c.B, c.A)
	}
	r.drawSolid(gl.LINES)
}

// FillRect draws a solid rectangle.
func (r *Renderer) FillRect(rect math.Rect, c draw.Color) {
	r.vertices = r.vertices[:0]
	for _, p := range [6]math.Vec2{
		{X: rect.X, Y: rect.Y},
		{X: rect.X + rect.Width, Y: rect.Y},
		{X: rect.X + rect.Width, Y: rect.Y + rect.Height},
		{X: rect.X, Y: rect.Y},
		{X: rect.X + rect.Width, Y: rect.Y + rect.Height},
		{X: rect.X, Y: rect.Y + rect.Height},
	} {
		r.vertices = append(r.vertices, p.X, p.Y, c.R, c.G, c.B, c.A)
	}
	r.drawSolid(gl.TRIANGLES)
}

func (r *Renderer) drawSolid(mode uint32) {
	r.solid.Use()
	r.solid.SetMat4("uProjection", r.projection)
	gl.BindVertexArray(r.solidVAO)
	r.upload(r.solidVBO)
	gl.DrawArrays(mode, 0, int32(len(r.vertices)/solidStride))
	gl.BindVertexArray(0)
	r.vertices = r.vertices[:0]
}

func (r *Renderer) upload(vbo uint32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.vertices)*floatSize, gl.Ptr(r.vertices), gl.STREAM_DRAW)
}

// ReadPixels reads back the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	pixels := make([]byte, r.width*r.height*4)
	if len(pixels) == 0 {
		return nil, 0, 0
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(r.width), int32(r.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, r.width, r.height
}

var _ draw.Surface = (*Renderer)(nil)
