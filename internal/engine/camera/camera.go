// Package camera implements the 2D viewport over the tile world: drag panning,
// cursor-anchored zoom, and the two projection passes drawn every frame.
package camera

import (
	"fmt"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/Faultbox/tilescene/internal/engine/draw"
	"github.com/Faultbox/tilescene/internal/logger"
	"github.com/Faultbox/tilescene/pkg/math"
)

// Zoom defaults.
const (
	DefaultZoomFactor = 1.2
	DefaultMinZoom    = 0.2
	DefaultMaxZoom    = 5.0
)

// Option configures a Camera.
type Option func(*Camera)

// WithZoomFactor sets the per-tick scale factor. Values <= 1 are ignored.
func WithZoomFactor(f float64) Option {
	return func(c *Camera) {
		if f > 1 {
			c.zoomFactor = f
		}
	}
}

// WithZoomRange sets the open interval the zoom level must stay inside.
func WithZoomRange(minZoom, maxZoom float64) Option {
	return func(c *Camera) {
		if minZoom > 0 && minZoom < maxZoom {
			c.minZoom = minZoom
			c.maxZoom = maxZoom
		}
	}
}

// WithLogger replaces the component logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Camera) { c.log = l }
}

// Camera holds the world-space rectangle mapped onto the window.
// Right-Left always equals ZoomedWidth and Top-Bottom equals ZoomedHeight.
type Camera struct {
	Left, Right float64
	Bottom, Top float64

	// ZoomLevel scales the visible extent: 2 shows twice as much world.
	ZoomLevel float64

	ZoomedWidth  float64
	ZoomedHeight float64

	width, height int

	zoomFactor float64
	minZoom    float64
	maxZoom    float64

	glide *glide

	log *zap.Logger
}

// glide animates the viewport centre towards a target.
type glide struct {
	x, y *gween.Tween
}

// New creates a camera showing world (0,0)-(width,height) at zoom 1.
func New(width, height int, opts ...Option) *Camera {
	c := &Camera{
		Left:         0,
		Right:        float64(width),
		Bottom:       0,
		Top:          float64(height),
		ZoomLevel:    1,
		ZoomedWidth:  float64(width),
		ZoomedHeight: float64(height),
		width:        width,
		height:       height,
		zoomFactor:   DefaultZoomFactor,
		minZoom:      DefaultMinZoom,
		maxZoom:      DefaultMaxZoom,
		log:          logger.Named("camera"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Size returns the window size in pixels.
func (c *Camera) Size() (int, int) {
	return c.width, c.height
}

// Resize records a new window size. The viewport is left untouched.
func (c *Camera) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width = width
	c.height = height
}

// Pan moves the viewport against a drag of (dx, dy) screen pixels.
// The shift is scaled by the zoom level so drags feel the same at any zoom.
func (c *Camera) Pan(dx, dy float64) {
	c.glide = nil
	c.translate(-dx*c.ZoomLevel, -dy*c.ZoomLevel)
}

func (c *Camera) translate(dx, dy float64) {
	c.Left += dx
	c.Right += dx
	c.Bottom += dy
	c.Top += dy
}

// Zoom applies one wheel tick at screen position (x, y). A positive dy scales
// the zoom level up by the zoom factor, a negative dy scales it down. The world
// point under the cursor stays under the cursor. It reports whether the zoom
// was applied; ticks that would leave the allowed range are dropped.
func (c *Camera) Zoom(x, y, dy float64) bool {
	var f float64
	switch {
	case dy > 0:
		f = c.zoomFactor
	case dy < 0:
		f = 1 / c.zoomFactor
	default:
		return false
	}

	next := c.ZoomLevel * f
	if !(next > c.minZoom && next < c.maxZoom) {
		c.log.Debug("zoom rejected", zap.Float64("level", next))
		return false
	}
	if c.width <= 0 || c.height <= 0 {
		return false
	}

	c.ZoomLevel = next

	mouseX := x / float64(c.width)
	mouseY := y / float64(c.height)

	anchorX := c.Left + mouseX*c.ZoomedWidth
	anchorY := c.Bottom + mouseY*c.ZoomedHeight

	c.ZoomedWidth *= f
	c.ZoomedHeight *= f

	c.Left = anchorX - mouseX*c.ZoomedWidth
	c.Right = anchorX + (1-mouseX)*c.ZoomedWidth
	c.Bottom = anchorY - mouseY*c.ZoomedHeight
	c.Top = anchorY + (1-mouseY)*c.ZoomedHeight

	c.log.Debug("zoom applied", zap.Float64("level", c.ZoomLevel))
	return true
}

// ScreenToWorld converts window pixels (origin bottom-left) to world units.
func (c *Camera) ScreenToWorld(x, y float64) (float64, float64) {
	if c.width <= 0 || c.height <= 0 {
		return c.Left, c.Bottom
	}
	return c.Left + x/float64(c.width)*c.ZoomedWidth,
		c.Bottom + y/float64(c.height)*c.ZoomedHeight
}

// WorldToScreen converts world units to window pixels.
func (c *Camera) WorldToScreen(wx, wy float64) (float64, float64) {
	return (wx - c.Left) / c.ZoomedWidth * float64(c.width),
		(wy - c.Bottom) / c.ZoomedHeight * float64(c.height)
}

// Center returns the world point at the middle of the viewport.
func (c *Camera) Center() (float64, float64) {
	return c.Left + c.ZoomedWidth/2, c.Bottom + c.ZoomedHeight/2
}

// CenterOn moves the viewport so (wx, wy) is in the middle, gliding over
// duration seconds. A non-positive duration jumps immediately. Panning
// cancels a glide in progress.
func (c *Camera) CenterOn(wx, wy float64, duration float32) {
	cx, cy := c.Center()
	if duration <= 0 {
		c.glide = nil
		c.translate(wx-cx, wy-cy)
		return
	}
	c.glide = &glide{
		x: gween.New(float32(cx), float32(wx), duration, ease.OutQuad),
		y: gween.New(float32(cy), float32(wy), duration, ease.OutQuad),
	}
}

// Gliding reports whether a CenterOn animation is running.
func (c *Camera) Gliding() bool {
	return c.glide != nil
}

// Update advances a running glide by dt seconds.
func (c *Camera) Update(dt float64) {
	if c.glide == nil {
		return
	}
	tx, doneX := c.glide.x.Update(float32(dt))
	ty, doneY := c.glide.y.Update(float32(dt))

	cx, cy := c.Center()
	c.translate(float64(tx)-cx, float64(ty)-cy)

	if doneX && doneY {
		c.glide = nil
	}
}

// WorldProjection maps the viewport onto clip space.
func (c *Camera) WorldProjection() math.Mat4 {
	return math.Ortho(float32(c.Left), float32(c.Right), float32(c.Bottom), float32(c.Top), -1, 1)
}

// ScreenProjection maps window pixels onto clip space regardless of pan and zoom.
func (c *Camera) ScreenProjection() math.Mat4 {
	return math.Ortho(0, float32(c.width), 0, float32(c.height), -1, 1)
}

// Render clears the surface once, draws world content under the viewport
// projection, then HUD content under the fixed screen projection. Each
// projection is popped before the next pass starts, even on error.
func (c *Camera) Render(s draw.Surface, world func(draw.Canvas) error, hud func(draw.Canvas, int, int) error) error {
	s.Clear()

	if err := pass(s, c.WorldProjection(), func() error { return world(s) }); err != nil {
		return fmt.Errorf("world pass: %w", err)
	}
	if err := pass(s, c.ScreenProjection(), func() error { return hud(s, c.width, c.height) }); err != nil {
		return fmt.Errorf("hud pass: %w", err)
	}
	return nil
}

func pass(s draw.Surface, proj math.Mat4, fn func() error) error {
	s.PushProjection(proj)
	defer s.PopProjection()
	return fn()
}
