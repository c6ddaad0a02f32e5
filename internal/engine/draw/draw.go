// Package draw defines the drawing surface shared by the grid, the HUD and the camera.
package draw

import (
	"github.com/Faultbox/tilescene/internal/engine/batch"
	"github.com/Faultbox/tilescene/pkg/math"
)

// Canvas receives draw calls in the current projection.
type Canvas interface {
	// DrawBatch flushes every visible sprite of b in one submission.
	DrawBatch(b *batch.Batch)
	// DrawLines draws independent segments; points are consumed in pairs.
	DrawLines(c Color, points []math.Vec2)
	// FillRect draws a solid rectangle.
	FillRect(r math.Rect, c Color)
}

// Surface is a Canvas that also owns the frame and projection state.
type Surface interface {
	Canvas
	// Clear clears the colour buffer once per frame.
	Clear()
	// PushProjection saves the current projection and installs m.
	PushProjection(m math.Mat4)
	// PopProjection restores the projection saved by the matching push.
	PopProjection()
	// Resize reinitialises fixed render state for a new framebuffer size.
	Resize(width, height int)
}
