// Package drawtest provides a recording draw.Surface for headless tests.
package drawtest

import (
	"github.com/Faultbox/tilescene/internal/engine/batch"
	"github.com/Faultbox/tilescene/internal/engine/draw"
	"github.com/Faultbox/tilescene/pkg/math"
)

// OpKind identifies a recorded call.
type OpKind int

const (
	OpClear OpKind = iota
	OpPush
	OpPop
	OpBatch
	OpLines
	OpRect
	OpResize
)

// Op is one recorded call.
type Op struct {
	Kind       OpKind
	Batch      string          // batch name for OpBatch
	Sprites    []*batch.Sprite // batch contents at flush time
	Points     []math.Vec2     // OpLines
	Rect       math.Rect       // OpRect
	Color      draw.Color      // OpLines, OpRect
	Projection math.Mat4       // OpPush; for draws, the projection in effect
	Width      int             // OpResize
	Height     int             // OpResize
}

// Recorder implements draw.Surface by appending every call to Ops.
type Recorder struct {
	Ops   []Op
	stack []math.Mat4
	proj  math.Mat4
}

// New returns a Recorder with an identity projection.
func New() *Recorder {
	return &Recorder{proj: math.Identity()}
}

var _ draw.Surface = (*Recorder)(nil)

func (r *Recorder) Clear() {
	r.Ops = append(r.Ops, Op{Kind: OpClear})
}

func (r *Recorder) PushProjection(m math.Mat4) {
	r.stack = append(r.stack, r.proj)
	r.proj = m
	r.Ops = append(r.Ops, Op{Kind: OpPush, Projection: m})
}

func (r *Recorder) PopProjection() {
	if n := len(r.stack); n > 0 {
		r.proj = r.stack[n-1]
		r.stack = r.stack[:n-1]
	}
	r.Ops = append(r.Ops, Op{Kind: OpPop, Projection: r.proj})
}

func (r *Recorder) Resize(width, height int) {
	r.Ops = append(r.Ops, Op{Kind: OpResize, Width: width, Height: height})
}

func (r *Recorder) DrawBatch(b *batch.Batch) {
	sprites := append([]*batch.Sprite(nil), b.Sprites()...)
	r.Ops = append(r.Ops, Op{Kind: OpBatch, Batch: b.Name(), Sprites: sprites, Projection: r.proj})
}

func (r *Recorder) DrawLines(c draw.Color, points []math.Vec2) {
	pts := append([]math.Vec2(nil), points...)
	r.Ops = append(r.Ops, Op{Kind: OpLines, Points: pts, Color: c, Projection: r.proj})
}

func (r *Recorder) FillRect(rect math.Rect, c draw.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpRect, Rect: rect, Color: c, Projection: r.proj})
}

// Depth returns the number of projections currently pushed.
func (r *Recorder) Depth() int {
	return len(r.stack)
}

// Kinds returns the kind of every recorded op, in order.
func (r *Recorder) Kinds() []OpKind {
	kinds := make([]OpKind, len(r.Ops))
	for i, op := range r.Ops {
		kinds[i] = op.Kind
	}
	return kinds
}

// Batches returns the names of flushed batches, in order.
func (r *Recorder) Batches() []string {
	var names []string
	for _, op := range r.Ops {
		if op.Kind == OpBatch {
			names = append(names, op.Batch)
		}
	}
	return names
}

// Reset forgets recorded ops but keeps projection state.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}
