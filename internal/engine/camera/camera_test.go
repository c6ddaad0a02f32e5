package camera

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/tilescene/internal/engine/draw"
	"github.com/Faultbox/tilescene/internal/engine/draw/drawtest"
	"github.com/Faultbox/tilescene/pkg/math"
)

func near(a, b float64) bool {
	return gomath.Abs(a-b) < 1e-6
}

func checkExtent(t *testing.T, c *Camera) {
	t.Helper()
	if !near(c.Right-c.Left, c.ZoomedWidth) {
		t.Errorf("right-left = %f, zoomed width = %f", c.Right-c.Left, c.ZoomedWidth)
	}
	if !near(c.Top-c.Bottom, c.ZoomedHeight) {
		t.Errorf("top-bottom = %f, zoomed height = %f", c.Top-c.Bottom, c.ZoomedHeight)
	}
}

func TestNew(t *testing.T) {
	c := New(800, 600)
	if c.Left != 0 || c.Right != 800 || c.Bottom != 0 || c.Top != 600 {
		t.Errorf("unexpected viewport (%f,%f,%f,%f)", c.Left, c.Right, c.Bottom, c.Top)
	}
	if c.ZoomLevel != 1 {
		t.Errorf("expected zoom 1, got %f", c.ZoomLevel)
	}
	checkExtent(t, c)
}

func TestPanScalesWithZoom(t *testing.T) {
	c := New(800, 600)
	c.ZoomLevel = 2

	c.Pan(10, -5)

	if c.Left != -20 || c.Right != 780 {
		t.Errorf("expected left/right shifted by -20, got (%f, %f)", c.Left, c.Right)
	}
	if c.Bottom != 10 || c.Top != 610 {
		t.Errorf("expected bottom/top shifted by +10, got (%f, %f)", c.Bottom, c.Top)
	}
	if c.ZoomedWidth != 800 || c.ZoomedHeight != 600 {
		t.Errorf("pan must not change extent, got %fx%f", c.ZoomedWidth, c.ZoomedHeight)
	}
	checkExtent(t, c)
}

func TestZoomAnchorsCursor(t *testing.T) {
	tests := []struct {
		name      string
		dy        float64
		wantWidth float64
		wantLevel float64
	}{
		{"negative tick shrinks extent", -1, 800 / 1.2, 1 / 1.2},
		{"positive tick grows extent", 1, 800 * 1.2, 1.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(800, 600)
			if !c.Zoom(400, 300, tt.dy) {
				t.Fatal("expected zoom to be accepted")
			}
			if !near(c.ZoomedWidth, tt.wantWidth) {
				t.Errorf("expected zoomed width %f, got %f", tt.wantWidth, c.ZoomedWidth)
			}
			if !near(c.ZoomLevel, tt.wantLevel) {
				t.Errorf("expected zoom level %f, got %f", tt.wantLevel, c.ZoomLevel)
			}
			checkExtent(t, c)

			// World point (400, 300) is still at normalised (0.5, 0.5).
			nx := (400 - c.Left) / c.ZoomedWidth
			ny := (300 - c.Bottom) / c.ZoomedHeight
			if !near(nx, 0.5) || !near(ny, 0.5) {
				t.Errorf("anchor moved to (%f, %f)", nx, ny)
			}
		})
	}

	c := New(800, 600)
	c.Zoom(400, 300, -1)
	if gomath.Round(c.ZoomedWidth*100)/100 != 666.67 {
		t.Errorf("expected zoomed width 666.67, got %.2f", c.ZoomedWidth)
	}
}

func TestZoomOffCentreAnchor(t *testing.T) {
	c := New(800, 600)
	c.Pan(-37, 12)

	sx, sy := 120.0, 450.0
	wx, wy := c.ScreenToWorld(sx, sy)

	for _, dy := range []float64{1, 1, -1, -1, -1} {
		c.Zoom(sx, sy, dy)
		gx, gy := c.ScreenToWorld(sx, sy)
		if !near(gx, wx) || !near(gy, wy) {
			t.Fatalf("anchor drifted from (%f,%f) to (%f,%f)", wx, wy, gx, gy)
		}
		checkExtent(t, c)
	}
}

func TestZoomNoTick(t *testing.T) {
	c := New(800, 600)
	before := *c
	if c.Zoom(10, 10, 0) {
		t.Error("expected zero tick to report no zoom")
	}
	if c.Left != before.Left || c.ZoomLevel != before.ZoomLevel {
		t.Error("expected zero tick to leave state unchanged")
	}
}

func TestZoomRangeRejects(t *testing.T) {
	c := New(800, 600)

	accepted := 0
	for i := 0; i < 50; i++ {
		if c.Zoom(400, 300, 1) {
			accepted++
		}
	}
	// 1.2^8 = 4.30, 1.2^9 = 5.16.
	if accepted != 8 {
		t.Errorf("expected 8 accepted zoom-outs, got %d", accepted)
	}
	if !(c.ZoomLevel > DefaultMinZoom && c.ZoomLevel < DefaultMaxZoom) {
		t.Errorf("zoom level %f escaped range", c.ZoomLevel)
	}
	checkExtent(t, c)

	before := *c
	if c.Zoom(0, 0, 1) {
		t.Error("expected zoom at limit to be rejected")
	}
	if c.Left != before.Left || c.Right != before.Right || c.ZoomedWidth != before.ZoomedWidth {
		t.Error("rejected zoom changed the viewport")
	}

	for i := 0; i < 100; i++ {
		c.Zoom(200, 100, -1)
	}
	if !(c.ZoomLevel > DefaultMinZoom) {
		t.Errorf("zoom level %f fell below minimum", c.ZoomLevel)
	}
	checkExtent(t, c)
}

func TestZoomOptions(t *testing.T) {
	c := New(100, 100, WithZoomFactor(2), WithZoomRange(0.5, 3))
	if !c.Zoom(50, 50, 1) || c.ZoomLevel != 2 {
		t.Fatalf("expected zoom level 2, got %f", c.ZoomLevel)
	}
	if c.Zoom(50, 50, 1) {
		t.Error("expected zoom to 4 to be rejected by max 3")
	}

	// Invalid options are ignored.
	d := New(100, 100, WithZoomFactor(0.5), WithZoomRange(3, 1))
	if d.zoomFactor != DefaultZoomFactor || d.minZoom != DefaultMinZoom || d.maxZoom != DefaultMaxZoom {
		t.Error("expected invalid options to keep defaults")
	}
}

func TestResizeKeepsViewport(t *testing.T) {
	c := New(800, 600)
	c.Resize(1024, 768)

	if w, h := c.Size(); w != 1024 || h != 768 {
		t.Errorf("expected size 1024x768, got %dx%d", w, h)
	}
	if c.Right != 800 || c.Top != 600 {
		t.Error("resize must not touch the viewport")
	}

	c.Resize(0, 10)
	if w, _ := c.Size(); w != 1024 {
		t.Error("expected non-positive resize to be ignored")
	}
}

func TestScreenWorldRoundTrip(t *testing.T) {
	c := New(800, 600)
	c.Zoom(100, 500, 1)
	c.Pan(33, -71)

	wx, wy := c.ScreenToWorld(250, 125)
	sx, sy := c.WorldToScreen(wx, wy)
	if !near(sx, 250) || !near(sy, 125) {
		t.Errorf("round trip gave (%f, %f)", sx, sy)
	}
}

func TestProjections(t *testing.T) {
	c := New(800, 600)
	c.Pan(100, 0)
	c.Zoom(0, 0, 1)

	world := c.WorldProjection()
	got := world.Apply(math.Vec2{X: float32(c.Left), Y: float32(c.Bottom)})
	if gomath.Abs(float64(got.X)+1) > 1e-4 || gomath.Abs(float64(got.Y)+1) > 1e-4 {
		t.Errorf("expected viewport corner at clip (-1,-1), got %v", got)
	}

	screen := c.ScreenProjection()
	if screen != math.Ortho(0, 800, 0, 600, -1, 1) {
		t.Error("screen projection must ignore pan and zoom")
	}
}

func TestCenterOnImmediate(t *testing.T) {
	c := New(800, 600)
	c.CenterOn(1000, -200, 0)

	cx, cy := c.Center()
	if !near(cx, 1000) || !near(cy, -200) {
		t.Errorf("expected centre (1000,-200), got (%f,%f)", cx, cy)
	}
	if c.Gliding() {
		t.Error("expected no glide for zero duration")
	}
	checkExtent(t, c)
}

func TestCenterOnGlide(t *testing.T) {
	c := New(800, 600)
	c.CenterOn(600, 500, 0.5)
	if !c.Gliding() {
		t.Fatal("expected glide to start")
	}

	c.Update(0.25)
	cx, _ := c.Center()
	if cx <= 400 || cx >= 600 {
		t.Errorf("expected centre between start and target mid-glide, got %f", cx)
	}
	checkExtent(t, c)

	c.Update(0.5)
	cx, cy := c.Center()
	if !near(cx, 600) || !near(cy, 500) {
		t.Errorf("expected glide to land on (600,500), got (%f,%f)", cx, cy)
	}
	if c.Gliding() {
		t.Error("expected glide to finish")
	}
}

func TestPanCancelsGlide(t *testing.T) {
	c := New(800, 600)
	c.CenterOn(5000, 5000, 1)
	c.Pan(1, 1)
	if c.Gliding() {
		t.Error("expected pan to cancel glide")
	}
}

func TestRenderPassOrder(t *testing.T) {
	c := New(800, 600)
	c.Pan(50, 20)
	rec := drawtest.New()

	var hudW, hudH int
	err := c.Render(rec,
		func(cv draw.Canvas) error {
			cv.FillRect(math.Rect{Width: 1, Height: 1}, draw.ColorWhite)
			return nil
		},
		func(cv draw.Canvas, w, h int) error {
			hudW, hudH = w, h
			cv.FillRect(math.Rect{Width: 2, Height: 2}, draw.ColorPanel)
			return nil
		},
	)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	want := []drawtest.OpKind{
		drawtest.OpClear,
		drawtest.OpPush, drawtest.OpRect, drawtest.OpPop,
		drawtest.OpPush, drawtest.OpRect, drawtest.OpPop,
	}
	got := rec.Kinds()
	if len(got) != len(want) {
		t.Fatalf("expected ops %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected ops %v, got %v", want, got)
		}
	}

	if rec.Ops[2].Projection != c.WorldProjection() {
		t.Error("world content drawn without world projection")
	}
	if rec.Ops[5].Projection != c.ScreenProjection() {
		t.Error("hud content drawn without screen projection")
	}
	if hudW != 800 || hudH != 600 {
		t.Errorf("expected hud size 800x600, got %dx%d", hudW, hudH)
	}
	if rec.Depth() != 0 {
		t.Errorf("expected balanced projection stack, depth %d", rec.Depth())
	}
}

func TestRenderPopsOnError(t *testing.T) {
	c := New(800, 600)
	rec := drawtest.New()
	boom := errors.New("boom")

	hudCalled := false
	err := c.Render(rec,
		func(draw.Canvas) error { return boom },
		func(draw.Canvas, int, int) error { hudCalled = true; return nil },
	)
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
	if hudCalled {
		t.Error("expected hud pass to be skipped after world error")
	}
	if rec.Depth() != 0 {
		t.Errorf("expected projection popped after error, depth %d", rec.Depth())
	}
}
