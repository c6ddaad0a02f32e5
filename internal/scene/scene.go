// Package scene owns the grid and reacts to player input: selection
// movement, camera focus, clipboard copy and the screen-fixed minimap.
package scene

import (
	"errors"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/Faultbox/tilescene/internal/engine/camera"
	"github.com/Faultbox/tilescene/internal/engine/draw"
	"github.com/Faultbox/tilescene/internal/engine/event"
	"github.com/Faultbox/tilescene/internal/grid"
	"github.com/Faultbox/tilescene/internal/logger"
	"github.com/Faultbox/tilescene/pkg/math"
)

// Minimap layout in screen pixels.
const (
	minimapMargin  = 10
	minimapMaxSize = 160
	minimapMinCell = 2
)

// Option configures a Scene.
type Option func(*Scene)

// WithGlideSeconds sets how long the focus glide takes. Zero snaps.
func WithGlideSeconds(s float32) Option {
	return func(sc *Scene) { sc.glide = s }
}

// WithClipboard replaces the clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(sc *Scene) { sc.copy = write }
}

// Scene draws the grid and the HUD and maps keys to actions.
type Scene struct {
	grid   *grid.Grid
	camera *camera.Camera

	glide float32
	copy  func(string) error

	screenshot bool
	quit       bool

	log *zap.Logger
}

var (
	_ camera.Scene   = (*Scene)(nil)
	_ camera.Clicker = (*Scene)(nil)
)

// New creates a scene over g. cam is the camera focused by the F key.
func New(g *grid.Grid, cam *camera.Camera, opts ...Option) *Scene {
	s := &Scene{
		grid:   g,
		camera: cam,
		copy:   clipboard.WriteAll,
		log:    logger.Named("scene"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Grid returns the scene's grid.
func (s *Scene) Grid() *grid.Grid {
	return s.grid
}

// DrawGrid draws the grid in world space.
func (s *Scene) DrawGrid(c draw.Canvas) error {
	return s.grid.Draw(c)
}

// DrawHUDs draws the minimap panel in the bottom-left corner: background,
// character markers, the cursor cell and an outline.
func (s *Scene) DrawHUDs(c draw.Canvas, width, height int) error {
	panel, cell := s.minimapLayout()

	c.FillRect(panel, draw.ColorPanel)

	for _, name := range s.grid.Characters() {
		sp, _ := s.grid.Character(name)
		if x, y, ok := s.grid.CellAt(sp.X, sp.Y); ok {
			c.FillRect(minimapCell(panel, cell, x, y), draw.ColorMarker.WithAlpha(0.8))
		}
	}

	x, y := s.grid.Selected()
	c.FillRect(minimapCell(panel, cell, x, y), draw.ColorSelection)

	c.DrawLines(draw.ColorBorder, panel.Outline())
	return nil
}

// minimapLayout returns the panel rectangle and the side of one cell.
func (s *Scene) minimapLayout() (math.Rect, float32) {
	cols, rows := s.grid.Width(), s.grid.Height()
	longest := cols
	if rows > longest {
		longest = rows
	}

	cell := float32(minimapMinCell)
	if longest > 0 {
		if c := float32(minimapMaxSize / longest); c > cell {
			cell = c
		}
	}

	return math.Rect{
		X:      minimapMargin,
		Y:      minimapMargin,
		Width:  float32(cols) * cell,
		Height: float32(rows) * cell,
	}, cell
}

func minimapCell(panel math.Rect, cell float32, x, y int) math.Rect {
	return math.Rect{
		X:      panel.X + float32(x)*cell,
		Y:      panel.Y + float32(y)*cell,
		Width:  cell,
		Height: cell,
	}
}

// KeyPressed handles a key press.
func (s *Scene) KeyPressed(key event.Key, mods event.Modifier) {
	switch key {
	case event.KeyUp:
		s.moved(s.grid.MoveUp())
	case event.KeyDown:
		s.moved(s.grid.MoveDown())
	case event.KeyLeft:
		s.moved(s.grid.MoveLeft())
	case event.KeyRight:
		s.moved(s.grid.MoveRight())
	case event.KeyEnter:
		s.log.Info(s.grid.DescribeSelected())
	case event.KeyC:
		s.copySelected()
	case event.KeyF:
		s.FocusSelected()
	case event.KeyF12:
		s.screenshot = true
	case event.KeyEscape:
		s.quit = true
	}
}

func (s *Scene) moved(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, grid.ErrOutOfRange) {
		s.log.Debug("selection blocked", zap.Error(err))
		return
	}
	s.log.Warn("selection move failed", zap.Error(err))
}

func (s *Scene) copySelected() {
	text := s.grid.DescribeSelected()
	if err := s.copy(text); err != nil {
		s.log.Warn("clipboard write failed", zap.Error(err))
		return
	}
	s.log.Debug("copied to clipboard", zap.String("text", text))
}

// FocusSelected glides the camera so the selected tile is centred.
func (s *Scene) FocusSelected() {
	if s.camera == nil {
		return
	}
	r := s.grid.SelectedTile().Rect()
	s.camera.CenterOn(float64(r.X+r.Width/2), float64(r.Y+r.Height/2), s.glide)
}

// Clicked selects the tile under a left click.
func (s *Scene) Clicked(wx, wy float64, button event.Button) {
	if button&event.ButtonLeft == 0 {
		return
	}
	x, y, ok := s.grid.CellAt(float32(wx), float32(wy))
	if !ok {
		return
	}
	if err := s.grid.Select(x, y); err != nil {
		s.log.Warn("click select failed", zap.Error(err))
	}
}

// TakeScreenshotRequest reports and clears a pending screenshot request.
func (s *Scene) TakeScreenshotRequest() bool {
	req := s.screenshot
	s.screenshot = false
	return req
}

// QuitRequested reports whether Escape was pressed.
func (s *Scene) QuitRequested() bool {
	return s.quit
}
