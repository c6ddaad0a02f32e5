package camera

import (
	"go.uber.org/zap"

	"github.com/Faultbox/tilescene/internal/engine/draw"
	"github.com/Faultbox/tilescene/internal/engine/event"
	"github.com/Faultbox/tilescene/internal/logger"
)

// Scene is the content the window shows and the target of key presses.
type Scene interface {
	DrawGrid(c draw.Canvas) error
	DrawHUDs(c draw.Canvas, width, height int) error
	KeyPressed(key event.Key, mods event.Modifier)
}

// Clicker is implemented by scenes that react to clicks in world space.
type Clicker interface {
	Clicked(wx, wy float64, button event.Button)
}

// Window routes input events to the camera and scene and drives frame drawing.
// It is used from the render thread only.
type Window struct {
	camera  *Camera
	scene   Scene
	surface draw.Surface
	log     *zap.Logger
}

// NewWindow wires a camera, a scene and the surface they draw on.
func NewWindow(cam *Camera, scene Scene, surface draw.Surface) *Window {
	return &Window{
		camera:  cam,
		scene:   scene,
		surface: surface,
		log:     logger.Named("window"),
	}
}

// Camera returns the window's camera.
func (w *Window) Camera() *Camera {
	return w.camera
}

// Handle applies one input event.
func (w *Window) Handle(e event.Event) {
	switch e.Type {
	case event.TypeDrag:
		w.camera.Pan(e.DX, e.DY)
	case event.TypeScroll:
		w.camera.Zoom(e.X, e.Y, e.DY)
	case event.TypeKeyPress:
		w.scene.KeyPressed(e.Key, e.Mods)
	case event.TypeClick:
		if c, ok := w.scene.(Clicker); ok {
			wx, wy := w.camera.ScreenToWorld(e.X, e.Y)
			c.Clicked(wx, wy, e.Buttons)
		}
	case event.TypeResize:
		w.camera.Resize(e.Width, e.Height)
		w.surface.Resize(e.Width, e.Height)
		w.log.Debug("resized", zap.Int("width", e.Width), zap.Int("height", e.Height))
	}
}

// Frame advances camera animation by dt seconds and draws one frame.
func (w *Window) Frame(dt float64) error {
	w.camera.Update(dt)
	return w.camera.Render(w.surface, w.scene.DrawGrid, w.scene.DrawHUDs)
}
