// Package game implements the main loop: window, input, renderer, camera and scene.
package game

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/tilescene/internal/atlas"
	"github.com/Faultbox/tilescene/internal/config"
	"github.com/Faultbox/tilescene/internal/engine/camera"
	"github.com/Faultbox/tilescene/internal/engine/debug"
	"github.com/Faultbox/tilescene/internal/engine/event"
	"github.com/Faultbox/tilescene/internal/engine/input"
	"github.com/Faultbox/tilescene/internal/engine/renderer"
	"github.com/Faultbox/tilescene/internal/engine/window"
	"github.com/Faultbox/tilescene/internal/logger"
	"github.com/Faultbox/tilescene/internal/scene"
)

// Game is the main game instance.
type Game struct {
	config  *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input

	scene       *scene.Scene
	view        *camera.Window
	screenshots *debug.ScreenshotCapture

	log *zap.Logger
}

// New creates the window and GL context, loads the atlas and builds the scene.
func New(cfg *config.Config) (*Game, error) {
	g := &Game{
		config: cfg,
		log:    logger.Named("game"),
	}

	g.log.Info("initializing game",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	var err error
	g.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Samples:    cfg.Window.Samples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer needs the GL context created by the window.
	fbWidth, fbHeight := g.window.DrawableSize()
	g.renderer, err = renderer.New(renderer.Config{Width: fbWidth, Height: fbHeight})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	if err := g.buildScene(); err != nil {
		g.Close()
		return nil, err
	}

	_, winHeight := g.window.Size()
	g.input = input.New(winHeight)
	g.screenshots = debug.NewScreenshotCapture(cfg.Debug.ScreenshotDir, cfg.Debug.ScreenshotPrefix)

	g.log.Info("game initialized successfully")
	return g, nil
}

func (g *Game) buildScene() error {
	src, err := atlas.Load(g.config.Grid.Atlas)
	if err != nil {
		return fmt.Errorf("failed to load atlas: %w", err)
	}
	g.log.Info("atlas loaded",
		zap.String("name", src.Name()),
		zap.Strings("layers", src.Layers()),
	)

	// The camera works in window coordinates so input and projection agree.
	width, height := g.window.Size()
	cam := camera.New(width, height,
		camera.WithZoomFactor(g.config.Camera.ZoomFactor),
		camera.WithZoomRange(g.config.Camera.MinZoom, g.config.Camera.MaxZoom),
	)

	g.scene, err = scene.Build(g.config, src, cam, nil)
	if err != nil {
		return fmt.Errorf("failed to build scene: %w", err)
	}
	g.view = camera.NewWindow(cam, g.scene, g.renderer)
	return nil
}

// Run starts the main game loop.
func (g *Game) Run() error {
	g.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	g.log.Info("starting game loop")

	for g.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// All events of a frame are applied before it is drawn.
		if g.input.Update() {
			g.running = false
			break
		}
		for _, e := range g.input.Events() {
			g.handle(e)
		}
		if g.scene.QuitRequested() {
			g.running = false
			break
		}

		if err := g.view.Frame(dt); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		if g.scene.TakeScreenshotRequest() {
			g.screenshot()
		}

		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			g.log.Debug("fps", zap.Int("count", frameCount), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// handle forwards an event to the view. Resizes go to the renderer in
// framebuffer pixels and to the camera in window coordinates.
func (g *Game) handle(e event.Event) {
	if e.Type != event.TypeResize {
		g.view.Handle(e)
		return
	}
	g.view.Camera().Resize(e.Width, e.Height)
	fbWidth, fbHeight := g.window.DrawableSize()
	g.renderer.Resize(fbWidth, fbHeight)
}

func (g *Game) screenshot() {
	pixels, width, height := g.renderer.ReadPixels()
	if _, err := g.screenshots.CaptureFromPixels(pixels, width, height); err != nil {
		g.log.Warn("screenshot failed", zap.Error(err))
	}
}

// Close cleans up game resources.
func (g *Game) Close() {
	g.log.Info("closing game")

	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
