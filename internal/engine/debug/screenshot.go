// Package debug provides frame capture for inspecting the scene.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/tilescene/internal/logger"
)

const timestampLayout = "2006-01-02_15-04-05"

// ScreenshotCapture writes frames to PNG files named <prefix>_<timestamp>.png.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	now       func() time.Time
	log       *zap.Logger
}

// NewScreenshotCapture creates a new screenshot capture handler.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	if prefix == "" {
		prefix = "screenshot"
	}
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
		log:       logger.Named("screenshot"),
	}
}

// OutputDir returns the directory screenshots are written to.
func (sc *ScreenshotCapture) OutputDir() string {
	return sc.outputDir
}

// CaptureFromPixels saves raw RGBA pixels read back from the framebuffer.
// Rows arrive bottom-up, so the image is flipped vertically while copying.
func (sc *ScreenshotCapture) CaptureFromPixels(pixels []byte, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}

	return sc.CaptureFromImage(img)
}

// CaptureFromImage saves an image as-is.
func (sc *ScreenshotCapture) CaptureFromImage(img image.Image) (string, error) {
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := sc.nextFilename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}

	b := img.Bounds()
	sc.log.Info("screenshot saved",
		zap.String("file", filename),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()),
	)
	return filename, nil
}

// GenerateFilename returns the name the next capture would use if no file
// with the same timestamp exists.
func (sc *ScreenshotCapture) GenerateFilename() string {
	return sc.path(fmt.Sprintf("%s_%s.png", sc.prefix, sc.now().Format(timestampLayout)))
}

// nextFilename appends a counter when several captures share a second.
func (sc *ScreenshotCapture) nextFilename() string {
	name := sc.GenerateFilename()
	stamp := sc.now().Format(timestampLayout)
	for i := 1; fileExists(name); i++ {
		name = sc.path(fmt.Sprintf("%s_%s_%d.png", sc.prefix, stamp, i))
	}
	return name
}

func (sc *ScreenshotCapture) path(name string) string {
	if sc.outputDir == "" {
		return name
	}
	return filepath.Join(sc.outputDir, name)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
