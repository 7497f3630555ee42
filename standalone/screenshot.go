package standalone

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/user-none/ravenui/standalone/storage"
	xdraw "golang.org/x/image/draw"
)

// scaleFrame builds an image from RGBA pixels, enlarged by an integer
// factor with nearest-neighbour sampling so device pixels stay sharp.
func scaleFrame(pixels []byte, width, height, scale int) *image.RGBA {
	src := &image.RGBA{
		Pix:    pixels,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	if scale <= 1 {
		dst := image.NewRGBA(src.Rect)
		copy(dst.Pix, src.Pix)
		return dst
	}
	dst := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// ScreenshotManager saves the presented frame as PNG files
type ScreenshotManager struct {
	romName string
	scale   int
	now     func() time.Time
}

// NewScreenshotManager creates a screenshot manager for one ROM
func NewScreenshotManager(romName string, scale int) *ScreenshotManager {
	return &ScreenshotManager{romName: romName, scale: scale, now: time.Now}
}

// TakeScreenshot writes the frame to screenshots/<rom>/<unix>.png and
// returns the file path.
func (m *ScreenshotManager) TakeScreenshot(pixels []byte, width, height int) (string, error) {
	if width == 0 || height == 0 || len(pixels) < width*height*4 {
		return "", fmt.Errorf("no frame to capture")
	}

	dir, err := storage.GetROMScreenshotDir(m.romName)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	fullPath := filepath.Join(dir, strconv.FormatInt(m.now().Unix(), 10)+".png")
	f, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create screenshot file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, scaleFrame(pixels, width, height, m.scale)); err != nil {
		return "", fmt.Errorf("failed to encode screenshot: %w", err)
	}

	return fullPath, nil
}
