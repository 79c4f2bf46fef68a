// Package screenshot writes framebuffer captures as PNG files.
package screenshot

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/logger"
)

// Capture names and writes screenshot files.
type Capture struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// New creates a capture writing <prefix>_<timestamp>.png files into outputDir.
func New(outputDir, prefix string) *Capture {
	return &Capture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// FromPixels saves raw RGBA pixel data read from OpenGL.
// The image is flipped vertically since OpenGL has origin at bottom-left.
func (c *Capture) FromPixels(pixels []byte, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid screenshot size %dx%d", width, height)
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
	return c.FromImage(img)
}

// FromImage saves an image.
func (c *Capture) FromImage(img image.Image) (string, error) {
	if c.outputDir != "" {
		if err := os.MkdirAll(c.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := c.Filename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}

	logger.Info("screenshot saved", zap.String("path", filename))
	return filename, nil
}

// Filename returns the name the next capture would be written to.
func (c *Capture) Filename() string {
	timestamp := c.now().Format("2006-01-02_15-04-05.000")
	filename := fmt.Sprintf("%s_%s.png", c.prefix, timestamp)
	if c.outputDir != "" {
		filename = filepath.Join(c.outputDir, filename)
	}
	return filename
}
