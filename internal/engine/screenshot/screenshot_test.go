package screenshot

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fixed(c *Capture) {
	c.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }
}

func TestFilename(t *testing.T) {
	c := New("shots", "showroom")
	fixed(c)
	want := filepath.Join("shots", "showroom_2024-05-06_07-08-09.000.png")
	if got := c.Filename(); got != want {
		t.Errorf("Filename() = %q, want %q", got, want)
	}
}

func TestFromPixelsFlipsRows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	c := New(dir, "shot")
	fixed(c)

	// 1x2 image: bottom row red, top row blue in GL order.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := c.FromPixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("FromPixels() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	r, _, b, _ := img.At(0, 0).RGBA()
	if b>>8 != 255 || r != 0 {
		t.Errorf("top pixel = r%d b%d, want blue", r>>8, b>>8)
	}
	r, _, b, _ = img.At(0, 1).RGBA()
	if r>>8 != 255 || b != 0 {
		t.Errorf("bottom pixel = r%d b%d, want red", r>>8, b>>8)
	}
}

func TestFromPixelsSizeMismatch(t *testing.T) {
	c := New(t.TempDir(), "shot")
	if _, err := c.FromPixels(make([]byte, 3), 1, 1); err == nil {
		t.Error("expected size mismatch error")
	}
	if _, err := c.FromPixels(nil, 0, 0); err == nil {
		t.Error("expected error for empty size")
	}
}
