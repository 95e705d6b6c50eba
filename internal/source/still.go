package source

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strconv"
)

// Still is a single decoded image used as a static source.
type Still struct {
	img *image.RGBA
}

// NewStill wraps an already-decoded image.
func NewStill(img image.Image) *Still {
	return &Still{img: toRGBA(img)}
}

// LoadStill decodes a PNG, JPEG or GIF file into a static source.
func LoadStill(path string) (*Still, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return NewStill(img), nil
}

// Frame returns the decoded image.
func (s *Still) Frame() *image.RGBA { return s.img }

// NativeSize returns the decoded dimensions.
func (s *Still) NativeSize() (int, int) {
	return s.img.Rect.Dx(), s.img.Rect.Dy()
}

// Alive always reports true: a decoded file cannot disappear mid-run.
func (s *Still) Alive() bool { return true }

// Close releases nothing; the pixels are plain memory.
func (s *Still) Close() error { return nil }

// Checker builds a synthetic checkerboard still, handy for headless runs and
// tests that need a source without touching the filesystem.
func Checker(w, h, cell int) *Still {
	if cell <= 0 {
		cell = 8
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(0)
			if (x/cell+y/cell)%2 == 0 {
				v = 255
			}
			i := y*img.Stride + x*4
			img.Pix[i+0] = v
			img.Pix[i+1] = v
			img.Pix[i+2] = v
			img.Pix[i+3] = 255
		}
	}
	return &Still{img: img}
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

func init() {
	Register("image", func(cfg map[string]string) (Producer, error) {
		path, ok := cfg["path"]
		if !ok {
			return nil, fmt.Errorf("image source requires path=")
		}
		return LoadStill(path)
	})
	Register("checker", func(cfg map[string]string) (Producer, error) {
		w, h, cell := 256, 256, 16
		if v, ok := cfg["w"]; ok {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				w = parsed
			}
		}
		if v, ok := cfg["h"]; ok {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				h = parsed
			}
		}
		if v, ok := cfg["cell"]; ok {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				cell = parsed
			}
		}
		return Checker(w, h, cell), nil
	})
}
