package render

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"depthlife/internal/core"
)

// Frame is a BGRA pixel buffer in row-major order, 4 bytes per pixel.
// Byte offsets within a pixel are 0=B, 1=G, 2=R, 3=A.
type Frame struct {
	W, H int
	Pix  []byte
}

// NewFrame allocates a zeroed frame.
func NewFrame(w, h int) *Frame {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Frame{W: w, H: h, Pix: make([]byte, 4*w*h)}
}

// FromRGBA swizzles an RGBA image into a BGRA frame, rows in parallel.
func FromRGBA(img *image.RGBA) *Frame {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	f := NewFrame(w, h)
	core.Rows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			src := img.Pix[y*img.Stride : y*img.Stride+4*w]
			dst := f.Pix[y*4*w : (y+1)*4*w]
			for x := 0; x < w; x++ {
				i := x * 4
				dst[i+0] = src[i+2]
				dst[i+1] = src[i+1]
				dst[i+2] = src[i+0]
				dst[i+3] = src[i+3]
			}
		}
	})
	return f
}

// ToRGBA swizzles the frame back into an RGBA image, rows in parallel.
func (f *Frame) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.W, f.H))
	core.Rows(f.H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			src := f.Pix[y*4*f.W : (y+1)*4*f.W]
			dst := img.Pix[y*img.Stride : y*img.Stride+4*f.W]
			for x := 0; x < f.W; x++ {
				i := x * 4
				dst[i+0] = src[i+2]
				dst[i+1] = src[i+1]
				dst[i+2] = src[i+0]
				dst[i+3] = src[i+3]
			}
		}
	})
	return img
}

// BlendFrames writes Blend(base, overlay) into dst under the given mode. All
// three frames must share dimensions; mismatches leave dst untouched and
// report false so callers can fall back to the unblended buffer.
func BlendFrames(dst, base, overlay *Frame, mode BlendMode, useOverlay bool) bool {
	if base.W != overlay.W || base.H != overlay.H || dst.W != base.W || dst.H != base.H {
		return false
	}
	core.Rows(base.H, func(y0, y1 int) {
		for i := y0 * 4 * base.W; i < y1*4*base.W; i += 4 {
			bb := float64(base.Pix[i+0]) / 255
			bg := float64(base.Pix[i+1]) / 255
			br := float64(base.Pix[i+2]) / 255
			ob := float64(overlay.Pix[i+0]) / 255
			og := float64(overlay.Pix[i+1]) / 255
			orr := float64(overlay.Pix[i+2]) / 255
			r, g, b := BlendRGB(br, bg, bb, orr, og, ob, mode, useOverlay)
			dst.Pix[i+0] = byte(b*255 + 0.5)
			dst.Pix[i+1] = byte(g*255 + 0.5)
			dst.Pix[i+2] = byte(r*255 + 0.5)
			dst.Pix[i+3] = 255
		}
	})
	return true
}

// Upsample bilinearly resamples src into dst. Used by the preserve-resolution
// path to lift the grid-resolution result to the primary source's native size.
func Upsample(dst, src *Frame) {
	si := src.ToRGBA()
	di := image.NewRGBA(image.Rect(0, 0, dst.W, dst.H))
	xdraw.BiLinear.Scale(di, di.Bounds(), si, si.Bounds(), xdraw.Src, nil)
	core.Rows(dst.H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			s := di.Pix[y*di.Stride : y*di.Stride+4*dst.W]
			d := dst.Pix[y*4*dst.W : (y+1)*4*dst.W]
			for x := 0; x < dst.W; x++ {
				i := x * 4
				d[i+0] = s[i+2]
				d[i+1] = s[i+1]
				d[i+2] = s[i+0]
				d[i+3] = s[i+3]
			}
		}
	})
}
