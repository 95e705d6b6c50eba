package source

import (
	"image"
	"image/draw"
	"time"

	xdraw "golang.org/x/image/draw"

	"depthlife/internal/core"
	"depthlife/internal/render"
)

// Threshold is the capture window applied when turning composite intensity
// into injection cells: a pixel is alive when its normalized intensity lies
// inside [Min, Max], or outside it when Invert is set.
type Threshold struct {
	Min, Max float64
	Invert   bool
}

// Contains reports whether a normalized intensity passes the window.
func (t Threshold) Contains(v float64) bool {
	in := v >= t.Min && v <= t.Max
	if t.Invert {
		return !in
	}
	return in
}

// Compositor merges the layer stack into one working-resolution buffer and
// derives the injection masks from it. One instance serves one renderer and
// is rebuilt on reconfiguration.
type Compositor struct {
	w, h int
	mode core.LifeMode

	Threshold Threshold
	Noise     float64
	BPM       float64

	seed int64
	tick int64

	acc *image.RGBA
}

// NewCompositor builds a compositor at the working resolution. seed drives
// the per-pixel injection-noise rolls deterministically.
func NewCompositor(w, h int, mode core.LifeMode, seed int64) *Compositor {
	return &Compositor{
		w:         w,
		h:         h,
		mode:      mode,
		Threshold: Threshold{Min: 0.5, Max: 1},
		BPM:       120,
		seed:      seed,
		acc:       image.NewRGBA(image.Rect(0, 0, w, h)),
	}
}

// Size returns the working resolution.
func (c *Compositor) Size() (int, int) { return c.w, c.h }

// Composite walks the layers bottom-up, blending each resampled source onto
// the accumulator, then derives the injection masks (one in grayscale mode,
// three in channel-bin mode). An empty stack yields no composite and no
// injection, regardless of the passthrough toggle.
func (c *Compositor) Composite(layers []*Layer, elapsed time.Duration) (*render.Frame, []*core.Mask) {
	c.tick++
	if len(layers) == 0 {
		return nil, nil
	}
	clearOpaque(c.acc)
	for _, l := range layers {
		renderLayer(c.acc, l, elapsed, c.BPM, 0, 0)
	}
	return render.FromRGBA(c.acc), c.deriveMasks()
}

// deriveMasks thresholds the accumulator into injection plans. Rows run in
// parallel; the noise roll uses a per-row RNG seeded from the tick and row so
// the result does not depend on scheduling order.
func (c *Compositor) deriveMasks() []*core.Mask {
	n := 1
	if c.mode == core.RgbChannelBins {
		n = 3
	}
	masks := make([]*core.Mask, n)
	for i := range masks {
		masks[i] = core.NewMask(c.w, c.h)
	}
	noise := core.Clamp01(c.Noise)
	core.Rows(c.h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			rng := core.NewRNG(c.seed ^ (c.tick << 20) ^ int64(y))
			row := c.acc.Pix[y*c.acc.Stride : y*c.acc.Stride+4*c.w]
			for x := 0; x < c.w; x++ {
				i := x * 4
				r := float64(row[i+0]) / 255
				g := float64(row[i+1]) / 255
				b := float64(row[i+2]) / 255
				idx := y*c.w + x
				suppress := noise > 0 && rng.Float64() < noise
				if n == 1 {
					luma := 0.299*r + 0.587*g + 0.114*b
					masks[0].Cells()[idx] = c.maskCell(luma, suppress)
					continue
				}
				masks[0].Cells()[idx] = c.maskCell(r, suppress)
				masks[1].Cells()[idx] = c.maskCell(g, suppress)
				masks[2].Cells()[idx] = c.maskCell(b, suppress)
			}
		}
	})
	return masks
}

func (c *Compositor) maskCell(intensity float64, suppress bool) uint8 {
	if suppress {
		return core.MaskKeep
	}
	if c.Threshold.Contains(intensity) {
		return core.MaskAlive
	}
	return core.MaskDead
}

// renderLayer resamples one layer per its fit mode, mirror flag and animation
// state, then blends it onto acc with the layer's blend mode and opacity.
// boxW/boxH carry the group bounding box for FitSpan children.
func renderLayer(acc *image.RGBA, l *Layer, elapsed time.Duration, bpm float64, boxW, boxH int) {
	if adv, ok := l.Producer.(Advancer); ok {
		adv.Advance(elapsed, bpm)
	}
	if !l.Producer.Alive() {
		return
	}
	src := l.Producer.Frame()
	if src == nil {
		return
	}
	sw, sh := src.Rect.Dx(), src.Rect.Dy()
	dw, dh := acc.Rect.Dx(), acc.Rect.Dy()
	if sw <= 0 || sh <= 0 {
		return
	}

	alpha := core.Clamp01(l.Opacity)
	var phase float64
	if l.Anim != nil {
		phase = l.Anim.Phase(elapsed, bpm)
	}

	scratch := image.NewRGBA(acc.Rect)
	if l.Fit == FitTile {
		// Tiles repeat at native size; the animation contributes only a
		// drifting origin and the fade multiplier.
		var ox, oy float64
		if l.Anim != nil {
			ox, oy = l.Anim.Offset(phase, dw, dh)
			alpha *= l.Anim.Alpha(phase)
		}
		tileInto(scratch, src, l.Mirror, int(ox), int(oy))
	} else {
		m := fitTransform(l.Fit, sw, sh, dw, dh, boxW, boxH)
		if l.Mirror {
			m = affMirrorX(m, float64(sw))
		}
		if l.Anim != nil {
			var fade float64
			m, fade = l.Anim.Apply(m, phase, dw, dh)
			alpha *= fade
		}
		xdraw.ApproxBiLinear.Transform(scratch, m, src, src.Bounds(), xdraw.Src, nil)
	}
	if alpha <= 0 {
		return
	}
	blendInto(acc, scratch, l.Blend, alpha)
}

// blendInto mixes the resampled layer onto the accumulator. Pixels the
// resample never touched (alpha 0, e.g. letterbox bars) leave the accumulator
// unchanged. Opacity below 1 lerps between the prior value and the blended
// result.
func blendInto(acc, overlay *image.RGBA, mode render.BlendMode, alpha float64) {
	h := acc.Rect.Dy()
	w := acc.Rect.Dx()
	core.Rows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			a := acc.Pix[y*acc.Stride : y*acc.Stride+4*w]
			o := overlay.Pix[y*overlay.Stride : y*overlay.Stride+4*w]
			for x := 0; x < w; x++ {
				i := x * 4
				if o[i+3] == 0 {
					continue
				}
				br := float64(a[i+0]) / 255
				bg := float64(a[i+1]) / 255
				bb := float64(a[i+2]) / 255
				orr := float64(o[i+0]) / 255
				og := float64(o[i+1]) / 255
				ob := float64(o[i+2]) / 255
				r, g, b := render.BlendRGB(br, bg, bb, orr, og, ob, mode, true)
				a[i+0] = byte((br+(r-br)*alpha)*255 + 0.5)
				a[i+1] = byte((bg+(g-bg)*alpha)*255 + 0.5)
				a[i+2] = byte((bb+(b-bb)*alpha)*255 + 0.5)
				a[i+3] = 255
			}
		}
	})
}

// tileInto repeats src at native size across dst, starting from the wrapped
// origin offset.
func tileInto(dst *image.RGBA, src *image.RGBA, mirror bool, ox, oy int) {
	if mirror {
		src = mirrorX(src)
	}
	sw, sh := src.Rect.Dx(), src.Rect.Dy()
	dw, dh := dst.Rect.Dx(), dst.Rect.Dy()
	startX := ((ox%sw)+sw)%sw - sw
	startY := ((oy%sh)+sh)%sh - sh
	for y := startY; y < dh; y += sh {
		for x := startX; x < dw; x += sw {
			draw.Draw(dst, image.Rect(x, y, x+sw, y+sh), src, src.Rect.Min, draw.Src)
		}
	}
}

// mirrorX returns a horizontally flipped copy of src.
func mirrorX(src *image.RGBA) *image.RGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		srow := src.Pix[y*src.Stride : y*src.Stride+4*w]
		drow := out.Pix[y*out.Stride : y*out.Stride+4*w]
		for x := 0; x < w; x++ {
			si := x * 4
			di := (w - 1 - x) * 4
			copy(drow[di:di+4], srow[si:si+4])
		}
	}
	return out
}

// clearOpaque resets a buffer to opaque black.
func clearOpaque(img *image.RGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = 0
		img.Pix[i+1] = 0
		img.Pix[i+2] = 0
		img.Pix[i+3] = 255
	}
}
