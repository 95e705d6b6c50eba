package source

import (
	"image"
	"time"
)

// Group composites an ordered sub-stack of layers into one buffer and exposes
// the result to its parent through the ordinary Producer contract, so nesting
// costs the parent nothing. Children are flattened depth-first each tick
// before the parent stack is walked.
type Group struct {
	layers []*Layer
	buf    *image.RGBA
}

// NewGroup builds a group over the given layers, bottom first.
func NewGroup(layers ...*Layer) *Group {
	return &Group{layers: layers}
}

// bounds returns the bounding box across the children's native sizes.
func (g *Group) bounds() (int, int) {
	var w, h int
	for _, l := range g.layers {
		lw, lh := l.Producer.NativeSize()
		if lw > w {
			w = lw
		}
		if lh > h {
			h = lh
		}
	}
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return w, h
}

// Advance flattens the children into the group buffer. Children using FitSpan
// share the group bounding box as their scaling reference.
func (g *Group) Advance(elapsed time.Duration, bpm float64) {
	w, h := g.bounds()
	if g.buf == nil || g.buf.Rect.Dx() != w || g.buf.Rect.Dy() != h {
		g.buf = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	clearOpaque(g.buf)
	for _, l := range g.layers {
		renderLayer(g.buf, l, elapsed, bpm, w, h)
	}
}

// Frame returns the flattened buffer from the last Advance.
func (g *Group) Frame() *image.RGBA { return g.buf }

// NativeSize returns the children's bounding box.
func (g *Group) NativeSize() (int, int) { return g.bounds() }

// Alive reports true while any child is alive.
func (g *Group) Alive() bool {
	for _, l := range g.layers {
		if l.Producer.Alive() {
			return true
		}
	}
	return false
}

// Close closes every child producer.
func (g *Group) Close() error {
	var first error
	for _, l := range g.layers {
		if err := l.Producer.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
