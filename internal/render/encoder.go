package render

import (
	"fmt"
	"math"

	"depthlife/internal/core"
)

// BinningMode selects how a channel's history layers collapse into one
// intensity.
type BinningMode uint8

const (
	// BinFill encodes the fraction of history layers alive at a pixel.
	BinFill BinningMode = iota
	// BinBinary treats the layers, newest first, as bits of an unsigned
	// integer (newest = most significant) scaled to 0..255.
	BinBinary
)

// String returns the lowercase policy name used in flags.
func (m BinningMode) String() string {
	if m == BinBinary {
		return "binary"
	}
	return "fill"
}

// ParseBinningMode maps a policy name to its value.
func ParseBinningMode(s string) (BinningMode, error) {
	switch s {
	case "fill":
		return BinFill, nil
	case "binary":
		return BinBinary, nil
	}
	return BinFill, fmt.Errorf("unknown binning mode %q", s)
}

// Encoder converts depth-stack history into per-pixel channel intensities.
type Encoder struct {
	Mode BinningMode
}

// Encode fills dst from the engine's stacks. One stack drives all three
// channels (grayscale); three stacks drive R, G and B independently. Every
// pixel is computed from its own column of history only, so rows run in
// parallel.
func (e *Encoder) Encode(dst *Frame, eng *core.Engine) {
	var rs, gs, bs *core.DepthStack
	if eng.Channels() == 3 {
		rs, gs, bs = eng.Stack(0), eng.Stack(1), eng.Stack(2)
	} else {
		rs, gs, bs = eng.Stack(0), eng.Stack(0), eng.Stack(0)
	}
	w, h := eng.Size()
	if dst.W != w || dst.H != h {
		return
	}
	core.Rows(h, func(y0, y1 int) {
		for i := y0 * w; i < y1*w; i++ {
			base := i * 4
			dst.Pix[base+0] = e.channelIntensity(bs, i)
			if gs == bs {
				dst.Pix[base+1] = dst.Pix[base+0]
			} else {
				dst.Pix[base+1] = e.channelIntensity(gs, i)
			}
			if rs == gs {
				dst.Pix[base+2] = dst.Pix[base+1]
			} else {
				dst.Pix[base+2] = e.channelIntensity(rs, i)
			}
			dst.Pix[base+3] = 255
		}
	})
}

// channelIntensity collapses the history column at linear cell index i.
func (e *Encoder) channelIntensity(s *core.DepthStack, i int) uint8 {
	n := s.Len()
	if n == 0 {
		return 0
	}
	if e.Mode == BinBinary {
		// float64 accumulation: depth may exceed the bits of an integer.
		value := 0.0
		for l := 0; l < n; l++ {
			value *= 2
			if s.At(l).Cells()[i] != 0 {
				value++
			}
		}
		denom := math.Pow(2, float64(n)) - 1
		return uint8(255*value/denom + 0.5)
	}
	count := 0
	for l := 0; l < n; l++ {
		if s.At(l).Cells()[i] != 0 {
			count++
		}
	}
	return uint8((255*count + n/2) / n)
}
