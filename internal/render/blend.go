package render

import "fmt"

// BlendMode selects one of the photometric blend formulas. The numeric values
// are part of the GPU shader contract: the Kage program switches on the same
// selector, so the order here must not change.
type BlendMode uint8

const (
	BlendAdditive BlendMode = iota
	BlendNormal
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendLighten
	BlendDarken
	BlendSubtractive
)

// String returns the lowercase mode name used in flags and source specs.
func (m BlendMode) String() string {
	switch m {
	case BlendAdditive:
		return "additive"
	case BlendNormal:
		return "normal"
	case BlendMultiply:
		return "multiply"
	case BlendScreen:
		return "screen"
	case BlendOverlay:
		return "overlay"
	case BlendLighten:
		return "lighten"
	case BlendDarken:
		return "darken"
	case BlendSubtractive:
		return "subtractive"
	}
	return "unknown"
}

// ParseBlendMode maps a mode name to its selector.
func ParseBlendMode(s string) (BlendMode, error) {
	for m := BlendAdditive; m <= BlendSubtractive; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return BlendNormal, fmt.Errorf("unknown blend mode %q", s)
}

// Blend mixes one normalized [0,1] channel value of overlay onto base.
func Blend(base, overlay float64, mode BlendMode) float64 {
	switch mode {
	case BlendAdditive:
		return saturate(base + overlay)
	case BlendNormal:
		return overlay
	case BlendMultiply:
		return base * overlay
	case BlendScreen:
		return 1 - (1-base)*(1-overlay)
	case BlendOverlay:
		if base < 0.5 {
			return 2 * base * overlay
		}
		return 1 - 2*(1-base)*(1-overlay)
	case BlendLighten:
		if overlay > base {
			return overlay
		}
		return base
	case BlendDarken:
		if overlay < base {
			return overlay
		}
		return base
	case BlendSubtractive:
		return saturate(base - overlay)
	}
	return base
}

// BlendRGB applies Blend component-wise. When useOverlay is false the base
// color passes through unchanged, so call sites can disable blending without
// branching.
func BlendRGB(br, bg, bb, or, og, ob float64, mode BlendMode, useOverlay bool) (r, g, b float64) {
	if !useOverlay {
		return br, bg, bb
	}
	return Blend(br, or, mode), Blend(bg, og, mode), Blend(bb, ob, mode)
}

func saturate(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
