package source

import (
	"fmt"

	"golang.org/x/image/math/f64"
)

// FitMode controls how a source's native buffer maps into working-resolution
// coordinates.
type FitMode uint8

const (
	// FitFill scales to cover the destination, cropping the overflow.
	FitFill FitMode = iota
	// FitFit scales to fit inside the destination, letterboxing the rest.
	FitFit
	// FitStretch scales each axis independently, ignoring aspect.
	FitStretch
	// FitCenter places the source at native size, uncropped and unscaled.
	FitCenter
	// FitTile repeats the source at native size across the destination.
	FitTile
	// FitSpan applies contain scaling against a multi-source group bounding
	// box, so every member of the group shares one uniform scale factor.
	FitSpan
)

// String returns the lowercase mode name used in flags and source specs.
func (m FitMode) String() string {
	switch m {
	case FitFill:
		return "fill"
	case FitFit:
		return "fit"
	case FitStretch:
		return "stretch"
	case FitCenter:
		return "center"
	case FitTile:
		return "tile"
	case FitSpan:
		return "span"
	}
	return "unknown"
}

// ParseFitMode maps a mode name to its value.
func ParseFitMode(s string) (FitMode, error) {
	for m := FitFill; m <= FitSpan; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return FitFill, fmt.Errorf("unknown fit mode %q", s)
}

// fitTransform returns the source-to-destination affine for the given mode.
// boxW/boxH carry the group bounding box for FitSpan and are ignored
// otherwise; a zero box degrades FitSpan to FitFit. FitTile is resolved by
// the tiling loop, not by a single affine.
func fitTransform(mode FitMode, sw, sh, dw, dh, boxW, boxH int) f64.Aff3 {
	fsw, fsh := float64(sw), float64(sh)
	fdw, fdh := float64(dw), float64(dh)
	switch mode {
	case FitStretch:
		return f64.Aff3{fdw / fsw, 0, 0, 0, fdh / fsh, 0}
	case FitCenter:
		return affTranslate((fdw-fsw)/2, (fdh-fsh)/2)
	case FitFill:
		s := fdw / fsw
		if fdh/fsh > s {
			s = fdh / fsh
		}
		return affScaleCentered(s, fsw, fsh, fdw, fdh)
	case FitSpan:
		if boxW > 0 && boxH > 0 {
			s := fdw / float64(boxW)
			if fdh/float64(boxH) < s {
				s = fdh / float64(boxH)
			}
			return affScaleCentered(s, fsw, fsh, fdw, fdh)
		}
		fallthrough
	default: // FitFit
		s := fdw / fsw
		if fdh/fsh < s {
			s = fdh / fsh
		}
		return affScaleCentered(s, fsw, fsh, fdw, fdh)
	}
}

// affScaleCentered scales the source uniformly by s and centers it in the
// destination.
func affScaleCentered(s, sw, sh, dw, dh float64) f64.Aff3 {
	return f64.Aff3{s, 0, (dw - sw*s) / 2, 0, s, (dh - sh*s) / 2}
}

func affTranslate(tx, ty float64) f64.Aff3 {
	return f64.Aff3{1, 0, tx, 0, 1, ty}
}

// affMul composes two affines: the result applies b first, then a.
func affMul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3],
		a[0]*b[1] + a[1]*b[4],
		a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3],
		a[3]*b[1] + a[4]*b[4],
		a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

// affMirrorX flips the source horizontally before the rest of the transform.
func affMirrorX(m f64.Aff3, sw float64) f64.Aff3 {
	return affMul(m, f64.Aff3{-1, 0, sw, 0, 1, 0})
}
