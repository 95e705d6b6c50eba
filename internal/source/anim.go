package source

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/image/math/f64"
)

// AnimKind enumerates the per-source animation transforms.
type AnimKind uint8

const (
	AnimZoom AnimKind = iota
	AnimTranslate
	AnimRotate
	AnimFade
	AnimBounce
)

// String returns the lowercase kind name used in source specs.
func (k AnimKind) String() string {
	switch k {
	case AnimZoom:
		return "zoom"
	case AnimTranslate:
		return "translate"
	case AnimRotate:
		return "rotate"
	case AnimFade:
		return "fade"
	case AnimBounce:
		return "bounce"
	}
	return "unknown"
}

// ParseAnimKind maps a kind name to its value.
func ParseAnimKind(s string) (AnimKind, error) {
	for k := AnimZoom; k <= AnimBounce; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return AnimZoom, fmt.Errorf("unknown animation %q", s)
}

// Anim is the tempo-driven transform state of one layer. The phase advances
// with the beat count (elapsed * BPM/60, scaled by Speed) and wraps at
// CycleBeats.
type Anim struct {
	Kind       AnimKind
	CycleBeats float64
	Speed      float64
}

// Phase returns the cycle position in [0, 1).
func (a *Anim) Phase(elapsed time.Duration, bpm float64) float64 {
	if bpm <= 0 {
		bpm = 120
	}
	speed := a.Speed
	if speed == 0 {
		speed = 1
	}
	cycle := a.CycleBeats
	if cycle <= 0 {
		cycle = 4
	}
	beats := elapsed.Seconds() * bpm / 60 * speed
	return math.Mod(beats, cycle) / cycle
}

// Offset returns the translation contribution in destination pixels.
func (a *Anim) Offset(phase float64, dw, dh int) (dx, dy float64) {
	switch a.Kind {
	case AnimTranslate:
		return 0.15 * float64(dw) * math.Sin(2*math.Pi*phase), 0
	case AnimBounce:
		return 0, -0.15 * float64(dh) * math.Abs(math.Sin(math.Pi*phase))
	}
	return 0, 0
}

// Alpha returns the opacity multiplier for the phase (1 unless fading).
func (a *Anim) Alpha(phase float64) float64 {
	if a.Kind != AnimFade {
		return 1
	}
	return 0.5 + 0.5*math.Cos(2*math.Pi*phase)
}

// Apply wraps m with the animation's destination-space transform and returns
// the opacity multiplier alongside.
func (a *Anim) Apply(m f64.Aff3, phase float64, dw, dh int) (f64.Aff3, float64) {
	cx, cy := float64(dw)/2, float64(dh)/2
	switch a.Kind {
	case AnimZoom:
		s := 1 + 0.25*math.Sin(2*math.Pi*phase)
		zoom := f64.Aff3{s, 0, cx - s*cx, 0, s, cy - s*cy}
		return affMul(zoom, m), 1
	case AnimRotate:
		th := 2 * math.Pi * phase
		sin, cos := math.Sin(th), math.Cos(th)
		rot := f64.Aff3{
			cos, -sin, cx - cos*cx + sin*cy,
			sin, cos, cy - sin*cx - cos*cy,
		}
		return affMul(rot, m), 1
	case AnimTranslate, AnimBounce:
		dx, dy := a.Offset(phase, dw, dh)
		return affMul(affTranslate(dx, dy), m), 1
	case AnimFade:
		return m, a.Alpha(phase)
	}
	return m, 1
}
