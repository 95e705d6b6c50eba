package source

import (
	"fmt"
	"image"
	"strconv"
	"strings"
	"sync"
	"time"

	"depthlife/internal/render"
)

// Producer is the capability contract every compositing source satisfies:
// hand out the latest frame, report the native size, report liveness.
// Producers that hold device or decoder handles release them in Close.
type Producer interface {
	Frame() *image.RGBA
	NativeSize() (w, h int)
	Alive() bool
	Close() error
}

// Advancer is implemented by producers with time-dependent content (clips,
// sequences, nested groups). The compositor calls it once per tick before
// reading the frame.
type Advancer interface {
	Advance(elapsed time.Duration, bpm float64)
}

// Factory constructs a Producer from flag-style key/value options.
type Factory func(cfg map[string]string) (Producer, error)

var producers = map[string]Factory{}

// Register adds a producer factory under the provided kind name.
func Register(kind string, f Factory) {
	if kind == "" || f == nil {
		return
	}
	producers[kind] = f
}

// Producers exposes the registry of available producer factories.
func Producers() map[string]Factory {
	return producers
}

// Layer couples a producer with its per-source compositing parameters.
type Layer struct {
	Producer Producer
	Fit      FitMode
	Blend    render.BlendMode
	Opacity  float64
	Mirror   bool
	Anim     *Anim
}

// ParseLayer builds a layer from a "kind:key=value,..." description, e.g.
// "image:path=bg.png,fit=fill,blend=screen,opacity=0.8,mirror=1,anim=zoom".
func ParseLayer(desc string) (*Layer, error) {
	kind, rest, _ := strings.Cut(desc, ":")
	factory, ok := producers[kind]
	if !ok {
		return nil, fmt.Errorf("unknown source kind %q", kind)
	}
	cfg := map[string]string{}
	if rest != "" {
		for _, pair := range strings.Split(rest, ",") {
			k, v, found := strings.Cut(pair, "=")
			if !found {
				return nil, fmt.Errorf("malformed option %q in source %q", pair, desc)
			}
			cfg[k] = v
		}
	}

	l := &Layer{Fit: FitFill, Blend: render.BlendNormal, Opacity: 1}
	var err error
	if v, ok := cfg["fit"]; ok {
		if l.Fit, err = ParseFitMode(v); err != nil {
			return nil, err
		}
	}
	if v, ok := cfg["blend"]; ok {
		if l.Blend, err = render.ParseBlendMode(v); err != nil {
			return nil, err
		}
	}
	if v, ok := cfg["opacity"]; ok {
		if l.Opacity, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("bad opacity %q: %w", v, err)
		}
	}
	if v, ok := cfg["mirror"]; ok {
		l.Mirror = v == "1" || v == "true"
	}
	if v, ok := cfg["anim"]; ok {
		kind, err := ParseAnimKind(v)
		if err != nil {
			return nil, err
		}
		a := &Anim{Kind: kind, CycleBeats: 4, Speed: 1}
		if c, ok := cfg["cycle"]; ok {
			if a.CycleBeats, err = strconv.ParseFloat(c, 64); err != nil {
				return nil, fmt.Errorf("bad cycle %q: %w", c, err)
			}
		}
		if s, ok := cfg["speed"]; ok {
			if a.Speed, err = strconv.ParseFloat(s, 64); err != nil {
				return nil, fmt.Errorf("bad speed %q: %w", s, err)
			}
		}
		l.Anim = a
	}
	if l.Producer, err = factory(cfg); err != nil {
		return nil, err
	}
	return l, nil
}

// Stack is the ordered layer list, index 0 at the bottom. User actions mutate
// it from the UI thread while the compositor reads a snapshot at each tick
// boundary, so every accessor holds the lock for the duration of iteration.
type Stack struct {
	mu      sync.Mutex
	layers  []*Layer
	primary int
}

// NewStack returns an empty stack.
func NewStack() *Stack { return &Stack{} }

// Len reports the number of layers.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.layers)
}

// Add appends l on top of the stack and makes it primary.
func (s *Stack) Add(l *Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers = append(s.layers, l)
	s.primary = len(s.layers) - 1
}

// Remove deletes the layer at index i, closing its producer. The primary
// index is adjusted so the next layer in stack order takes over.
func (s *Stack) Remove(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(i)
}

func (s *Stack) removeLocked(i int) {
	if i < 0 || i >= len(s.layers) {
		return
	}
	s.layers[i].Producer.Close()
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	switch {
	case len(s.layers) == 0:
		s.primary = 0
	case s.primary > i:
		s.primary--
	case s.primary >= len(s.layers):
		s.primary = len(s.layers) - 1
	}
}

// Move reorders the layer at index from to index to.
func (s *Stack) Move(from, to int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if from < 0 || from >= len(s.layers) || to < 0 || to >= len(s.layers) || from == to {
		return
	}
	l := s.layers[from]
	primaryLayer := s.layers[s.primary]
	s.layers = append(s.layers[:from], s.layers[from+1:]...)
	s.layers = append(s.layers[:to], append([]*Layer{l}, s.layers[to:]...)...)
	for i, candidate := range s.layers {
		if candidate == primaryLayer {
			s.primary = i
			break
		}
	}
}

// MakePrimary marks the layer at index i as the aspect-governing source.
func (s *Stack) MakePrimary(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i >= 0 && i < len(s.layers) {
		s.primary = i
	}
}

// Primary returns the aspect-governing layer, or nil when the stack is empty.
func (s *Stack) Primary() *Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.layers) == 0 {
		return nil
	}
	return s.layers[s.primary]
}

// Snapshot returns a copy of the layer ordering for one compositing pass.
func (s *Stack) Snapshot() []*Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

// PruneDead removes layers whose producers report dead and reports whether
// anything changed, so the renderer can recompute the working aspect ratio.
func (s *Stack) PruneDead() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for i := len(s.layers) - 1; i >= 0; i-- {
		if !s.layers[i].Producer.Alive() {
			s.removeLocked(i)
			changed = true
		}
	}
	return changed
}
