package core

// Engine owns the depth stacks for one simulation and advances them in lock
// step. NaiveGrayscale runs a single stack at the full depth; RgbChannelBins
// runs three stacks whose depths partition the configured depth (SplitDepth).
type Engine struct {
	w, h  int
	depth int
	mode  LifeMode

	stacks []*DepthStack
	spare  []*Grid // recycled eviction buffers, one slot per channel

	rng *RNG
}

// SeedDensity is the alive fraction used when (re)seeding a channel.
const SeedDensity = 0.28

// NewEngine constructs an engine at the given grid resolution. Depth is
// clamped to the supported range. The engine starts unseeded; call Reseed
// before the first Step.
func NewEngine(w, h, depth int, mode LifeMode, seed int64) *Engine {
	depth = ClampDepth(depth)
	e := &Engine{w: w, h: h, depth: depth, mode: mode, rng: NewRNG(seed)}
	switch mode {
	case RgbChannelBins:
		r, g, b := SplitDepth(depth)
		e.stacks = []*DepthStack{NewDepthStack(r), NewDepthStack(g), NewDepthStack(b)}
	default:
		e.stacks = []*DepthStack{NewDepthStack(depth)}
	}
	e.spare = make([]*Grid, len(e.stacks))
	return e
}

// Size returns the grid resolution.
func (e *Engine) Size() (w, h int) { return e.w, e.h }

// Depth returns the clamped total depth.
func (e *Engine) Depth() int { return e.depth }

// Mode returns the configured life mode.
func (e *Engine) Mode() LifeMode { return e.mode }

// Channels returns the number of independently evolving stacks (1 or 3).
func (e *Engine) Channels() int { return len(e.stacks) }

// Stack returns the depth stack for channel c.
func (e *Engine) Stack(c int) *DepthStack { return e.stacks[c] }

// Reseed discards all history and pushes one freshly randomized generation
// per channel, leaving every stack at length exactly 1.
func (e *Engine) Reseed(seed int64) {
	e.rng = NewRNG(seed)
	for i, s := range e.stacks {
		s.Reset()
		e.spare[i] = nil
		g := NewGrid(e.w, e.h)
		g.Randomize(e.rng, SeedDensity)
		s.Push(g)
	}
}

// Step advances every channel by one generation. masks may be nil, or hold
// one entry per channel (nil entries allowed): when a mask is present its
// plan overrides the evolved cells before the generation is pushed, so the
// newest history layer tracks the external source while older layers keep
// the automaton's trailing history.
func (e *Engine) Step(masks []*Mask) {
	for i, s := range e.stacks {
		cur := s.Top()
		if cur == nil {
			continue
		}
		next := e.spare[i]
		if next == nil || next.W != e.w || next.H != e.h {
			next = NewGrid(e.w, e.h)
		}
		e.spare[i] = nil
		cur.StepInto(next)
		if i < len(masks) && masks[i] != nil {
			masks[i].ApplyTo(next)
		}
		e.spare[i] = s.Push(next)
	}
}
