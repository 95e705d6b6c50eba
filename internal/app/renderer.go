package app

import (
	"time"

	"depthlife/internal/core"
	"depthlife/internal/render"
	"depthlife/internal/source"
)

// State is the renderer's run state.
type State uint8

const (
	Running State = iota
	Paused
)

// Renderer drives one tick of the whole pipeline: composite the source stack,
// step and inject the simulation, encode the history into color, blend the
// composite underneath, and optionally upsample to the primary source's
// native resolution. It owns the engine and compositor exclusively; parallel
// workers are spawned and joined inside a single Advance call, never across
// ticks.
type Renderer struct {
	cfg      Config
	pending  *Config
	state    State
	gpuBlend bool

	stack  *source.Stack
	engine *core.Engine
	comp   *source.Compositor
	enc    render.Encoder

	simBuf   *render.Frame
	blendBuf *render.Frame
	upBuf    *render.Frame
	out      *render.Frame

	composite *render.Frame
	masks     []*core.Mask

	ticks    int64
	interval time.Duration
}

// NewRenderer builds a renderer over the given layer stack.
func NewRenderer(cfg Config, stack *source.Stack) *Renderer {
	r := &Renderer{stack: stack}
	r.cfg = cfg.normalized()
	r.rebuild()
	return r
}

// Config returns the active configuration snapshot.
func (r *Renderer) Config() Config { return r.cfg }

// SetConfig queues a replacement snapshot. It is applied at the next tick
// boundary so no tick ever sees a partially updated configuration or buffers
// of two different resolutions.
func (r *Renderer) SetConfig(cfg Config) {
	norm := cfg.normalized()
	r.pending = &norm
}

// State reports whether the renderer is running or paused.
func (r *Renderer) State() State { return r.state }

// SetGPUBlend tells the renderer a display-time blend shader is active, so
// the CPU underlay blend is redundant. Headless runs never call this: asking
// for GPU blending without a shader still yields blended output.
func (r *Renderer) SetGPUBlend(active bool) { r.gpuBlend = active }

// TogglePause flips between Running and Paused.
func (r *Renderer) TogglePause() {
	if r.state == Running {
		r.state = Paused
	} else {
		r.state = Running
	}
}

// Engine exposes the simulation engine (read-only use by overlays and tests).
func (r *Renderer) Engine() *core.Engine { return r.engine }

// Output returns the finished BGRA buffer from the last completed tick.
func (r *Renderer) Output() *render.Frame { return r.out }

// SimFrame returns the simulation color buffer before underlay blending, for
// the GPU blend path which composes the two buffers in a shader instead.
func (r *Renderer) SimFrame() *render.Frame { return r.simBuf }

// Composite returns the last source composite, or nil when the stack was
// empty.
func (r *Renderer) Composite() *render.Frame { return r.composite }

// Masks returns the last derived injection masks for debug overlays.
func (r *Renderer) Masks() []*core.Mask { return r.masks }

// GridSize returns the working resolution.
func (r *Renderer) GridSize() (int, int) { return r.engine.Size() }

// Interval returns the duration of one simulation tick.
func (r *Renderer) Interval() time.Duration { return r.interval }

// workingAspect picks the aspect ratio governing the column count: the
// primary source's native aspect unless aspect lock is on or no source is
// alive, in which case the configured fallback applies.
func (r *Renderer) workingAspect(cfg Config) float64 {
	if !cfg.AspectLock {
		if primary := r.stack.Primary(); primary != nil {
			if w, h := primary.Producer.NativeSize(); w > 0 && h > 0 {
				return float64(w) / float64(h)
			}
		}
	}
	return cfg.Aspect
}

// targetCols resolves the column count a configuration implies right now.
func (r *Renderer) targetCols(cfg Config) int {
	if cfg.Cols > 0 {
		return cfg.Cols
	}
	return core.DeriveCols(cfg.Rows, r.workingAspect(cfg))
}

// rebuild discards all history and reconstructs the engine, compositor and
// buffers at the current configuration's resolution, then reseeds. The run
// state survives the rebuild.
func (r *Renderer) rebuild() {
	rows := r.cfg.Rows
	cols := r.targetCols(r.cfg)
	r.engine = core.NewEngine(cols, rows, r.cfg.Depth, r.cfg.Mode, r.cfg.Seed)
	r.engine.Reseed(r.cfg.Seed)
	r.comp = source.NewCompositor(cols, rows, r.cfg.Mode, r.cfg.Seed+1)
	r.comp.Threshold = r.cfg.Threshold
	r.comp.Noise = r.cfg.Noise
	r.comp.BPM = r.cfg.BPM
	r.enc = render.Encoder{Mode: r.cfg.Binning}
	r.simBuf = render.NewFrame(cols, rows)
	r.blendBuf = render.NewFrame(cols, rows)
	r.upBuf = nil
	r.out = r.simBuf
	r.composite = nil
	r.masks = nil
	r.interval = time.Second / time.Duration(r.cfg.Framerate)
}

// Reseed restarts the simulation from the given seed without touching the
// rest of the configuration.
func (r *Renderer) Reseed(seed int64) {
	r.cfg.Seed = seed
	r.rebuild()
}

// Advance runs one tick. Pending reconfiguration is applied first, at the
// tick boundary; while paused only the reconfiguration is applied.
func (r *Renderer) Advance() {
	if r.pending != nil {
		r.applyConfig(*r.pending)
		r.pending = nil
	}
	if r.state != Running {
		return
	}
	r.Step()
}

// applyConfig installs a new snapshot. Only structural changes (resolution,
// depth, mode, seed) discard history and rebuild; everything else is updated
// in place so the visualization keeps running across the change.
func (r *Renderer) applyConfig(cfg Config) {
	w, h := r.engine.Size()
	structural := r.targetCols(cfg) != w || cfg.Rows != h ||
		cfg.Depth != r.cfg.Depth || cfg.Mode != r.cfg.Mode || cfg.Seed != r.cfg.Seed
	r.cfg = cfg
	if structural {
		r.rebuild()
		return
	}
	r.enc.Mode = cfg.Binning
	r.comp.Threshold = cfg.Threshold
	r.comp.Noise = cfg.Noise
	r.comp.BPM = cfg.BPM
	r.interval = time.Second / time.Duration(cfg.Framerate)
}

// Step executes a single tick unconditionally (used for single-stepping
// while paused).
func (r *Renderer) Step() {
	if r.stack.PruneDead() {
		// A dead source changed the stack; the promoted primary may imply a
		// different working aspect, which is a resolution change.
		r.reconcileAspect()
	}
	r.ticks++
	elapsed := time.Duration(r.ticks) * r.interval

	layers := r.stack.Snapshot()
	r.composite, r.masks = r.comp.Composite(layers, elapsed)

	r.engine.Step(r.masks)
	r.enc.Encode(r.simBuf, r.engine)

	out := r.simBuf
	if r.cfg.Passthrough && !r.gpuBlend && r.composite != nil {
		// Composite is the base, simulation color the overlay. A dimension
		// mismatch (mid-resize race) skips the blend for this tick.
		if render.BlendFrames(r.blendBuf, r.composite, r.simBuf, r.cfg.CompositeBlend, true) {
			out = r.blendBuf
		}
	}

	if r.cfg.Preserve {
		if primary := r.stack.Primary(); primary != nil {
			pw, ph := primary.Producer.NativeSize()
			if pw > 0 && ph > 0 && (pw != out.W || ph != out.H) {
				if r.upBuf == nil || r.upBuf.W != pw || r.upBuf.H != ph {
					r.upBuf = render.NewFrame(pw, ph)
				}
				render.Upsample(r.upBuf, out)
				out = r.upBuf
			}
		}
	}
	r.out = out
}

// reconcileAspect rebuilds when the promoted primary implies a new column
// count. Rebuilding clears history and reseeds, as any resolution change does.
func (r *Renderer) reconcileAspect() {
	if r.cfg.Cols > 0 {
		return
	}
	if w, _ := r.engine.Size(); r.targetCols(r.cfg) != w {
		r.rebuild()
	}
}
