package app

import (
	"image"
	"testing"
	"time"

	"depthlife/internal/core"
	"depthlife/internal/render"
	"depthlife/internal/source"
)

func whiteLayer(w, h int) *source.Layer {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return &source.Layer{
		Producer: source.NewStill(img),
		Fit:      source.FitStretch,
		Blend:    render.BlendNormal,
		Opacity:  1,
	}
}

func testConfig() Config {
	cfg := *NewConfig()
	cfg.Rows = 12
	cfg.Cols = 32
	cfg.Depth = 4
	cfg.Framerate = 60
	cfg.Passthrough = false
	return cfg
}

func TestAdvanceGrowsHistory(t *testing.T) {
	r := NewRenderer(testConfig(), source.NewStack())
	if got := r.Engine().Stack(0).Len(); got != 1 {
		t.Fatalf("initial len = %d, want 1 (seed frame)", got)
	}
	r.Advance()
	r.Advance()
	if got := r.Engine().Stack(0).Len(); got != 3 {
		t.Fatalf("len after 2 ticks = %d, want 3", got)
	}
	if out := r.Output(); out.W != 32 || out.H != 12 {
		t.Fatalf("output = %dx%d", out.W, out.H)
	}
}

func TestPausedAdvanceDoesNothing(t *testing.T) {
	r := NewRenderer(testConfig(), source.NewStack())
	r.TogglePause()
	r.Advance()
	if got := r.Engine().Stack(0).Len(); got != 1 {
		t.Fatalf("paused tick advanced the simulation: len = %d", got)
	}
}

func TestReconfigureClearsHistory(t *testing.T) {
	r := NewRenderer(testConfig(), source.NewStack())
	for i := 0; i < 6; i++ {
		r.Advance()
	}
	r.TogglePause()

	cfg := r.Config()
	cfg.Rows = 20
	r.SetConfig(cfg)
	r.Advance() // applies the reconfigure at the tick boundary; stays paused

	for c := 0; c < r.Engine().Channels(); c++ {
		if got := r.Engine().Stack(c).Len(); got != 1 {
			t.Fatalf("channel %d len after reconfigure = %d, want 1", c, got)
		}
	}
	if _, h := r.GridSize(); h != 20 {
		t.Fatalf("rows after reconfigure = %d, want 20", h)
	}
	if r.State() != Paused {
		t.Fatal("reconfigure must preserve the paused state")
	}
}

func TestReconfigureAppliesOnlyAtTickBoundary(t *testing.T) {
	r := NewRenderer(testConfig(), source.NewStack())
	cfg := r.Config()
	cfg.Rows = 20
	r.SetConfig(cfg)
	if _, h := r.GridSize(); h != 12 {
		t.Fatal("reconfigure leaked in before the tick boundary")
	}
	r.Advance()
	if _, h := r.GridSize(); h != 20 {
		t.Fatal("reconfigure not applied at the tick boundary")
	}
}

func TestNonStructuralReconfigureKeepsHistory(t *testing.T) {
	r := NewRenderer(testConfig(), source.NewStack())
	r.Advance()
	r.Advance()
	r.Advance() // depth 4: history is full

	cfg := r.Config()
	cfg.Binning = render.BinBinary
	cfg.Passthrough = true
	cfg.Noise = 0.25
	cfg.Framerate = 15
	r.SetConfig(cfg)
	r.Advance()

	if got := r.Engine().Stack(0).Len(); got != 4 {
		t.Fatalf("history after non-structural change: len = %d, want 4", got)
	}
	if r.Config().Binning != render.BinBinary {
		t.Fatal("binning change was not applied")
	}
	if r.Interval() != time.Second/15 {
		t.Fatalf("interval = %v, want %v", r.Interval(), time.Second/15)
	}
}

func TestInjectionTracksSolidSource(t *testing.T) {
	stack := source.NewStack()
	stack.Add(whiteLayer(32, 12))
	cfg := testConfig()
	r := NewRenderer(cfg, stack)
	r.Advance()

	top := r.Engine().Stack(0).Top()
	for i, v := range top.Cells() {
		if v != 1 {
			t.Fatalf("cell %d = %d, want injected alive", i, v)
		}
	}
	if len(r.Masks()) != 1 || r.Composite() == nil {
		t.Fatalf("masks=%d composite=%v", len(r.Masks()), r.Composite())
	}
}

func TestPassthroughBlendsUnderlay(t *testing.T) {
	stack := source.NewStack()
	stack.Add(whiteLayer(32, 12))
	cfg := testConfig()
	cfg.Passthrough = true
	cfg.CompositeBlend = render.BlendNormal
	r := NewRenderer(cfg, stack)
	r.Advance()

	// Normal mode: the simulation color fully replaces the white composite,
	// so the output must equal the sim buffer.
	out := r.Output()
	sim := r.SimFrame()
	if out == sim {
		t.Fatal("passthrough should produce a blended buffer, not the raw sim buffer")
	}
	for i := range out.Pix {
		if out.Pix[i] != sim.Pix[i] {
			t.Fatalf("normal underlay blend diverged at byte %d", i)
		}
	}
}

func TestGpuFlagWithoutShaderBlendsOnCpu(t *testing.T) {
	stack := source.NewStack()
	stack.Add(whiteLayer(32, 12))
	cfg := testConfig()
	cfg.Passthrough = true
	cfg.GPU = true
	cfg.CompositeBlend = render.BlendNormal
	r := NewRenderer(cfg, stack)
	r.Advance()

	// No shader was registered, so the CPU underlay blend must still run.
	out := r.Output()
	sim := r.SimFrame()
	if out == sim {
		t.Fatal("headless gpu run skipped the CPU underlay blend")
	}
	for i := range out.Pix {
		if out.Pix[i] != sim.Pix[i] {
			t.Fatalf("normal underlay blend diverged at byte %d", i)
		}
	}

	// Once a display-time shader takes over, the CPU blend is redundant.
	r.SetGPUBlend(true)
	r.Advance()
	if r.Output() != r.SimFrame() {
		t.Fatal("active shader blend should leave the raw sim buffer as output")
	}
}

func TestEmptyStackDisablesPassthrough(t *testing.T) {
	cfg := testConfig()
	cfg.Passthrough = true
	r := NewRenderer(cfg, source.NewStack())
	r.Advance()
	if r.Composite() != nil {
		t.Fatal("empty stack must not produce a composite")
	}
	if r.Output() != r.SimFrame() {
		t.Fatal("with no composite the raw sim buffer must pass through")
	}
}

func TestPreserveResolutionUpsamples(t *testing.T) {
	stack := source.NewStack()
	stack.Add(whiteLayer(64, 48))
	cfg := testConfig()
	cfg.Cols = 0 // derive from the primary source's aspect
	cfg.Preserve = true
	r := NewRenderer(cfg, stack)
	r.Advance()

	out := r.Output()
	if out.W != 64 || out.H != 48 {
		t.Fatalf("preserved output = %dx%d, want 64x48", out.W, out.H)
	}
}

func TestDeadPrimaryPromotionChangesAspect(t *testing.T) {
	stack := source.NewStack()
	wide := source.NewFeed(480, 120)
	wideLayer := &source.Layer{Producer: wide, Fit: source.FitFill, Blend: render.BlendNormal, Opacity: 1}
	square := source.NewFeed(120, 120)
	squareLayer := &source.Layer{Producer: square, Fit: source.FitFill, Blend: render.BlendNormal, Opacity: 1}
	stack.Add(wideLayer)
	stack.Add(squareLayer)
	stack.MakePrimary(0) // the wide feed governs aspect

	cfg := testConfig()
	cfg.Cols = 0
	r := NewRenderer(cfg, stack)
	if w, _ := r.GridSize(); w != core.DeriveCols(12, 4) {
		t.Fatalf("initial cols = %d", w)
	}

	wide.Close()
	r.Advance()

	if stack.Primary() != squareLayer {
		t.Fatal("dead primary should promote the survivor")
	}
	if w, _ := r.GridSize(); w != core.DeriveCols(12, 1) {
		t.Fatalf("cols after promotion = %d, want %d", w, core.DeriveCols(12, 1))
	}
	for c := 0; c < r.Engine().Channels(); c++ {
		if got := r.Engine().Stack(c).Len(); got > 2 {
			t.Fatalf("history survived the aspect reconfigure: len = %d", got)
		}
	}
}

func TestNormalizedClampsConfig(t *testing.T) {
	cfg := Config{Rows: 1, Cols: 4, Depth: 999, Noise: 7, Framerate: 48, Aspect: -1}
	n := cfg.normalized()
	if n.Rows != core.MinRows || n.Cols != core.MinCols {
		t.Fatalf("rows=%d cols=%d", n.Rows, n.Cols)
	}
	if n.Depth != core.MaxDepth {
		t.Fatalf("depth = %d", n.Depth)
	}
	if n.Noise != 1 {
		t.Fatalf("noise = %v", n.Noise)
	}
	if n.Framerate != 60 {
		t.Fatalf("framerate = %d", n.Framerate)
	}
}
