package app

import (
	"flag"
	"strconv"

	"depthlife/internal/core"
	"depthlife/internal/render"
	"depthlife/internal/source"
)

// Config is the full set of recognized parameters. It is treated as an
// immutable snapshot: the renderer reads one copy per tick and a replacement
// snapshot only takes effect at the next tick boundary.
type Config struct {
	Cols   int     // 0 derives columns from rows and the working aspect
	Rows   int     // grid rows; 0 falls back to Height
	Height int     // requested output height, used when Rows is 0
	Aspect float64 // width/height used under aspect lock or with no sources

	AspectLock bool
	Depth      int
	Mode       core.LifeMode
	Binning    render.BinningMode

	Threshold source.Threshold
	Noise     float64
	BPM       float64

	Passthrough    bool
	CompositeBlend render.BlendMode
	Preserve       bool

	Framerate int
	Seed      int64
	Scale     int
	GPU       bool

	SourceSpecs []string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Rows:           240,
		Aspect:         4.0 / 3.0,
		Depth:          24,
		Mode:           core.NaiveGrayscale,
		Binning:        render.BinFill,
		Threshold:      source.Threshold{Min: 0.5, Max: 1},
		BPM:            120,
		Passthrough:    true,
		CompositeBlend: render.BlendScreen,
		Framerate:      30,
		Seed:           42,
		Scale:          3,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Cols, "cols", c.Cols, "grid columns (0 derives from rows and aspect)")
	fs.IntVar(&c.Rows, "rows", c.Rows, "grid rows")
	fs.IntVar(&c.Height, "height", c.Height, "output height, used when rows is 0")
	fs.Float64Var(&c.Aspect, "aspect", c.Aspect, "fallback aspect ratio (width/height)")
	fs.BoolVar(&c.AspectLock, "aspect-lock", c.AspectLock, "keep the configured aspect instead of the primary source's")
	fs.IntVar(&c.Depth, "depth", c.Depth, "history depth (3-96)")
	fs.Func("mode", "life mode: grayscale or rgb", func(v string) error {
		if v == "rgb" {
			c.Mode = core.RgbChannelBins
		} else {
			c.Mode = core.NaiveGrayscale
		}
		return nil
	})
	fs.Func("binning", "binning mode: fill or binary", func(v string) error {
		m, err := render.ParseBinningMode(v)
		if err != nil {
			return err
		}
		c.Binning = m
		return nil
	})
	fs.Float64Var(&c.Threshold.Min, "tmin", c.Threshold.Min, "capture threshold window minimum")
	fs.Float64Var(&c.Threshold.Max, "tmax", c.Threshold.Max, "capture threshold window maximum")
	fs.BoolVar(&c.Threshold.Invert, "tinvert", c.Threshold.Invert, "invert the capture threshold window")
	fs.Float64Var(&c.Noise, "noise", c.Noise, "injection noise probability (0-1)")
	fs.Float64Var(&c.BPM, "bpm", c.BPM, "tempo driving source animations")
	fs.BoolVar(&c.Passthrough, "passthrough", c.Passthrough, "blend the composited sources under the simulation")
	fs.Func("blend", "composite blend mode", func(v string) error {
		m, err := render.ParseBlendMode(v)
		if err != nil {
			return err
		}
		c.CompositeBlend = m
		return nil
	})
	fs.BoolVar(&c.Preserve, "preserve", c.Preserve, "upsample the result to the primary source's native resolution")
	fs.IntVar(&c.Framerate, "fps", c.Framerate, "simulation rate, snapped to 15/30/60")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for reseeding the simulation")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.BoolVar(&c.GPU, "gpu", c.GPU, "blend the underlay on the GPU")
	fs.Func("source", "source layer spec, repeatable (kind:key=value,...)", func(v string) error {
		c.SourceSpecs = append(c.SourceSpecs, v)
		return nil
	})
}

// BuildStack constructs the layer stack from the bound source specs.
func (c *Config) BuildStack() (*source.Stack, error) {
	stack := source.NewStack()
	for _, spec := range c.SourceSpecs {
		l, err := source.ParseLayer(spec)
		if err != nil {
			return nil, err
		}
		stack.Add(l)
	}
	return stack, nil
}

// normalized returns a copy with every out-of-range value clamped. Clamping
// is silent: a hot reconfigure must never fail a tick.
func (c Config) normalized() Config {
	if c.Rows <= 0 {
		if c.Height > 0 {
			c.Rows = core.ClampHeight(c.Height)
		} else {
			c.Rows = 240
		}
	}
	c.Rows = core.ClampRows(c.Rows)
	if c.Cols > 0 {
		c.Cols = core.ClampCols(c.Cols)
	}
	if c.Aspect <= 0 {
		c.Aspect = 4.0 / 3.0
	}
	c.Depth = core.ClampDepth(c.Depth)
	c.Noise = core.Clamp01(c.Noise)
	c.Threshold.Min = core.Clamp01(c.Threshold.Min)
	c.Threshold.Max = core.Clamp01(c.Threshold.Max)
	if c.BPM <= 0 {
		c.BPM = 120
	}
	c.Framerate = core.SnapFramerate(c.Framerate)
	if c.Scale <= 0 {
		c.Scale = 1
	}
	return c
}

// Label summarizes the life mode, binning and depth for the window title.
func (c Config) Label() string {
	label := "grayscale"
	if c.Mode == core.RgbChannelBins {
		label = "rgb"
	}
	return label + "/" + c.Binning.String() + "/d" + strconv.Itoa(c.Depth)
}
