package core

// LifeMode selects how many depth stacks drive the three color channels.
type LifeMode uint8

const (
	// NaiveGrayscale runs one shared depth stack read by all three channels.
	NaiveGrayscale LifeMode = iota
	// RgbChannelBins runs three independent stacks, one per channel, with the
	// configured depth partitioned across them.
	RgbChannelBins
)

// Supported clamping bounds. Out-of-range configuration values are clamped
// silently rather than rejected so a hot reconfigure can never fail a tick.
const (
	MinDepth = 3
	MaxDepth = 96

	MinRows = 9

	MinHeight = 72
	MaxHeight = 2160

	MinCols = 32
	MaxCols = 512
)

// ClampDepth forces depth into [MinDepth, MaxDepth].
func ClampDepth(depth int) int {
	if depth < MinDepth {
		return MinDepth
	}
	if depth > MaxDepth {
		return MaxDepth
	}
	return depth
}

// ClampHeight forces a requested output height into [MinHeight, MaxHeight].
func ClampHeight(h int) int {
	if h < MinHeight {
		return MinHeight
	}
	if h > MaxHeight {
		return MaxHeight
	}
	return h
}

// ClampRows forces a row count to at least MinRows.
func ClampRows(rows int) int {
	if rows < MinRows {
		return MinRows
	}
	return rows
}

// ClampCols forces a column count into [MinCols, MaxCols].
func ClampCols(cols int) int {
	if cols < MinCols {
		return MinCols
	}
	if cols > MaxCols {
		return MaxCols
	}
	return cols
}

// Clamp01 forces a unit-interval parameter into [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SnapFramerate snaps a requested rate to the nearest supported value of
// 15, 30 or 60 frames per second.
func SnapFramerate(fps int) int {
	switch {
	case fps <= 22:
		return 15
	case fps <= 45:
		return 30
	default:
		return 60
	}
}

// DeriveCols computes a column count from a row count and a target aspect
// ratio (width over height), clamped to the supported column range.
func DeriveCols(rows int, aspect float64) int {
	if aspect <= 0 {
		aspect = 1
	}
	return ClampCols(int(float64(rows)*aspect + 0.5))
}

// SplitDepth partitions depth layers across the R, G and B channels for
// RgbChannelBins mode: floor(depth/3) each, with the remainder handed out
// one extra layer first to R, then to G. B never receives a remainder layer.
func SplitDepth(depth int) (r, g, b int) {
	base := depth / 3
	rem := depth % 3
	r, g, b = base, base, base
	if rem >= 1 {
		r++
	}
	if rem >= 2 {
		g++
	}
	return r, g, b
}
