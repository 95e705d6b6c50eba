package core

import "testing"

func TestSplitDepth(t *testing.T) {
	cases := []struct {
		depth   int
		r, g, b int
	}{
		{3, 1, 1, 1},
		{9, 3, 3, 3},
		{10, 4, 3, 3},
		{11, 4, 4, 3},
		{96, 32, 32, 32},
	}
	for _, c := range cases {
		r, g, b := SplitDepth(c.depth)
		if r != c.r || g != c.g || b != c.b {
			t.Errorf("SplitDepth(%d) = %d,%d,%d want %d,%d,%d", c.depth, r, g, b, c.r, c.g, c.b)
		}
	}
}

func TestClamps(t *testing.T) {
	if got := ClampDepth(1); got != MinDepth {
		t.Errorf("ClampDepth(1) = %d", got)
	}
	if got := ClampDepth(500); got != MaxDepth {
		t.Errorf("ClampDepth(500) = %d", got)
	}
	if got := ClampRows(2); got != MinRows {
		t.Errorf("ClampRows(2) = %d", got)
	}
	if got := ClampHeight(10); got != MinHeight {
		t.Errorf("ClampHeight(10) = %d", got)
	}
	if got := ClampHeight(9999); got != MaxHeight {
		t.Errorf("ClampHeight(9999) = %d", got)
	}
	if got := ClampCols(4); got != MinCols {
		t.Errorf("ClampCols(4) = %d", got)
	}
	if got := SnapFramerate(20); got != 15 {
		t.Errorf("SnapFramerate(20) = %d", got)
	}
	if got := SnapFramerate(40); got != 30 {
		t.Errorf("SnapFramerate(40) = %d", got)
	}
	if got := SnapFramerate(1000); got != 60 {
		t.Errorf("SnapFramerate(1000) = %d", got)
	}
}

func TestEngineDepthClampAndChannels(t *testing.T) {
	e := NewEngine(8, 8, 1, NaiveGrayscale, 1)
	if e.Depth() != MinDepth {
		t.Fatalf("depth = %d, want %d", e.Depth(), MinDepth)
	}
	if e.Channels() != 1 {
		t.Fatalf("channels = %d, want 1", e.Channels())
	}

	e = NewEngine(8, 8, 10, RgbChannelBins, 1)
	if e.Channels() != 3 {
		t.Fatalf("channels = %d, want 3", e.Channels())
	}
	for i, want := range []int{4, 3, 3} {
		if got := e.Stack(i).Depth(); got != want {
			t.Errorf("channel %d stack depth = %d, want %d", i, got, want)
		}
	}
}

func TestReseedLeavesSingleGeneration(t *testing.T) {
	e := NewEngine(16, 16, 6, RgbChannelBins, 9)
	e.Reseed(9)
	for i := 0; i < 10; i++ {
		e.Step(nil)
	}
	e.Reseed(9)
	for c := 0; c < e.Channels(); c++ {
		if got := e.Stack(c).Len(); got != 1 {
			t.Fatalf("channel %d len after reseed = %d, want 1", c, got)
		}
	}
}

func TestReseedIsDeterministic(t *testing.T) {
	a := NewEngine(16, 16, 4, NaiveGrayscale, 77)
	b := NewEngine(16, 16, 4, NaiveGrayscale, 77)
	a.Reseed(77)
	b.Reseed(77)
	ac := a.Stack(0).Top().Cells()
	bc := b.Stack(0).Top().Cells()
	for i := range ac {
		if ac[i] != bc[i] {
			t.Fatalf("seeded grids diverge at %d", i)
		}
	}
}

func TestMaskOverridesEvolution(t *testing.T) {
	e := NewEngine(4, 4, 3, NaiveGrayscale, 3)
	e.Reseed(3)

	mask := NewMask(4, 4)
	for i := range mask.Cells() {
		mask.Cells()[i] = MaskAlive
	}
	e.Step([]*Mask{mask})

	top := e.Stack(0).Top()
	for i, v := range top.Cells() {
		if v != 1 {
			t.Fatalf("cell %d = %d, want forced alive", i, v)
		}
	}
	if e.Stack(0).Len() != 2 {
		t.Fatalf("len = %d, want 2", e.Stack(0).Len())
	}
}

func TestMaskKeepLeavesEvolvedCells(t *testing.T) {
	e := NewEngine(6, 6, 3, NaiveGrayscale, 5)
	e.Reseed(5)

	// Compute the expected autonomous generation by hand.
	expected := NewGrid(6, 6)
	e.Stack(0).Top().StepInto(expected)

	mask := NewMask(6, 6)
	for i := range mask.Cells() {
		mask.Cells()[i] = MaskKeep
	}
	e.Step([]*Mask{mask})

	top := e.Stack(0).Top()
	for i := range top.Cells() {
		if top.Cells()[i] != expected.Cells()[i] {
			t.Fatalf("cell %d overridden despite MaskKeep", i)
		}
	}
}
