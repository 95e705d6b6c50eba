package core

import "testing"

func step(g *Grid) *Grid {
	next := NewGrid(g.W, g.H)
	g.StepInto(next)
	return next
}

func aliveSet(g *Grid) map[[2]int]bool {
	out := map[[2]int]bool{}
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if g.At(x, y) {
				out[[2]int{x, y}] = true
			}
		}
	}
	return out
}

func expectCells(t *testing.T, g *Grid, expects map[[2]int]bool) {
	t.Helper()
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			alive := g.At(x, y)
			_, shouldBeAlive := expects[[2]int{x, y}]
			if shouldBeAlive != alive {
				t.Fatalf("cell (%d,%d) alive=%v, expected %v", x, y, alive, shouldBeAlive)
			}
		}
	}
}

func TestBlockStillLife(t *testing.T) {
	g := NewGrid(6, 6)
	g.Set(2, 2, true)
	g.Set(3, 2, true)
	g.Set(2, 3, true)
	g.Set(3, 3, true)
	want := aliveSet(g)

	for i := 0; i < 8; i++ {
		g = step(g)
		expectCells(t, g, want)
	}
}

func TestBlinkerOscillation(t *testing.T) {
	g := NewGrid(5, 5)
	g.Set(2, 1, true)
	g.Set(2, 2, true)
	g.Set(2, 3, true)

	g = step(g)
	expectCells(t, g, map[[2]int]bool{
		{1, 2}: true,
		{2, 2}: true,
		{3, 2}: true,
	})

	g = step(g)
	expectCells(t, g, map[[2]int]bool{
		{2, 1}: true,
		{2, 2}: true,
		{2, 3}: true,
	})
}

func TestGliderTranslatesDiagonally(t *testing.T) {
	g := NewGrid(12, 12)
	glider := [][2]int{{2, 1}, {3, 2}, {1, 3}, {2, 3}, {3, 3}}
	for _, c := range glider {
		g.Set(c[0], c[1], true)
	}

	for i := 0; i < 4; i++ {
		g = step(g)
	}

	want := map[[2]int]bool{}
	for _, c := range glider {
		want[[2]int{c[0] + 1, c[1] + 1}] = true
	}
	expectCells(t, g, want)
}

func TestBoundedEdgesCountDead(t *testing.T) {
	// A horizontal blinker on the top row must not wrap: the cell "above" it
	// is out of bounds and dead, so only the center survives and one cell is
	// born below it.
	g := NewGrid(6, 4)
	g.Set(1, 0, true)
	g.Set(2, 0, true)
	g.Set(3, 0, true)

	g = step(g)
	expectCells(t, g, map[[2]int]bool{
		{2, 0}: true,
		{2, 1}: true,
	})
}

func TestStepReadsSnapshotOnly(t *testing.T) {
	// Identical inputs must give identical outputs regardless of worker
	// scheduling: run the same step many times and compare.
	src := NewGrid(64, 64)
	src.Randomize(NewRNG(7), 0.4)
	first := step(src)
	for i := 0; i < 10; i++ {
		again := step(src)
		for idx := range again.Cells() {
			if again.Cells()[idx] != first.Cells()[idx] {
				t.Fatalf("run %d diverged at index %d", i, idx)
			}
		}
	}
}
