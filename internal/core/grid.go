package core

// Grid stores one generation of cells as 0/1 values in row-major order.
// Cells outside the bounds count as dead: the board is bounded, not toroidal.
type Grid struct {
	W, H  int
	cells []uint8
}

// NewGrid allocates a cleared grid with the given dimensions.
func NewGrid(w, h int) *Grid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Grid{W: w, H: h, cells: make([]uint8, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid) Cells() []uint8 { return g.cells }

// At reports whether the cell at (x, y) is alive. Out-of-bounds cells are dead.
func (g *Grid) At(x, y int) bool {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return false
	}
	return g.cells[y*g.W+x] != 0
}

// Set writes a single cell, ignoring out-of-bounds coordinates.
func (g *Grid) Set(x, y int, alive bool) {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return
	}
	v := uint8(0)
	if alive {
		v = 1
	}
	g.cells[y*g.W+x] = v
}

// Randomize fills the grid with alive cells at the given density using rng.
func (g *Grid) Randomize(rng *RNG, density float64) {
	for i := range g.cells {
		g.cells[i] = 0
		if rng.Float64() < density {
			g.cells[i] = 1
		}
	}
}

// StepInto computes the next Conway generation of g into dst. The two grids
// must have equal dimensions and must not alias: every cell's next state reads
// only the current generation, so rows are computed in parallel.
func (g *Grid) StepInto(dst *Grid) {
	if dst.W != g.W || dst.H != g.H {
		return
	}
	Rows(g.H, func(y0, y1 int) {
		g.stepRows(dst, y0, y1)
	})
}

func (g *Grid) stepRows(dst *Grid, y0, y1 int) {
	w, h := g.W, g.H
	for y := y0; y < y1; y++ {
		for x := 0; x < w; x++ {
			neighbors := 0
			for dy := -1; dy <= 1; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx := x + dx
					if nx < 0 || nx >= w {
						continue
					}
					neighbors += int(g.cells[ny*w+nx])
				}
			}
			idx := y*w + x
			alive := g.cells[idx] != 0
			dst.cells[idx] = 0
			if (alive && (neighbors == 2 || neighbors == 3)) || (!alive && neighbors == 3) {
				dst.cells[idx] = 1
			}
		}
	}
}
