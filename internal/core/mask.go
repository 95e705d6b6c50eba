package core

// Mask cell values. MaskKeep marks pixels whose injection was suppressed by
// the noise roll: those cells keep the autonomously evolved state.
const (
	MaskDead uint8 = iota
	MaskAlive
	MaskKeep
)

// Mask is a per-cell injection plan derived from a composited source frame.
type Mask struct {
	W, H  int
	cells []uint8
}

// NewMask allocates a mask with every cell set to MaskDead.
func NewMask(w, h int) *Mask {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Mask{W: w, H: h, cells: make([]uint8, w*h)}
}

// Cells exposes the backing slice for direct writes during derivation.
func (m *Mask) Cells() []uint8 { return m.cells }

// ApplyTo overwrites g's cells with the mask's plan: MaskAlive and MaskDead
// force the cell state, MaskKeep leaves the evolved value untouched.
func (m *Mask) ApplyTo(g *Grid) {
	if g.W != m.W || g.H != m.H {
		return
	}
	cells := g.Cells()
	for i, v := range m.cells {
		switch v {
		case MaskAlive:
			cells[i] = 1
		case MaskDead:
			cells[i] = 0
		}
	}
}
