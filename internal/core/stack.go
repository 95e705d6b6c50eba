package core

// DepthStack holds a bounded history of generations for one simulation
// channel. Index 0 is always the most recently produced grid; pushing beyond
// the depth evicts the oldest entry.
type DepthStack struct {
	depth  int
	frames []*Grid
}

// NewDepthStack constructs an empty stack bounded to depth entries. Depth
// smaller than 1 is treated as 1; the engine clamps user-facing depth before
// splitting it across channels.
func NewDepthStack(depth int) *DepthStack {
	if depth < 1 {
		depth = 1
	}
	return &DepthStack{depth: depth, frames: make([]*Grid, 0, depth)}
}

// Depth returns the bound on the stack length.
func (s *DepthStack) Depth() int { return s.depth }

// Len returns the number of generations currently held.
func (s *DepthStack) Len() int { return len(s.frames) }

// At returns the grid at history index i (0 = newest).
func (s *DepthStack) At(i int) *Grid { return s.frames[i] }

// Top returns the newest grid, or nil when the stack is empty.
func (s *DepthStack) Top() *Grid {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[0]
}

// Push prepends g as the newest generation. When the stack is full the oldest
// grid is evicted and returned so the caller can recycle its buffer; otherwise
// Push returns nil.
func (s *DepthStack) Push(g *Grid) *Grid {
	var evicted *Grid
	if len(s.frames) == s.depth {
		evicted = s.frames[len(s.frames)-1]
		copy(s.frames[1:], s.frames[:len(s.frames)-1])
		s.frames[0] = g
		return evicted
	}
	s.frames = append(s.frames, nil)
	copy(s.frames[1:], s.frames[:len(s.frames)-1])
	s.frames[0] = g
	return nil
}

// Reset drops all history.
func (s *DepthStack) Reset() {
	s.frames = s.frames[:0]
}
