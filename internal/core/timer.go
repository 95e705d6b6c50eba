package core

import "time"

// FixedStep helps run simulation updates at a steady frames-per-second rate
// inside a faster display loop. Rates are snapped to the supported set.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given FPS.
func NewFixedStep(fps int) *FixedStep {
	fs := &FixedStep{}
	fs.SetFPS(fps)
	fs.accumulator = fs.step
	return fs
}

// SetFPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetFPS(fps int) {
	f.step = time.Second / time.Duration(SnapFramerate(fps))
}

// Interval returns the duration of one simulation tick.
func (f *FixedStep) Interval() time.Duration { return f.step }

// ShouldStep reports whether the simulation should advance by one tick.
func (f *FixedStep) ShouldStep() bool {
	now := time.Now()
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}
