package source

import (
	"image"
	"strconv"
	"sync"
)

// Feed receives frames pushed asynchronously by an acquisition collaborator
// (window capture, webcam). The collaborator hands over immutable buffers; a
// tick only ever reads the latest one, it never blocks on the device.
type Feed struct {
	mu    sync.Mutex
	frame *image.RGBA
	w, h  int
	alive bool
}

// NewFeed creates a live feed with the advertised native size.
func NewFeed(w, h int) *Feed {
	return &Feed{w: w, h: h, alive: true}
}

// Push stores the newest frame. The buffer must not be mutated afterwards.
func (f *Feed) Push(img *image.RGBA) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.alive || img == nil {
		return
	}
	f.frame = img
	f.w = img.Rect.Dx()
	f.h = img.Rect.Dy()
}

// Frame returns the most recent pushed frame, or nil before the first push.
func (f *Feed) Frame() *image.RGBA {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frame
}

// NativeSize returns the advertised (or last pushed) dimensions.
func (f *Feed) NativeSize() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.w, f.h
}

// Alive reports whether the collaborator still owns a working device handle.
func (f *Feed) Alive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.alive
}

// Close marks the feed dead so the next tick prunes it from the stack.
func (f *Feed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alive = false
	f.frame = nil
	return nil
}

func init() {
	Register("feed", func(cfg map[string]string) (Producer, error) {
		w, h := 640, 480
		if v, ok := cfg["w"]; ok {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				w = parsed
			}
		}
		if v, ok := cfg["h"]; ok {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				h = parsed
			}
		}
		return NewFeed(w, h), nil
	})
}
