package source

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
)

// Clip plays an animated GIF on loop, advancing with the tick clock.
type Clip struct {
	frames []*image.RGBA
	delays []time.Duration
	total  time.Duration
	cur    int
}

// LoadClip decodes every frame of an animated GIF. Frames are pre-composited
// so Frame always returns a full image.
func LoadClip(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	c, err := newClip(g)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return c, nil
}

// newClip pre-composites a decoded GIF, honoring each frame's disposal
// method: background disposal clears the frame rectangle before the next
// frame, previous disposal restores the canvas as it was before the frame.
func newClip(g *gif.GIF) (*Clip, error) {
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("no frames")
	}
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	c := &Clip{}
	canvas := image.NewRGBA(bounds)
	for i, frame := range g.Image {
		disposal := byte(gif.DisposalNone)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		var prev []uint8
		if disposal == gif.DisposalPrevious {
			prev = append([]uint8(nil), canvas.Pix...)
		}
		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		snapshot := image.NewRGBA(bounds)
		copy(snapshot.Pix, canvas.Pix)
		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			copy(canvas.Pix, prev)
		}
		delay := time.Duration(g.Delay[i]) * 10 * time.Millisecond
		if delay <= 0 {
			delay = 100 * time.Millisecond
		}
		c.frames = append(c.frames, snapshot)
		c.delays = append(c.delays, delay)
		c.total += delay
	}
	return c, nil
}

// Advance selects the frame the elapsed clock falls into.
func (c *Clip) Advance(elapsed time.Duration, bpm float64) {
	pos := elapsed % c.total
	for i, d := range c.delays {
		if pos < d {
			c.cur = i
			return
		}
		pos -= d
	}
	c.cur = len(c.frames) - 1
}

// Frame returns the current frame.
func (c *Clip) Frame() *image.RGBA { return c.frames[c.cur] }

// NativeSize returns the GIF canvas dimensions.
func (c *Clip) NativeSize() (int, int) {
	b := c.frames[0].Rect
	return b.Dx(), b.Dy()
}

// Alive always reports true once decoded.
func (c *Clip) Alive() bool { return true }

// Close releases nothing; all frames are decoded up front.
func (c *Clip) Close() error { return nil }

// Sequence plays an ordered list of image files at a fixed rate, the
// file-based stand-in for a video decoder.
type Sequence struct {
	frames []*image.RGBA
	fps    float64
	cur    int
}

// LoadSequence decodes the listed image files concurrently, preserving order.
func LoadSequence(paths []string, fps float64) (*Sequence, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("sequence requires at least one frame")
	}
	if fps <= 0 {
		fps = 15
	}
	frames := make([]*image.RGBA, len(paths))
	var eg errgroup.Group
	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			still, err := LoadStill(path)
			if err != nil {
				return err
			}
			frames[i] = still.Frame()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &Sequence{frames: frames, fps: fps}, nil
}

// Advance selects the frame for the elapsed clock, looping at the end.
func (s *Sequence) Advance(elapsed time.Duration, bpm float64) {
	s.cur = int(elapsed.Seconds()*s.fps) % len(s.frames)
}

// Frame returns the current frame.
func (s *Sequence) Frame() *image.RGBA { return s.frames[s.cur] }

// NativeSize returns the first frame's dimensions.
func (s *Sequence) NativeSize() (int, int) {
	b := s.frames[0].Rect
	return b.Dx(), b.Dy()
}

// Alive always reports true once decoded.
func (s *Sequence) Alive() bool { return true }

// Close releases nothing; all frames are decoded up front.
func (s *Sequence) Close() error { return nil }

func init() {
	Register("gif", func(cfg map[string]string) (Producer, error) {
		path, ok := cfg["path"]
		if !ok {
			return nil, fmt.Errorf("gif source requires path=")
		}
		return LoadClip(path)
	})
	Register("sequence", func(cfg map[string]string) (Producer, error) {
		pattern, ok := cfg["glob"]
		if !ok {
			return nil, fmt.Errorf("sequence source requires glob=")
		}
		paths, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		sort.Strings(paths)
		fps := 15.0
		if v, ok := cfg["fps"]; ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
				fps = parsed
			}
		}
		return LoadSequence(paths, fps)
	})
}
