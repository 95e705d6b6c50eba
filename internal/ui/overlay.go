//go:build ebiten

package ui

import (
	"depthlife/internal/core"
	"depthlife/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RenderState is the slice of the renderer the overlay reads. Kept as a local
// interface so the ui package stays decoupled from the app package.
type RenderState interface {
	Masks() []*core.Mask
	Composite() *render.Frame
	GridSize() (int, int)
}

// Overlay draws optional debugging visuals on top of the rendered frame:
// the current injection mask tint (key 1) and the raw source composite
// (key 2).
type Overlay struct {
	state    RenderState
	showMask bool
	showComp bool

	maskImg *ebiten.Image
	maskBuf []byte
	compImg *ebiten.Image
	compBuf []byte
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(state RenderState) *Overlay {
	return &Overlay{state: state}
}

// Update handles the overlay toggle keys.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showMask = !o.showMask
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showComp = !o.showComp
	}
}

// Draw renders the enabled overlays onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if o.showComp {
		o.drawComposite(screen)
	}
	if o.showMask {
		o.drawMask(screen)
	}
}

func (o *Overlay) drawMask(screen *ebiten.Image) {
	masks := o.state.Masks()
	if len(masks) == 0 {
		return
	}
	w, h := o.state.GridSize()
	total := w * h
	if total == 0 {
		return
	}
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != w || o.maskImg.Bounds().Dy() != h {
		o.maskImg = ebiten.NewImage(w, h)
		o.maskBuf = make([]byte, 4*total)
	}
	// One tint channel per mask: R, G, B in channel-bin mode, green alone in
	// grayscale mode.
	for i := 0; i < total; i++ {
		base := i * 4
		o.maskBuf[base+0] = 0
		o.maskBuf[base+1] = 0
		o.maskBuf[base+2] = 0
		o.maskBuf[base+3] = 0
		for c, m := range masks {
			if m.Cells()[i] != core.MaskAlive {
				continue
			}
			ch := 1
			if len(masks) == 3 {
				ch = c
			}
			o.maskBuf[base+ch] = 255
			o.maskBuf[base+3] = 140
		}
	}
	o.maskImg.ReplacePixels(o.maskBuf)
	o.blitScaled(screen, o.maskImg, w, h)
}

func (o *Overlay) drawComposite(screen *ebiten.Image) {
	comp := o.state.Composite()
	if comp == nil {
		return
	}
	if o.compImg == nil || o.compImg.Bounds().Dx() != comp.W || o.compImg.Bounds().Dy() != comp.H {
		o.compImg = ebiten.NewImage(comp.W, comp.H)
		o.compBuf = make([]byte, 4*comp.W*comp.H)
	}
	for i := 0; i < len(comp.Pix); i += 4 {
		o.compBuf[i+0] = comp.Pix[i+2]
		o.compBuf[i+1] = comp.Pix[i+1]
		o.compBuf[i+2] = comp.Pix[i+0]
		o.compBuf[i+3] = comp.Pix[i+3]
	}
	o.compImg.ReplacePixels(o.compBuf)
	o.blitScaled(screen, o.compImg, comp.W, comp.H)
}

func (o *Overlay) blitScaled(screen, img *ebiten.Image, w, h int) {
	op := &ebiten.DrawImageOptions{}
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	op.GeoM.Scale(float64(sw)/float64(w), float64(sh)/float64(h))
	screen.DrawImage(img, op)
}
