//go:build ebiten

package app

import (
	"time"

	"depthlife/internal/core"
	"depthlife/internal/render"
	"depthlife/internal/source"
	"depthlife/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts the renderer to the ebiten.Game interface. The display loop
// runs at ebiten's tick rate while FixedStep paces the simulation at the
// configured 15/30/60 rate.
type Game struct {
	renderer *Renderer
	stack    *source.Stack
	overlay  *ui.Overlay
	pacer    *core.FixedStep

	img *ebiten.Image
	buf []byte

	shader   *ebiten.Shader
	baseImg  *ebiten.Image
	overImg  *ebiten.Image
	baseBuf  []byte
	overBuf  []byte
	tickOnce bool
}

// New constructs a Game over the provided renderer and stack.
func New(renderer *Renderer, stack *source.Stack) *Game {
	g := &Game{
		renderer: renderer,
		stack:    stack,
		overlay:  ui.NewOverlay(renderer),
		pacer:    core.NewFixedStep(renderer.Config().Framerate),
	}
	if renderer.Config().GPU {
		if shader, err := ebiten.NewShader(render.BlendShaderSource()); err == nil {
			g.shader = shader
			renderer.SetGPUBlend(true)
		}
	}
	return g
}

// Update handles input and advances the simulation at its own rate.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.renderer.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.renderer.Reseed(g.renderer.Config().Seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.renderer.Reseed(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		cfg := g.renderer.Config()
		if cfg.Mode == core.NaiveGrayscale {
			cfg.Mode = core.RgbChannelBins
		} else {
			cfg.Mode = core.NaiveGrayscale
		}
		g.renderer.SetConfig(cfg)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		cfg := g.renderer.Config()
		if cfg.Binning == render.BinFill {
			cfg.Binning = render.BinBinary
		} else {
			cfg.Binning = render.BinFill
		}
		g.renderer.SetConfig(cfg)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		cfg := g.renderer.Config()
		cfg.Passthrough = !cfg.Passthrough
		g.renderer.SetConfig(cfg)
	}

	g.overlay.Update()

	if g.tickOnce {
		g.renderer.Step()
		g.tickOnce = false
	} else if g.pacer.ShouldStep() {
		g.renderer.Advance()
	}
	return nil
}

// Draw presents the finished buffer, blending on the GPU when enabled.
func (g *Game) Draw(screen *ebiten.Image) {
	cfg := g.renderer.Config()
	if g.shader != nil && cfg.Passthrough && g.renderer.Composite() != nil {
		g.drawGPU(screen)
	} else {
		g.blit(screen, g.renderer.Output())
	}
	g.overlay.Draw(screen)
}

// blit uploads a BGRA frame and draws it scaled to the window.
func (g *Game) blit(screen *ebiten.Image, frame *render.Frame) {
	if frame == nil {
		return
	}
	g.img, g.buf = uploadBGRA(g.img, g.buf, frame)
	op := &ebiten.DrawImageOptions{}
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	op.GeoM.Scale(float64(sw)/float64(frame.W), float64(sh)/float64(frame.H))
	screen.DrawImage(g.img, op)
}

// drawGPU composes the source underlay and simulation color through the
// blend shader, producing the same pixels as the CPU BlendFrames path.
func (g *Game) drawGPU(screen *ebiten.Image) {
	base := g.renderer.Composite()
	over := g.renderer.SimFrame()
	if base.W != over.W || base.H != over.H {
		g.blit(screen, g.renderer.Output())
		return
	}
	g.baseImg, g.baseBuf = uploadBGRA(g.baseImg, g.baseBuf, base)
	g.overImg, g.overBuf = uploadBGRA(g.overImg, g.overBuf, over)

	op := &ebiten.DrawRectShaderOptions{}
	op.Images[0] = g.baseImg
	op.Images[1] = g.overImg
	op.Uniforms = map[string]any{
		"Mode":       float32(g.renderer.Config().CompositeBlend),
		"UseOverlay": float32(1),
	}
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	op.GeoM.Scale(float64(sw)/float64(base.W), float64(sh)/float64(base.H))
	screen.DrawRectShader(base.W, base.H, g.shader, op)
}

// uploadBGRA swizzles a BGRA frame into an RGBA upload buffer and replaces
// the image pixels, reallocating when the frame size changed.
func uploadBGRA(img *ebiten.Image, buf []byte, frame *render.Frame) (*ebiten.Image, []byte) {
	if img == nil || img.Bounds().Dx() != frame.W || img.Bounds().Dy() != frame.H {
		img = ebiten.NewImage(frame.W, frame.H)
		buf = make([]byte, 4*frame.W*frame.H)
	}
	core.Rows(frame.H, func(y0, y1 int) {
		for i := y0 * 4 * frame.W; i < y1*4*frame.W; i += 4 {
			buf[i+0] = frame.Pix[i+2]
			buf[i+1] = frame.Pix[i+1]
			buf[i+2] = frame.Pix[i+0]
			buf[i+3] = frame.Pix[i+3]
		}
	})
	img.ReplacePixels(buf)
	return img, buf
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.renderer.GridSize()
	scale := g.renderer.Config().Scale
	return w * scale, h * scale
}
