package display

import (
	"context"
	"image"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/junsooki/keyscreen/internal/bitmap"
	"github.com/junsooki/keyscreen/internal/input"
	"github.com/junsooki/keyscreen/internal/transport"
)

// EbitenDisplay renders frames using Ebitengine and reports typed keys.
type EbitenDisplay struct {
	mu          sync.Mutex
	frame       *image.RGBA
	ebitenImage *ebiten.Image

	width  int
	height int
	scale  int
	title  string

	ctx   context.Context
	keys  chan input.KeyEvent
	runes []rune
}

var _ Display = (*EbitenDisplay)(nil)

// NewEbitenDisplay creates a window of width x height pixels, each drawn
// scale times larger.
func NewEbitenDisplay(width, height, scale int, title string) *EbitenDisplay {
	if scale < 1 {
		scale = 1
	}
	return &EbitenDisplay{
		width:  width,
		height: height,
		scale:  scale,
		title:  title,
		keys:   make(chan input.KeyEvent, 64),
	}
}

// SetFrame updates the displayed frame (called from any goroutine).
func (d *EbitenDisplay) SetFrame(img *image.RGBA) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frame = img
}

// CurrentFrame returns the last frame set, or nil.
func (d *EbitenDisplay) CurrentFrame() *image.RGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame
}

// SendFrame unpacks f and shows it on the next redraw.
func (d *EbitenDisplay) SendFrame(_ context.Context, f transport.Frame) error {
	img, err := bitmap.Unpack(f.Pix, f.Width, f.Height)
	if err != nil {
		return err
	}
	d.SetFrame(img)
	return nil
}

// Show starts the Ebitengine game loop.
func (d *EbitenDisplay) Show(ctx context.Context) error {
	d.ctx = ctx
	ebiten.SetWindowSize(d.width*d.scale, d.height*d.scale)
	ebiten.SetWindowTitle(d.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetRunnableOnUnfocused(true)
	return ebiten.RunGame(d)
}

// Keys returns a source of the keys typed into the window. Keys typed while
// no one is reading are dropped.
func (d *EbitenDisplay) Keys() input.Source {
	return input.SourceFunc(func(ctx context.Context, handle func(input.KeyEvent)) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-d.keys:
				handle(ev)
			}
		}
	})
}

// --- ebiten.Game interface ---

func (d *EbitenDisplay) Update() error {
	if d.ctx != nil && d.ctx.Err() != nil {
		return ebiten.Termination
	}
	d.captureKeyboardInput()
	return nil
}

func (d *EbitenDisplay) Draw(screen *ebiten.Image) {
	frame := d.CurrentFrame()
	if frame == nil {
		return
	}

	if d.ebitenImage == nil ||
		d.ebitenImage.Bounds().Dx() != frame.Bounds().Dx() ||
		d.ebitenImage.Bounds().Dy() != frame.Bounds().Dy() {
		d.ebitenImage = ebiten.NewImage(frame.Bounds().Dx(), frame.Bounds().Dy())
	}
	d.ebitenImage.WritePixels(frame.Pix)

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	fw, fh := float64(frame.Bounds().Dx()), float64(frame.Bounds().Dy())
	scale, offsetX, offsetY := aspectFitTransform(float64(sw), float64(sh), fw, fh)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(d.ebitenImage, op)
}

func (d *EbitenDisplay) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// --- Input capture ---

func (d *EbitenDisplay) captureKeyboardInput() {
	d.runes = ebiten.AppendInputChars(d.runes[:0])
	for _, r := range d.runes {
		d.emit(input.RuneEvent(r))
	}
	for k, name := range windowKeys {
		if inpututil.IsKeyJustPressed(k) {
			d.emit(input.KeyEvent{Name: name})
		}
	}
}

func (d *EbitenDisplay) emit(ev input.KeyEvent) {
	select {
	case d.keys <- ev:
	default:
	}
}

// windowKeys are the non-character keys reported by the window.
var windowKeys = map[ebiten.Key]string{
	ebiten.KeyBackspace: input.KeyBackspace,
	ebiten.KeyEnter:     input.KeyEnter,
	ebiten.KeyTab:       input.KeyTab,
	ebiten.KeyEscape:    input.KeyEscape,
}

// aspectFitTransform returns scale and offsets to fit frame into view with letterboxing.
func aspectFitTransform(viewW, viewH, frameW, frameH float64) (scale, offsetX, offsetY float64) {
	scale = math.Min(viewW/frameW, viewH/frameH)
	offsetX = (viewW - frameW*scale) / 2
	offsetY = (viewH - frameH*scale) / 2
	return
}
