package standalone

import (
	"github.com/hajimehoshi/ebiten/v2"
	vmcore "github.com/user-none/ravenui/api"
)

// ConvertFrame converts device pixels (blue, green, red, alpha) into
// display pixels (red, green, blue, alpha). Alpha passes through.
// Conversion stops at the shorter of dst and src.
func ConvertFrame(dst, src []byte) {
	n := min(len(dst), len(src)) / 4 * 4
	for i := 0; i < n; i += 4 {
		dst[i+0] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i+0]
		dst[i+3] = src[i+3]
	}
}

// FramePresenter owns the frame texture. Present converts the machine's
// output on the tick thread; Draw uploads and composites it.
type FramePresenter struct {
	width, height int
	pixels        []byte
	dirty         bool

	texture  *ebiten.Image
	vertices [4]ebiten.Vertex
	drawOpts ebiten.DrawTrianglesOptions

	// Placement of the frame in the window, from the last Draw.
	offsetX, offsetY float64
	scale            float64
}

var quadIndices = []uint16{0, 1, 2, 1, 3, 2}

// NewFramePresenter creates a presenter with nearest-neighbour sampling.
func NewFramePresenter() *FramePresenter {
	p := &FramePresenter{}
	p.drawOpts.Filter = ebiten.FilterNearest
	for i := range p.vertices {
		p.vertices[i].ColorR = 1
		p.vertices[i].ColorG = 1
		p.vertices[i].ColorB = 1
		p.vertices[i].ColorA = 1
	}
	return p
}

// Present converts out's frame into display order.
func (p *FramePresenter) Present(out vmcore.Output) {
	w, h := int(out.Width), int(out.Height)
	if w != p.width || h != p.height {
		p.width, p.height = w, h
		p.pixels = make([]byte, w*h*4)
	}
	ConvertFrame(p.pixels, out.Frame)
	// A short frame leaves the remainder blank rather than stale.
	clear(p.pixels[min(len(out.Frame), len(p.pixels))/4*4:])
	p.dirty = true
}

// Size returns the size of the last presented frame.
func (p *FramePresenter) Size() (int, int) {
	return p.width, p.height
}

// Pixels returns the last presented frame in RGBA order. The slice is
// reused by the next Present.
func (p *FramePresenter) Pixels() []byte {
	return p.pixels
}

// Draw uploads the frame if it changed and composites it as one textured
// quad, scaled to fit the screen with its aspect ratio preserved.
func (p *FramePresenter) Draw(screen *ebiten.Image) {
	if p.width == 0 || p.height == 0 {
		return
	}

	if p.texture == nil || p.texture.Bounds().Dx() != p.width || p.texture.Bounds().Dy() != p.height {
		if p.texture != nil {
			p.texture.Deallocate()
		}
		p.texture = ebiten.NewImage(p.width, p.height)
		p.dirty = true
	}
	if p.dirty {
		p.texture.WritePixels(p.pixels)
		p.dirty = false
	}

	bounds := screen.Bounds()
	p.place(bounds.Dx(), bounds.Dy())

	x0, y0 := float32(p.offsetX), float32(p.offsetY)
	x1 := float32(p.offsetX + float64(p.width)*p.scale)
	y1 := float32(p.offsetY + float64(p.height)*p.scale)
	w, h := float32(p.width), float32(p.height)

	p.vertices[0].DstX, p.vertices[0].DstY, p.vertices[0].SrcX, p.vertices[0].SrcY = x0, y0, 0, 0
	p.vertices[1].DstX, p.vertices[1].DstY, p.vertices[1].SrcX, p.vertices[1].SrcY = x1, y0, w, 0
	p.vertices[2].DstX, p.vertices[2].DstY, p.vertices[2].SrcX, p.vertices[2].SrcY = x0, y1, 0, h
	p.vertices[3].DstX, p.vertices[3].DstY, p.vertices[3].SrcX, p.vertices[3].SrcY = x1, y1, w, h

	screen.DrawTriangles(p.vertices[:], quadIndices, p.texture, &p.drawOpts)
}

// place records where the frame lands on a screen of the given size.
func (p *FramePresenter) place(screenW, screenH int) {
	p.offsetX, p.offsetY, p.scale = fitFrame(screenW, screenH, p.width, p.height)
}

// fitFrame returns the offset and uniform scale that fit a w x h frame
// centred in a screenW x screenH screen.
func fitFrame(screenW, screenH, w, h int) (offsetX, offsetY, scale float64) {
	if w == 0 || h == 0 {
		return 0, 0, 0
	}
	scaleX := float64(screenW) / float64(w)
	scaleY := float64(screenH) / float64(h)
	scale = min(scaleX, scaleY)
	offsetX = (float64(screenW) - float64(w)*scale) / 2
	offsetY = (float64(screenH) - float64(h)*scale) / 2
	return offsetX, offsetY, scale
}

// ToDevice maps a screen position to device pixels. It reports false when
// the position is outside the frame or nothing has been drawn yet.
func (p *FramePresenter) ToDevice(x, y int) (float32, float32, bool) {
	if p.scale == 0 {
		return 0, 0, false
	}
	dx := (float64(x) - p.offsetX) / p.scale
	dy := (float64(y) - p.offsetY) / p.scale
	if dx < 0 || dy < 0 || dx >= float64(p.width) || dy >= float64(p.height) {
		return 0, 0, false
	}
	return float32(dx), float32(dy), true
}
