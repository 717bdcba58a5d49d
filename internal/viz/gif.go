package viz

import (
	"image"
	"image/color"
	"image/gif"
	"io"
)

const (
	charW = 8
	charH = 16
)

// Image renders the canvas dots as a black and white bitmap, charW x charH
// pixels per cell.
func (c *Canvas) Image() *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, c.Width*charW, c.Height*charH), color.Palette{color.Black, color.White})
	dotW, dotH := charW/2, charH/4
	dw, dh := c.Dots()
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	return img
}

// Recorder collects canvas frames for a GIF animation.
type Recorder struct {
	frames []*image.Paletted
	delay  int
}

// NewRecorder returns a recorder that shows each frame for delay
// hundredths of a second.
func NewRecorder(delay int) *Recorder {
	return &Recorder{delay: delay}
}

func (r *Recorder) Capture(c *Canvas) { r.frames = append(r.frames, c.Image()) }

func (r *Recorder) Len() int { return len(r.frames) }

func (r *Recorder) Encode(w io.Writer) error {
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.delay)
	}
	return gif.EncodeAll(w, &anim)
}
