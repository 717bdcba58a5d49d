package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/chernoby/internal/reactor"
)

const (
	barWidth   = 30
	clearLine  = "\r\033[2K"
	hideCursor = "\033[?25l"
	showCursor = "\033[?25h"
)

// Progress is a reactor.Observer that redraws a one-line status at most
// frameRate times per second. A frameRate of zero redraws every step.
type Progress struct {
	out       io.Writer
	name      string
	duration  float64
	frameRate int
	lastFrame time.Time
	last      reactor.Stats
}

func NewProgress(out io.Writer, name string, duration float64, frameRate int) *Progress {
	return &Progress{
		out:       out,
		name:      name,
		duration:  duration,
		frameRate: frameRate,
	}
}

func (p *Progress) OnStep(s reactor.Stats) {
	p.last = s
	if p.frameRate > 0 {
		if time.Since(p.lastFrame) < time.Second/time.Duration(p.frameRate) {
			return
		}
		p.lastFrame = time.Now()
	}
	p.render(s)
}

func (p *Progress) render(s reactor.Stats) {
	frac := 0.0
	if p.duration > 0 {
		frac = min(max(s.Time/p.duration, 0), 1)
	}
	filled := int(frac * barWidth)
	bar := strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled)
	fmt.Fprintf(p.out, "%s  %s [%s] t=%.2f atoms=%d neutrons=%d fissions=%d",
		clearLine, p.name, bar, s.Time, s.Atoms, s.Neutrons, s.Fissions)
}

func (p *Progress) Start() { fmt.Fprint(p.out, hideCursor) }

// Stop draws the last observed step and restores the cursor.
func (p *Progress) Stop() {
	p.render(p.last)
	fmt.Fprint(p.out, "\n"+showCursor)
}
