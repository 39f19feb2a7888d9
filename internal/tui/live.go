package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/sortviz/internal/playback"
	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/step"
)

const (
	liveWidth   = 70
	liveHeight  = 16
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer draws playback as plain ASCII without taking over the
// terminal. It is used for pipes and dumb terminals where the full-screen
// front-end is unavailable.
type LiveRenderer struct {
	out       io.Writer
	name      string
	frameRate int
	lastFrame time.Time
	canvas    [][]rune
	last      step.Step
	consumed  int
}

func NewLiveRenderer(out io.Writer, name string, frameRate int) *LiveRenderer {
	canvas := make([][]rune, liveHeight)
	for i := range canvas {
		canvas[i] = make([]rune, liveWidth)
	}
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{
		out:       out,
		name:      name,
		frameRate: frameRate,
		canvas:    canvas,
	}
}

func (r *LiveRenderer) OnStep(s step.Step, _ *playback.Engine) {
	r.last = s
	r.consumed++
}

// Frame redraws e unless the previous frame was drawn too recently.
func (r *LiveRenderer) Frame(e *playback.Engine, force bool) {
	if !force && time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	r.clear()
	r.drawBars(e)
	r.render(e)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < liveWidth && y >= 0 && y < liveHeight {
		r.canvas[y][x] = c
	}
}

func glyph(v playback.SlotVisual) rune {
	if v.Swapping {
		return '%'
	}
	switch v.Role {
	case playback.RoleCompareA, playback.RoleCompareB:
		return '@'
	case playback.RoleSorted:
		return '='
	case playback.RoleFinal:
		return '*'
	}
	return '#'
}

func (r *LiveRenderer) drawBars(e *playback.Engine) {
	n, maxVal := e.Count(), e.MaxValue()
	if n == 0 || maxVal == 0 {
		return
	}
	bw := max(1, liveWidth/n)
	for _, v := range e.Visuals() {
		bx := int(v.X*float64(bw) + 0.5)
		bh := (v.Value*liveHeight + maxVal - 1) / maxVal
		c := glyph(v)
		for y := liveHeight - 1; y >= liveHeight-bh; y-- {
			r.set(bx, y, c)
		}
	}
}

func (r *LiveRenderer) render(e *playback.Engine) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  %s  speed=%.2gx\n", r.name, e.Phase(), e.Speed()))
	b.WriteString("  " + strings.Repeat("-", liveWidth) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", liveWidth) + "\n")
	if r.consumed > 0 {
		b.WriteString(fmt.Sprintf("  step %d  %s\n", r.consumed, r.last))
	}
	if err := e.Err(); err != nil {
		b.WriteString("  error: " + err.Error() + "\n")
	}

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }

// PlayLive drives sess at the renderer's frame rate until playback finishes
// or ctx is cancelled.
func PlayLive(ctx context.Context, sess *session.Session, r *LiveRenderer) error {
	sess.AddObserver(r)
	r.Start()
	defer r.Stop()

	ticker := time.NewTicker(time.Second / time.Duration(r.frameRate))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			sess.Abort()
			return ctx.Err()
		case now := <-ticker.C:
			sess.Tick(playback.FrameDelta(now.Sub(last).Seconds()))
			last = now
			eng := sess.Engine()
			done := eng.Phase() == playback.Finished || eng.Phase() == playback.Idle
			r.Frame(eng, done)
			if done {
				return eng.Err()
			}
		}
	}
}
