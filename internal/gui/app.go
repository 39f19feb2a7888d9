package gui

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/sortviz/internal/audio"
	"github.com/san-kum/sortviz/internal/playback"
	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/sorter"
)

const (
	screenW = 1280
	screenH = 720

	barTop    = 110
	barBottom = 640
	marginX   = 40
)

var (
	ColText    = rl.NewColor(200, 200, 200, 255)
	ColTextDim = rl.NewColor(110, 110, 140, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColError   = rl.NewColor(255, 90, 90, 255)
)

// InputFunc produces the array for a new run.
type InputFunc func() ([]int, error)

type Options struct {
	Input InputFunc
	FPS   int
	Speed float64
	Sound bool
	// Algorithm, when set, skips the menu and starts playing at once.
	Algorithm *sorter.Algorithm
}

type App struct {
	Sess       *session.Session
	Input      InputFunc
	Algorithms []sorter.Algorithm
	Selected   int
	InMenu     bool
	Run        *session.Run
	Err        error
	Font       rl.Font
	Audio      *audio.Player
}

// initWindow opens the raylib window and disables the default exit key so
// Esc can return to the menu.
func initWindow(fps int) {
	rl.InitWindow(screenW, screenH, "sortviz")
	if fps <= 0 {
		fps = 60
	}
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

// loadFont tries Liberation Mono and falls back to the raylib default font.
func loadFont() rl.Font {
	const path = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
	if _, err := os.Stat(path); err != nil {
		slog.Debug("font not found, using default", "path", path)
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(path, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func NewApp(sess *session.Session, opts Options) *App {
	if opts.Speed > 0 {
		sess.SetSpeed(opts.Speed)
	}
	app := &App{
		Sess:       sess,
		Input:      opts.Input,
		Algorithms: sess.Registry().Algorithms(),
		InMenu:     true,
		Font:       loadFont(),
	}

	if opts.Sound {
		player := audio.NewPlayer()
		if err := player.Start(); err != nil {
			slog.Warn("sound disabled", "error", err)
		} else {
			app.Audio = player
			sess.AddObserver(player)
		}
	}

	if opts.Algorithm != nil {
		for i, alg := range app.Algorithms {
			if alg == *opts.Algorithm {
				app.Selected = i
			}
		}
		app.start(*opts.Algorithm)
	}
	return app
}

// Run opens the window and blocks until it is closed.
func Run(sess *session.Session, opts Options) {
	initWindow(opts.FPS)
	defer rl.CloseWindow()

	app := NewApp(sess, opts)
	defer app.Close()
	app.RunLoop()
}

func (a *App) Close() {
	if a.Audio != nil {
		a.Audio.Stop()
	}
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

func (a *App) start(alg sorter.Algorithm) {
	if a.Input == nil {
		a.Err = fmt.Errorf("no input source")
		return
	}
	input, err := a.Input()
	if err != nil {
		a.Err = err
		return
	}
	a.setRun(a.Sess.StartRun(alg, input))
	if a.Err == nil {
		a.InMenu = false
	}
}

func (a *App) setRun(run *session.Run, err error) {
	a.Err = err
	if err == nil {
		a.Run = run
	}
}

// Update handles input and advances playback. It returns false to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) {
		return false
	}

	if a.InMenu {
		if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
			a.Selected = (a.Selected + 1) % len(a.Algorithms)
		}
		if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
			a.Selected = (a.Selected - 1 + len(a.Algorithms)) % len(a.Algorithms)
		}
		if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
			a.start(a.Algorithms[a.Selected])
		}
		return true
	}

	eng := a.Sess.Engine()
	switch {
	case rl.IsKeyPressed(rl.KeyEscape):
		a.Sess.Abort()
		a.InMenu = true
		return true
	case rl.IsKeyPressed(rl.KeySpace), rl.IsKeyPressed(rl.KeyP):
		a.Sess.TogglePause()
	case rl.IsKeyPressed(rl.KeyEqual), rl.IsKeyPressed(rl.KeyKpAdd):
		a.Sess.SetSpeed(eng.Speed() * 2)
	case rl.IsKeyPressed(rl.KeyMinus), rl.IsKeyPressed(rl.KeyKpSubtract):
		a.Sess.SetSpeed(eng.Speed() / 2)
	case rl.IsKeyPressed(rl.KeyZero):
		a.Sess.SetSpeed(1)
	case rl.IsKeyPressed(rl.KeyR):
		a.setRun(a.Sess.Restart())
	case rl.IsKeyPressed(rl.KeyN):
		if a.Run != nil {
			a.start(a.Run.Algorithm)
		}
	}

	a.Sess.Tick(playback.FrameDelta(float64(rl.GetFrameTime())))
	return true
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rgba(a.Sess.Engine().Palette().Background))

	if a.InMenu {
		a.drawMenu()
	} else {
		a.drawBars()
		a.drawHUD()
	}

	rl.EndDrawing()
}

func rgba(c color.RGBA) rl.Color { return rl.Color(c) }

func (a *App) drawBars() {
	eng := a.Sess.Engine()
	n := eng.Count()
	if n == 0 {
		a.drawText("empty input", marginX, barBottom-20, 16, ColTextDim)
		return
	}

	maxVal := max(eng.MaxValue(), 1)
	barW := float32(screenW-2*marginX) / float32(n)
	height := float32(barBottom - barTop)

	for i := 0; i < n; i++ {
		v, _ := a.Sess.VisualOf(i)
		h := height * float32(v.Value) / float32(maxVal)
		rect := rl.NewRectangle(float32(marginX)+float32(v.X)*barW, float32(barBottom)-h, barW, h)
		rl.DrawRectangle(int32(rect.X), int32(rect.Y), int32(rect.Width), int32(rect.Height), rgba(v.Fill))
		if v.OutlineThickness > 0 && rect.Width > 2*float32(v.OutlineThickness) {
			rl.DrawRectangleLinesEx(rect, float32(v.OutlineThickness), rgba(v.Outline))
		}
	}
}

func (a *App) drawHUD() {
	eng := a.Sess.Engine()
	a.drawText("sortviz", 30, 30, 24, ColSelect)
	if a.Run != nil {
		a.drawText(fmt.Sprintf(":: %s  n=%d", a.Run.Algorithm, len(a.Run.Initial)), 150, 34, 16, ColText)
	}

	status := eng.Phase().String()
	col := ColSelect
	if eng.Paused() {
		status = "paused"
		col = ColTextDim
	}
	a.drawText(fmt.Sprintf("%s  x%.2g", status, eng.Speed()), 1080, 30, 16, col)

	prog := float32(eng.Progress())
	rl.DrawRectangle(marginX, 75, int32(float32(screenW-2*marginX)*prog), 4, ColTextDim)

	if a.Run != nil {
		c := a.Run.Counts
		line := fmt.Sprintf("compares %d  swaps %d  writes %d  step %d/%d",
			c.Compares, c.Swaps, c.Overwrites, eng.Cursor(), a.Sess.Log().Len())
		if !a.Run.Animated {
			line = "instant (not instrumented)"
		}
		a.drawText(line, marginX, 655, 14, ColText)
	}
	if err := eng.Err(); err != nil {
		a.drawText(err.Error(), marginX, 88, 14, ColError)
	} else if a.Err != nil {
		a.drawText(a.Err.Error(), marginX, 88, 14, ColError)
	}

	a.drawText("[SPACE] PAUSE  [+/-/0] SPEED  [R] REPLAY  [N] NEW  [ESC] MENU  [Q] QUIT", 560, 690, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 690, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) drawMenu() {
	a.drawText("sortviz", 50, 50, 40, ColSelect)
	a.drawText("Select Algorithm", 50, 100, 16, ColTextDim)

	y := 160
	for i, alg := range a.Algorithms {
		name := alg.String()
		if srt, err := a.Sess.Registry().ForAlgorithm(alg); err == nil && !srt.Instrumented() {
			name += " (instant)"
		}
		if i == a.Selected {
			a.drawText("> "+name, 50, y, 20, ColSelect)
		} else {
			a.drawText("  "+name, 50, y, 20, ColText)
		}
		y += 28
	}

	if a.Err != nil {
		a.drawText(a.Err.Error(), 50, y+20, 16, ColError)
	}
	a.drawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", 850, 690, 14, ColTextDim)
}
