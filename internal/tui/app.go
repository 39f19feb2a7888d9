package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/sortviz/internal/playback"
	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/sorter"
)

var algorithmInfo = map[sorter.Algorithm]string{
	sorter.Insertion: "adjacent swaps",
	sorter.Selection: "scan for the minimum",
	sorter.Quick:     "lomuto partition",
	sorter.Merge:     "stable, scratch buffer",
	sorter.Heap:      "max heap, sift down",
}


type state int

const (
	stateMenu state = iota
	statePlay
)

// InputFunc produces the array for a new run.
type InputFunc func() ([]int, error)

type Options struct {
	Input InputFunc
	FPS   int
	Speed float64
	Theme string
	// AutoStart skips the menu and plays Algorithm immediately.
	AutoStart bool
	Algorithm sorter.Algorithm
}

type tickMsg struct {
	at  time.Time
	gen int
}

type model struct {
	state      state
	cursor     int
	algorithms []sorter.Algorithm

	sess  *session.Session
	input InputFunc
	run   *session.Run
	err   error

	themes []Theme
	theme  int
	help   help.Model

	frame     time.Duration
	gen       int
	lastFrame time.Time
	fps       float64

	width  int
	height int
}

func newModel(sess *session.Session, opts Options) model {
	fps := opts.FPS
	if fps <= 0 {
		fps = 60
	}
	if opts.Speed > 0 {
		sess.SetSpeed(opts.Speed)
	}

	m := model{
		state:      stateMenu,
		algorithms: sess.Registry().Algorithms(),
		sess:       sess,
		input:      opts.Input,
		themes:     Themes(sess.Engine().Palette()),
		help:       help.New(),
		frame:      time.Second / time.Duration(fps),
		width:      80,
		height:     24,
	}
	for i, t := range m.themes {
		if t.Name == opts.Theme {
			m.theme = i
		}
	}
	for i, alg := range m.algorithms {
		if alg == opts.Algorithm {
			m.cursor = i
		}
	}
	return m
}

func (m model) Init() tea.Cmd {
	if m.state == statePlay {
		return m.tick()
	}
	return nil
}

func (m model) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return tickMsg{at: t, gen: gen} })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		if m.state != statePlay || msg.gen != m.gen {
			return m, nil
		}
		m.advance(msg.at)
		return m, m.tick()
	}
	return m, nil
}

func (m *model) advance(now time.Time) {
	dt := m.frame.Seconds()
	if !m.lastFrame.IsZero() {
		dt = now.Sub(m.lastFrame).Seconds()
		if dt > 0 {
			m.fps = 1.0 / dt
		}
	}
	m.lastFrame = now
	m.sess.Tick(playback.FrameDelta(dt))
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		m.sess.Abort()
		return m, tea.Quit
	}
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case statePlay:
		return m.playKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.algorithms)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Theme):
		m.theme = (m.theme + 1) % len(m.themes)
	case key.Matches(msg, keys.Select):
		if err := m.start(m.algorithms[m.cursor]); err != nil {
			return m, nil
		}
		return m, tea.Batch(tea.ClearScreen, m.tick())
	}
	return m, nil
}

func (m model) playKey(msg tea.KeyMsg) (model, tea.Cmd) {
	eng := m.sess.Engine()
	switch {
	case key.Matches(msg, keys.Back):
		m.sess.Abort()
		m.state = stateMenu
		m.gen++
		return m, tea.ClearScreen
	case key.Matches(msg, keys.Pause):
		m.sess.TogglePause()
	case key.Matches(msg, keys.Faster):
		m.sess.SetSpeed(eng.Speed() * 2)
	case key.Matches(msg, keys.Slower):
		m.sess.SetSpeed(eng.Speed() / 2)
	case key.Matches(msg, keys.Normal):
		m.sess.SetSpeed(1)
	case key.Matches(msg, keys.Replay):
		run, err := m.sess.Restart()
		m.setRun(run, err)
	case key.Matches(msg, keys.Fresh):
		m.start(m.run.Algorithm)
	case key.Matches(msg, keys.Theme):
		m.theme = (m.theme + 1) % len(m.themes)
	}
	return m, nil
}

// start sorts a fresh input with alg and switches to playback.
func (m *model) start(alg sorter.Algorithm) error {
	if m.input == nil {
		m.err = fmt.Errorf("no input source")
		return m.err
	}
	input, err := m.input()
	if err != nil {
		m.err = err
		return err
	}
	run, err := m.sess.StartRun(alg, input)
	m.setRun(run, err)
	if err != nil {
		return err
	}
	if m.state != statePlay {
		m.state = statePlay
		m.gen++
		m.lastFrame = time.Time{}
	}
	return nil
}

func (m *model) setRun(run *session.Run, err error) {
	m.err = err
	if err == nil {
		m.run = run
	}
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case statePlay:
		return m.viewPlay()
	}
	return ""
}

func (m model) style(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func (m model) viewMenu() string {
	t := m.themes[m.theme]
	title, text, muted, dim := m.style(t.Title), m.style(t.Text), m.style(t.Muted), m.style(t.Dim)

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dim.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("           " + title.Render("s o r t v i z") + "\n")
	b.WriteString(dim.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, alg := range m.algorithms {
		desc := algorithmInfo[alg]
		if s, err := m.sess.Registry().ForAlgorithm(alg); err == nil && !s.Instrumented() {
			desc += " (instant)"
		}
		if i == m.cursor {
			b.WriteString("      " + title.Render("▸ ") + text.Render(fmt.Sprintf("%-12s", alg)) + muted.Render(desc) + "\n")
		} else {
			b.WriteString("        " + muted.Render(fmt.Sprintf("%-12s", alg)) + dim.Render(desc) + "\n")
		}
	}

	if m.err != nil {
		b.WriteString("\n      " + m.style(t.Warning).Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n      " + m.help.View(menuKeys{keys}) + "\n")
	b.WriteString("      " + dim.Render("theme "+t.Name) + "\n")

	return b.String()
}

func (m model) viewPlay() string {
	t := m.themes[m.theme]
	title, text, muted, dim := m.style(t.Title), m.style(t.Text), m.style(t.Muted), m.style(t.Dim)
	eng := m.sess.Engine()

	cw := max(m.width-6, 20)
	ch := max(m.height-10, 6)

	var b strings.Builder

	icon, status := m.style(t.Sorted).Render("●"), m.style(t.Sorted).Render(eng.Phase().String())
	switch {
	case eng.Err() != nil:
		icon, status = m.style(t.CompareA).Render("✕"), m.style(t.CompareA).Render("halted")
	case eng.Paused():
		icon, status = m.style(t.Warning).Render("○"), m.style(t.Warning).Render("paused")
	}
	name := ""
	if m.run != nil {
		name = m.run.Algorithm.String()
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s\n", icon, title.Render(name), status))

	barWidth := 36
	filled := int(eng.Progress() * float64(barWidth))
	steps := fmt.Sprintf("%d/%d", eng.Cursor(), m.sess.Log().Len())
	bar := title.Render(strings.Repeat("━", filled)) + dim.Render(strings.Repeat("─", barWidth-filled))
	b.WriteString(fmt.Sprintf("   %s %s  %s  %s\n\n", bar, muted.Render(steps),
		text.Render(fmt.Sprintf("%.2gx", eng.Speed())), muted.Render(fmt.Sprintf("%.0ffps", m.fps))))

	for _, row := range renderBars(eng.Visuals(), eng.MaxValue(), cw, ch, t) {
		b.WriteString("   " + row + "\n")
	}

	if m.run != nil {
		c := m.run.Counts
		b.WriteString(fmt.Sprintf("\n   %s %s  %s %s  %s %s  %s %s\n",
			muted.Render("compares"), text.Render(fmt.Sprint(c.Compares)),
			muted.Render("swaps"), text.Render(fmt.Sprint(c.Swaps)),
			muted.Render("writes"), text.Render(fmt.Sprint(c.Overwrites)),
			muted.Render("n"), text.Render(fmt.Sprint(len(m.run.Initial)))))
		if !m.run.Animated {
			b.WriteString("   " + m.style(t.Warning).Render("instant (not instrumented)") + "\n")
		}
	}
	if err := eng.Err(); err != nil {
		b.WriteString("   " + m.style(t.CompareA).Render(err.Error()) + "\n")
	} else if m.err != nil {
		b.WriteString("   " + m.style(t.Warning).Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n   " + m.help.View(keys) + "\n")

	return b.String()
}

var eighths = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

type cell struct {
	r rune
	c lipgloss.Color
}

// renderBars draws one vertical bar per slot into a w by h grid. Slot X
// positions are in slot units, so bars mid-swap land between columns.
func renderBars(vs []playback.SlotVisual, maxVal, w, h int, t Theme) []string {
	grid := make([][]cell, h)
	for y := range grid {
		grid[y] = make([]cell, w)
		for x := range grid[y] {
			grid[y][x] = cell{r: ' '}
		}
	}

	if n := len(vs); n > 0 && maxVal > 0 {
		colW := max(1, min(3, w/n))
		barW := colW
		if colW > 1 {
			barW = colW - 1
		}
		for _, v := range vs {
			ratio := float64(v.Value) / float64(maxVal)
			tall := int(ratio*float64(h*8) + 0.5)
			full, part := tall/8, tall%8

			col := t.slotColor(v)
			if v.Role == playback.RoleDefault && !v.Swapping {
				col = shade(col, ratio)
			}

			x0 := int(v.X*float64(colW) + 0.5)
			for x := x0; x < x0+barW; x++ {
				if x < 0 || x >= w {
					continue
				}
				for k := 0; k < full && k < h; k++ {
					grid[h-1-k][x] = cell{r: '█', c: col}
				}
				if part > 0 && full < h {
					grid[h-1-full][x] = cell{r: eighths[part], c: col}
				}
			}
		}
	}

	rows := make([]string, h)
	for y, row := range grid {
		rows[y] = renderRow(row)
	}
	return rows
}

func renderRow(row []cell) string {
	var b strings.Builder
	start := 0
	for i := 1; i <= len(row); i++ {
		if i < len(row) && row[i].c == row[start].c {
			continue
		}
		runes := make([]rune, 0, i-start)
		for _, c := range row[start:i] {
			runes = append(runes, c.r)
		}
		if row[start].c == "" {
			b.WriteString(string(runes))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(row[start].c).Render(string(runes)))
		}
		start = i
	}
	return b.String()
}

// Run starts the interactive terminal front-end and blocks until it exits.
func Run(sess *session.Session, opts Options) error {
	m := newModel(sess, opts)
	if opts.AutoStart {
		if err := m.start(opts.Algorithm); err != nil {
			return err
		}
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
