package viz

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/morphcontours/internal/contour"
	"github.com/san-kum/morphcontours/internal/export"
	"github.com/san-kum/morphcontours/internal/live"
	"github.com/san-kum/morphcontours/internal/log"
	"github.com/san-kum/morphcontours/internal/params"
	"github.com/san-kum/morphcontours/internal/render"
)

// Exporter is the part of export.Exporter the view drives.
type Exporter interface {
	Start(ctx context.Context, p params.Parameters, tier export.Tier) (string, error)
	Cancel() bool
	Busy() bool
}

// StatusFeed carries exporter updates into the view. Only the latest
// undelivered status is kept.
type StatusFeed chan export.Status

func NewStatusFeed() StatusFeed {
	return make(StatusFeed, 1)
}

// Publish never blocks; it is meant to be used as export.Exporter.OnStatus.
func (f StatusFeed) Publish(s export.Status) {
	for {
		select {
		case f <- s:
			return
		default:
		}
		select {
		case <-f:
		default:
		}
	}
}

type Options struct {
	FPS    int
	Width  int
	Height int
	Tier   export.Tier
	Rand   *rand.Rand
}

type tickMsg struct{ gen uint64 }

type statusMsg export.Status

const profileSamples = 40

// Model drives a live.Loop from bubbletea ticks and paints each frame onto
// a Braille canvas next to a control panel.
type Model struct {
	store    *params.Store
	loop     *live.Loop
	canvas   *Canvas
	surface  *Surface
	exporter Exporter
	feed     StatusFeed
	rng      *rand.Rand
	interval time.Duration
	tier     export.Tier

	gen      uint64
	running  bool
	fields   []params.Field
	selected int
	showHelp bool
	notice   string
	status   export.Status

	styles       Styles
	stylesFor    uint64
	lastFrameLen int
}

// NewModel builds a running view. exporter and feed may be nil, which
// disables exporting.
func NewModel(store *params.Store, exporter Exporter, feed StatusFeed, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Width <= 0 {
		opts.Width = 60
	}
	if opts.Height <= 0 {
		opts.Height = 30
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	canvas := NewCanvas(opts.Width, opts.Height)
	m := Model{
		store:    store,
		loop:     live.NewLoop(store),
		canvas:   canvas,
		surface:  NewSurface(canvas, contour.LogicalSize),
		exporter: exporter,
		feed:     feed,
		rng:      opts.Rand,
		interval: time.Second / time.Duration(opts.FPS),
		tier:     opts.Tier,
		running:  true,
		fields:   params.Fields(),
	}
	m.gen = m.loop.Subscribe()
	m.refreshStyles()
	m.paint(m.loop.Frame())
	return m
}

func (m Model) tick(gen uint64) tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func waitStatus(feed StatusFeed) tea.Cmd {
	if feed == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-feed
		if !ok {
			return nil
		}
		return statusMsg(s)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(m.gen), waitStatus(m.feed))
}

// Update handles input events and advances the animation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if !m.loop.Active(msg.gen) {
			return m, nil
		}
		m.paint(m.loop.Step())
		return m, m.tick(msg.gen)

	case statusMsg:
		m.status = export.Status(msg)
		return m, waitStatus(m.feed)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch msg.String() {
	case "q", "ctrl+c":
		m.loop.Stop()
		if m.exporter != nil {
			m.exporter.Cancel()
		}
		return m, tea.Quit
	case " ":
		if m.running {
			m.running = false
			m.loop.Stop()
			return m, nil
		}
		m.running = true
		m.gen = m.loop.Subscribe()
		return m, m.tick(m.gen)
	case "up", "k":
		m.selected = (m.selected + len(m.fields) - 1) % len(m.fields)
		return m, nil
	case "down", "j":
		m.selected = (m.selected + 1) % len(m.fields)
		return m, nil
	case "left", "h":
		return m.edit(m.store.Nudge(m.fields[m.selected].Key, -1))
	case "right", "l":
		return m.edit(m.store.Nudge(m.fields[m.selected].Key, 1))
	case "shift+left", "H":
		return m.edit(m.store.Nudge(m.fields[m.selected].Key, -10))
	case "shift+right", "L":
		return m.edit(m.store.Nudge(m.fields[m.selected].Key, 10))
	case "t":
		return m.edit(m.store.ApplyTheme(params.NextTheme(m.store.Params().Theme)))
	case "r":
		m.store.Randomize(m.rng)
		return m.edit(nil)
	case "d":
		m.store.Reset()
		return m.edit(nil)
	case "e":
		m.startExport()
		return m, nil
	case "x":
		if m.exporter != nil && m.exporter.Cancel() {
			m.notice = "export canceled"
		}
		return m, nil
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	}
	return m, nil
}

// edit restarts the tick chain after the parameters changed identity; the
// pending tick of the old chain is dropped when it fires.
func (m Model) edit(err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.notice = err.Error()
		return m, nil
	}
	m.refreshStyles()
	if !m.running {
		m.paint(m.loop.Frame())
		return m, nil
	}
	m.gen = m.loop.Subscribe()
	return m, m.tick(m.gen)
}

func (m *Model) startExport() {
	if m.exporter == nil {
		m.notice = "export is not configured"
		return
	}
	if m.exporter.Busy() {
		return
	}
	id, err := m.exporter.Start(context.Background(), m.store.Params(), m.tier)
	if err != nil {
		m.notice = err.Error()
		return
	}
	log.Printf("live: started export %s", id)
}

func (m *Model) paint(f contour.Frame) {
	render.Paint(m.surface, f)
	m.lastFrameLen = f.NumContours()
}

func (m *Model) refreshStyles() {
	p, version := m.store.Snapshot()
	if version == m.stylesFor {
		return
	}
	m.styles = NewStyles(PaletteFor(p))
	m.stylesFor = version
}

// Running reports whether the animation advances on ticks.
func (m Model) Running() bool { return m.running }

// Time is the live clock.
func (m Model) Time() float64 { return m.loop.Time() }

// View renders the canvas and the control panel side by side.
func (m Model) View() string {
	p := m.store.Params()
	st := m.styles

	var s strings.Builder
	s.WriteString(st.Header.Render("MORPHING CONTOURS") + "\n")
	if m.running {
		s.WriteString(st.Running.Render("RUNNING"))
	} else {
		s.WriteString(st.Paused.Render("PAUSED"))
	}
	s.WriteString(st.Muted.Render(fmt.Sprintf("  t=%.3f  %d contours", m.loop.Time(), m.lastFrameLen)) + "\n\n")

	s.WriteString(st.Label.Render("Theme") + st.Value.Render(p.Theme) + "\n")
	for i, f := range m.fields {
		v, _ := p.Value(f.Key)
		line := fmt.Sprintf("%-10s %s %s", f.Label, Slider(v, f.Min, f.Max, 10), formatField(f, v))
		if i == m.selected {
			s.WriteString(st.Selected.Render("> "+line) + "\n")
		} else {
			s.WriteString(st.Muted.Render("  "+line) + "\n")
		}
	}
	s.WriteString(st.Label.Render("Colors") + st.Value.Render(p.BackgroundColor.Hex()+" / "+p.LineColor.Hex()) + "\n")

	s.WriteString("\n" + m.profileView(p) + "\n")
	s.WriteString(m.exportView())
	if m.notice != "" {
		s.WriteString("\n" + st.Error.Render(m.notice))
	}
	s.WriteString("\n" + st.Help.Render("space pause  ←/→ tune  t theme  r random\nd reset  e export  x cancel  ? help  q quit"))

	panel := st.Panel.Render(s.String())
	main := lipgloss.JoinHorizontal(lipgloss.Top, m.canvas.Render(), panel)
	if m.showHelp {
		return helpText + "\n\n" + main
	}
	return main
}

func (m Model) profileView(p params.Parameters) string {
	values := contour.RadiusProfile(m.loop.Time(), p, 0, 0, profileSamples)
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return m.styles.Muted.Render("radius modulation: flat")
	}
	chart := asciigraph.Plot(values,
		asciigraph.Height(4),
		asciigraph.Width(30),
		asciigraph.Precision(2),
		asciigraph.Caption("radius modulation"))
	return m.styles.Graph.Render(chart)
}

func (m Model) exportView() string {
	st := m.styles
	s := m.status
	if s.State == export.Idle && s.Message == "" {
		if m.exporter == nil {
			return st.Muted.Render("export unavailable")
		}
		return st.Muted.Render("export idle")
	}

	line := fmt.Sprintf("export %-10s %s %3d%%", s.State, ProgressBar(s.Progress, 16), s.Progress)
	msg := s.Message
	switch {
	case s.State == export.Error:
		return st.Error.Render(line) + "\n" + st.Error.Render(msg)
	case s.Progress == 100:
		return st.Success.Render(line) + "\n" + st.Success.Render(msg)
	}
	return st.Value.Render(line) + "\n" + st.Muted.Render(msg)
}

func formatField(f params.Field, v float64) string {
	if f.Integer {
		return fmt.Sprintf("%d", int(v))
	}
	if f.Max-f.Min < 1 {
		return fmt.Sprintf("%.4f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space     - Pause/Resume animation  ║
║  Up/Down   - Select parameter        ║
║  Left/Right- Tune parameter (1%)     ║
║  Shift+←/→ - Tune parameter (10%)    ║
║  T         - Next theme              ║
║  R         - Randomize               ║
║  D         - Reset to defaults       ║
║  E         - Export video loop       ║
║  X         - Cancel export           ║
║  ?         - Toggle this help        ║
║  Q         - Quit                    ║
╚══════════════════════════════════════╝`
