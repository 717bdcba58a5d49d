package viz

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/chernoby/internal/config"
	"github.com/san-kum/chernoby/internal/experiment"
	"github.com/san-kum/chernoby/internal/particle"
	"github.com/san-kum/chernoby/internal/reactor"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	maxStepsPerTick = 16
	gifPath         = "reactor.gif"
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model runs a scenario frame by frame.
type Model struct {
	scenario *config.Scenario
	sim      *reactor.Simulator
	canvas   *Canvas
	view     Viewport
	stats    reactor.Stats

	running   bool
	finished  bool
	showHelp  bool
	perTick   int
	recorder  *Recorder
	lastSaved string
	err       error

	population []float64
	neutrons   []float64
}

func NewModel(s *config.Scenario) (Model, error) {
	m := Model{
		scenario: s,
		canvas:   NewCanvas(width, height),
		running:  true,
		perTick:  1,
	}
	m.view = NewViewport(m.canvas, s.Width, s.Height)
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) reset() error {
	exp := experiment.New(m.scenario)
	if err := exp.Setup(nil); err != nil {
		return err
	}
	m.sim = exp.Simulator()
	m.stats = m.sim.Stats()
	m.finished = false
	m.population = append(m.population[:0], float64(m.stats.Particles))
	m.neutrons = append(m.neutrons[:0], float64(m.stats.Neutrons))
	m.draw()
	return nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.err = m.reset()
		case "+", "=":
			m.perTick = min(m.perTick*2, maxStepsPerTick)
		case "-", "_":
			m.perTick = max(m.perTick/2, 1)
		case "t":
			NextTheme()
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && !m.finished {
			for i := 0; i < m.perTick && !m.finished; i++ {
				m.step()
			}
			m.draw()
			if m.recorder != nil {
				m.recorder.Capture(m.canvas)
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.stats = m.sim.Step()
	m.population = appendCapped(m.population, float64(m.stats.Particles))
	m.neutrons = appendCapped(m.neutrons, float64(m.stats.Neutrons))
	cfg := m.sim.Config()
	if m.stats.Time >= cfg.Duration-cfg.Dt/2 || m.stats.Particles == 0 {
		m.finished = true
	}
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

func (m *Model) toggleRecording() {
	if m.recorder == nil {
		m.recorder = NewRecorder(2)
		return
	}
	rec := m.recorder
	m.recorder = nil
	if rec.Len() == 0 {
		return
	}
	f, err := os.Create(gifPath)
	if err != nil {
		m.err = err
		return
	}
	defer f.Close()
	if err := rec.Encode(f); err != nil {
		m.err = err
		return
	}
	m.lastSaved = gifPath
}

// draw renders rods as lines, atoms as circles (filled when unstable) and
// everything else as single dots.
func (m *Model) draw() {
	m.canvas.Clear()
	w := m.sim.World()

	for _, r := range w.Rods {
		x0, y0 := m.view.Point(r.Start())
		x1, y1 := m.view.Point(r.End())
		m.canvas.DrawLine(x0, y0, x1, y1)
	}

	for _, p := range w.Particles {
		x, y := m.view.Point(p.Position())
		if !p.Is(particle.Atom) {
			m.canvas.Set(x, y)
			continue
		}
		r := max(m.view.Length(p.Radius()), 1)
		if p.Unstable() {
			m.canvas.FillCircle(x, y, r)
		} else {
			m.canvas.DrawCircle(x, y, r)
		}
	}

	dw, dh := m.canvas.Dots()
	m.canvas.DrawLine(0, 0, dw-1, 0)
	m.canvas.DrawLine(0, dh-1, dw-1, dh-1)
	m.canvas.DrawLine(0, 0, 0, dh-1)
	m.canvas.DrawLine(dw-1, 0, dw-1, dh-1)
}

func (m Model) status() string {
	switch {
	case m.recorder != nil:
		return StatusRecording.Render(fmt.Sprintf("● REC %d", m.recorder.Len()))
	case m.finished:
		return StatusPaused.Render("FINISHED")
	case !m.running:
		return StatusPaused.Render("PAUSED")
	}
	return StatusRunning.Render(fmt.Sprintf("RUNNING x%d", m.perTick))
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle().Render(strings.ToUpper(m.scenario.Name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.population) > 1 {
		chart := asciigraph.Plot(m.population, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("Population"))
		s.WriteString(chart + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	st := m.stats
	row("Time", fmt.Sprintf("%.2f / %.0f", st.Time, m.sim.Config().Duration))
	row("Atoms", fmt.Sprintf("%d", st.Atoms))
	row("Neutrons", fmt.Sprintf("%d", st.Neutrons))
	row("Energy", fmt.Sprintf("%.1f", st.Energy))
	row("Fissions", fmt.Sprintf("%d (%d spont.)", st.Fissions, st.Spontaneous))
	row("Captures", fmt.Sprintf("%d", st.Captures))
	row("Rods", fmt.Sprintf("%d absorbed", st.RodAbsorbed))
	row("Lost", fmt.Sprintf("%d escaped, %d expired", st.Escaped, st.Expired))

	if limit := m.sim.Config().MaxParticles; limit > 0 {
		s.WriteString(MetricLabel.Render("Capacity") + ProgressBar(float64(st.Particles)/float64(limit), 20) + "\n")
	}
	s.WriteString(MetricLabel.Render("Flux") + Subtle.Render(Sparkline(m.neutrons, 28)) + "\n")

	if m.lastSaved != "" {
		s.WriteString("\n" + Subtle.Render("saved "+m.lastSaved) + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + StatusRecording.UnsetBlink().Render(m.err.Error()) + "\n")
	}
	s.WriteString(KeyHint.Render("\nSP:Pause R:Reset Q:Quit\n+/-:Speed T:Theme G:Record ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle().Render(m.canvas.String()),
		panelStyle().Render(s.String()),
	)
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset scenario           ║
║  +/-      - Steps per frame          ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
`
