package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dcarrick/meshview/pkg/config"
	"github.com/dcarrick/meshview/pkg/engine"
	"github.com/dcarrick/meshview/pkg/peer"
	"github.com/dcarrick/meshview/pkg/pubsub"
	"github.com/dcarrick/meshview/pkg/render/termcell"
	"github.com/dcarrick/meshview/pkg/scene"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7DD3FC"))

	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))

	selectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FACC15"))

	pausedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F87171"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#475569"))
)

// headerRows is the number of terminal rows above the canvas. Mouse
// coordinates arrive in screen cells and shift by this much before they
// become canvas pixels.
const headerRows = 2

type keyMap struct {
	Pause key.Binding
	Reset key.Binding
	Edges key.Binding
	Churn key.Binding
	Clear key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Pause: key.NewBinding(
		key.WithKeys(" ", "p"),
		key.WithHelp("space", "pause"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset camera"),
	),
	Edges: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "toggle edges"),
	),
	Churn: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "churn peers"),
	),
	Clear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear selection"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Reset, k.Edges, k.Churn, k.Clear, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Reset, k.Edges},
		{k.Churn, k.Clear, k.Quit},
	}
}

type frameMsg time.Time

func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

type rosterMsg []peer.Record

// waitForRoster blocks on the directory watch channel and surfaces the
// next roster as a message
func waitForRoster(ch <-chan []peer.Record) tea.Cmd {
	return func() tea.Msg {
		roster, ok := <-ch
		if !ok {
			return nil
		}
		return rosterMsg(roster)
	}
}

type model struct {
	eng       *engine.Engine
	canvas    *termcell.Canvas
	directory *peer.SimulatedDirectory
	roster    <-chan []peer.Record
	selSub    *pubsub.Subscription

	help  help.Model
	keys  keyMap
	width int

	frameInterval time.Duration
	selectedName  string
}

func initialModel(eng *engine.Engine, canvas *termcell.Canvas, dir *peer.SimulatedDirectory, roster <-chan []peer.Record, frameInterval time.Duration) model {
	return model{
		eng:           eng,
		canvas:        canvas,
		directory:     dir,
		roster:        roster,
		selSub:        eng.Bus().Subscribe(context.Background(), pubsub.TopicSelection),
		help:          help.New(),
		keys:          keys,
		frameInterval: frameInterval,
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{frameCmd(m.frameInterval)}
	if m.roster != nil {
		cmds = append(cmds, waitForRoster(m.roster))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		rows := msg.Height - headerRows - 1
		if rows < 1 {
			rows = 1
		}
		m.canvas.Resize(msg.Width, rows)
		m.eng.Camera().Resize(msg.Width, rows*2)

	case frameMsg:
		m.eng.Tick(time.Time(msg))
		m.drainSelections()
		return m, frameCmd(m.frameInterval)

	case rosterMsg:
		m.eng.UpdatePeers([]peer.Record(msg))
		return m, waitForRoster(m.roster)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.eng.SetPaused(!m.eng.Paused())
		case key.Matches(msg, m.keys.Reset):
			m.eng.Camera().Reset()
		case key.Matches(msg, m.keys.Edges):
			m.eng.SetShowConnections(!m.eng.ShowConnections())
		case key.Matches(msg, m.keys.Churn):
			m.eng.UpdatePeers(m.directory.Churn(m.directory.MinPeers, m.directory.MaxPeers))
		case key.Matches(msg, m.keys.Clear):
			m.eng.Controller().ClearSelection()
		}
	}

	return m, nil
}

// handleMouse translates terminal cell coordinates into canvas pixels.
// Half-block rendering packs two pixel rows into one cell row, so the
// vertical coordinate doubles after the header offset.
func (m *model) handleMouse(msg tea.MouseMsg) {
	x := float64(msg.X)
	y := float64((msg.Y - headerRows) * 2)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.eng.Controller().Wheel(1)
		return
	case tea.MouseButtonWheelDown:
		m.eng.Controller().Wheel(-1)
		return
	}

	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionMotion {
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		m.eng.Controller().PointerDown(x, y)
	case tea.MouseActionMotion:
		m.eng.Controller().PointerMove(x, y)
	case tea.MouseActionRelease:
		m.eng.Controller().PointerUp(x, y)
	}
}

// drainSelections pulls queued selection events so the header can name
// the selected peer without touching engine internals mid-frame.
func (m *model) drainSelections() {
	for {
		select {
		case ev, ok := <-m.selSub.Events():
			if !ok {
				return
			}
			sel, ok := ev.(pubsub.SelectionEvent)
			if !ok {
				continue
			}
			if !sel.Selected {
				m.selectedName = ""
				continue
			}
			m.selectedName = sel.PeerID
			if node := m.eng.Scene().Get(sel.PeerID); node != nil && node.Peer.DisplayName != "" {
				m.selectedName = node.Peer.DisplayName
			}
		default:
			return
		}
	}
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("meshview"))
	s.WriteString("  ")
	s.WriteString(statsStyle.Render(fmt.Sprintf("%d peers · %d edges", m.eng.Scene().Len(), m.eng.Scene().EdgeCount())))
	if m.selectedName != "" {
		s.WriteString("  ")
		s.WriteString(selectionStyle.Render("◉ " + m.selectedName))
	}
	if m.eng.Paused() {
		s.WriteString("  ")
		s.WriteString(pausedStyle.Render("PAUSED"))
	}
	s.WriteString("\n")
	s.WriteString(statsStyle.Render("drag to orbit · wheel to zoom · click a node to select"))
	s.WriteString("\n")

	s.WriteString(m.canvas.View())
	s.WriteString("\n")

	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func main() {
	var (
		configPath    = flag.String("config", "", "path to a YAML options file")
		peerCount     = flag.Int("peers", 12, "initial simulated peer count")
		seed          = flag.Int64("seed", 0, "rng seed, 0 seeds from the clock")
		churnInterval = flag.Duration("churn", 4*time.Second, "simulated roster churn interval, 0 disables")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	// Sized properly on the first WindowSizeMsg
	canvas := termcell.New(80, 24)
	cfg.Viewport = config.Viewport{Width: 80, Height: 48}

	eng := engine.New(engine.Options{
		Config:  cfg,
		Surface: canvas,
		Rng:     rng,
		Policy:  scene.NewRandomPolicy(3, rng),
	})

	// The watch goroutine churns concurrently with the render loop, so the
	// directory gets its own rng rather than sharing the engine's.
	dir := peer.NewSimulatedDirectory(*peerCount, rand.New(rand.NewSource(*seed+1)))
	eng.UpdatePeers(dir.Peers())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var roster <-chan []peer.Record
	if *churnInterval > 0 {
		dir.ChurnInterval = *churnInterval
		roster = dir.Watch(ctx)
	}

	m := initialModel(eng, canvas, dir, roster, cfg.FrameDuration())
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
