package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/scene"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/sorting"
)

var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	listErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
	tableHeader    = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// WatchModel - live scene in the terminal
// =============================================================================

// tickMsg advances the simulation by one frame.
type tickMsg time.Time

// WatchModel is the bubbletea model of the watch command. Every tick steps
// the scene; keys map to scene interactions on the selected node.
type WatchModel struct {
	Scene   *scene.Scene
	Tick    time.Duration
	FrameMs float64

	Frame  scene.Frame
	Cursor int
	Offset int
	Height int
	Paused bool
	Err    error
}

// NewWatchModel creates a model driving sc.
func NewWatchModel(sc *scene.Scene, tick time.Duration, frameMs float64) WatchModel {
	return WatchModel{
		Scene:   sc,
		Tick:    tick,
		FrameMs: frameMs,
		Frame:   sc.Last(),
		Height:  15,
	}
}

func (m WatchModel) tick() tea.Cmd {
	return tea.Tick(m.Tick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m WatchModel) Init() tea.Cmd {
	return m.tick()
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if !m.Paused {
			m.Frame = m.Scene.Frame(m.FrameMs)
		}
		return m, m.tick()
	case tea.KeyMsg:
		m.Err = nil
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case " ":
			m.Paused = !m.Paused
		case "enter":
			m.Err = m.Scene.Focus(m.selected())
		case "esc":
			m.Err = m.Scene.Focus(scene.None)
		case "+":
			m.Err = m.Scene.SetMaxDistance(m.Scene.Config().MaxDistance + 1)
		case "-":
			if d := m.Scene.Config().MaxDistance; d > 0 {
				m.Err = m.Scene.SetMaxDistance(d - 1)
			}
		case "z":
			m.Err = m.Scene.Zoom(m.selected(), 1, 1)
		case "Z":
			m.Err = m.Scene.Zoom(m.selected(), -1, -1)
		case "0":
			m.Err = m.Scene.ResetZoom(m.selected())
		case "h":
			m.Err = m.toggleHidden()
		case "l":
			m.Err = m.toggleLock()
		case "d":
			cfg := m.Scene.Config()
			m.Scene.ShowBands(!cfg.ShowDimBands, cfg.ShowRecBands)
		case "r":
			cfg := m.Scene.Config()
			m.Scene.ShowBands(cfg.ShowDimBands, !cfg.ShowRecBands)
		case "s":
			mode := sorting.ByBand
			if m.Scene.Config().Sorting == sorting.ByBand {
				mode = sorting.ByProbability
			}
			m.Scene.SetSorting(mode)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
	}
	return m, nil
}

func (m *WatchModel) move(delta int) {
	n := len(m.Frame.Nodes)
	if n == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), n-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m WatchModel) selected() int {
	if m.Cursor >= len(m.Frame.Nodes) {
		return scene.None
	}
	return m.Frame.Nodes[m.Cursor].ID
}

func (m WatchModel) toggleHidden() error {
	if m.Cursor >= len(m.Frame.Nodes) {
		return nil
	}
	n := m.Frame.Nodes[m.Cursor]
	if n.Hidden {
		return m.Scene.Show(n.ID)
	}
	return m.Scene.Hide(n.ID)
}

func (m WatchModel) toggleLock() error {
	if m.Cursor >= len(m.Frame.Nodes) {
		return nil
	}
	n := m.Frame.Nodes[m.Cursor]
	return m.Scene.Lock(n.ID, !n.Locked)
}

func (m WatchModel) View() string {
	var b strings.Builder
	f := m.Frame
	cfg := m.Scene.Config()

	b.WriteString(StyleTitle.Render("Bicluster"))
	state := "running"
	if m.Paused {
		state = "paused"
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  frame %d · %s · %d/%d visible · %d bands · distance %d · %s",
		f.Seq, state, f.VisibleNodes(), len(f.Nodes), len(f.Bands), cfg.MaxDistance, cfg.Sorting)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ select  ⏎ focus  esc unfocus  +/- distance  z/Z zoom  0 reset  h hide  l lock  d/r bands  s sort  space pause  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(f.Nodes))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := f.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		flags := ""
		if n.ID == f.Focused {
			flags += "F"
		}
		if n.Locked {
			flags += "L"
		}
		if n.Hidden {
			flags += "H"
		}
		pos := "—"
		if n.Visible {
			pos = fmt.Sprintf("%.0f,%.0f", n.Rect.X+n.Rect.W/2, n.Rect.Y+n.Rect.H/2)
		}
		rows = append(rows, []string{
			cursor, fmt.Sprint(n.ID), n.Label, n.Kind, n.Mode,
			fmt.Sprintf("%d×%d", len(n.Recs), len(n.Dims)),
			pos, fmt.Sprintf("%.2f", n.Opacity), flags,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Label", "Kind", "Mode", "Size", "Center", "Alpha", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeader
			}
			idx := m.Offset + row
			if idx >= len(f.Nodes) {
				return lipgloss.NewStyle()
			}
			n := f.Nodes[idx]
			base := lipgloss.NewStyle()
			switch {
			case !n.Visible:
				base = base.Foreground(colorDim)
			case n.ID == f.Focused:
				base = base.Foreground(colorGreen)
			}
			if idx == m.Cursor {
				base = base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if m.Err != nil {
		b.WriteString(listErrorStyle.Render(iconError + " " + m.Err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}
