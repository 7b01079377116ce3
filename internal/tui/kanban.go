// Package tui implements the interactive kanban view. The model keeps the
// selection in a session.State value and runs log-time and close actions
// through the session machine, so keyboard-driven mutations follow the same
// visibility and lock-version rules as the CLI commands.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ophub/internal/format"
	"ophub/internal/models"
	"ophub/internal/report"
	"ophub/internal/session"
)

const actionTimeout = 30 * time.Second

// Snapshot is one fetched board state.
type Snapshot struct {
	Board report.Board
	Tasks []models.EnrichedTask
}

// Loader fetches a fresh snapshot from the server.
type Loader func(ctx context.Context) (Snapshot, error)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	groupStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4A90E2"))

	orphanStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F7DC6F"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	statusLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F7DC6F"))

	errorLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// row is one rendered line: a group header or a navigable task.
type row struct {
	header string
	task   models.EnrichedTask
	isTask bool
}

type snapshotMsg struct {
	snap Snapshot
	err  error
}

type closedMsg struct {
	state session.State
	err   error
}

type loggedMsg struct {
	result session.LogTimeResult
	err    error
}

// Model is the bubbletea model for the kanban view.
type Model struct {
	loader  Loader
	machine *session.Machine

	state  session.State
	snap   Snapshot
	rows   []row
	cursor int

	width   int
	height  int
	loading bool
	status  string
	err     error

	// hours-input mode for the log-time action
	entering bool
	input    string
}

// New returns a kanban model that loads via loader and closes via machine.
func New(loader Loader, machine *session.Machine) Model {
	return Model{loader: loader, machine: machine, loading: true}
}

// Run starts the interactive kanban program.
func Run(loader Loader, machine *session.Machine) error {
	p := tea.NewProgram(New(loader, machine), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.refreshCmd()
}

func (m Model) refreshCmd() tea.Cmd {
	loader := m.loader
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		snap, err := loader(ctx)
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m Model) closeCmd() tea.Cmd {
	machine, state, tasks := m.machine, m.state, m.snap.Tasks
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		next, err := machine.Close(ctx, state, tasks)
		return closedMsg{state: next, err: err}
	}
}

func (m Model) logCmd(hours float64) tea.Cmd {
	machine, state, tasks := m.machine, m.state, m.snap.Tasks
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		_, result, err := machine.LogTime(ctx, state, tasks, session.LogTimeRequest{Hours: hours})
		return loggedMsg{result: result, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.entering {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case snapshotMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.snap = msg.snap
		m.rows = buildRows(msg.snap.Board)
		if !m.state.Visible(msg.snap.Tasks) {
			m.state = m.state.Clear()
		}
		m.clampCursor()
	case closedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.state = msg.state
		m.status = "task closed"
		m.loading = true
		return m, m.refreshCmd()
	case loggedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("time logged on #%d", msg.result.TaskID)
		if msg.result.Warning != "" {
			m.status = msg.result.Warning
		}
		m.loading = true
		return m, m.refreshCmd()
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.entering = false
		m.input = ""
	case "enter":
		hours, err := strconv.ParseFloat(m.input, 64)
		m.entering = false
		m.input = ""
		if err != nil || hours <= 0 {
			m.err = errors.New("hours must be a positive number")
			return m, nil
		}
		m.loading = true
		return m, m.logCmd(hours)
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	default:
		if msg.Type == tea.KeyRunes {
			for _, r := range msg.Runes {
				if (r >= '0' && r <= '9') || r == '.' {
					m.input += string(r)
				}
			}
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "enter", " ":
		m.toggleSelection()
	case "r":
		m.loading = true
		return m, m.refreshCmd()
	case "c":
		if _, ok := m.state.Selected(); !ok {
			m.err = session.ErrNoSelection
			return m, nil
		}
		m.loading = true
		return m, m.closeCmd()
	case "l":
		if _, ok := m.state.Selected(); !ok {
			m.err = session.ErrNoSelection
			return m, nil
		}
		m.err = nil
		m.entering = true
		m.input = ""
	}
	return m, nil
}

// moveCursor steps to the next task row in the given direction, skipping
// group headers.
func (m *Model) moveCursor(delta int) {
	for i := m.cursor + delta; i >= 0 && i < len(m.rows); i += delta {
		if m.rows[i].isTask {
			m.cursor = i
			return
		}
	}
}

func (m *Model) toggleSelection() {
	if m.cursor >= len(m.rows) || !m.rows[m.cursor].isTask {
		return
	}
	id := m.rows[m.cursor].task.ID
	if selected, ok := m.state.Selected(); ok && selected == id {
		m.state = m.state.Clear()
		return
	}
	m.state = m.state.Select(id)
}

// clampCursor keeps the cursor on a task row after a reload.
func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor < len(m.rows) && m.rows[m.cursor].isTask {
		return
	}
	for i, r := range m.rows {
		if r.isTask {
			m.cursor = i
			return
		}
	}
	m.cursor = 0
}

func buildRows(board report.Board) []row {
	var rows []row
	for _, group := range board.Groups {
		label := groupLabel(group)
		rows = append(rows, row{header: label})
		for _, task := range group.Tasks {
			rows = append(rows, row{task: task, isTask: true})
		}
	}
	if len(board.Orphans) > 0 {
		rows = append(rows, row{header: orphanStyle.Render("? " + report.UnclassifiedLabel)})
		for _, task := range board.Orphans {
			rows = append(rows, row{task: task, isTask: true})
		}
	}
	return rows
}

func groupLabel(group report.Group) string {
	indent := strings.Repeat("  ", group.Depth)
	name := group.Node.Project.Name
	if group.Node.Unclassified {
		return indent + orphanStyle.Render("? "+name)
	}
	if group.Depth > 0 {
		return indent + groupStyle.Render("↳ "+name)
	}
	return indent + groupStyle.Render(name)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("ophub kanban"))
	b.WriteString("\n\n")

	switch {
	case m.loading && len(m.rows) == 0:
		b.WriteString("loading...\n")
	case len(m.rows) == 0:
		b.WriteString("no active tasks\n")
	default:
		m.renderRows(&b)
	}

	b.WriteString("\n")
	if m.entering {
		b.WriteString(statusLineStyle.Render("hours to log: "+m.input+"▏") + "\n")
	}
	if m.err != nil {
		b.WriteString(errorLineStyle.Render("error: "+m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString(statusLineStyle.Render(m.status) + "\n")
	} else if m.loading {
		b.WriteString(statusLineStyle.Render("refreshing...") + "\n")
	}

	b.WriteString(footerStyle.Render("↑/↓ move • enter select • l log • c close • r refresh • q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderRows(b *strings.Builder) {
	selected, hasSelection := m.state.Selected()
	for i, r := range m.rows {
		if !r.isTask {
			b.WriteString(r.header + "\n")
			continue
		}

		marker := "  "
		if i == m.cursor {
			marker = cursorStyle.Render("▸ ")
		}

		line := fmt.Sprintf("#%d %s [%s] %d%% pend %.1fh %s",
			r.task.ID,
			r.task.Subject,
			r.task.Status,
			r.task.Progress,
			r.task.HoursPending,
			format.DueLabel(r.task.DueStatus),
		)
		if hasSelection && r.task.ID == selected {
			line = selectedStyle.Render("● ") + line
		} else {
			line = "  " + line
		}
		b.WriteString("  " + marker + line + "\n")
	}
}
