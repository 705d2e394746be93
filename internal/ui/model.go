package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rubric/internal/driver"
)

const (
	rowLimit   = 12
	labelWidth = 11
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	busyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

type (
	eventMsg  driver.Event
	closedMsg struct{}
)

type model struct {
	title  string
	events <-chan driver.Event
	board  *board
	spin   spinner.Model
	bar    progress.Model
	width  int
	closed bool
}

// NewProgressModel renders the events of one run; it quits once events is
// closed.
func NewProgressModel(title string, events <-chan driver.Event) tea.Model {
	spin := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(busyStyle))
	return &model{
		title:  title,
		events: events,
		board:  newBoard(),
		spin:   spin,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		width:  80,
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.next)
}

// next blocks for the following event.
func (m *model) next() tea.Msg {
	ev, ok := <-m.events
	if !ok {
		return closedMsg{}
	}
	return eventMsg(ev)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.board.apply(driver.Event(msg))
		return m, tea.Batch(m.bar.SetPercent(m.board.completion()), m.next)
	case closedMsg:
		m.closed = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case spinner.TickMsg:
		if !m.closed {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *model) View() string {
	if len(m.board.rows) == 0 {
		return ""
	}
	var b strings.Builder
	lead := m.spin.View()
	if m.closed {
		lead = "done:"
	}
	b.WriteString(headerStyle.Render(lead+" "+m.board.header(m.title)) + "\n\n")

	rows := m.board.active(rowLimit)
	for _, r := range rows {
		b.WriteString("  " + m.row(r) + "\n")
	}
	if len(rows) > 0 {
		b.WriteByte('\n')
	}
	if m.closed {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

func (m *model) row(r *fileRow) string {
	label := strings.Repeat(" ", max(0, labelWidth-len(r.label()))) + r.label()
	text := r.path
	if r.err != nil {
		text += ": " + r.err.Error()
	}
	text = truncate(text, max(m.width-labelWidth-4, 20))
	if r.status == driver.StatusError {
		return errStyle.Render(label) + " " + dimStyle.Render(text)
	}
	return busyStyle.Render(label) + " " + text
}
