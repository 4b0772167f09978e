package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"ghannotate/internal/annotation"
	"ghannotate/internal/driver"
)

// recentLimit is how many compiled crates stay on screen.
const recentLimit = 6

type progressModel struct {
	title    string
	events   <-chan driver.Event
	spinner  spinner.Model
	recent   []crateItem
	compiled int
	fresh    int
	errors   int
	warnings int
	notices  int
	finished bool
	success  bool
	width    int
	done     bool
}

type crateItem struct {
	name  string
	fresh bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders cargo progress
// from events until the channel is closed.
func NewProgressModel(title string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.applyEvent(driver.Event(msg))
		return m, m.listenForEvent()
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	switch {
	case m.done:
		header = fmt.Sprintf("done: %s", header)
	case m.finished:
		outcome := "build finished"
		if !m.success {
			outcome = "build failed"
		}
		header = fmt.Sprintf("%s %s (%s)", m.spinner.View(), header, outcome)
	default:
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 9
	nameWidth := max(m.width-statusWidth-4, 20)
	for _, item := range m.recent {
		status := "compiled"
		if item.fresh {
			status = "fresh"
		}
		statusStyled := styleStatus(status).Render(fmt.Sprintf("%9s", status))
		b.WriteString(fmt.Sprintf("  %s %s\n", statusStyled, truncate(item.name, nameWidth)))
	}
	if len(m.recent) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(m.countsLine())
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) countsLine() string {
	parts := []string{
		fmt.Sprintf("%d crates (%d fresh)", m.compiled, m.fresh),
		styleStatus("error").Render(fmt.Sprintf("%d errors", m.errors)),
		styleStatus("warning").Render(fmt.Sprintf("%d warnings", m.warnings)),
		fmt.Sprintf("%d notices", m.notices),
	}
	return "  " + strings.Join(parts, "  ")
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.Event) {
	switch ev.Kind {
	case driver.EventArtifact:
		m.compiled++
		if ev.Fresh {
			m.fresh++
		}
		m.recent = append(m.recent, crateItem{name: ev.Name, fresh: ev.Fresh})
		if len(m.recent) > recentLimit {
			m.recent = m.recent[len(m.recent)-recentLimit:]
		}
	case driver.EventAnnotation:
		switch ev.Annotation {
		case annotation.KindError:
			m.errors++
		case annotation.KindWarning:
			m.warnings++
		default:
			m.notices++
		}
	case driver.EventFinished:
		m.finished = true
		m.success = ev.Success
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "fresh":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "warning":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	case "compiled":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
