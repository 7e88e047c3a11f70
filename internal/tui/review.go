// Package tui provides the full-screen ticket review form.
package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"taskscribe/internal/domain"
)

const (
	buttonAccept = iota
	buttonDecline
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	ticketStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#555555")).
			Padding(0, 1).
			Width(60)

	focusedTicketStyle = ticketStyle.
				BorderForeground(lipgloss.Color("#7D56F4"))

	assigneeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	acceptedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#22AA55")).
			Bold(true)

	declinedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CC4444")).
			Bold(true)

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAA55"))

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("#AAAAAA"))

	focusedButtonStyle = lipgloss.NewStyle().
				Padding(0, 2).
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#7D56F4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Padding(1, 1, 0, 1)
)

// KeyMap defines the review form key bindings.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Switch  key.Binding
	Select  key.Binding
	Accept  key.Binding
	Decline key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default review form key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous ticket"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next ticket"),
		),
		Switch: key.NewBinding(
			key.WithKeys("left", "right", "tab"),
			key.WithHelp("←/→", "switch button"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "press button"),
		),
		Accept: key.NewBinding(
			key.WithKeys("a", "y"),
			key.WithHelp("a", "accept"),
		),
		Decline: key.NewBinding(
			key.WithKeys("d", "n"),
			key.WithHelp("d", "decline"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "finish"),
		),
	}
}

// Model is the bubbletea model for the review form. Undecided tickets keep
// their pending status when the form closes.
type Model struct {
	tickets []domain.Ticket
	cursor  int
	button  int
	keyMap  KeyMap
	width   int
	height  int
}

func NewModel(tickets []domain.Ticket) Model {
	return Model{
		tickets: tickets,
		keyMap:  DefaultKeyMap(),
	}
}

// Tickets returns the reviewed tickets in their original order.
func (m Model) Tickets() []domain.Ticket {
	return m.tickets
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, m.keyMap.Down):
			if m.cursor < len(m.tickets)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, m.keyMap.Switch):
			m.button = 1 - m.button
			return m, nil

		case key.Matches(msg, m.keyMap.Select):
			if m.button == buttonAccept {
				return m.decide(domain.StatusAccepted)
			}
			return m.decide(domain.StatusDeclined)

		case key.Matches(msg, m.keyMap.Accept):
			return m.decide(domain.StatusAccepted)

		case key.Matches(msg, m.keyMap.Decline):
			return m.decide(domain.StatusDeclined)
		}
	}

	return m, nil
}

// decide records the status for the ticket under the cursor, then moves to
// the next undecided ticket. The form closes once every ticket is decided.
func (m Model) decide(status domain.Status) (tea.Model, tea.Cmd) {
	if len(m.tickets) == 0 {
		return m, tea.Quit
	}

	m.tickets[m.cursor].Status = status
	m.button = buttonAccept

	if next, ok := m.nextPending(); ok {
		m.cursor = next
		return m, nil
	}

	return m, tea.Quit
}

// nextPending looks for an undecided ticket, scanning forward from the
// cursor and wrapping around.
func (m Model) nextPending() (int, bool) {
	n := len(m.tickets)
	for i := 1; i <= n; i++ {
		idx := (m.cursor + i) % n
		if m.tickets[idx].Status == domain.StatusPending {
			return idx, true
		}
	}
	return 0, false
}

func (m Model) View() tea.View {
	view := tea.NewView(m.render())
	view.AltScreen = true
	view.WindowTitle = "taskscribe"
	return view
}

func (m Model) render() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Review tickets (%d)", len(m.tickets))))
	b.WriteString("\n\n")

	for i, t := range m.tickets {
		b.WriteString(m.renderTicket(i, t))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ move · ←/→ switch · enter press · a accept · d decline · q finish"))

	return b.String()
}

func (m Model) renderTicket(idx int, t domain.Ticket) string {
	var lines []string

	lines = append(lines, t.Text)
	if t.Assignee != "" {
		lines = append(lines, assigneeStyle.Render("assignee: "+t.Assignee))
	}
	lines = append(lines, m.renderStatusLine(idx, t))

	style := ticketStyle
	if idx == m.cursor {
		style = focusedTicketStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatusLine(idx int, t domain.Ticket) string {
	switch t.Status {
	case domain.StatusAccepted:
		return acceptedStyle.Render("✓ accepted")
	case domain.StatusDeclined:
		return declinedStyle.Render("✗ declined")
	}

	if idx != m.cursor {
		return pendingStyle.Render("pending")
	}

	accept := buttonStyle.Render("Accept")
	decline := buttonStyle.Render("Decline")
	if m.button == buttonAccept {
		accept = focusedButtonStyle.Render("Accept")
	} else {
		decline = focusedButtonStyle.Render("Decline")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, accept, "  ", decline)
}

// Reviewer runs the review form as a full-screen program.
type Reviewer struct{}

func NewReviewer() *Reviewer {
	return &Reviewer{}
}

func (r *Reviewer) Review(ctx context.Context, tickets []domain.Ticket) ([]domain.Ticket, error) {
	if len(tickets) == 0 {
		return tickets, nil
	}

	p := tea.NewProgram(NewModel(tickets), tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running review form: %w", err)
	}

	model, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected final model type %T", final)
	}

	return model.Tickets(), nil
}
