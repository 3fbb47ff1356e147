package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/chromeless/internal/ipc"
	"github.com/1broseidon/chromeless/internal/shell"
)

const pollInterval = 500 * time.Millisecond

type (
	tickMsg   struct{}
	statusMsg struct {
		status *ipc.StatusData
		err    error
	}
	actionMsg struct {
		action string
		err    error
	}
)

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func pollStatus(client Client) tea.Cmd {
	return func() tea.Msg {
		status, err := client.GetStatus()
		return statusMsg{status: status, err: err}
	}
}

func sendAction(client Client, a shell.Action) tea.Cmd {
	return func() tea.Msg {
		_, err := client.Action(a.String())
		return actionMsg{action: a.String(), err: err}
	}
}

type windowKeys struct {
	minimize key.Binding
	toggle   key.Binding
	restore  key.Binding
	close    key.Binding
}

func newWindowKeys() windowKeys {
	return windowKeys{
		minimize: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "minimize")),
		toggle:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "maximize/restore")),
		restore:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restore")),
		close:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "close")),
	}
}

func (k windowKeys) bindings() []key.Binding {
	return []key.Binding{k.minimize, k.toggle, k.restore, k.close}
}

func (k windowKeys) action(msg tea.KeyMsg) (shell.Action, bool) {
	switch {
	case key.Matches(msg, k.minimize):
		return shell.ActionMinimize, true
	case key.Matches(msg, k.toggle):
		return shell.ActionToggleMaximize, true
	case key.Matches(msg, k.restore):
		return shell.ActionRestore, true
	case key.Matches(msg, k.close):
		return shell.ActionClose, true
	}
	return 0, false
}

// WindowTab shows the live interaction state and sends window actions.
type WindowTab struct {
	client Client
	keys   windowKeys

	status  *ipc.StatusData
	pollErr error
	notice  string

	width  int
	height int
}

// NewWindowTab creates a WindowTab that acts through client.
func NewWindowTab(client Client) WindowTab {
	return WindowTab{client: client, keys: newWindowKeys()}
}

// Update implements tea.Model.
func (w WindowTab) Update(msg tea.Msg) (WindowTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		a, ok := w.keys.action(msg)
		if !ok {
			return w, nil
		}
		if w.status == nil {
			w.notice = "no window to " + a.String()
			return w, nil
		}
		return w, sendAction(w.client, a)
	case actionMsg:
		if msg.err != nil {
			w.notice = msg.err.Error()
		} else {
			w.notice = msg.action + " queued"
		}
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
	}
	return w, nil
}

func (w *WindowTab) setStatus(msg statusMsg) {
	w.status = msg.status
	w.pollErr = msg.err
	if msg.err != nil {
		w.status = nil
	}
}

// Help lists the tab's shortcuts.
func (w WindowTab) Help() string {
	parts := make([]string, 0, 4)
	for _, b := range w.keys.bindings() {
		parts = append(parts, b.Help().Key+": "+b.Help().Desc)
	}
	return strings.Join(parts, "  ")
}

// View implements tea.Model.
func (w WindowTab) View() string {
	contentStyle := lipgloss.NewStyle().
		Width(w.width).
		Height(w.height).
		Padding(1, 2)

	if w.status == nil {
		lines := []string{dimStyle.Render("No window is answering on the control socket.")}
		if w.pollErr != nil {
			lines = append(lines, "", dimStyle.Render(w.pollErr.Error()))
		}
		lines = append(lines, "", dimStyle.Render("Start one with 'chromeless run'."))
		if w.notice != "" {
			lines = append(lines, "", w.notice)
		}
		return contentStyle.Render(strings.Join(lines, "\n"))
	}

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Width(18).
		Align(lipgloss.Right).
		PaddingRight(2)
	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true)
	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	s := w.status
	b := s.Bounds
	lines := []string{
		row("State", s.State),
		row("Restore Target", s.RestoreTarget),
		row("Bounds", fmt.Sprintf("%dx%d+%d+%d", b.Width, b.Height, b.X, b.Y)),
		"",
		row("Hover", s.Hover),
		row("Dragging", yesNo(s.Dragging)),
		row("Resize Enabled", yesNo(s.ResizeEnabled)),
		row("Uptime", (time.Duration(s.UptimeSeconds) * time.Second).String()),
	}
	if w.notice != "" {
		lines = append(lines, "", dimStyle.Render("  "+w.notice))
	}
	return contentStyle.Render(strings.Join(lines, "\n"))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
