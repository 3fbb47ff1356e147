package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/chromeless/internal/ipc"
)

type monitorsMsg struct {
	monitors []ipc.MonitorInfo
	err      error
}

func fetchMonitors(client Client) tea.Cmd {
	return func() tea.Msg {
		data, err := client.GetMonitors()
		if err != nil {
			return monitorsMsg{err: err}
		}
		return monitorsMsg{monitors: data.Monitors}
	}
}

// monitorItem is a list item representing one display.
type monitorItem struct {
	info ipc.MonitorInfo
}

func (i monitorItem) Title() string {
	if i.info.Current {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Render("★") + " " + i.info.Name
	}
	return "  " + i.info.Name
}

func (i monitorItem) Description() string {
	desc := fmt.Sprintf("#%d  %dx%d+%d+%d", i.info.ID, i.info.Width, i.info.Height, i.info.X, i.info.Y)
	if i.info.Current {
		desc += "  holds the window"
	}
	return desc
}

func (i monitorItem) FilterValue() string { return i.info.Name }

// MonitorsTab lists the displays reported by the running window.
type MonitorsTab struct {
	client Client
	list   list.Model
	err    error
	width  int
	height int
}

// NewMonitorsTab creates an empty MonitorsTab; call refresh to populate it.
func NewMonitorsTab(client Client) MonitorsTab {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Monitors"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	return MonitorsTab{client: client, list: l}
}

func (t MonitorsTab) refresh() tea.Cmd {
	return fetchMonitors(t.client)
}

// Update implements tea.Model.
func (t MonitorsTab) Update(msg tea.Msg) (MonitorsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case monitorsMsg:
		t.err = msg.err
		items := make([]list.Item, 0, len(msg.monitors))
		for _, m := range msg.monitors {
			items = append(items, monitorItem{info: m})
		}
		return t, t.list.SetItems(items)
	case tea.KeyMsg:
		if msg.String() == "r" {
			return t, t.refresh()
		}
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
		t.list.SetSize(msg.Width, msg.Height)
		return t, nil
	}

	var cmd tea.Cmd
	t.list, cmd = t.list.Update(msg)
	return t, cmd
}

// Help lists the tab's shortcuts.
func (t MonitorsTab) Help() string {
	return "j/k: navigate  r: refresh"
}

// View implements tea.Model.
func (t MonitorsTab) View() string {
	if t.err != nil && len(t.list.Items()) == 0 {
		style := lipgloss.NewStyle().
			Width(t.width).
			Height(t.height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center)
		return style.Render("Monitors unavailable: " + t.err.Error())
	}
	return t.list.View()
}
