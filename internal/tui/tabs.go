package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/chromeless/internal/ipc"
)

// Tab identifies a TUI tab.
type Tab int

const (
	TabWindow Tab = iota
	TabMonitors
	TabSettings
	tabCount // sentinel for iteration
)

func (t Tab) String() string {
	switch t {
	case TabWindow:
		return "Window"
	case TabMonitors:
		return "Monitors"
	case TabSettings:
		return "Settings"
	default:
		return "?"
	}
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	tabBarStyle = lipgloss.NewStyle().
			MarginBottom(1)

	tabGap = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		SetString(" ")

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// renderTabBar renders the tab row; each label carries its number shortcut.
func renderTabBar(active Tab, width int) string {
	tabs := make([]string, 0, int(tabCount))
	for i := Tab(0); i < tabCount; i++ {
		label := fmt.Sprintf("%d:%s", int(i)+1, i)
		if i == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(tabs, tabGap.Render())...)
	return tabBarStyle.Width(width).Render(row)
}

// intersperse inserts sep between each element of items.
func intersperse(items []string, sep string) []string {
	if len(items) <= 1 {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}

// renderStatusBar shows whether a window answers on the control socket.
func renderStatusBar(status *ipc.StatusData, width int) string {
	var text string
	if status != nil {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{dot + " window connected", "state:" + status.State}
		if status.Dragging {
			parts = append(parts, "dragging")
		}
		if !status.ResizeEnabled {
			parts = append(parts, "resize disabled")
		}
		text = strings.Join(parts, "  ")
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		text = dot + " window not running"
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(text)
}

// renderHelpBar renders the bottom help line. tabHelp is the active tab's
// own shortcuts and may be empty.
func renderHelpBar(tabHelp string, width int) string {
	help := "tab/shift-tab: switch tabs  1-3: jump to tab  ctrl-s: save  q/ctrl-c: quit"
	if tabHelp != "" {
		help = tabHelp + "  " + help
	}
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(help)
}
