package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/chromeless/internal/config"
)

// model is the root bubbletea model for the TUI.
type model struct {
	configPath string
	cfg        *config.Config
	loadErr    error
	client     Client

	activeTab Tab

	windowTab   WindowTab
	monitorsTab MonitorsTab
	settingsTab SettingsTab

	// Save overlay
	original    config.Config
	saveOverlay SaveOverlay

	width  int
	height int
}

func newModel(configPath string, client Client) model {
	m := model{
		configPath: configPath,
		client:     client,
		activeTab:  TabWindow,
	}
	m.loadConfig()

	m.windowTab = NewWindowTab(client)
	m.monitorsTab = NewMonitorsTab(client)
	m.settingsTab = NewSettingsTab(m.cfg)
	return m
}

func (m *model) loadConfig() {
	if m.configPath == "" {
		path, err := config.DefaultConfigPath()
		if err != nil {
			m.loadErr = err
			return
		}
		m.configPath = path
	}
	res, err := config.LoadFromPath(m.configPath)
	if err != nil {
		m.loadErr = err
		return
	}
	m.cfg = res.Config
	m.original = *res.Config
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(pollStatus(m.client), m.monitorsTab.refresh())
}

func (m *model) resize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	// status bar, tab bar with margin, help bar
	sub := tea.WindowSizeMsg{Width: m.width, Height: max(m.height-4, 1)}
	m.windowTab, _ = m.windowTab.Update(sub)
	m.monitorsTab, _ = m.monitorsTab.Update(sub)
	m.settingsTab, _ = m.settingsTab.Update(sub)
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Polling keeps running whatever has focus.
	switch msg := msg.(type) {
	case tickMsg:
		return m, pollStatus(m.client)
	case statusMsg:
		m.windowTab.setStatus(msg)
		return m, tick()
	case actionMsg:
		m.windowTab, _ = m.windowTab.Update(msg)
		return m, pollStatus(m.client)
	case monitorsMsg:
		var cmd tea.Cmd
		m.monitorsTab, cmd = m.monitorsTab.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.resize(msg)
		return m, nil
	}

	if m.saveOverlay.Active() {
		if km, ok := msg.(tea.KeyMsg); ok {
			if km.String() == "ctrl+c" {
				return m, tea.Quit
			}
			m.saveOverlay = m.saveOverlay.Update(km, m.cfg, m.configPath)
			if m.saveOverlay.SaveSucceeded() {
				m.original = *m.cfg
			}
		}
		return m, nil
	}

	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+s" {
		if m.cfg != nil {
			m.saveOverlay.Show(&m.original, m.cfg)
		}
		return m, nil
	}

	// An open form consumes keys; only ctrl+c escapes to quit.
	if m.activeTab == TabSettings && m.settingsTab.editing {
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.settingsTab, cmd = m.settingsTab.Update(msg)
		return m, cmd
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabWindow
			return m, nil
		case "2":
			m.activeTab = TabMonitors
			return m, nil
		case "3":
			m.activeTab = TabSettings
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case TabWindow:
		m.windowTab, cmd = m.windowTab.Update(msg)
	case TabMonitors:
		m.monitorsTab, cmd = m.monitorsTab.Update(msg)
	case TabSettings:
		m.settingsTab, cmd = m.settingsTab.Update(msg)
	}
	return m, cmd
}

func (m model) tabHelp() string {
	switch m.activeTab {
	case TabWindow:
		return m.windowTab.Help()
	case TabMonitors:
		return m.monitorsTab.Help()
	case TabSettings:
		return m.settingsTab.Help()
	}
	return ""
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.windowTab.status, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.tabHelp(), m.width)

	used := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := max(m.height-used, 1)

	var content string
	switch {
	case m.saveOverlay.Active():
		content = m.saveOverlay.View(m.width, contentHeight)
	case m.loadErr != nil && m.activeTab == TabSettings:
		content = lipgloss.NewStyle().
			Width(m.width).
			Height(contentHeight).
			Padding(1, 2).
			Foreground(lipgloss.Color("196")).
			Render("Config error: " + m.loadErr.Error())
	default:
		switch m.activeTab {
		case TabWindow:
			content = m.windowTab.View()
		case TabMonitors:
			content = m.monitorsTab.View()
		case TabSettings:
			content = m.settingsTab.View()
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, statusBar, tabBar, content, helpBar)
}
