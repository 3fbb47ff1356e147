package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/chromeless/internal/config"
)

// SettingsTab shows the loaded configuration and edits it with a huh form.
// Edits land on cfg; persisting them is the save overlay's job.
type SettingsTab struct {
	cfg *config.Config

	width  int
	height int

	editing bool
	form    *huh.Form

	// huh writes through this pointer while the tab is copied by value
	f *settingsFields
}

// settingsFields holds form values (strings for huh, converted on submit).
type settingsFields struct {
	title          string
	minWidth       string
	minHeight      string
	startMaximized bool
	remember       bool
	borderMargin   string
	titlebar       string
	onlyTitlebar   bool
	resize         bool
	doubleClickMS  string
	toggleKey      string
	minimizeKey    string
	closeKey       string
	logLevel       string
}

// NewSettingsTab creates a SettingsTab over cfg, which may be nil.
func NewSettingsTab(cfg *config.Config) SettingsTab {
	return SettingsTab{cfg: cfg}
}

// Update implements tea.Model.
func (s SettingsTab) Update(msg tea.Msg) (SettingsTab, tea.Cmd) {
	if s.editing {
		return s.updateEditing(msg)
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" && s.cfg != nil {
			s.startEditing()
			return s, s.form.Init()
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}
	return s, nil
}

func (s SettingsTab) updateEditing(msg tea.Msg) (SettingsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			s.editing = false
			s.form = nil
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.applyForm()
		s.editing = false
		s.form = nil
		return s, nil
	}
	return s, cmd
}

func positiveInt(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n <= 0 {
		return fmt.Errorf("must be > 0")
	}
	return nil
}

func (s *SettingsTab) loadFields() {
	cfg := s.cfg
	s.f = &settingsFields{
		title:          cfg.Window.Title,
		minWidth:       strconv.Itoa(cfg.Window.MinWidth),
		minHeight:      strconv.Itoa(cfg.Window.MinHeight),
		startMaximized: cfg.Window.StartMaximized,
		remember:       cfg.Window.RememberGeometry,
		borderMargin:   strconv.Itoa(cfg.Chrome.BorderMargin),
		titlebar:       strconv.Itoa(cfg.Chrome.TitlebarHeight),
		onlyTitlebar:   cfg.Chrome.OnlyMoveFromTitlebar,
		resize:         cfg.Chrome.ResizeEnabled,
		doubleClickMS:  strconv.Itoa(cfg.Chrome.DoubleClickMS),
		toggleKey:      cfg.Keys.ToggleMaximize,
		minimizeKey:    cfg.Keys.Minimize,
		closeKey:       cfg.Keys.Close,
		logLevel:       cfg.Logging.Level,
	}
}

func (s *SettingsTab) startEditing() {
	s.loadFields()
	f := s.f

	w := s.width - 4
	if w < 40 {
		w = 40
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Value(&f.title),
			huh.NewInput().
				Key("min_width").
				Title("Minimum Width").
				Validate(positiveInt).
				Value(&f.minWidth),
			huh.NewInput().
				Key("min_height").
				Title("Minimum Height").
				Validate(positiveInt).
				Value(&f.minHeight),
			huh.NewConfirm().
				Key("start_maximized").
				Title("Start Maximized").
				Value(&f.startMaximized),
			huh.NewConfirm().
				Key("remember_geometry").
				Title("Remember Geometry").
				Description("Reopen at the last session's bounds").
				Value(&f.remember),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("border_margin").
				Title("Border Margin").
				Description("Pixels of edge that grab a resize").
				Validate(positiveInt).
				Value(&f.borderMargin),
			huh.NewInput().
				Key("titlebar_height").
				Title("Titlebar Height").
				Validate(positiveInt).
				Value(&f.titlebar),
			huh.NewConfirm().
				Key("only_move_from_titlebar").
				Title("Only Move From Titlebar").
				Value(&f.onlyTitlebar),
			huh.NewConfirm().
				Key("resize_enabled").
				Title("Resize Enabled").
				Value(&f.resize),
			huh.NewInput().
				Key("double_click_ms").
				Title("Double-click Interval (ms)").
				Validate(positiveInt).
				Value(&f.doubleClickMS),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("toggle_maximize").
				Title("Toggle Maximize Key").
				Description("xgbutil keybind syntax, empty disables").
				Value(&f.toggleKey),
			huh.NewInput().
				Key("minimize").
				Title("Minimize Key").
				Value(&f.minimizeKey),
			huh.NewInput().
				Key("close").
				Title("Close Key").
				Value(&f.closeKey),
			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&f.logLevel),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	s.editing = true
}

// applyForm copies the form values onto cfg. Unparseable numbers keep the
// previous value; cross-field rules are left to Validate at save time.
func (s *SettingsTab) applyForm() {
	if s.cfg == nil || s.f == nil {
		return
	}
	f := s.f
	setInt := func(dst *int, v string) {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			*dst = n
		}
	}

	if t := strings.TrimSpace(f.title); t != "" {
		s.cfg.Window.Title = t
	}
	setInt(&s.cfg.Window.MinWidth, f.minWidth)
	setInt(&s.cfg.Window.MinHeight, f.minHeight)
	s.cfg.Window.StartMaximized = f.startMaximized
	s.cfg.Window.RememberGeometry = f.remember

	setInt(&s.cfg.Chrome.BorderMargin, f.borderMargin)
	setInt(&s.cfg.Chrome.TitlebarHeight, f.titlebar)
	s.cfg.Chrome.OnlyMoveFromTitlebar = f.onlyTitlebar
	s.cfg.Chrome.ResizeEnabled = f.resize
	setInt(&s.cfg.Chrome.DoubleClickMS, f.doubleClickMS)

	s.cfg.Keys.ToggleMaximize = strings.TrimSpace(f.toggleKey)
	s.cfg.Keys.Minimize = strings.TrimSpace(f.minimizeKey)
	s.cfg.Keys.Close = strings.TrimSpace(f.closeKey)
	if f.logLevel != "" {
		s.cfg.Logging.Level = f.logLevel
	}
}

// Help lists the tab's shortcuts.
func (s SettingsTab) Help() string {
	if s.editing {
		return "esc: cancel edit"
	}
	return "e: edit"
}

// View implements tea.Model.
func (s SettingsTab) View() string {
	if s.editing && s.form != nil {
		return s.viewEditing()
	}
	return s.viewDisplay()
}

func (s SettingsTab) viewDisplay() string {
	cfg := s.cfg
	if cfg == nil {
		style := lipgloss.NewStyle().
			Width(s.width).
			Height(s.height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center)
		return style.Render("No config loaded")
	}

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Width(24).
		Align(lipgloss.Right).
		PaddingRight(2)
	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true)
	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	lines := []string{
		row("Title", cfg.Window.Title),
		row("Initial Bounds", fmt.Sprintf("%dx%d+%d+%d", cfg.Window.Width, cfg.Window.Height, cfg.Window.X, cfg.Window.Y)),
		row("Minimum Size", fmt.Sprintf("%dx%d", cfg.Window.MinWidth, cfg.Window.MinHeight)),
		row("Start Maximized", yesNo(cfg.Window.StartMaximized)),
		row("Remember Geometry", yesNo(cfg.Window.RememberGeometry)),
		"",
		row("Border Margin", strconv.Itoa(cfg.Chrome.BorderMargin)),
		row("Titlebar Height", strconv.Itoa(cfg.Chrome.TitlebarHeight)),
		row("Only Move From Titlebar", yesNo(cfg.Chrome.OnlyMoveFromTitlebar)),
		row("Resize Enabled", yesNo(cfg.Chrome.ResizeEnabled)),
		row("Double-click", cfg.Chrome.DoubleClickInterval().String()),
		"",
		row("Toggle Maximize", displayOrDefault(cfg.Keys.ToggleMaximize, "(disabled)")),
		row("Minimize", displayOrDefault(cfg.Keys.Minimize, "(disabled)")),
		row("Close", displayOrDefault(cfg.Keys.Close, "(disabled)")),
		row("Log Level", cfg.Logging.Level),
	}

	return lipgloss.NewStyle().
		Width(s.width).
		Height(s.height).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func (s SettingsTab) viewEditing() string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Render("Editing Settings") +
		dimStyle.Render("  (esc to cancel)")

	return lipgloss.NewStyle().
		Width(s.width).
		Height(s.height).
		Padding(1, 2).
		Render(header + "\n\n" + s.form.View())
}

func displayOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
