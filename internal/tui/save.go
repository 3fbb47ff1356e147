package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/chromeless/internal/config"
)

type savePhase int

const (
	saveHidden  savePhase = iota
	savePreview           // showing diff, awaiting confirm
	saveResult            // showing outcome message
)

type diffKind int

const (
	diffContext diffKind = iota
	diffRemoved
	diffAdded
)

type diffLine struct {
	kind diffKind
	text string
}

var errNoChanges = errors.New("no changes to save")

// SaveOverlay previews pending config changes as a YAML diff and writes the
// file once confirmed.
type SaveOverlay struct {
	phase        savePhase
	diffLines    []diffLine
	err          error
	scrollOffset int
}

// Active reports whether the overlay is visible.
func (s SaveOverlay) Active() bool {
	return s.phase != saveHidden
}

// Show computes the diff and opens the preview.
func (s *SaveOverlay) Show(original, current *config.Config) {
	s.err = nil
	s.scrollOffset = 0
	s.diffLines = computeDiffLines(original, current)
	if len(s.diffLines) == 0 {
		s.phase = saveResult
		s.err = errNoChanges
		return
	}
	s.phase = savePreview
}

// SaveSucceeded reports whether the last save completed without error.
func (s SaveOverlay) SaveSucceeded() bool {
	return s.phase == saveResult && s.err == nil
}

// Update handles input while the overlay is active. Confirming writes cfg
// to path.
func (s SaveOverlay) Update(msg tea.Msg, cfg *config.Config, path string) SaveOverlay {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s
	}
	switch s.phase {
	case savePreview:
		switch km.String() {
		case "esc":
			s.phase = saveHidden
		case "enter", "y":
			s.err = cfg.SaveTo(path)
			s.phase = saveResult
		case "up", "k":
			if s.scrollOffset > 0 {
				s.scrollOffset--
			}
		case "down", "j":
			s.scrollOffset++
		}
	case saveResult:
		s.phase = saveHidden
	}
	return s
}

// View renders the overlay centred in the content area.
func (s SaveOverlay) View(width, height int) string {
	switch s.phase {
	case savePreview:
		return s.viewPreview(width, height)
	case saveResult:
		return s.viewResult(width, height)
	}
	return ""
}

func overlayBox(areaW, areaH, maxW int, content string) string {
	boxW := min(areaW-8, maxW)
	boxW = max(boxW, 30)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(boxW).
		Render(content)
	return lipgloss.Place(areaW, areaH, lipgloss.Center, lipgloss.Center, box)
}

func (s SaveOverlay) viewPreview(areaW, areaH int) string {
	addStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	rmStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	ctxStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	// title, blank lines, footer, border and padding
	visible := max(areaH-10, 3)
	off := min(s.scrollOffset, max(len(s.diffLines)-visible, 0))
	end := min(off+visible, len(s.diffLines))

	var lines []string
	for _, dl := range s.diffLines[off:end] {
		switch dl.kind {
		case diffAdded:
			lines = append(lines, addStyle.Render("+ "+dl.text))
		case diffRemoved:
			lines = append(lines, rmStyle.Render("- "+dl.text))
		default:
			lines = append(lines, ctxStyle.Render("  "+dl.text))
		}
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render("Save Config: Pending Changes")
	footer := dimStyle.Render("enter: save  esc: cancel  j/k: scroll")
	return overlayBox(areaW, areaH, 80, title+"\n\n"+strings.Join(lines, "\n")+"\n\n"+footer)
}

func (s SaveOverlay) viewResult(areaW, areaH int) string {
	var msg string
	if s.err != nil {
		msg = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Render("Error: " + s.err.Error())
	} else {
		msg = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true).Render("Config saved") +
			"\n" + dimStyle.Render("Restart the window to apply chrome changes")
	}
	return overlayBox(areaW, areaH, 60, msg+"\n\n"+dimStyle.Render("press any key to dismiss"))
}

// computeDiffLines diffs the YAML renderings of two configs, keeping two
// lines of context around each change.
func computeDiffLines(original, current *config.Config) []diffLine {
	if original == nil || current == nil {
		return nil
	}
	a, err := original.Marshal()
	if err != nil {
		return nil
	}
	b, err := current.Marshal()
	if err != nil {
		return nil
	}
	if string(a) == string(b) {
		return nil
	}
	return trimContext(lcsDiff(
		strings.Split(strings.TrimSpace(string(a)), "\n"),
		strings.Split(strings.TrimSpace(string(b)), "\n"),
	), 2)
}

// lcsDiff diffs two line slices by longest common subsequence.
func lcsDiff(a, b []string) []diffLine {
	m, n := len(a), len(b)
	tbl := make([][]int, m+1)
	for i := range tbl {
		tbl[i] = make([]int, n+1)
	}
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			if a[i] == b[j] {
				tbl[i][j] = tbl[i+1][j+1] + 1
			} else {
				tbl[i][j] = max(tbl[i+1][j], tbl[i][j+1])
			}
		}
	}

	out := make([]diffLine, 0, max(m, n))
	i, j := 0, 0
	for i < m || j < n {
		switch {
		case i < m && j < n && a[i] == b[j]:
			out = append(out, diffLine{diffContext, a[i]})
			i++
			j++
		case j == n || (i < m && tbl[i+1][j] >= tbl[i][j+1]):
			out = append(out, diffLine{diffRemoved, a[i]})
			i++
		default:
			out = append(out, diffLine{diffAdded, b[j]})
			j++
		}
	}
	return out
}

// trimContext drops unchanged lines further than ctx from any change and
// marks each gap with "...".
func trimContext(lines []diffLine, ctx int) []diffLine {
	keep := make([]bool, len(lines))
	changed := false
	for i, l := range lines {
		if l.kind == diffContext {
			continue
		}
		changed = true
		for j := max(i-ctx, 0); j <= min(i+ctx, len(lines)-1); j++ {
			keep[j] = true
		}
	}
	if !changed {
		return nil
	}

	var out []diffLine
	gap := false
	for i, l := range lines {
		if !keep[i] {
			gap = true
			continue
		}
		if gap && len(out) > 0 {
			out = append(out, diffLine{diffContext, "..."})
		}
		gap = false
		out = append(out, l)
	}
	return out
}
