package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/mingde/internal/config"
)

type savePhase int

const (
	saveHidden  savePhase = iota
	savePreview           // showing diff, awaiting confirm
	saveResult
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

// savedMsg reports the result of writing the config and applying it.
type savedMsg struct {
	err     error
	applied []string
}

// SaveOverlay previews the config diff and writes the file on confirm.
type SaveOverlay struct {
	phase     savePhase
	diffLines []diffLine
	err       error
	applied   []string
	offset    int
}

func (s SaveOverlay) Active() bool { return s.phase != saveHidden }

// Show computes the diff and opens the preview.
func (s *SaveOverlay) Show(original, current *config.Config) {
	s.err = nil
	s.applied = nil
	s.offset = 0
	s.diffLines = configDiff(original, current)
	if len(s.diffLines) == 0 {
		s.phase = saveResult
		s.err = errors.New("no changes to save")
		return
	}
	s.phase = savePreview
}

func (s SaveOverlay) SaveSucceeded() bool {
	return s.phase == saveResult && s.err == nil
}

// Update handles input while the overlay is active. save runs when the
// user confirms.
func (s SaveOverlay) Update(msg tea.Msg, save func() tea.Msg) (SaveOverlay, tea.Cmd) {
	if m, ok := msg.(savedMsg); ok {
		s.err = m.err
		s.applied = m.applied
		s.phase = saveResult
		return s, nil
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch s.phase {
	case savePreview:
		switch km.String() {
		case "esc":
			s.phase = saveHidden
		case "enter", "y":
			return s, func() tea.Msg { return save() }
		case "up", "k":
			s.offset = max(s.offset-1, 0)
		case "down", "j":
			s.offset++
		}
	case saveResult:
		s.phase = saveHidden
	}
	return s, nil
}

func (s SaveOverlay) View(width, height int) string {
	var content string
	boxW := min(max(width-8, 30), 80)
	switch s.phase {
	case savePreview:
		content = s.viewPreview(boxW-6, max(height-10, 3))
	case saveResult:
		content = s.viewResult()
	default:
		return ""
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("18")).
		Padding(1, 2).
		Width(boxW).
		Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

var (
	addStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	rmStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	ctxStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func (s SaveOverlay) viewPreview(innerW, rows int) string {
	off := min(s.offset, max(len(s.diffLines)-rows, 0))
	end := min(off+rows, len(s.diffLines))

	lines := make([]string, 0, end-off)
	for _, dl := range s.diffLines[off:end] {
		t := dl.text
		if len(t) > innerW-2 {
			t = t[:max(innerW-2, 0)]
		}
		switch dl.kind {
		case diffAdded:
			lines = append(lines, addStyle.Render("+ "+t))
		case diffRemoved:
			lines = append(lines, rmStyle.Render("- "+t))
		default:
			lines = append(lines, ctxStyle.Render("  "+t))
		}
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render("Save Config: Pending Changes")
	return title + "\n\n" + strings.Join(lines, "\n") + "\n\n" +
		dimStyle.Render("enter: save  esc: cancel  j/k: scroll")
}

func (s SaveOverlay) viewResult() string {
	var msg string
	if s.err != nil {
		msg = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Render("Error: " + s.err.Error())
	} else {
		msg = addStyle.Bold(true).Render("Config saved")
		for _, a := range s.applied {
			msg += "\n" + addStyle.Render(a)
		}
	}
	return msg + "\n\n" + dimStyle.Render("press any key to dismiss")
}

// configDiff renders both configs as YAML and diffs them line by line.
func configDiff(original, current *config.Config) []diffLine {
	if original == nil || current == nil {
		return nil
	}
	a, err := yaml.Marshal(original)
	if err != nil {
		return nil
	}
	b, err := yaml.Marshal(current)
	if err != nil {
		return nil
	}
	if string(a) == string(b) {
		return nil
	}
	return withContext(diffLines(
		strings.Split(strings.TrimSpace(string(a)), "\n"),
		strings.Split(strings.TrimSpace(string(b)), "\n"),
	), 2)
}

// diffLines is a longest-common-subsequence line diff.
func diffLines(a, b []string) []diffLine {
	// lcs[i][j] is the LCS length of a[i:] and b[j:].
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	var out []diffLine
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			out = append(out, diffLine{diffContext, a[i]})
			i++
			j++
		case j == len(b) || (i < len(a) && lcs[i+1][j] >= lcs[i][j+1]):
			out = append(out, diffLine{diffRemoved, a[i]})
			i++
		default:
			out = append(out, diffLine{diffAdded, b[j]})
			j++
		}
	}
	return out
}

// withContext keeps changed lines plus n lines around them, marking gaps
// with "...".
func withContext(lines []diffLine, n int) []diffLine {
	keep := make([]bool, len(lines))
	changed := false
	for i, l := range lines {
		if l.kind == diffContext {
			continue
		}
		changed = true
		for k := max(i-n, 0); k <= min(i+n, len(lines)-1); k++ {
			keep[k] = true
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

// cloneConfig copies a Config through YAML.
func cloneConfig(cfg *config.Config) *config.Config {
	if cfg == nil {
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil
	}
	var clone config.Config
	if err := yaml.Unmarshal(data, &clone); err != nil {
		return nil
	}
	return &clone
}
