package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/mingde/internal/config"
	"github.com/1broseidon/mingde/internal/theme"
)

// SettingsTab shows and edits the config file's shell settings.
type SettingsTab struct {
	cfg *config.Config

	width  int
	height int

	editing bool
	form    *huh.Form

	// Form-bound values
	fTheme      string
	fBackground string
	fShortcuts  bool
	fScale      string
	fLogLevel   string
}

func NewSettingsTab(cfg *config.Config) SettingsTab {
	return SettingsTab{cfg: cfg}
}

func (s SettingsTab) Update(msg tea.Msg) (SettingsTab, tea.Cmd) {
	if s.editing {
		return s.updateEditing(msg)
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" {
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

func (s *SettingsTab) startEditing() {
	cfg := s.cfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s.fTheme = cfg.Theme
	s.fBackground = cfg.Background
	s.fShortcuts = cfg.Shortcuts
	s.fScale = strconv.FormatFloat(cfg.Scale, 'g', -1, 64)
	s.fLogLevel = cfg.LogLevel

	themes := make([]huh.Option[string], 0, len(theme.All()))
	for _, t := range theme.All() {
		themes = append(themes, huh.NewOption(string(t), string(t)))
	}
	levels := []huh.Option[string]{
		huh.NewOption("debug", "debug"),
		huh.NewOption("info", "info"),
		huh.NewOption("warn", "warn"),
		huh.NewOption("error", "error"),
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("theme").
				Title("Theme").
				Options(themes...).
				Value(&s.fTheme),
			huh.NewInput().
				Key("background").
				Title("Desktop Background").
				Description("#rrggbb").
				Validate(func(v string) error {
					_, err := theme.ParseHexColor(v)
					return err
				}).
				Value(&s.fBackground),
			huh.NewConfirm().
				Key("shortcuts").
				Title("Keyboard Shortcuts").
				Description("alt+key window shortcuts at startup").
				Value(&s.fShortcuts),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("scale").
				Title("Scale").
				Description("Display pixels per host pixel").
				Validate(validateScale).
				Value(&s.fScale),
			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(levels...).
				Value(&s.fLogLevel),
		),
	).WithWidth(max(s.width-4, 40)).WithShowHelp(true).WithShowErrors(true)

	s.editing = true
}

func validateScale(v string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f <= 0 {
		return fmt.Errorf("scale must be a positive number")
	}
	return nil
}

func (s *SettingsTab) applyForm() {
	if s.cfg == nil {
		return
	}
	s.cfg.Theme = s.fTheme
	if _, err := theme.ParseHexColor(s.fBackground); err == nil {
		s.cfg.Background = s.fBackground
	}
	s.cfg.Shortcuts = s.fShortcuts
	if f, err := strconv.ParseFloat(strings.TrimSpace(s.fScale), 64); err == nil && f > 0 {
		s.cfg.Scale = f
	}
	if s.fLogLevel != "" {
		s.cfg.LogLevel = s.fLogLevel
	}
}

func (s SettingsTab) View() string {
	if s.editing && s.form != nil {
		header := lipgloss.NewStyle().Foreground(lipgloss.Color("18")).Bold(true).Render("Editing Settings") +
			dimStyle.Render("  (esc to cancel)")
		return lipgloss.NewStyle().Width(s.width).Height(s.height).Padding(1, 2).
			Render(header + "\n\n" + s.form.View())
	}

	cfg := s.cfg
	if cfg == nil {
		return lipgloss.NewStyle().
			Width(s.width).
			Height(s.height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No config loaded")
	}

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Width(20).
		Align(lipgloss.Right).
		PaddingRight(2)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	snapshot := "off"
	if cfg.Snapshot.Enabled {
		snapshot = "on"
	}
	lines := []string{
		row("Display", fmt.Sprintf("%dx%d @ %gx", cfg.Width, cfg.Height, cfg.Scale)),
		row("Theme", cfg.Theme),
		row("Background", cfg.Background),
		row("Shortcuts", strconv.FormatBool(cfg.Shortcuts)),
		row("Log Level", cfg.LogLevel),
		row("Snapshot", snapshot),
		"",
		dimStyle.Render("  Press 'e' to edit, ctrl-s to save and apply"),
	}
	return lipgloss.NewStyle().Width(s.width).Height(s.height).Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}
