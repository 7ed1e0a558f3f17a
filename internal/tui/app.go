package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/mingde/internal/config"
	"github.com/1broseidon/mingde/internal/ipc"
)

// statusTickMsg carries a fresh shell status, nil when none answers.
type statusTickMsg struct{ status *ipc.StatusData }

// model is the root bubbletea model for the TUI.
type model struct {
	configPath string
	cfg        *config.Config
	loadErr    error
	client     Client

	activeTab   Tab
	windowsTab  WindowsTab
	settingsTab SettingsTab

	original    *config.Config
	saveOverlay SaveOverlay

	status *ipc.StatusData

	width  int
	height int
}

func newModel(configPath string, client Client) model {
	m := model{configPath: configPath, client: client}

	var res *config.LoadResult
	var err error
	if configPath == "" {
		res, err = config.LoadWithSources()
	} else {
		res, err = config.LoadFromPath(configPath)
	}
	if err != nil {
		m.loadErr = err
	} else {
		m.cfg = res.Config
		m.original = cloneConfig(res.Config)
	}

	m.windowsTab = NewWindowsTab(client)
	m.settingsTab = NewSettingsTab(m.cfg)
	return m
}

func (m model) fetchStatus() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		st, err := client.GetStatus()
		if err != nil {
			return statusTickMsg{}
		}
		return statusTickMsg{status: st}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.fetchStatus(), m.windowsTab.refresh())
}

// save writes the edited config and asks the running shell to apply the
// live settings. The shell prompts before applying them.
func (m model) save() tea.Msg {
	cfg, orig := m.cfg, m.original
	var err error
	if m.configPath == "" {
		err = cfg.Save()
	} else {
		err = cfg.SaveTo(m.configPath)
	}
	if err != nil {
		return savedMsg{err: err}
	}
	var applied []string
	if m.status != nil {
		if orig == nil || orig.Theme != cfg.Theme {
			if out, err := m.client.ChangeTheme(cfg.Theme, false); err == nil {
				applied = append(applied, describeOutcome("theme "+cfg.Theme, out))
			}
		}
		if orig == nil || orig.Background != cfg.Background {
			if out, err := m.client.SetBackground(cfg.Background, false); err == nil {
				applied = append(applied, describeOutcome("background "+cfg.Background, out))
			}
		}
	}
	return savedMsg{applied: applied}
}

func (m model) contentHeight() int {
	return max(m.height-4, 1)
}

func (m model) resizeTabs() model {
	sub := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
	m.windowsTab, _ = m.windowsTab.Update(sub)
	m.settingsTab, _ = m.settingsTab.Update(sub)
	return m
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m.resizeTabs(), nil
	case statusTickMsg:
		m.status = msg.status
		return m, nil
	}

	if m.saveOverlay.Active() {
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.saveOverlay, cmd = m.saveOverlay.Update(msg, m.save)
		if m.saveOverlay.SaveSucceeded() {
			m.original = cloneConfig(m.cfg)
			cmd = tea.Batch(cmd, m.fetchStatus())
		}
		return m, cmd
	}

	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+s" {
		if m.cfg != nil {
			m.saveOverlay.Show(m.original, m.cfg)
		}
		return m, nil
	}

	// A form owns the keyboard while it is open.
	capturing := (m.activeTab == TabWindows && m.windowsTab.opening) ||
		(m.activeTab == TabSettings && m.settingsTab.editing)
	if km, ok := msg.(tea.KeyMsg); ok && !capturing {
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
			m.activeTab = TabWindows
			return m, nil
		case "2":
			m.activeTab = TabSettings
			return m, nil
		}
	} else if ok && km.String() == "ctrl+c" {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	switch msg.(type) {
	case windowsMsg, statusMsg, clearStatusMsg:
		m.windowsTab, cmd = m.windowsTab.Update(msg)
		if _, ok := msg.(statusMsg); ok {
			cmd = tea.Batch(cmd, m.fetchStatus())
		}
		return m, cmd
	}
	switch m.activeTab {
	case TabWindows:
		m.windowsTab, cmd = m.windowsTab.Update(msg)
	case TabSettings:
		m.settingsTab, cmd = m.settingsTab.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	statusBar := renderStatusBar(m.status, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.activeTab, m.width)
	contentHeight := max(m.height-lipgloss.Height(statusBar)-lipgloss.Height(tabBar)-lipgloss.Height(helpBar), 1)

	var content string
	switch {
	case m.saveOverlay.Active():
		content = m.saveOverlay.View(m.width, contentHeight)
	case m.loadErr != nil && m.activeTab == TabSettings:
		content = lipgloss.NewStyle().Padding(1, 2).Foreground(lipgloss.Color("196")).
			Render(fmt.Sprintf("Config error: %v", m.loadErr))
	case m.activeTab == TabWindows:
		content = m.windowsTab.View()
	default:
		content = m.settingsTab.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, statusBar, tabBar, content, helpBar)
}
