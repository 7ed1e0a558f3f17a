package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/mingde/internal/desktop"
	"github.com/1broseidon/mingde/internal/ipc"
	"github.com/1broseidon/mingde/internal/wm"
)

// openableApps are offered by the open form.
var openableApps = []string{
	desktop.SettingsApp,
	desktop.FileViewerApp,
	desktop.AboutApp,
	desktop.HelpApp,
}

// windowItem implements list.Item for one entity.
type windowItem struct{ info wm.WindowInfo }

func (i windowItem) Title() string {
	prefix := "  "
	if i.info.Focused {
		prefix = "* "
	}
	title := i.info.Title
	if title == "" {
		title = i.info.Kind
	}
	return prefix + title
}

func (i windowItem) Description() string {
	r := i.info.Rect
	d := fmt.Sprintf("%s  %s  %dx%d+%d+%d", i.info.ID, i.info.Layer, r.Width, r.Height, r.X, r.Y)
	if i.info.Hidden {
		d += "  (hidden)"
	}
	return d
}

func (i windowItem) FilterValue() string { return i.info.Title }

// statusMsg is sent after an IPC action completes.
type statusMsg struct{ text string }

type clearStatusMsg struct{}

type windowsMsg struct {
	windows []wm.WindowInfo
	err     error
}

// WindowsTab lists the shell's windows.
type WindowsTab struct {
	list   list.Model
	client Client

	opening bool
	form    *huh.Form
	fApp    string

	statusText string
	width      int
	height     int
}

func NewWindowsTab(client Client) WindowsTab {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Windows"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return WindowsTab{list: l, client: client}
}

// refresh fetches the window list.
func (wt WindowsTab) refresh() tea.Cmd {
	client := wt.client
	return func() tea.Msg {
		data, err := client.ListWindows()
		if err != nil {
			return windowsMsg{err: err}
		}
		return windowsMsg{windows: data.Windows}
	}
}

func (wt WindowsTab) Update(msg tea.Msg) (WindowsTab, tea.Cmd) {
	if wt.opening {
		return wt.updateOpening(msg)
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		wt.width = msg.Width
		wt.height = msg.Height
		wt.list.SetSize(msg.Width, max(msg.Height-2, 1))
		return wt, nil

	case windowsMsg:
		if msg.err != nil {
			wt.list.SetItems(nil)
			wt.statusText = "Error: " + msg.err.Error()
			return wt, nil
		}
		items := make([]list.Item, 0, len(msg.windows))
		for _, w := range msg.windows {
			if w.Layer == wm.LayerWindows || w.Layer == wm.LayerModals {
				items = append(items, windowItem{info: w})
			}
		}
		return wt, wt.list.SetItems(items)

	case statusMsg:
		wt.statusText = msg.text
		return wt, tea.Batch(wt.refresh(), tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		}))

	case clearStatusMsg:
		wt.statusText = ""
		return wt, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "f":
			if it, ok := wt.list.SelectedItem().(windowItem); ok {
				return wt, wt.submit("focus "+it.info.ID, func(c Client) (*ipc.OutcomeData, error) {
					return c.FocusWindow(it.info.ID, false)
				})
			}
			return wt, nil
		case "x":
			if it, ok := wt.list.SelectedItem().(windowItem); ok {
				return wt, wt.submit("close "+it.info.ID, func(c Client) (*ipc.OutcomeData, error) {
					return c.CloseWindow(it.info.ID, false)
				})
			}
			return wt, nil
		case "o":
			wt.startOpening()
			return wt, wt.form.Init()
		case "r":
			return wt, wt.refresh()
		}
	}

	var cmd tea.Cmd
	wt.list, cmd = wt.list.Update(msg)
	return wt, cmd
}

func (wt WindowsTab) updateOpening(msg tea.Msg) (WindowsTab, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		wt.opening = false
		wt.form = nil
		return wt, nil
	}
	form, cmd := wt.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		wt.form = f
	}
	if wt.form.State == huh.StateCompleted {
		app := wt.fApp
		wt.opening = false
		wt.form = nil
		return wt, wt.submit("open "+app, func(c Client) (*ipc.OutcomeData, error) {
			return c.OpenWindow(app, false)
		})
	}
	return wt, cmd
}

func (wt *WindowsTab) startOpening() {
	opts := make([]huh.Option[string], 0, len(openableApps))
	for _, app := range openableApps {
		opts = append(opts, huh.NewOption(app, app))
	}
	wt.fApp = openableApps[0]
	wt.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("app").
				Title("Open App").
				Description("The shell asks for approval first").
				Options(opts...).
				Value(&wt.fApp),
		),
	).WithWidth(max(wt.width-4, 40)).WithShowHelp(true)
	wt.opening = true
}

// submit runs an IPC request and reports its outcome.
func (wt WindowsTab) submit(what string, call func(Client) (*ipc.OutcomeData, error)) tea.Cmd {
	client := wt.client
	return func() tea.Msg {
		out, err := call(client)
		if err != nil {
			return statusMsg{text: "Error: " + err.Error()}
		}
		return statusMsg{text: describeOutcome(what, out)}
	}
}

func describeOutcome(what string, out *ipc.OutcomeData) string {
	switch out.Status {
	case wm.StatusPending.String():
		return fmt.Sprintf("%s: waiting for approval on the desktop (%s)", what, out.Approval)
	case wm.StatusApplied.String():
		return what + ": done"
	}
	if out.Reason != "" {
		return fmt.Sprintf("%s: %s (%s)", what, out.Status, out.Reason)
	}
	return what + ": " + out.Status
}

func (wt WindowsTab) View() string {
	if wt.opening && wt.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(wt.form.View())
	}
	return wt.list.View() + "\n" + dimStyle.Render(" "+wt.statusText)
}
