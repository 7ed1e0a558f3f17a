package tty

import (
	"context"
	"errors"
	"image"
	"os"
	"sync"

	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/platform"
	"github.com/1broseidon/mingde/internal/wm"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const statusText = " mingde  ctrl+c quits"

var statusStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FFFFFF")).
	Background(lipgloss.Color("#000080"))

// Host presents frames in the terminal. Each cell shows two vertically
// stacked display pixels, each of them downscale display pixels wide.
type Host struct {
	downscale int
	renderer  *Renderer

	mu      sync.Mutex
	cols    int
	rows    int
	view    string
	cursor  wm.Cursor
	program *tea.Program
	quit    bool
}

var _ platform.Host = (*Host)(nil)

// NewHost sizes the host from the terminal on stdout.
func NewHost(downscale int) (*Host, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, errors.New("tty host requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		w, h = 80, 24
	}
	return newHost(downscale, w, h), nil
}

func newHost(downscale, cols, rows int) *Host {
	if downscale < 1 {
		downscale = 1
	}
	return &Host{downscale: downscale, renderer: NewRenderer(), cols: cols, rows: rows}
}

// screenRows is the number of rows the display occupies; the last one is
// the status line.
func (h *Host) screenRows() int { return max(h.rows-1, 1) }

func (h *Host) cell() cellSize { return cellSize{w: h.downscale, h: 2 * h.downscale} }

func (h *Host) Size() geom.Size {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := h.cell()
	return geom.Size{Width: h.cols * c.w, Height: h.screenRows() * c.h}
}

type frameMsg string

func (h *Host) Present(frame image.Image) error {
	h.mu.Lock()
	cols, rows := h.cols, h.screenRows()
	view := h.renderer.Render(platform.Fit(frame, geom.Size{Width: cols, Height: 2 * rows}), cols, rows)
	h.view = view
	p := h.program
	h.mu.Unlock()

	if p != nil {
		p.Send(frameMsg(view))
	}
	return nil
}

// SetCursor records the cursor; terminals keep their own pointer.
func (h *Host) SetCursor(c wm.Cursor) error {
	h.mu.Lock()
	h.cursor = c
	h.mu.Unlock()
	return nil
}

// Run drives the terminal until ctx ends or the user quits.
func (h *Host) Run(ctx context.Context, post func(wm.Message)) error {
	h.mu.Lock()
	m := model{host: h, post: post, view: h.view}
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	h.program = p
	h.mu.Unlock()

	_, err := p.Run()

	h.mu.Lock()
	h.program = nil
	quit := h.quit
	h.mu.Unlock()
	switch {
	case quit:
		return platform.ErrClosed
	case ctx.Err() != nil:
		return ctx.Err()
	case err != nil:
		return err
	}
	return platform.ErrClosed
}

func (h *Host) Close() error {
	h.mu.Lock()
	h.quit = true
	p := h.program
	h.mu.Unlock()
	if p != nil {
		p.Quit()
	}
	return nil
}

// resize records a new terminal size and returns the display size it
// gives.
func (h *Host) resize(cols, rows int) geom.Size {
	h.mu.Lock()
	h.cols, h.rows = cols, rows
	h.mu.Unlock()
	return h.Size()
}

type model struct {
	host *Host
	post func(wm.Message)
	view string
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.view = string(msg)
	case tea.WindowSizeMsg:
		m.post(wm.Resize{Size: m.host.resize(msg.Width, msg.Height)})
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.host.mu.Lock()
			m.host.quit = true
			m.host.mu.Unlock()
			return m, tea.Quit
		}
		if kd, ok := keyDown(msg); ok {
			m.post(kd)
		}
	case tea.MouseMsg:
		for _, out := range mouseMessages(msg, m.host.cell()) {
			m.post(out)
		}
	}
	return m, nil
}

func (m model) View() string {
	return m.view + "\n" + statusStyle.Render(statusText)
}
