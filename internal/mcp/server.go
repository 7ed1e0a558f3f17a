// Package mcp exposes a running shell to MCP clients. Every tool goes
// through the control socket, so state-changing tools are gated by the
// shell's approval prompt like any other external request.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/mingde/internal/ipc"
)

const (
	ServerName    = "mingde"
	ServerVersion = "0.1.0"
)

// Shell is the control socket client the tools call.
type Shell interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() (*ipc.WindowsData, error)
	OpenWindow(app string, wait bool) (*ipc.OutcomeData, error)
	CloseWindow(target string, wait bool) (*ipc.OutcomeData, error)
	FocusWindow(target string, wait bool) (*ipc.OutcomeData, error)
	ChangeTheme(name string, wait bool) (*ipc.OutcomeData, error)
	SetBackground(color string, wait bool) (*ipc.OutcomeData, error)
	ReadFile(path string, wait bool) (*ipc.OutcomeData, error)
	WriteFile(path, content string, wait bool) (*ipc.OutcomeData, error)
}

// Server is the MCP server for a mingde shell.
type Server struct {
	mcpServer *mcpsdk.Server
	shell     Shell
}

// NewServer creates an MCP server backed by shell. A nil shell uses the
// default control socket.
func NewServer(shell Shell) *Server {
	if shell == nil {
		shell = ipc.NewClient()
	}
	s := &Server{shell: shell}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves MCP on stdio, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the shell's theme, background, focused window, display size and number of pending approval prompts.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List open windows with their ids, titles, layers and rectangles. Pass all to include the desktop and taskbar.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_window",
		Description: "Ask the shell to open an app window. The user must approve the request on the desktop; without wait the tool returns status pending and an approval id.",
	}, s.handleOpenWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Ask the shell to close a window by id. Requires approval on the desktop.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Ask the shell to focus a window by id and raise it. Requires approval on the desktop.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "change_theme",
		Description: "Ask the shell to switch every window to another colour theme. Requires approval on the desktop.",
	}, s.handleChangeTheme)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_background",
		Description: "Ask the shell to change the desktop background colour. Requires approval on the desktop.",
	}, s.handleSetBackground)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "read_file",
		Description: "Read a file or list a directory in the shell's virtual file system. Requires approval on the desktop.",
	}, s.handleReadFile)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "write_file",
		Description: "Create or replace a file in the shell's virtual file system. Requires approval on the desktop.",
	}, s.handleWriteFile)
}
