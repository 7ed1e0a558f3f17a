package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/mingde/internal/ipc"
	"github.com/1broseidon/mingde/internal/wm"
)

type fakeShell struct {
	calls []string
	fail  error
}

func (f *fakeShell) GetStatus() (*ipc.StatusData, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return &ipc.StatusData{Theme: "Night", Width: 800, Height: 600, PendingApprovals: 1}, nil
}

func (f *fakeShell) ListWindows() (*ipc.WindowsData, error) {
	return &ipc.WindowsData{Windows: []wm.WindowInfo{
		{ID: "bg", Layer: wm.LayerDesktop},
		{ID: "w1", Layer: wm.LayerWindows, Title: "Settings"},
	}}, nil
}

func (f *fakeShell) gated(call string, wait bool) (*ipc.OutcomeData, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.calls = append(f.calls, call)
	if wait {
		return &ipc.OutcomeData{Status: "applied", Content: "hello"}, nil
	}
	return &ipc.OutcomeData{Status: "pending", Approval: "a-1"}, nil
}

func (f *fakeShell) OpenWindow(app string, wait bool) (*ipc.OutcomeData, error) {
	return f.gated("open "+app, wait)
}
func (f *fakeShell) CloseWindow(id string, wait bool) (*ipc.OutcomeData, error) {
	return f.gated("close "+id, wait)
}
func (f *fakeShell) FocusWindow(id string, wait bool) (*ipc.OutcomeData, error) {
	return f.gated("focus "+id, wait)
}
func (f *fakeShell) ChangeTheme(name string, wait bool) (*ipc.OutcomeData, error) {
	return f.gated("theme "+name, wait)
}
func (f *fakeShell) SetBackground(c string, wait bool) (*ipc.OutcomeData, error) {
	return f.gated("background "+c, wait)
}
func (f *fakeShell) ReadFile(path string, wait bool) (*ipc.OutcomeData, error) {
	return f.gated("read "+path, wait)
}
func (f *fakeShell) WriteFile(path, content string, wait bool) (*ipc.OutcomeData, error) {
	return f.gated("write "+path+" "+content, wait)
}

func TestListWindowsFiltersShellEntities(t *testing.T) {
	s := NewServer(&fakeShell{})
	_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out.Windows) != 1 || out.Windows[0].ID != "w1" {
		t.Fatalf("windows = %#v", out.Windows)
	}
	_, out, _ = s.handleListWindows(context.Background(), nil, ListWindowsInput{All: true})
	if len(out.Windows) != 2 {
		t.Fatalf("all windows = %d", len(out.Windows))
	}
}

func TestGatedToolsReportOutcome(t *testing.T) {
	shell := &fakeShell{}
	s := NewServer(shell)
	ctx := context.Background()

	_, out, err := s.handleOpenWindow(ctx, nil, OpenWindowInput{App: "settings"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if out.Status != "pending" || out.Approval != "a-1" || !strings.Contains(out.Reason, "approve") {
		t.Fatalf("open outcome = %#v", out)
	}

	_, out, err = s.handleReadFile(ctx, nil, ReadFileInput{Path: "/usr/motd", Wait: true})
	if err != nil || out.Status != "applied" || out.Content != "hello" {
		t.Fatalf("read = %#v, %v", out, err)
	}

	want := []string{"open settings", "read /usr/motd"}
	if strings.Join(shell.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v", shell.calls)
	}
}

func TestToolArgumentValidation(t *testing.T) {
	s := NewServer(&fakeShell{})
	ctx := context.Background()
	tests := []struct {
		name string
		call func() error
	}{
		{"open without app", func() error {
			_, _, err := s.handleOpenWindow(ctx, nil, OpenWindowInput{App: " "})
			return err
		}},
		{"close without id", func() error {
			_, _, err := s.handleCloseWindow(ctx, nil, WindowTargetInput{})
			return err
		}},
		{"relative read", func() error {
			_, _, err := s.handleReadFile(ctx, nil, ReadFileInput{Path: "usr/motd"})
			return err
		}},
		{"relative write", func() error {
			_, _, err := s.handleWriteFile(ctx, nil, WriteFileInput{Path: "x", Content: "y"})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.call() == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestShellErrorsPropagate(t *testing.T) {
	s := NewServer(&fakeShell{fail: errors.New("failed to connect")})
	if _, _, err := s.handleGetStatus(context.Background(), nil, StatusInput{}); err == nil {
		t.Fatalf("status should fail")
	}
	if _, _, err := s.handleChangeTheme(context.Background(), nil, ChangeThemeInput{Theme: "Night"}); err == nil {
		t.Fatalf("change_theme should fail")
	}
}

func TestToolsOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()
	s := NewServer(&fakeShell{})
	serverT, clientT := mcpsdk.NewInMemoryTransports()
	ss, err := s.mcpServer.Connect(ctx, serverT, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer ss.Close()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "0"}, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer cs.Close()

	tools, err := cs.ListTools(ctx, &mcpsdk.ListToolsParams{})
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	if len(tools.Tools) != 9 {
		t.Fatalf("tools = %d, want 9", len(tools.Tools))
	}

	res, err := cs.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "get_status",
		Arguments: map[string]any{},
	})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if res.IsError || len(res.Content) == 0 {
		t.Fatalf("result = %#v", res)
	}
	text, ok := res.Content[0].(*mcpsdk.TextContent)
	if !ok || !strings.Contains(text.Text, `"theme":"Night"`) {
		t.Fatalf("content = %#v", res.Content[0])
	}
}
