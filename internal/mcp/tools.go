package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/mingde/internal/ipc"
	"github.com/1broseidon/mingde/internal/wm"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.shell.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput{
		Theme:            st.Theme,
		Background:       st.Background,
		Shortcuts:        st.Shortcuts,
		Focused:          st.Focused,
		Windows:          st.Windows,
		PendingApprovals: st.PendingApprovals,
		Width:            st.Width,
		Height:           st.Height,
	}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.shell.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	out := ListWindowsOutput{Windows: []wm.WindowInfo{}}
	for _, w := range data.Windows {
		if args.All || w.Layer == wm.LayerWindows || w.Layer == wm.LayerModals {
			out.Windows = append(out.Windows, w)
		}
	}
	return nil, out, nil
}

func (s *Server) handleOpenWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenWindowInput) (*mcpsdk.CallToolResult, OutcomeOutput, error) {
	if strings.TrimSpace(args.App) == "" {
		return nil, OutcomeOutput{}, fmt.Errorf("app is required")
	}
	return outcome(s.shell.OpenWindow(args.App, args.Wait))
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowTargetInput) (*mcpsdk.CallToolResult, OutcomeOutput, error) {
	if args.ID == "" {
		return nil, OutcomeOutput{}, fmt.Errorf("id is required")
	}
	return outcome(s.shell.CloseWindow(args.ID, args.Wait))
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowTargetInput) (*mcpsdk.CallToolResult, OutcomeOutput, error) {
	if args.ID == "" {
		return nil, OutcomeOutput{}, fmt.Errorf("id is required")
	}
	return outcome(s.shell.FocusWindow(args.ID, args.Wait))
}

func (s *Server) handleChangeTheme(_ context.Context, _ *mcpsdk.CallToolRequest, args ChangeThemeInput) (*mcpsdk.CallToolResult, OutcomeOutput, error) {
	return outcome(s.shell.ChangeTheme(args.Theme, args.Wait))
}

func (s *Server) handleSetBackground(_ context.Context, _ *mcpsdk.CallToolRequest, args SetBackgroundInput) (*mcpsdk.CallToolResult, OutcomeOutput, error) {
	return outcome(s.shell.SetBackground(args.Color, args.Wait))
}

func (s *Server) handleReadFile(_ context.Context, _ *mcpsdk.CallToolRequest, args ReadFileInput) (*mcpsdk.CallToolResult, OutcomeOutput, error) {
	if !strings.HasPrefix(args.Path, "/") {
		return nil, OutcomeOutput{}, fmt.Errorf("path must be absolute: %q", args.Path)
	}
	return outcome(s.shell.ReadFile(args.Path, args.Wait))
}

func (s *Server) handleWriteFile(_ context.Context, _ *mcpsdk.CallToolRequest, args WriteFileInput) (*mcpsdk.CallToolResult, OutcomeOutput, error) {
	if !strings.HasPrefix(args.Path, "/") {
		return nil, OutcomeOutput{}, fmt.Errorf("path must be absolute: %q", args.Path)
	}
	return outcome(s.shell.WriteFile(args.Path, args.Content, args.Wait))
}

// outcome converts a gated request's answer. A pending outcome carries a
// hint so the model knows a human has to act.
func outcome(data *ipc.OutcomeData, err error) (*mcpsdk.CallToolResult, OutcomeOutput, error) {
	if err != nil {
		return nil, OutcomeOutput{}, err
	}
	out := OutcomeOutput(*data)
	if out.Status == wm.StatusPending.String() && out.Reason == "" {
		out.Reason = "waiting for the user to approve on the desktop"
	}
	return nil, out, nil
}
