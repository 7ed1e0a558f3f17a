package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/mingde/internal/theme"
	"github.com/1broseidon/mingde/internal/wm"
)

// WaitTimeout bounds how long a request waiting for approval holds its
// connection.
const WaitTimeout = 2 * time.Minute

// Controller runs work on the shell loop. *shell.Loop implements it.
type Controller interface {
	Do(ctx context.Context, fn func(m *wm.Manager) error) error
	Submit(ctx context.Context, req wm.Request) (wm.Outcome, error)
	SubmitWait(ctx context.Context, req wm.Request) (wm.Outcome, error)
}

// Server answers control commands on a unix socket. Every request it
// submits is external and therefore untrusted.
type Server struct {
	socketPath string
	ctl        Controller
	logger     *slog.Logger
	startTime  time.Time

	mu           sync.Mutex
	listener     net.Listener
	shuttingDown bool
}

func NewServer(socketPath string, ctl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		socketPath: socketPath,
		ctl:        ctl,
		logger:     logger,
		startTime:  time.Now(),
	}
}

func (s *Server) String() string { return "ipc" }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// A stale socket from a crashed shell would make Listen fail.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.shuttingDown = false
	s.mu.Unlock()

	s.logger.Info("IPC server listening", "socket", s.socketPath)
	go s.acceptLoop(listener)
	return nil
}

// Serve runs the server until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return ctx.Err()
}

func (s *Server) acceptLoop(listener net.Listener) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			s.mu.Lock()
			stopping := s.shuttingDown
			s.mu.Unlock()
			if stopping || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	data, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}
	req, err := ParseRequest(data)
	if err != nil {
		s.send(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), WaitTimeout)
	defer cancel()
	s.send(conn, s.handleCommand(ctx, req))
}

func (s *Server) send(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		s.logger.Warn("failed to marshal response", "error", err)
		return
	}
	if _, err := conn.Write(append(data, '\n')); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	s.logger.Debug("IPC command", "command", req.Command)
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus(ctx)
	case CommandListWindows:
		return s.handleListWindows(ctx)
	case CommandOpenWindow:
		return handlePayload(ctx, s, req.Payload, func(p WindowPayload) (wm.Request, bool, error) {
			if p.App == "" {
				return nil, false, errors.New("app is required")
			}
			return wm.OpenWindow{App: p.App}, p.Wait, nil
		})
	case CommandCloseWindow:
		return handlePayload(ctx, s, req.Payload, func(p WindowPayload) (wm.Request, bool, error) {
			if p.Target == "" {
				return nil, false, errors.New("target is required")
			}
			return wm.CloseWindow{Target: p.Target}, p.Wait, nil
		})
	case CommandFocusWindow:
		return handlePayload(ctx, s, req.Payload, func(p WindowPayload) (wm.Request, bool, error) {
			if p.Target == "" {
				return nil, false, errors.New("target is required")
			}
			return wm.FocusWindow{Target: p.Target}, p.Wait, nil
		})
	case CommandChangeTheme:
		return handlePayload(ctx, s, req.Payload, func(p ThemePayload) (wm.Request, bool, error) {
			th, err := theme.Parse(p.Theme)
			if err != nil {
				return nil, false, err
			}
			return wm.ChangeThemeRequest{Theme: th}, p.Wait, nil
		})
	case CommandSetBackground:
		return handlePayload(ctx, s, req.Payload, func(p BackgroundPayload) (wm.Request, bool, error) {
			return wm.ChangeDesktopBackground{Color: p.Color}, p.Wait, nil
		})
	case CommandReadFile:
		return handlePayload(ctx, s, req.Payload, func(p FilePayload) (wm.Request, bool, error) {
			return wm.ReadFileSystem{Permission: wm.PermissionReadAll, Path: p.Path}, p.Wait, nil
		})
	case CommandWriteFile:
		return handlePayload(ctx, s, req.Payload, func(p FilePayload) (wm.Request, bool, error) {
			return wm.WriteFileSystem{Permission: wm.PermissionWriteAll, Path: p.Path, Content: p.Content}, p.Wait, nil
		})
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handlePayload decodes a payload of type P, builds the request from it and
// submits it.
func handlePayload[P any](ctx context.Context, s *Server, raw json.RawMessage, build func(P) (wm.Request, bool, error)) *Response {
	var p P
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
		}
	}
	req, wait, err := build(p)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	var out wm.Outcome
	if wait {
		out, err = s.ctl.SubmitWait(ctx, req)
	} else {
		out, err = s.ctl.Submit(ctx, req)
	}
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return NewErrorResponse(fmt.Sprintf("Failed to submit request: %v", err))
	}
	s.logger.Info("IPC request submitted",
		"kind", req.Kind().String(),
		"status", out.Status.String(),
		"approval", out.Approval)
	resp, _ := NewOKResponse(outcomeData(out))
	return resp
}

func (s *Server) handleGetStatus(ctx context.Context) *Response {
	var status StatusData
	err := s.ctl.Do(ctx, func(m *wm.Manager) error {
		size := m.Display().Size()
		status = StatusData{
			Theme:            string(m.Theme()),
			Background:       m.Background(),
			Shortcuts:        m.Settings().Shortcuts,
			Focused:          m.Focused(),
			Windows:          len(m.Windows()),
			PendingApprovals: m.PendingApprovals(),
			Frame:            m.Frame(),
			Width:            size.Width,
			Height:           size.Height,
		}
		return nil
	})
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get status: %v", err))
	}
	status.UptimeSeconds = int64(time.Since(s.startTime).Seconds())
	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleListWindows(ctx context.Context) *Response {
	var data WindowsData
	err := s.ctl.Do(ctx, func(m *wm.Manager) error {
		data.Windows = m.Windows()
		return nil
	})
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list windows: %v", err))
	}
	resp, _ := NewOKResponse(data)
	return resp
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.mu.Lock()
	s.shuttingDown = true
	listener := s.listener
	s.listener = nil
	s.mu.Unlock()

	if listener != nil {
		listener.Close()
		os.Remove(s.socketPath)
	}
}
