package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/mingde/internal/wm"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus     CommandType = "GET_STATUS"
	CommandListWindows   CommandType = "LIST_WINDOWS"
	CommandOpenWindow    CommandType = "OPEN_WINDOW"
	CommandCloseWindow   CommandType = "CLOSE_WINDOW"
	CommandFocusWindow   CommandType = "FOCUS_WINDOW"
	CommandChangeTheme   CommandType = "CHANGE_THEME"
	CommandSetBackground CommandType = "SET_BACKGROUND"
	CommandReadFile      CommandType = "READ_FILE"
	CommandWriteFile     CommandType = "WRITE_FILE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Theme            string `json:"theme"`
	Background       string `json:"background"`
	Shortcuts        bool   `json:"shortcuts"`
	Focused          string `json:"focused,omitempty"`
	Windows          int    `json:"windows"`
	PendingApprovals int    `json:"pending_approvals"`
	Frame            uint64 `json:"frame"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	UptimeSeconds    int64  `json:"uptime_seconds"`
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows []wm.WindowInfo `json:"windows"`
}

// Wait, on any request payload, holds the response until the user answered
// the approval prompt instead of returning "pending" at once.
type WindowPayload struct {
	App    string `json:"app,omitempty"`
	Target string `json:"target,omitempty"`
	Wait   bool   `json:"wait,omitempty"`
}

type ThemePayload struct {
	Theme string `json:"theme"`
	Wait  bool   `json:"wait,omitempty"`
}

type BackgroundPayload struct {
	Color string `json:"color"`
	Wait  bool   `json:"wait,omitempty"`
}

type FilePayload struct {
	Path    string `json:"path"`
	Content string `json:"content,omitempty"`
	Wait    bool   `json:"wait,omitempty"`
}

// OutcomeData is the gate's answer to a request command.
type OutcomeData struct {
	Status   string `json:"status"`
	Reason   string `json:"reason,omitempty"`
	Approval string `json:"approval,omitempty"`
	Window   string `json:"window,omitempty"`
	Content  string `json:"content,omitempty"`
	Found    bool   `json:"found,omitempty"`
	OK       bool   `json:"ok,omitempty"`
}

func outcomeData(out wm.Outcome) OutcomeData {
	return OutcomeData{
		Status:   out.Status.String(),
		Reason:   out.Reason,
		Approval: out.Approval,
		Window:   out.Window,
		Content:  out.Content,
		Found:    out.Found,
		OK:       out.OK,
	}
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		raw = b
	}
	return &Response{Status: "OK", Data: raw}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{Status: "ERROR", Error: errMsg}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
