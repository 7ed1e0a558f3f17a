package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/mingde/internal/runtimepath"
)

// Client handles IPC communication with a running shell
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; send surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

func NewClientAt(socketPath string) *Client {
	return &Client{socketPath: socketPath, timeout: 5 * time.Second}
}

func (c *Client) send(cmd CommandType, payload any, wait bool) (*Response, error) {
	req := &Request{Command: cmd}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = raw
	}

	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to shell: %w (is mingde running?)", err)
	}
	defer conn.Close()

	deadline := c.timeout
	if wait {
		deadline = WaitTimeout + c.timeout
	}
	conn.SetDeadline(time.Now().Add(deadline))

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	if _, err := conn.Write(append(data, '\n')); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	respData, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("shell error: %s", resp.Error)
	}
	return &resp, nil
}

func decode[T any](resp *Response, what string) (*T, error) {
	var out T
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse %s data: %w", what, err)
	}
	return &out, nil
}

func (c *Client) submit(cmd CommandType, payload any, wait bool) (*OutcomeData, error) {
	resp, err := c.send(cmd, payload, wait)
	if err != nil {
		return nil, err
	}
	return decode[OutcomeData](resp, "outcome")
}

// GetStatus retrieves the shell status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.send(CommandGetStatus, nil, false)
	if err != nil {
		return nil, err
	}
	return decode[StatusData](resp, "status")
}

// ListWindows lists every entity in paint order.
func (c *Client) ListWindows() (*WindowsData, error) {
	resp, err := c.send(CommandListWindows, nil, false)
	if err != nil {
		return nil, err
	}
	return decode[WindowsData](resp, "windows")
}

func (c *Client) OpenWindow(app string, wait bool) (*OutcomeData, error) {
	return c.submit(CommandOpenWindow, WindowPayload{App: app, Wait: wait}, wait)
}

func (c *Client) CloseWindow(target string, wait bool) (*OutcomeData, error) {
	return c.submit(CommandCloseWindow, WindowPayload{Target: target, Wait: wait}, wait)
}

func (c *Client) FocusWindow(target string, wait bool) (*OutcomeData, error) {
	return c.submit(CommandFocusWindow, WindowPayload{Target: target, Wait: wait}, wait)
}

func (c *Client) ChangeTheme(name string, wait bool) (*OutcomeData, error) {
	return c.submit(CommandChangeTheme, ThemePayload{Theme: name, Wait: wait}, wait)
}

func (c *Client) SetBackground(color string, wait bool) (*OutcomeData, error) {
	return c.submit(CommandSetBackground, BackgroundPayload{Color: color, Wait: wait}, wait)
}

func (c *Client) ReadFile(path string, wait bool) (*OutcomeData, error) {
	return c.submit(CommandReadFile, FilePayload{Path: path, Wait: wait}, wait)
}

func (c *Client) WriteFile(path, content string, wait bool) (*OutcomeData, error) {
	return c.submit(CommandWriteFile, FilePayload{Path: path, Content: content, Wait: wait}, wait)
}

// Ping checks if the shell is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
