package mcp

import "github.com/1broseidon/mingde/internal/wm"

// StatusInput is the input for the get_status tool.
type StatusInput struct{}

// StatusOutput is the output for the get_status tool.
type StatusOutput struct {
	Theme            string `json:"theme"`
	Background       string `json:"background"`
	Shortcuts        bool   `json:"shortcuts"`
	Focused          string `json:"focused,omitempty"`
	Windows          int    `json:"windows"`
	PendingApprovals int    `json:"pending_approvals"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	All bool `json:"all,omitempty" jsonschema:"Include the desktop, taskbar and other shell entities, not only app windows"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []wm.WindowInfo `json:"windows"`
}

// OpenWindowInput is the input for the open_window tool.
type OpenWindowInput struct {
	App  string `json:"app" jsonschema:"App name: settings, file-viewer, about or help"`
	Wait bool   `json:"wait,omitempty" jsonschema:"Block until the user answers the approval prompt (up to two minutes)"`
}

// WindowTargetInput is the input for close_window and focus_window.
type WindowTargetInput struct {
	ID   string `json:"id" jsonschema:"Window id as returned by list_windows"`
	Wait bool   `json:"wait,omitempty" jsonschema:"Block until the user answers the approval prompt (up to two minutes)"`
}

// ChangeThemeInput is the input for the change_theme tool.
type ChangeThemeInput struct {
	Theme string `json:"theme" jsonschema:"Theme name, e.g. Standard, Night, Forest, Royal"`
	Wait  bool   `json:"wait,omitempty" jsonschema:"Block until the user answers the approval prompt (up to two minutes)"`
}

// SetBackgroundInput is the input for the set_background tool.
type SetBackgroundInput struct {
	Color string `json:"color" jsonschema:"Desktop colour as #rrggbb"`
	Wait  bool   `json:"wait,omitempty" jsonschema:"Block until the user answers the approval prompt (up to two minutes)"`
}

// ReadFileInput is the input for the read_file tool.
type ReadFileInput struct {
	Path string `json:"path" jsonschema:"Absolute path in the shell's virtual file system"`
	Wait bool   `json:"wait,omitempty" jsonschema:"Block until the user answers the approval prompt (up to two minutes)"`
}

// WriteFileInput is the input for the write_file tool.
type WriteFileInput struct {
	Path    string `json:"path" jsonschema:"Absolute path in the shell's virtual file system; the parent directory must exist"`
	Content string `json:"content" jsonschema:"New file content"`
	Wait    bool   `json:"wait,omitempty" jsonschema:"Block until the user answers the approval prompt (up to two minutes)"`
}

// OutcomeOutput is the shell's answer to a gated request. Status is
// applied, pending, dropped or invalid.
type OutcomeOutput struct {
	Status   string `json:"status"`
	Reason   string `json:"reason,omitempty"`
	Approval string `json:"approval,omitempty"`
	Window   string `json:"window,omitempty"`
	Content  string `json:"content,omitempty"`
	Found    bool   `json:"found,omitempty"`
	OK       bool   `json:"ok,omitempty"`
}
