package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/1broseidon/mingde/internal/ipc"
	"github.com/1broseidon/mingde/internal/wm"
)

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mingde status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show shell status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("theme:             %s\n", status.Theme)
	fmt.Printf("background:        %s\n", status.Background)
	fmt.Printf("shortcuts:         %v\n", status.Shortcuts)
	fmt.Printf("display:           %dx%d\n", status.Width, status.Height)
	fmt.Printf("focused:           %s\n", status.Focused)
	fmt.Printf("windows:           %d\n", status.Windows)
	fmt.Printf("pending_approvals: %d\n", status.PendingApprovals)
	fmt.Printf("frame:             %d\n", status.Frame)
	fmt.Printf("uptime_seconds:    %d\n", status.UptimeSeconds)
	return 0
}

func runWindows(args []string) int {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	all := fs.Bool("all", false, "Include desktop, taskbar and menus")
	asJSON := fs.Bool("json", false, "Print JSON")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	data, err := ipc.NewClient().ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	var windows []wm.WindowInfo
	for _, w := range data.Windows {
		if *all || w.Layer == wm.LayerWindows || w.Layer == wm.LayerModals {
			windows = append(windows, w)
		}
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(windows); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLAYER\tTITLE\tRECT\tFOCUSED")
	for _, w := range windows {
		title := w.Title
		if title == "" {
			title = w.Kind
		}
		r := w.Rect
		fmt.Fprintf(tw, "%s\t%s\t%s\t%dx%d+%d+%d\t%v\n", w.ID, w.Layer, title, r.Width, r.Height, r.X, r.Y, w.Focused)
	}
	tw.Flush()
	return 0
}

// requestArgs is the number of positional arguments each request command
// takes.
var requestArgs = map[string]int{
	"open":       1,
	"close":      1,
	"focus":      1,
	"theme":      1,
	"background": 1,
	"read":       1,
	"write":      2,
}

func runRequest(cmd string, args []string) int {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	wait := fs.Bool("wait", false, "Block until the user answers the approval prompt")
	asJSON := fs.Bool("json", false, "Print the outcome as JSON")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != requestArgs[cmd] {
		fmt.Fprintf(os.Stderr, "%s takes %d argument(s)\n", cmd, requestArgs[cmd])
		return 2
	}

	c := ipc.NewClient()
	var out *ipc.OutcomeData
	var err error
	switch cmd {
	case "open":
		out, err = c.OpenWindow(fs.Arg(0), *wait)
	case "close":
		out, err = c.CloseWindow(fs.Arg(0), *wait)
	case "focus":
		out, err = c.FocusWindow(fs.Arg(0), *wait)
	case "theme":
		out, err = c.ChangeTheme(fs.Arg(0), *wait)
	case "background":
		out, err = c.SetBackground(fs.Arg(0), *wait)
	case "read":
		out, err = c.ReadFile(fs.Arg(0), *wait)
	case "write":
		out, err = c.WriteFile(fs.Arg(0), fs.Arg(1), *wait)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *asJSON {
		data, _ := json.Marshal(out)
		fmt.Println(string(data))
	} else {
		printOutcome(out)
	}
	switch out.Status {
	case wm.StatusApplied.String(), wm.StatusPending.String():
		return 0
	}
	return 1
}

func printOutcome(out *ipc.OutcomeData) {
	fmt.Printf("status: %s\n", out.Status)
	if out.Reason != "" {
		fmt.Printf("reason: %s\n", out.Reason)
	}
	if out.Approval != "" {
		fmt.Printf("approval: %s\n", out.Approval)
	}
	if out.Window != "" {
		fmt.Printf("window: %s\n", out.Window)
	}
	if out.Content != "" {
		fmt.Println(out.Content)
	}
}
