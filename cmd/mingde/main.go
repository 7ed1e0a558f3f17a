package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/1broseidon/mingde/internal/config"
	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/ipc"
	"github.com/1broseidon/mingde/internal/platform"
	"github.com/1broseidon/mingde/internal/runtimepath"
	"github.com/1broseidon/mingde/internal/shell"
	"github.com/1broseidon/mingde/internal/tty"
	"github.com/1broseidon/mingde/internal/tui"
	"github.com/1broseidon/mingde/internal/x11"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runShell(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "open", "close", "focus", "theme", "background", "read", "write":
		os.Exit(runRequest(os.Args[1], os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "snapshot":
		os.Exit(runSnapshot(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mingde <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run [--host x11|tty|headless]   Start the desktop shell (foreground)")
	fmt.Fprintln(w, "  status                          Show shell status")
	fmt.Fprintln(w, "  windows [--all] [--json]        List windows")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  open <app>                      Ask the shell to open an app")
	fmt.Fprintln(w, "  close <id>                      Ask the shell to close a window")
	fmt.Fprintln(w, "  focus <id>                      Ask the shell to focus a window")
	fmt.Fprintln(w, "  theme <name>                    Ask the shell to change the theme")
	fmt.Fprintln(w, "  background <#rrggbb>            Ask the shell to change the background")
	fmt.Fprintln(w, "  read <path>                     Read from the shell's file system")
	fmt.Fprintln(w, "  write <path> <content>          Write to the shell's file system")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate                 Validate configuration")
	fmt.Fprintln(w, "  config print                    Print configuration")
	fmt.Fprintln(w, "  config explain                  Explain a config value")
	fmt.Fprintln(w, "  config edit                     Open the config file in $EDITOR")
	fmt.Fprintln(w, "  snapshot hash                   Print the saved snapshot's SHA-256")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                             Open interactive control panel")
	fmt.Fprintln(w, "  mcp serve                       Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Requests from the command line are untrusted: the shell asks the user")
	fmt.Fprintln(w, "to approve them. Pass --wait to block until the answer.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'mingde <command> --help' for command-specific options.")
}

func loadConfig(path string) (*config.Config, error) {
	var res *config.LoadResult
	var err error
	if path == "" {
		res, err = config.LoadWithSources()
	} else {
		res, err = config.LoadFromPath(path)
	}
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func runShell(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/mingde/config.yaml)")
	hostKind := fs.String("host", "x11", "Presentation host: x11, tty or headless")
	framePath := fs.String("frame", "", "headless: write every frame to this PNG (default: runtime dir)")
	logPath := fs.String("log", "", "Write logs to this file instead of stderr")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mingde run [--host x11|tty|headless] [--path PATH] [--frame PNG] [--log FILE]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the desktop shell in the foreground and serve the control socket.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var logOut io.Writer = os.Stderr
	switch {
	case *logPath != "":
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		logOut = f
	case *hostKind == "tty":
		// stderr shares the terminal with the display
		logOut = io.Discard
	}
	logger := newLogger(logOut, cfg.LogLevel)

	size := geom.Size{Width: cfg.Width, Height: cfg.Height}
	var host platform.Host
	switch *hostKind {
	case "x11":
		conn, err := x11.NewConnection()
		if err != nil {
			log.Fatalf("Failed to connect to display: %v", err)
		}
		defer conn.Close()
		h, err := x11.NewHost(conn, size)
		if err != nil {
			log.Fatalf("Failed to create window: %v", err)
		}
		host = h
	case "tty":
		h, err := tty.NewHost(cfg.TTY.Downscale)
		if err != nil {
			log.Fatalf("Failed to start terminal host: %v", err)
		}
		host = h
	case "headless":
		if *framePath == "" {
			if *framePath, err = runtimepath.FramePath(); err != nil {
				log.Fatalf("Failed to resolve frame path: %v", err)
			}
		}
		host = platform.NewHeadless(size, *framePath)
		logger.Info("headless host", "frame", *framePath)
	default:
		fmt.Fprintf(os.Stderr, "unknown host %q (want x11, tty or headless)\n", *hostKind)
		return 2
	}
	defer host.Close()

	sh, err := shell.New(cfg, host, logger)
	if err != nil {
		log.Fatalf("Failed to start shell: %v", err)
	}

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		log.Fatalf("Failed to resolve socket path: %v", err)
	}
	server := ipc.NewServer(socketPath, sh.Loop, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("mingde started", "host", *hostKind, "theme", cfg.Theme, "scale", cfg.Scale)
	if err := sh.Run(ctx, server); err != nil {
		logger.Error("shell stopped", "error", err)
		return 1
	}
	logger.Info("mingde stopped")
	return 0
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/mingde/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mingde tui [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive control panel. Lists the running shell's windows and")
		fmt.Fprintln(os.Stderr, "edits the config file; works offline when no shell is running.")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if err := tui.Run(*path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
