package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/mingde/internal/config"
	"github.com/1broseidon/mingde/internal/snapshot"
)

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  mingde config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  mingde config print [--path PATH] [--defaults]")
		fmt.Fprintln(os.Stderr, "  mingde config explain [--path PATH] <yaml.path>")
		fmt.Fprintln(os.Stderr, "  mingde config edit [--path PATH]")
		return 2
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/mingde/config.yaml)")
	printDefaults := fs.Bool("defaults", false, "print: built-in defaults (no files)")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	load := func() (*config.LoadResult, error) {
		if *path == "" {
			return config.LoadWithSources()
		}
		return config.LoadFromPath(*path)
	}

	switch args[0] {
	case "validate":
		if _, err := load(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := load()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			for _, f := range res.Files {
				fmt.Printf("# loaded: %s\n", f)
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)
		res, err := load()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	case "edit":
		return editConfig(*path)

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

// editConfig opens the config in $EDITOR, creating it from the defaults
// first, and validates the result.
func editConfig(path string) int {
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := config.DefaultConfig().SaveTo(path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	cmd := exec.Command(editor, path)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "editor failed: %v\n", err)
		return 1
	}
	if _, err := config.LoadFromPath(path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config: ok")
	return 0
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		return "default"
	default:
		return string(src.Kind)
	}
}

func runSnapshot(args []string) int {
	if len(args) == 0 || args[0] != "hash" {
		fmt.Fprintln(os.Stderr, "Usage: mingde snapshot hash [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Print the SHA-256 of the saved snapshot, for snapshot.hash in the config.")
		return 2
	}
	fs := flag.NewFlagSet("hash", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/mingde/config.yaml)")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}
	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	snapPath, err := cfg.SnapshotPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	// Verify nothing here; this is how the expected hash is obtained.
	_, sum, err := snapshot.Load(snapPath, "")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(sum)
	return 0
}
