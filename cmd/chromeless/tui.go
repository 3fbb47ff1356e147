package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/chromeless/internal/tui"
)

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/chromeless/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: chromeless tui [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive dashboard for a running window. Works as an offline")
		fmt.Fprintln(os.Stderr, "settings editor when no window is running.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  tab, 1-3   Switch between Window, Monitors and Settings")
		fmt.Fprintln(os.Stderr, "  m/x/r/c    Minimize, toggle maximize, restore, close (Window tab)")
		fmt.Fprintln(os.Stderr, "  e          Edit settings (Settings tab)")
		fmt.Fprintln(os.Stderr, "  ctrl+s     Review and save config changes")
		fmt.Fprintln(os.Stderr, "  q, ctrl+c  Quit")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "tui takes no arguments")
		fs.Usage()
		return 2
	}

	if err := tui.Run(*path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
