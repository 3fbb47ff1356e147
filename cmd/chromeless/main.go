package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/1broseidon/chromeless/internal/config"
	"github.com/1broseidon/chromeless/internal/ipc"
	"github.com/1broseidon/chromeless/internal/shell"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runWindow(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "action":
		os.Exit(runAction(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
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
	fmt.Fprintln(w, "Usage: chromeless <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Open the frameless window (foreground)")
	fmt.Fprintln(w, "  status              Show window state")
	fmt.Fprintln(w, "  action <name>       Minimize, maximize, restore, toggle-maximize or close")
	fmt.Fprintln(w, "  monitors            List monitors")
	fmt.Fprintln(w, "  tui                 Interactive dashboard and settings editor")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config init         Write the default configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'chromeless <command> --help' for command-specific options.")
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: chromeless status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show window state via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(status)
	}
	printStatus(os.Stdout, status)
	return 0
}

func printStatus(w io.Writer, status *ipc.StatusData) {
	b := status.Bounds
	fmt.Fprintf(w, "state:          %s\n", status.State)
	fmt.Fprintf(w, "restore_target: %s\n", status.RestoreTarget)
	fmt.Fprintf(w, "bounds:         %dx%d+%d+%d\n", b.Width, b.Height, b.X, b.Y)
	fmt.Fprintf(w, "hover:          %s\n", status.Hover)
	fmt.Fprintf(w, "dragging:       %v\n", status.Dragging)
	fmt.Fprintf(w, "resize_enabled: %v\n", status.ResizeEnabled)
	fmt.Fprintf(w, "uptime_seconds: %d\n", status.UptimeSeconds)
}

func runAction(args []string) int {
	fs := flag.NewFlagSet("action", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: chromeless action <name>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintf(os.Stderr, "Actions: %s\n", strings.Join(shell.ActionNames(), ", "))
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	action, err := shell.ParseAction(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	client := ipc.NewClient()
	if _, err := client.Action(action.String()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runMonitors(args []string) int {
	fs := flag.NewFlagSet("monitors", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: chromeless monitors [--json]")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	data, err := client.GetMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(data)
	}
	for _, m := range data.Monitors {
		marker := " "
		if m.Current {
			marker = "*"
		}
		fmt.Printf("%s %d %-10s %dx%d+%d+%d\n", marker, m.ID, m.Name, m.Width, m.Height, m.X, m.Y)
	}
	return 0
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  chromeless config validate [--path PATH]")
	fmt.Fprintln(w, "  chromeless config print [--path PATH] [--defaults]")
	fmt.Fprintln(w, "  chromeless config init [--path PATH] [--force]")
}

func runConfig(args []string) int {
	if len(args) == 0 {
		printConfigUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/chromeless/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if res.File == "" {
			fmt.Println("config: ok (no file, using defaults)")
			return 0
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/chromeless/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
		}
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "init":
		fs := flag.NewFlagSet("init", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/chromeless/config.yaml)")
		force := fs.Bool("force", false, "Overwrite an existing file")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		target, err := configPath(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if _, err := os.Stat(target); err == nil && !*force {
			fmt.Fprintf(os.Stderr, "%s already exists (use --force to overwrite)\n", target)
			return 1
		}
		if err := config.DefaultConfig().SaveTo(target); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(target)
		return 0

	case "help", "-h", "--help":
		printConfigUsage(os.Stdout)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n\n", args[0])
		printConfigUsage(os.Stderr)
		return 2
	}
}

func configPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return config.DefaultConfigPath()
}

func loadConfig(path string) (*config.LoadResult, error) {
	target, err := configPath(path)
	if err != nil {
		return nil, err
	}
	return config.LoadFromPath(target)
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
