package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/1broseidon/chromeless/internal/config"
	"github.com/1broseidon/chromeless/internal/frameless"
	"github.com/1broseidon/chromeless/internal/hotkeys"
	"github.com/1broseidon/chromeless/internal/ipc"
	"github.com/1broseidon/chromeless/internal/logging"
	"github.com/1broseidon/chromeless/internal/platform"
	"github.com/1broseidon/chromeless/internal/session"
	"github.com/1broseidon/chromeless/internal/shell"
	"github.com/1broseidon/chromeless/internal/x11"
)

func runWindow(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/chromeless/config.yaml)")
	maximized := fs.Bool("maximized", false, "Start maximized")
	noIPC := fs.Bool("no-ipc", false, "Do not open the control socket")
	noResize := fs.Bool("no-resize", false, "Disable resizing and maximize")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: chromeless run [--config PATH] [--maximized] [--no-resize] [--no-ipc]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open the frameless window and run until it is closed.")
		fs.PrintDefaults()
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

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config
	if *maximized {
		cfg.Window.StartMaximized = true
	}
	if *noResize {
		cfg.Chrome.ResizeEnabled = false
	}
	if *noIPC {
		cfg.IPC.Enabled = false
	}

	logger, closeLog, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closeLog()
	slog.SetDefault(logger)

	if err := serve(cfg, logger); err != nil {
		logger.Error("window failed", "error", err)
		return 1
	}
	return 0
}

// serve opens the window and blocks in the X event loop until it closes.
func serve(cfg *config.Config, logger *slog.Logger) error {
	conn, err := x11.NewConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	if cfg.Window.RememberGeometry {
		restoreSession(conn, &cfg.Window, logger)
	}

	win, err := x11.NewWindow(conn, windowOptions(cfg), logger)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	sh := shell.New(win, win.Chrome(), shellConfig(cfg), logger)
	win.SetHandler(sh)
	win.OnAction(func(code uint32) {
		action := shell.Action(code)
		if err := sh.Perform(action); err != nil {
			logger.Warn("queued action failed", "action", action, "error", err)
		}
	})

	if cfg.Window.RememberGeometry {
		win.OnClose(func() { saveSession(sh.Snapshot(), logger) })
	}

	keys := hotkeys.NewHandler(conn.XUtil, win.XWindow(), logger)
	if err := keys.RegisterActions(cfg.Keys, sh); err != nil {
		logger.Warn("some shortcuts were not registered", "error", err)
	}
	win.OnClose(keys.Detach)

	if cfg.IPC.Enabled {
		srv, err := ipc.NewServer(remoteWindow{shell: sh, window: win}, monitorSource{conn: conn})
		if err != nil {
			return err
		}
		if err := srv.Start(); err != nil {
			logger.Warn("IPC disabled", "error", err)
		} else {
			win.OnClose(srv.Stop)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	done := make(chan struct{})
	stopSignals := sync.OnceFunc(func() { close(done) })
	defer stopSignals()
	win.OnClose(stopSignals)
	go closeOnSignal(sigCh, done, func() {
		if err := win.Post(uint32(shell.ActionClose)); err != nil {
			logger.Error("failed to post close", "error", err)
			conn.Quit()
		}
	}, logger)

	if err := win.Show(); err != nil {
		return err
	}
	logger.Info("window shown",
		"title", cfg.Window.Title,
		"bounds", win.Bounds(),
		"resize_enabled", sh.ResizeEnabled(),
		"ipc", cfg.IPC.Enabled)

	conn.EventLoop()
	logger.Info("window closed")
	return nil
}

// restoreSession applies the last saved geometry unless it would open the
// window off every connected monitor.
// closeOnSignal calls closeWindow on the first signal, and returns without
// calling it once done is closed.
func closeOnSignal(sigCh <-chan os.Signal, done <-chan struct{}, closeWindow func(), logger *slog.Logger) {
	select {
	case <-sigCh:
		logger.Info("signal received, closing window")
		closeWindow()
	case <-done:
	}
}

func restoreSession(conn *x11.Connection, w *config.WindowConfig, logger *slog.Logger) {
	path, err := session.Path()
	if err != nil {
		logger.Debug("session path unavailable", "error", err)
		return
	}
	saved, err := session.Read(path)
	if err != nil {
		logger.Warn("ignoring saved session", "error", err)
		return
	}
	if saved == nil {
		return
	}

	b := saved.Bounds()
	if monitors, err := conn.GetMonitors(); err == nil && len(monitors) > 0 {
		if _, ok := x11.MonitorAt(monitors, b.X+b.Width/2, b.Y+b.Height/2); !ok {
			logger.Info("saved geometry is off-screen, using configured placement", "bounds", b)
			return
		}
	}
	saved.Apply(w)
	logger.Debug("restored session geometry", "bounds", b, "state", saved.State)
}

func saveSession(snap shell.Snapshot, logger *slog.Logger) {
	path, err := session.Path()
	if err != nil {
		logger.Debug("session path unavailable", "error", err)
		return
	}
	if err := session.Write(path, session.FromSnapshot(snap, time.Now())); err != nil {
		logger.Warn("failed to save session", "error", err)
	}
}

func windowOptions(cfg *config.Config) x11.WindowOptions {
	w := cfg.Window
	return x11.WindowOptions{
		Title: w.Title,
		Bounds: platform.Rect{
			X:      w.X,
			Y:      w.Y,
			Width:  w.Width,
			Height: w.Height,
		},
		MinSize:             platform.Size{Width: w.MinWidth, Height: w.MinHeight},
		TitlebarHeight:      cfg.Chrome.TitlebarHeight,
		Maximized:           w.StartMaximized,
		DoubleClickInterval: cfg.Chrome.DoubleClickInterval(),
		DoubleClickDistance: cfg.Chrome.DoubleClickDistance,
	}
}

func shellConfig(cfg *config.Config) frameless.Config {
	fc := shell.DefaultConfig()
	fc.OnlyMoveFromTitlebar = cfg.Chrome.OnlyMoveFromTitlebar
	fc.ResizeEnabled = cfg.Chrome.ResizeEnabled
	fc.BorderMargin = cfg.Chrome.BorderMargin
	return fc
}

// remoteWindow serves the shell to IPC clients. Actions are posted to the
// event loop rather than run on the connection goroutine.
type remoteWindow struct {
	shell  *shell.Shell
	window *x11.Window
}

func (r remoteWindow) Snapshot() shell.Snapshot {
	return r.shell.Snapshot()
}

func (r remoteWindow) PostAction(a shell.Action) error {
	return r.window.Post(uint32(a))
}

type monitorSource struct {
	conn *x11.Connection
}

func (m monitorSource) Monitors() ([]ipc.MonitorInfo, error) {
	monitors, err := m.conn.GetMonitors()
	if err != nil {
		return nil, err
	}
	return monitorInfos(monitors), nil
}

func monitorInfos(monitors []x11.Monitor) []ipc.MonitorInfo {
	out := make([]ipc.MonitorInfo, len(monitors))
	for i, m := range monitors {
		out[i] = ipc.MonitorInfo{
			ID:     m.ID,
			Name:   m.Name,
			X:      m.X,
			Y:      m.Y,
			Width:  m.Width,
			Height: m.Height,
		}
	}
	return out
}
