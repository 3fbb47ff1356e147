package ipc

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/1broseidon/chromeless/internal/frameless"
	"github.com/1broseidon/chromeless/internal/platform"
	"github.com/1broseidon/chromeless/internal/runtimepath"
	"github.com/1broseidon/chromeless/internal/shell"
)

type fakeWindow struct {
	mu      sync.Mutex
	snap    shell.Snapshot
	posted  []shell.Action
	postErr error
}

func (w *fakeWindow) Snapshot() shell.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snap
}

func (w *fakeWindow) PostAction(a shell.Action) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.postErr != nil {
		return w.postErr
	}
	w.posted = append(w.posted, a)
	return nil
}

func (w *fakeWindow) actions() []shell.Action {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]shell.Action(nil), w.posted...)
}

type fakeMonitors struct {
	monitors []MonitorInfo
	err      error
}

func (m fakeMonitors) Monitors() ([]MonitorInfo, error) {
	return append([]MonitorInfo(nil), m.monitors...), m.err
}

func startServer(t *testing.T, win Window, mons MonitorSource) (*Server, *Client) {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv(runtimepath.SocketEnv, "")

	srv, err := NewServer(win, mons)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return srv, NewClient()
}

func normalWindow() *fakeWindow {
	return &fakeWindow{snap: shell.Snapshot{
		State:         platform.StateNormal,
		RestoreTarget: platform.StateNormal,
		Bounds:        platform.Rect{X: 100, Y: 100, Width: 800, Height: 500},
		Hover:         frameless.RegionRight,
		ResizeEnabled: true,
	}}
}

func TestServer_GetStatus(t *testing.T) {
	win := normalWindow()
	win.snap.Dragging = true
	_, client := startServer(t, win, nil)

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	want := Bounds{X: 100, Y: 100, Width: 800, Height: 500}
	if status.State != "normal" || status.RestoreTarget != "normal" {
		t.Fatalf("unexpected states: %+v", status)
	}
	if status.Bounds != want {
		t.Fatalf("bounds = %+v, want %+v", status.Bounds, want)
	}
	if status.Hover != "right" || !status.Dragging || !status.ResizeEnabled {
		t.Fatalf("unexpected interaction fields: %+v", status)
	}
}

func TestServer_Action(t *testing.T) {
	tests := []struct {
		name       string
		action     string
		resizable  bool
		postErr    error
		wantPosted []shell.Action
		wantErr    string
	}{
		{name: "minimize", action: "minimize", resizable: true, wantPosted: []shell.Action{shell.ActionMinimize}},
		{name: "normalized name", action: "Toggle_Maximize", resizable: true, wantPosted: []shell.Action{shell.ActionToggleMaximize}},
		{name: "close while not resizable", action: "close", wantPosted: []shell.Action{shell.ActionClose}},
		{name: "restore while not resizable", action: "restore", wantPosted: []shell.Action{shell.ActionRestore}},
		{name: "maximize while not resizable", action: "maximize", wantErr: "not resizable"},
		{name: "toggle while not resizable", action: "toggle-maximize", wantErr: "not resizable"},
		{name: "unknown", action: "shade", resizable: true, wantErr: "unknown action"},
		{name: "post failure", action: "minimize", resizable: true, postErr: errors.New("connection lost"), wantErr: "connection lost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win := normalWindow()
			win.snap.ResizeEnabled = tt.resizable
			win.postErr = tt.postErr
			_, client := startServer(t, win, nil)

			data, err := client.Action(tt.action)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Action(%q) err = %v, want containing %q", tt.action, err, tt.wantErr)
				}
				if got := win.actions(); len(got) != 0 {
					t.Fatalf("expected nothing posted, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Action(%q): %v", tt.action, err)
			}
			if !data.Queued || data.Action != tt.wantPosted[0].String() {
				t.Fatalf("unexpected action data: %+v", data)
			}
			got := win.actions()
			if len(got) != len(tt.wantPosted) || got[0] != tt.wantPosted[0] {
				t.Fatalf("posted = %v, want %v", got, tt.wantPosted)
			}
		})
	}
}

func TestServer_GetMonitors(t *testing.T) {
	mons := fakeMonitors{monitors: []MonitorInfo{
		{ID: 0, Name: "DP-1", Width: 1920, Height: 1080},
		{ID: 1, Name: "HDMI-1", X: 1920, Width: 2560, Height: 1440},
	}}
	win := normalWindow()
	win.snap.Bounds = platform.Rect{X: 2000, Y: 100, Width: 800, Height: 500}
	_, client := startServer(t, win, mons)

	data, err := client.GetMonitors()
	if err != nil {
		t.Fatalf("GetMonitors: %v", err)
	}
	if len(data.Monitors) != 2 {
		t.Fatalf("expected 2 monitors, got %d", len(data.Monitors))
	}
	if data.Monitors[0].Current || !data.Monitors[1].Current {
		t.Fatalf("expected HDMI-1 current, got %+v", data.Monitors)
	}
}

func TestServer_GetMonitorsErrors(t *testing.T) {
	t.Run("no source", func(t *testing.T) {
		_, client := startServer(t, normalWindow(), nil)
		if _, err := client.GetMonitors(); err == nil {
			t.Fatalf("expected error without a monitor source")
		}
	})
	t.Run("source failure", func(t *testing.T) {
		_, client := startServer(t, normalWindow(), fakeMonitors{err: errors.New("randr missing")})
		_, err := client.GetMonitors()
		if err == nil || !strings.Contains(err.Error(), "randr missing") {
			t.Fatalf("expected randr error, got %v", err)
		}
	})
}

func TestServer_UnknownCommand(t *testing.T) {
	_, client := startServer(t, normalWindow(), nil)
	_, err := client.sendRequest(&Request{Command: "RELOAD"})
	if err == nil || !strings.Contains(err.Error(), "Unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestServer_StopRemovesSocket(t *testing.T) {
	srv, client := startServer(t, normalWindow(), nil)
	if err := client.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	srv.Stop()
	if err := client.Ping(); err == nil {
		t.Fatalf("expected ping to fail after Stop")
	}
}

func TestMarkCurrent(t *testing.T) {
	mons := []MonitorInfo{
		{Width: 100, Height: 100, Current: true},
		{X: 100, Width: 100, Height: 100},
	}
	markCurrent(mons, 150, 50)
	if mons[0].Current || !mons[1].Current {
		t.Fatalf("unexpected flags: %+v", mons)
	}
	markCurrent(mons, 500, 500)
	if mons[0].Current || mons[1].Current {
		t.Fatalf("expected no current monitor off-screen: %+v", mons)
	}
}
