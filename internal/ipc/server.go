package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/chromeless/internal/runtimepath"
	"github.com/1broseidon/chromeless/internal/shell"
)

// Window is the window served over IPC. Snapshot and PostAction must be safe
// to call from any goroutine; PostAction queues the action for the UI thread.
type Window interface {
	Snapshot() shell.Snapshot
	PostAction(shell.Action) error
}

// MonitorSource lists the displays the window can live on.
type MonitorSource interface {
	Monitors() ([]MonitorInfo, error)
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	window       Window
	monitors     MonitorSource
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(window Window, monitors MonitorSource) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		window:     window,
		monitors:   monitors,
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	// Accept connections
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandAction:
		return s.handleAction(req.Payload)
	case CommandGetMonitors:
		return s.handleGetMonitors()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleGetStatus returns the window's current interaction state
func (s *Server) handleGetStatus() *Response {
	resp, _ := NewOKResponse(s.status())
	return resp
}

func (s *Server) status() StatusData {
	snap := s.window.Snapshot()
	return StatusData{
		State:         snap.State.String(),
		RestoreTarget: snap.RestoreTarget.String(),
		Bounds: Bounds{
			X:      snap.Bounds.X,
			Y:      snap.Bounds.Y,
			Width:  snap.Bounds.Width,
			Height: snap.Bounds.Height,
		},
		Hover:         snap.Hover.String(),
		Dragging:      snap.Dragging,
		ResizeEnabled: snap.ResizeEnabled,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	}
}

// handleAction queues a window action on the UI thread
func (s *Server) handleAction(payload json.RawMessage) *Response {
	var req ActionPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid action payload: %v", err))
	}
	action, err := shell.ParseAction(req.Action)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	switch action {
	case shell.ActionMaximize, shell.ActionToggleMaximize:
		if !s.window.Snapshot().ResizeEnabled {
			return NewErrorResponse(fmt.Sprintf("Cannot %s: %v", action, shell.ErrResizeDisabled))
		}
	}

	log.Printf("IPC: Received ACTION %s", action)

	if err := s.window.PostAction(action); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to queue %s: %v", action, err))
	}

	resp, _ := NewOKResponse(ActionData{Action: action.String(), Queued: true})
	return resp
}

// handleGetMonitors returns information about all monitors
func (s *Server) handleGetMonitors() *Response {
	if s.monitors == nil {
		return NewErrorResponse("Monitor information unavailable")
	}
	monitors, err := s.monitors.Monitors()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get monitors: %v", err))
	}

	bounds := s.window.Snapshot().Bounds
	markCurrent(monitors, bounds.X+bounds.Width/2, bounds.Y+bounds.Height/2)

	resp, _ := NewOKResponse(MonitorsData{Monitors: monitors})
	return resp
}

// markCurrent flags the first monitor containing (x, y).
func markCurrent(monitors []MonitorInfo, x, y int) {
	for i := range monitors {
		monitors[i].Current = false
	}
	for i := range monitors {
		m := &monitors[i]
		if x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height {
			m.Current = true
			return
		}
	}
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
