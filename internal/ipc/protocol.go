package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandAction      CommandType = "ACTION"
	CommandGetMonitors CommandType = "GET_MONITORS"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Bounds is a window rectangle in root coordinates.
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	State         string `json:"state"`
	RestoreTarget string `json:"restore_target"`
	Bounds        Bounds `json:"bounds"`
	Hover         string `json:"hover"`
	Dragging      bool   `json:"dragging"`
	ResizeEnabled bool   `json:"resize_enabled"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ActionPayload represents the payload for the ACTION command
type ActionPayload struct {
	Action string `json:"action"`
}

// ActionData is returned by ACTION once the action has been queued.
type ActionData struct {
	Action string `json:"action"`
	Queued bool   `json:"queued"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Current bool   `json:"current"` // holds the window's centre
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
