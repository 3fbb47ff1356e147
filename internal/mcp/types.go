package mcp

import "github.com/1broseidon/chromeless/internal/ipc"

// WindowStatusInput is the input for the window_status tool.
type WindowStatusInput struct{}

// WindowStatusOutput is the output for the window_status tool.
type WindowStatusOutput struct {
	State         string     `json:"state"`
	RestoreTarget string     `json:"restore_target"`
	Bounds        ipc.Bounds `json:"bounds"`
	Hover         string     `json:"hover"`
	Dragging      bool       `json:"dragging"`
	ResizeEnabled bool       `json:"resize_enabled"`
	UptimeSeconds int64      `json:"uptime_seconds"`
}

// WindowActionInput is the input for the window_action tool.
type WindowActionInput struct {
	Action string `json:"action" jsonschema:"required,One of: close, maximize, minimize, restore, toggle-maximize"`
}

// WindowActionOutput is the output for the window_action tool.
type WindowActionOutput struct {
	Action string `json:"action"`
	Queued bool   `json:"queued"`
}

// ListMonitorsInput is the input for the list_monitors tool.
type ListMonitorsInput struct{}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []ipc.MonitorInfo `json:"monitors"`
}
