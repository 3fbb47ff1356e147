package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/chromeless/internal/ipc"
	"github.com/1broseidon/chromeless/internal/shell"
)

func (s *Server) handleWindowStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ WindowStatusInput) (*mcpsdk.CallToolResult, WindowStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, WindowStatusOutput{}, err
	}
	return nil, WindowStatusOutput{
		State:         status.State,
		RestoreTarget: status.RestoreTarget,
		Bounds:        status.Bounds,
		Hover:         status.Hover,
		Dragging:      status.Dragging,
		ResizeEnabled: status.ResizeEnabled,
		UptimeSeconds: status.UptimeSeconds,
	}, nil
}

func (s *Server) handleWindowAction(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowActionInput) (*mcpsdk.CallToolResult, WindowActionOutput, error) {
	if strings.TrimSpace(args.Action) == "" {
		return nil, WindowActionOutput{}, fmt.Errorf("action is required (valid: %s)", strings.Join(shell.ActionNames(), ", "))
	}
	// Reject unknown names before touching the socket.
	action, err := shell.ParseAction(args.Action)
	if err != nil {
		return nil, WindowActionOutput{}, err
	}

	data, err := s.client.Action(action.String())
	if err != nil {
		return nil, WindowActionOutput{}, err
	}
	return nil, WindowActionOutput{Action: data.Action, Queued: data.Queued}, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListMonitorsInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	data, err := s.client.GetMonitors()
	if err != nil {
		return nil, ListMonitorsOutput{}, err
	}
	monitors := data.Monitors
	if monitors == nil {
		monitors = []ipc.MonitorInfo{}
	}
	return nil, ListMonitorsOutput{Monitors: monitors}, nil
}
