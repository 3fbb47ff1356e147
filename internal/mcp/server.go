package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/chromeless/internal/ipc"
)

const (
	ServerName    = "chromeless"
	ServerVersion = "0.1.0"
)

// WindowClient is the subset of the IPC client the tools use.
type WindowClient interface {
	GetStatus() (*ipc.StatusData, error)
	Action(name string) (*ipc.ActionData, error)
	GetMonitors() (*ipc.MonitorsData, error)
}

// Server is the MCP server exposing a running window to agents.
type Server struct {
	mcpServer *mcpsdk.Server
	client    WindowClient
}

// NewServer creates an MCP server that talks to the window over IPC.
func NewServer(client WindowClient) *Server {
	s := &Server{client: client}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "window_status",
		Description: "Report the frameless window's state (normal, maximized, minimized), the state it restores to, its bounds in screen coordinates, the border region under the pointer, whether a drag is in progress and whether resizing is enabled.",
	}, s.handleWindowStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "window_action",
		Description: "Ask the frameless window to minimize, maximize, restore, toggle-maximize or close. The action is queued on the window's event loop; poll window_status to observe the result. Maximize actions fail when resizing is disabled.",
	}, s.handleWindowAction)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List the connected monitors with their geometry. The monitor holding the window's centre is marked current.",
	}, s.handleListMonitors)
}
