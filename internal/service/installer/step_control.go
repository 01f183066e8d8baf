package installer

import (
	"github.com/sandevgo/deskpilot/internal/providers/control"
)

// NewControlEndpointStep asks for the MCP control server. Leaving it empty
// keeps the local echo backend.
func NewControlEndpointStep() Step {
	return &inputStep{
		prompt: "Enter the PC control endpoint (MCP server URL):",
		hint:   "Leave empty to only log commands locally.",
		input:  newInput("http://127.0.0.1:8080/mcp"),
		apply:  applyControlEndpoint,
	}
}

func applyControlEndpoint(value string, state *InstallState) error {
	if value != "" {
		if _, err := control.NewMCP(value); err != nil {
			return err
		}
	}
	state.Settings.ControlEndpoint = value
	return nil
}
