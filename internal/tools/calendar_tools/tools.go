package calendar_tools

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/averyhq/avery/internal/server"
)

// RegisterCalendarTools registers all Calendar-related tools with the MCP server.
// In read-only mode the event-creation tool is not registered.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Register availability tools
	if err := RegisterAvailabilityTools(s, sc); err != nil {
		return fmt.Errorf("failed to register availability tools: %w", err)
	}

	// Register event tools (write operations)
	if !readOnly {
		if err := RegisterEventTools(s, sc); err != nil {
			return fmt.Errorf("failed to register event tools: %w", err)
		}
	}

	return nil
}
