package calendar_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/averyhq/avery/internal/calendar"
	"github.com/averyhq/avery/internal/instrumentation"
	"github.com/averyhq/avery/internal/server"
	"github.com/averyhq/avery/internal/timezone"
	"github.com/averyhq/avery/internal/tools/common"
)

// createEventResult is the wire shape returned by calendar_create_event.
type createEventResult struct {
	Success  bool            `json:"success"`
	Error    string          `json:"error,omitempty"`
	Event    *calendar.Event `json:"event,omitempty"`
	Calendar string          `json:"calendar_id,omitempty"`
	Message  string          `json:"message,omitempty"`
}

// RegisterEventTools registers event-related tools with the MCP server
func RegisterEventTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	createEventTool := mcp.NewTool("calendar_create_event",
		mcp.WithDescription("Create a new event on a person's primary calendar"),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("Email address of the organizer (must be a connected account)"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Event title/summary"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start time (RFC3339 or naive 'YYYY-MM-DDTHH:MM:SS' interpreted in timeZone)"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("End time (same formats as start)"),
		),
		mcp.WithString("timeZone",
			mcp.Description("Time zone for naive timestamps (e.g., 'America/New_York'). Defaults to the organizer's profile timezone."),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithString("location",
			mcp.Description("Event location"),
		),
		mcp.WithString("attendees",
			mcp.Description("Comma-separated list of attendee email addresses"),
		),
	)

	s.AddTool(createEventTool, common.InstrumentedToolHandlerWithService(
		"calendar_create_event", instrumentation.ServiceCalendar, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateEvent(ctx, request, sc)
		}))

	return nil
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	email, errResult := common.RequireEmail(args)
	if errResult != nil {
		return errResult, nil
	}

	summary, ok := args["summary"].(string)
	if !ok || summary == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}
	startStr, ok := args["start"].(string)
	if !ok || startStr == "" {
		return mcp.NewToolResultError("start is required"), nil
	}
	endStr, ok := args["end"].(string)
	if !ok || endStr == "" {
		return mcp.NewToolResultError("end is required"), nil
	}

	failure := func(format string, a ...interface{}) *mcp.CallToolResult {
		return common.JSONResult(createEventResult{
			Success: false,
			Error:   fmt.Sprintf(format, a...),
		})
	}

	userID, err := sc.Resolver().Resolve(email)
	if err != nil {
		return failure("calendar not connected for %s", email), nil
	}

	// Naive timestamps are interpreted in the explicit timeZone argument,
	// falling back to the organizer's profile timezone.
	zoneName, _ := args["timeZone"].(string)
	if zoneName == "" {
		zoneName = sc.Store().Profile(userID).Timezone
	}
	loc, err := timezone.LoadZone(zoneName)
	if err != nil {
		return failure("invalid timezone %q", zoneName), nil
	}

	start, err := timezone.Parse(startStr, loc)
	if err != nil {
		return failure("invalid start time %q", startStr), nil
	}
	end, err := timezone.Parse(endStr, loc)
	if err != nil {
		return failure("invalid end time %q", endStr), nil
	}
	if !start.Before(end) {
		return failure("start time must be before end time"), nil
	}

	input := calendar.EventInput{
		Summary:  summary,
		Start:    start,
		End:      end,
		TimeZone: zoneName,
	}
	if v, ok := args["description"].(string); ok {
		input.Description = v
	}
	if v, ok := args["location"].(string); ok {
		input.Location = v
	}
	if v, ok := args["attendees"].(string); ok && v != "" {
		for _, attendee := range strings.Split(v, ",") {
			if attendee = strings.TrimSpace(attendee); attendee != "" {
				input.Attendees = append(input.Attendees, attendee)
			}
		}
	}

	transport, err := sc.CalendarTransport(ctx, email)
	if err != nil {
		return failure("calendar access unavailable for %s: %v", email, err), nil
	}

	event, err := transport.CreateEvent(ctx, email, input)
	if err != nil {
		return failure("failed to create event: %v", err), nil
	}

	return common.JSONResult(createEventResult{
		Success:  true,
		Event:    event,
		Calendar: email,
		Message:  fmt.Sprintf("created %q on %s", summary, email),
	}), nil
}
