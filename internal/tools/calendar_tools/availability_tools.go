package calendar_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/averyhq/avery/internal/availability"
	"github.com/averyhq/avery/internal/instrumentation"
	"github.com/averyhq/avery/internal/server"
	"github.com/averyhq/avery/internal/tools/common"
)

// RegisterAvailabilityTools registers availability tools with the MCP server
func RegisterAvailabilityTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Check availability tool
	checkAvailabilityTool := mcp.NewTool("calendar_check_availability",
		mcp.WithDescription("Check a person's availability for a given date, honoring their working hours and all their connected calendars"),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("Email address of the person to check (must be a connected account)"),
		),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Date to check in YYYY-MM-DD format"),
		),
		mcp.WithNumber("durationMinutes",
			mcp.Description("Desired meeting duration in minutes (default: 30)"),
		),
		mcp.WithNumber("maxSuggestions",
			mcp.Description("Maximum number of free slots to return (default: 5)"),
		),
		mcp.WithString("displayTimezone",
			mcp.Description("IANA timezone for rendering times (e.g., 'America/New_York'). Defaults to the configured display timezone, then UTC."),
		),
	)

	s.AddTool(checkAvailabilityTool, common.InstrumentedToolHandlerWithService(
		"calendar_check_availability", instrumentation.ServiceCalendar, instrumentation.OperationCheck, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCheckAvailability(ctx, request, sc)
		}))

	// List events tool
	listEventsTool := mcp.NewTool("calendar_list_events",
		mcp.WithDescription("List upcoming events across all of a person's connected calendars"),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("Email address of the person (must be a connected account)"),
		),
		mcp.WithString("startTime",
			mcp.Description("Start of the range (RFC3339 or naive 'YYYY-MM-DDTHH:MM:SS', default: now)"),
		),
		mcp.WithString("endTime",
			mcp.Description("End of the range (default: 7 days after startTime)"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of events to return (default: 50)"),
		),
		mcp.WithString("displayTimezone",
			mcp.Description("IANA timezone for rendering event times"),
		),
	)

	s.AddTool(listEventsTool, common.InstrumentedToolHandlerWithService(
		"calendar_list_events", instrumentation.ServiceCalendar, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListEvents(ctx, request, sc)
		}))

	// Get event tool
	getEventTool := mcp.NewTool("calendar_get_event",
		mcp.WithDescription("Fetch a single event by ID from a person's connected calendars"),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("Email address of the person (must be a connected account)"),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("ID of the event to fetch"),
		),
		mcp.WithString("calendarId",
			mcp.Description("Calendar to fetch from (default: search the person's own calendars)"),
		),
		mcp.WithString("displayTimezone",
			mcp.Description("IANA timezone for rendering event times"),
		),
	)

	s.AddTool(getEventTool, common.InstrumentedToolHandlerWithService(
		"calendar_get_event", instrumentation.ServiceCalendar, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetEvent(ctx, request, sc)
		}))

	return nil
}

func handleCheckAvailability(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	email, errResult := common.RequireEmail(args)
	if errResult != nil {
		return errResult, nil
	}

	date, ok := args["date"].(string)
	if !ok || date == "" {
		return mcp.NewToolResultError("date is required (YYYY-MM-DD)"), nil
	}

	req := availability.CheckRequest{
		Email: email,
		Date:  date,
	}
	if v, ok := args["durationMinutes"].(float64); ok && v > 0 {
		req.DurationMinutes = int(v)
	}
	if v, ok := args["maxSuggestions"].(float64); ok && v > 0 {
		req.MaxSuggestions = int(v)
	}
	if v, ok := args["displayTimezone"].(string); ok {
		req.DisplayTimezone = v
	}

	result := sc.Engine().CheckAvailability(ctx, req)

	if metrics := sc.Metrics(); metrics != nil {
		status := instrumentation.StatusSuccess
		if !result.Success {
			status = instrumentation.StatusError
		}
		metrics.RecordAvailabilityCheck(ctx, status, result.WorkingDay,
			len(result.FreeSlots), result.CalendarsChecked)
		if result.Warning != "" {
			metrics.RecordAvailabilityDegradation(ctx)
		}
	}

	return common.JSONResult(result), nil
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	email, errResult := common.RequireEmail(args)
	if errResult != nil {
		return errResult, nil
	}

	req := availability.ListRequest{Email: email}
	if v, ok := args["startTime"].(string); ok {
		req.StartTime = v
	}
	if v, ok := args["endTime"].(string); ok {
		req.EndTime = v
	}
	if v, ok := args["maxResults"].(float64); ok && v > 0 {
		req.MaxResults = int(v)
	}
	if v, ok := args["displayTimezone"].(string); ok {
		req.DisplayTimezone = v
	}

	result := sc.Engine().ListEvents(ctx, req)
	return common.JSONResult(result), nil
}

func handleGetEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	email, errResult := common.RequireEmail(args)
	if errResult != nil {
		return errResult, nil
	}

	eventID, ok := args["eventId"].(string)
	if !ok || eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}

	req := availability.GetRequest{Email: email, EventID: eventID}
	if v, ok := args["calendarId"].(string); ok {
		req.CalendarID = v
	}
	if v, ok := args["displayTimezone"].(string); ok {
		req.DisplayTimezone = v
	}

	result := sc.Engine().GetEvent(ctx, req)
	return common.JSONResult(result), nil
}
