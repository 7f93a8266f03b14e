package profile_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/averyhq/avery/internal/profile"
	"github.com/averyhq/avery/internal/server"
	"github.com/averyhq/avery/internal/tools/common"
)

// profileResult is the wire shape for profile reads and writes.
type profileResult struct {
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`
	Profile *profile.Profile `json:"profile,omitempty"`
	Message string           `json:"message,omitempty"`
}

// workingHoursResult is the wire shape for working-hours reads and writes.
type workingHoursResult struct {
	Success      bool                        `json:"success"`
	Error        string                      `json:"error,omitempty"`
	UserID       string                      `json:"user_id,omitempty"`
	Timezone     string                      `json:"timezone,omitempty"`
	WorkingHours map[string]profile.DayHours `json:"working_hours,omitempty"`
	Message      string                      `json:"message,omitempty"`
}

// availabilityResult wraps a working-window lookup for one date.
type availabilityResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	UserID  string `json:"user_id,omitempty"`
	Date    string `json:"date,omitempty"`
	profile.DayAvailability
}

// connectedUser summarizes one connected user for identity_list_connected.
type connectedUser struct {
	UserID            string   `json:"user_id"`
	DisplayName       string   `json:"display_name,omitempty"`
	Timezone          string   `json:"timezone"`
	PrimaryEmail      string   `json:"primary_email,omitempty"`
	OwnedEmails       []string `json:"owned_emails"`
	SelectedCalendars []string `json:"selected_calendars"`
}

type connectedResult struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Users   []connectedUser `json:"users"`
}

// RegisterProfileTools registers profile and identity tools with the MCP server
func RegisterProfileTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	getTool := mcp.NewTool("profile_get",
		mcp.WithDescription("Get a user's scheduling profile (name, timezone, working hours). Missing records merge over defaults, so this always returns a complete profile"),
		mcp.WithString("userId",
			mcp.Required(),
			mcp.Description("Internal user ID"),
		),
	)
	s.AddTool(getTool, common.InstrumentedToolHandler("profile_get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleProfileGet(ctx, request, sc)
		}))

	setTimezoneTool := mcp.NewTool("profile_set_timezone",
		mcp.WithDescription("Set a user's IANA timezone (e.g. America/New_York)"),
		mcp.WithString("userId",
			mcp.Required(),
			mcp.Description("Internal user ID"),
		),
		mcp.WithString("timezone",
			mcp.Required(),
			mcp.Description("IANA timezone name"),
		),
	)
	s.AddTool(setTimezoneTool, common.InstrumentedToolHandler("profile_set_timezone", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSetTimezone(ctx, request, sc)
		}))

	getHoursTool := mcp.NewTool("profile_get_working_hours",
		mcp.WithDescription("Get a user's weekly working hours, one entry per weekday"),
		mcp.WithString("userId",
			mcp.Required(),
			mcp.Description("Internal user ID"),
		),
	)
	s.AddTool(getHoursTool, common.InstrumentedToolHandler("profile_get_working_hours", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetWorkingHours(ctx, request, sc)
		}))

	setHoursTool := mcp.NewTool("profile_set_working_hours",
		mcp.WithDescription("Update a user's working hours. Accepts a JSON object keyed by lowercase weekday, e.g. {\"monday\": {\"enabled\": true, \"start\": \"09:00\", \"end\": \"17:00\"}}. Days not mentioned keep their current values"),
		mcp.WithString("userId",
			mcp.Required(),
			mcp.Description("Internal user ID"),
		),
		mcp.WithString("workingHours",
			mcp.Required(),
			mcp.Description("JSON object of weekday to {enabled, start, end}"),
		),
	)
	s.AddTool(setHoursTool, common.InstrumentedToolHandler("profile_set_working_hours", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSetWorkingHours(ctx, request, sc)
		}))

	availabilityTool := mcp.NewTool("profile_availability_for_date",
		mcp.WithDescription("Resolve a user's working window for a calendar date, localized in the user's timezone"),
		mcp.WithString("userId",
			mcp.Required(),
			mcp.Description("Internal user ID"),
		),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Calendar date in YYYY-MM-DD format"),
		),
	)
	s.AddTool(availabilityTool, common.InstrumentedToolHandler("profile_availability_for_date", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAvailabilityForDate(ctx, request, sc)
		}))

	listConnectedTool := mcp.NewTool("identity_list_connected",
		mcp.WithDescription("List all connected users with their owned account emails and calendar selections"),
	)
	s.AddTool(listConnectedTool, common.InstrumentedToolHandler("identity_list_connected", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListConnected(ctx, request, sc)
		}))

	return nil
}

// requireUserID extracts the userId argument. Returns a protocol-level error
// result when it is missing or blank.
func requireUserID(args map[string]interface{}) (string, *mcp.CallToolResult) {
	userID, ok := args["userId"].(string)
	if !ok || strings.TrimSpace(userID) == "" {
		return "", mcp.NewToolResultError("userId is required")
	}
	return strings.TrimSpace(userID), nil
}

func handleProfileGet(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	userID, errResult := requireUserID(request.GetArguments())
	if errResult != nil {
		return errResult, nil
	}

	p := sc.Store().Profile(userID)
	return common.JSONResult(profileResult{Success: true, Profile: &p}), nil
}

func handleSetTimezone(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	userID, errResult := requireUserID(args)
	if errResult != nil {
		return errResult, nil
	}
	zone, ok := args["timezone"].(string)
	if !ok || zone == "" {
		return mcp.NewToolResultError("timezone is required"), nil
	}

	if err := sc.Store().SetTimezone(userID, zone); err != nil {
		return common.JSONResult(profileResult{Success: false, Error: err.Error()}), nil
	}

	p := sc.Store().Profile(userID)
	return common.JSONResult(profileResult{
		Success: true,
		Profile: &p,
		Message: fmt.Sprintf("timezone set to %s", zone),
	}), nil
}

func handleGetWorkingHours(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	userID, errResult := requireUserID(request.GetArguments())
	if errResult != nil {
		return errResult, nil
	}

	p := sc.Store().Profile(userID)
	return common.JSONResult(workingHoursResult{
		Success:      true,
		UserID:       p.UserID,
		Timezone:     p.Timezone,
		WorkingHours: p.WorkingHours,
	}), nil
}

func handleSetWorkingHours(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	userID, errResult := requireUserID(args)
	if errResult != nil {
		return errResult, nil
	}
	hoursJSON, ok := args["workingHours"].(string)
	if !ok || hoursJSON == "" {
		return mcp.NewToolResultError("workingHours is required"), nil
	}

	var hours map[string]profile.DayHours
	if err := json.Unmarshal([]byte(hoursJSON), &hours); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("workingHours is not valid JSON: %v", err)), nil
	}

	if err := sc.Store().SetWorkingHours(userID, hours); err != nil {
		return common.JSONResult(workingHoursResult{Success: false, Error: err.Error()}), nil
	}

	p := sc.Store().Profile(userID)
	return common.JSONResult(workingHoursResult{
		Success:      true,
		UserID:       p.UserID,
		Timezone:     p.Timezone,
		WorkingHours: p.WorkingHours,
		Message:      fmt.Sprintf("working hours updated for %d day(s)", len(hours)),
	}), nil
}

func handleAvailabilityForDate(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	userID, errResult := requireUserID(args)
	if errResult != nil {
		return errResult, nil
	}
	date, ok := args["date"].(string)
	if !ok || date == "" {
		return mcp.NewToolResultError("date is required"), nil
	}

	day, err := sc.Store().AvailabilityForDate(userID, date)
	if err != nil {
		return common.JSONResult(availabilityResult{Success: false, Error: err.Error()}), nil
	}

	return common.JSONResult(availabilityResult{
		Success:         true,
		UserID:          userID,
		Date:            date,
		DayAvailability: day,
	}), nil
}

func handleListConnected(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	userIDs, err := sc.Store().ListUsers()
	if err != nil {
		return common.JSONResult(connectedResult{Success: false,
			Error: fmt.Sprintf("failed to list users: %v", err), Users: []connectedUser{}}), nil
	}

	users := make([]connectedUser, 0, len(userIDs))
	for _, userID := range userIDs {
		p := sc.Store().Profile(userID)
		m := sc.Store().EmailMapping(userID)
		users = append(users, connectedUser{
			UserID:            userID,
			DisplayName:       p.Display(),
			Timezone:          p.Timezone,
			PrimaryEmail:      m.PrimaryEmail,
			OwnedEmails:       m.OwnedEmails,
			SelectedCalendars: sc.Store().SelectedCalendars(userID),
		})
	}

	return common.JSONResult(connectedResult{Success: true, Users: users}), nil
}
