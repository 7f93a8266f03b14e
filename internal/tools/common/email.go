package common

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// GetEmailFromArgs extracts the target account email from request
// arguments. Returns the empty string when the argument is missing; tools
// that require it should use RequireEmail instead.
func GetEmailFromArgs(args map[string]interface{}) string {
	if emailVal, ok := args["email"].(string); ok {
		return strings.TrimSpace(emailVal)
	}
	return ""
}

// RequireEmail extracts the "email" argument or returns a tool error
// result describing the omission.
func RequireEmail(args map[string]interface{}) (string, *mcp.CallToolResult) {
	email := GetEmailFromArgs(args)
	if email == "" {
		return "", mcp.NewToolResultError("email is required")
	}
	return email, nil
}

// JSONResult marshals v and returns it as a text tool result. Structured
// results carry their own success flag, so even domain failures come back
// as a non-error tool result the agent can inspect.
func JSONResult(v interface{}) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to encode result: " + err.Error())
	}
	return mcp.NewToolResultText(string(data))
}
