// Package profile_tools provides MCP tools for user scheduling profiles
// (timezone, working hours) and connected-identity lookups. Reads merge
// persisted records over defaults, so a profile read never fails on a
// missing record.
package profile_tools
