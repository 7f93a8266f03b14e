// Package gmail_tools provides MCP tools for drafting and sending email
// from connected accounts. The sending account must resolve to a known
// user; domain failures come back as structured JSON results with a
// success flag.
package gmail_tools
