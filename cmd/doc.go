// Package cmd implements the command-line interface for avery.
//
// This package provides the following commands:
//   - serve: Start the MCP server to provide tools for AI assistants
//   - connect: Authorize a Google account and register it with a user
//   - disconnect: Remove a connected Google account
//   - profile: Inspect and update user profiles
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The serve command is the default command when no subcommand is specified.
package cmd
