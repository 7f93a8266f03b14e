package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the avery application
var rootCmd = &cobra.Command{
	Use:   "avery",
	Short: "Timezone-aware calendar availability engine for AI assistants",
	Long: `avery computes availability across a user's connected Google calendars,
aware of per-user timezones and working hours, and exposes the results
as MCP (Model Context Protocol) tools for AI assistants.

It can run as:
  - An MCP server over stdio or streamable HTTP (default)
  - A CLI for connecting accounts and managing user profiles`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "avery version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConnectCmd())
	rootCmd.AddCommand(newDisconnectCmd())
	rootCmd.AddCommand(newAccountsCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
