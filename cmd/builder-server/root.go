package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "builder-server",
	Short: "Digital product builder wizard and chat gateway",
	Long: `builder-server hosts the step-by-step product wizard and the /api/chat
completion gateway. Replies come from OpenAI, or from canned mock replies when
MOCK_MODE is set or APP_ENV=development.

Available commands:
  serve  - Run the HTTP server
  steps  - Print the wizard steps and their fields
  ask    - Run one wizard step from the terminal`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(stepsCmd)
	rootCmd.AddCommand(askCmd)
}
