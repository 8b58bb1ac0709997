package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rhino-be",
	Short: "Backend for the Le Rhino chat application",
	Long: `rhino-be relays chat messages to an n8n automation webhook, reconciles
synchronous and asynchronous workflow replies, and proxies the course
document folder on Google Drive.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
