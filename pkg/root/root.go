package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "teneo-mailer",
	Short: "Teneo mail adapter CLI",
	Long:  `Sends transactional email through the Teneo API and processes queued mail jobs.`,
}

// Execute runs the root command and exits on error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// GetRoot returns the root command for registering subcommands
func GetRoot() *cobra.Command {
	return rootCmd
}

// SetInfo overrides the root command's name and descriptions
func SetInfo(use, short, long string) {
	rootCmd.Use = use
	rootCmd.Short = short
	rootCmd.Long = long
}
