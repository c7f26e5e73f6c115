package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "newsletter",
	Short: "Mailing-list microservice",
	Long:  `A mailing-list microservice providing double opt-in subscriptions, newsletter delivery to confirmed subscribers, and an authenticated admin area.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
