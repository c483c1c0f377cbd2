package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "plans-service",
	Short:        "Billing plans service",
	Long:         "Manage payment provider plans over HTTP, gRPC and the command line, and keep a local MySQL mirror of them.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
