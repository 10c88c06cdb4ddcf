package cmd

import (
	"github.com/spf13/cobra"
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Release pipeline commands",
	Long:  "Run the release pipeline, inspect the target matrix, and preview release notes.",
}

func init() {
	rootCmd.AddCommand(releaseCmd)
}
