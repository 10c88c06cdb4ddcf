package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sofmeright/shipway/src/gitver"
	"github.com/sofmeright/shipway/src/release"
)

var rnTag string

var releaseNotesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Preview generated release notes",
	Long:  "Generate the conventional-commit release notes for a tag and print them to stdout without creating a release.",
	RunE:  runReleaseNotes,
}

func init() {
	releaseNotesCmd.Flags().StringVar(&rnTag, "tag", "", "release tag (default: detected from git)")

	releaseCmd.AddCommand(releaseNotesCmd)
}

func runReleaseNotes(cmd *cobra.Command, args []string) error {
	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	tag := rnTag
	if tag == "" {
		versionInfo, err := gitver.Detect(rootDir)
		if err != nil {
			return fmt.Errorf("resolving version: %w", err)
		}
		tag = versionInfo.Tag
	}

	notes, err := release.GenerateNotes(rootDir, tag)
	if err != nil {
		return fmt.Errorf("generating notes: %w", err)
	}

	fmt.Println(notes)
	return nil
}
