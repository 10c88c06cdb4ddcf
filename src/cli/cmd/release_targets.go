package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sofmeright/shipway/src/output"
	"github.com/sofmeright/shipway/src/pack"
)

var releaseTargetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Show the build target matrix",
	Long:  "List every configured target with its platform, packaging class, and the artifacts a release would produce.",
	RunE:  runReleaseTargets,
}

func init() {
	releaseCmd.AddCommand(releaseTargetsCmd)
}

func runReleaseTargets(cmd *cobra.Command, args []string) error {
	color := output.UseColor()
	w := os.Stdout

	sec := output.NewSection(w, "Targets", 0, color)
	for i, t := range cfg.ResolvedTargets() {
		if i > 0 {
			sec.Separator()
		}
		class := "unix"
		if t.ZipClass() {
			class = "zip"
		}
		sec.Row("%s", output.Bold(t.ID, color))
		sec.Row("  %-10s%s/%s", "platform", t.OS, t.Arch)
		sec.Row("  %-10s%s", "class", class)
		for _, a := range pack.Plan(cfg.Product, "VERSION", t) {
			if a.FileName == "" {
				continue
			}
			sec.Row("  %-10s%s", string(a.Kind), a.FileName)
		}
	}
	sec.Close()
	return nil
}
