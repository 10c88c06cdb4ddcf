package pack

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sofmeright/shipway/src/config"
)

// buildDeb runs the external OS-native packaging tool for one target.
// The tool writes the package to out; the file name carries the
// release version and the target's fixed architecture label.
func (p *Packager) buildDeb(ctx context.Context, target config.TargetConfig, out string) error {
	if len(p.DebCommand) == 0 {
		return fmt.Errorf("deb packaging requested for %s but no deb_command configured", target.ID)
	}

	args := make([]string, 0, len(p.DebCommand))
	r := strings.NewReplacer(
		"{target}", target.ID,
		"{os}", target.OS,
		"{arch}", target.Arch,
		"{version}", p.Version,
		"{out}", out,
	)
	for _, a := range p.DebCommand {
		args = append(args, r.Replace(a))
	}

	if p.Verbose {
		fmt.Fprintf(p.Stderr, "exec: %s\n", strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = p.RootDir
	cmd.Stderr = p.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("building %s: %w", out, err)
	}
	return nil
}
