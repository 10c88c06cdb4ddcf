// Package registry publishes a released version to a secondary package
// registry (e.g. npm). The publish mechanism is an opaque external
// command — shipway triggers it and reports the outcome, nothing more.
package registry

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sofmeright/shipway/src/config"
)

// Publisher pushes one released version to a package registry.
type Publisher interface {
	// Name identifies the publisher in reports.
	Name() string

	// Publish pushes the version. Failure is reported, never retried,
	// and never un-publishes the release.
	Publish(ctx context.Context, version string) error
}

// CommandPublisher runs a configured publish command (e.g. npm publish).
type CommandPublisher struct {
	Command []string
	Dir     string
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewCommand creates a publisher from fanout config.
func NewCommand(cfg config.RegistryFanout, verbose bool) *CommandPublisher {
	return &CommandPublisher{
		Command: cfg.Command,
		Dir:     cfg.Dir,
		Verbose: verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

func (p *CommandPublisher) Name() string { return "registry" }

// Publish resolves {version} in the command template and runs it.
func (p *CommandPublisher) Publish(ctx context.Context, version string) error {
	if len(p.Command) == 0 {
		return fmt.Errorf("registry publish command not configured")
	}

	args := make([]string, 0, len(p.Command))
	for _, a := range p.Command {
		args = append(args, strings.ReplaceAll(a, "{version}", version))
	}

	if p.Verbose {
		fmt.Fprintf(p.Stderr, "exec: %s\n", strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = p.Dir
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("registry publish for %s failed: %w", version, err)
	}
	return nil
}
