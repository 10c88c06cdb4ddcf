package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sofmeright/shipway/src/config"
)

// Toolchain runs the configured external build command once per target.
type Toolchain struct {
	Product string
	Config  config.ToolchainConfig
	RootDir string
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewToolchain creates a toolchain runner with default output writers.
func NewToolchain(product string, cfg config.ToolchainConfig, rootDir string, verbose bool) *Toolchain {
	return &Toolchain{
		Product: product,
		Config:  cfg,
		RootDir: rootDir,
		Verbose: verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Compile builds one target and copies the produced binary into
// scratchDir. The scratch location is exclusively owned by this leg.
func (tc *Toolchain) Compile(ctx context.Context, target config.TargetConfig, scratchDir string) (string, error) {
	args := tc.commandArgs(target)
	if len(args) == 0 {
		return "", fmt.Errorf("toolchain command not configured")
	}

	if tc.Verbose {
		fmt.Fprintf(tc.Stderr, "exec: %s\n", strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = tc.RootDir
	cmd.Stdout = tc.Stdout
	cmd.Stderr = tc.Stderr
	cmd.Env = tc.commandEnv(target)

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("toolchain build for %s failed: %w", target.ID, err)
	}

	produced := filepath.Join(tc.RootDir, tc.resolve(tc.Config.Output, target))
	dest := filepath.Join(scratchDir, target.BinaryName(tc.Product))
	if err := copyFile(produced, dest); err != nil {
		return "", fmt.Errorf("collecting binary for %s: %w", target.ID, err)
	}

	return dest, nil
}

// commandArgs resolves the command template for a target, appending
// the target's extra flags.
func (tc *Toolchain) commandArgs(target config.TargetConfig) []string {
	args := make([]string, 0, len(tc.Config.Command)+len(target.Flags))
	for _, a := range tc.Config.Command {
		args = append(args, tc.resolve(a, target))
	}
	for _, f := range target.Flags {
		args = append(args, tc.resolve(f, target))
	}
	return args
}

// commandEnv merges the process environment with the target's extra env.
func (tc *Toolchain) commandEnv(target config.TargetConfig) []string {
	env := os.Environ()
	for k, v := range target.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, tc.resolve(v, target)))
	}
	return env
}

// resolve substitutes template placeholders for a target.
func (tc *Toolchain) resolve(s string, target config.TargetConfig) string {
	r := strings.NewReplacer(
		"{target}", target.ID,
		"{os}", target.OS,
		"{arch}", target.Arch,
		"{product}", tc.Product,
		"{bin}", target.BinaryName(tc.Product),
	)
	return r.Replace(s)
}

// copyFile copies src to dst, creating parent directories and
// preserving the executable bit.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
