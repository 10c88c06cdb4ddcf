package pack

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// stripSymbols removes debug symbols from the binary in place via the
// external strip tool. Best effort: callers treat a returned error as
// a warning, never as a packaging failure.
func stripSymbols(ctx context.Context, binaryPath string, verbose bool, stderr io.Writer) error {
	args := []string{"strip", binaryPath}
	if verbose {
		fmt.Fprintf(stderr, "exec: %s\n", strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("strip %s: %w", binaryPath, err)
	}
	return nil
}
