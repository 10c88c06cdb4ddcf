// Package build compiles one target at a time through an external
// toolchain. Each target owns its own scratch directory; a failed
// compile is terminal for that target and invisible to its siblings.
package build

import (
	"context"

	"github.com/sofmeright/shipway/src/config"
)

// Status is the outcome of one target's compile step.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Compiler produces a raw binary for a single target.
type Compiler interface {
	// Compile builds target and returns the path of the binary it
	// placed under scratchDir. The error is also recorded in the
	// leg's result — it must never escape to sibling legs.
	Compile(ctx context.Context, target config.TargetConfig, scratchDir string) (string, error)
}

// Result captures the outcome of one target's compile step. Timing and
// the compile error live on the leg result that wraps it.
type Result struct {
	Target     config.TargetConfig
	Status     Status
	BinaryPath string // set iff Status == StatusSuccess
}

// Succeeded reports whether this leg produced a binary.
func (r Result) Succeeded() bool {
	return r.Status == StatusSuccess
}
