package release

import (
	"io"
	"time"

	"github.com/sofmeright/shipway/src/config"
	"github.com/sofmeright/shipway/src/output"
	"github.com/sofmeright/shipway/src/pack"
)

// Outcome is the aggregated run status for external reporting.
type Outcome string

const (
	OutcomeAllSuccess     Outcome = "all-success"
	OutcomePartialFailure Outcome = "partial-failure"
	OutcomeAllFailure     Outcome = "all-failure"
)

// LegResult is the outcome of one target's build→package→attach leg.
type LegResult struct {
	Target   config.TargetConfig
	Stage    string // stage that failed: build, package, attach; "done" on success
	Artifact *pack.Artifact
	Duration time.Duration
	Err      error
}

// OK reports whether the leg completed through attach.
func (l LegResult) OK() bool { return l.Err == nil }

// BranchResult is the outcome of one distribution fanout branch.
type BranchResult struct {
	Name     string // registry, notify, badge
	Skipped  bool   // gated off by when-conditions or config
	Duration time.Duration
	Err      error
}

// OK reports whether the branch ran and succeeded.
func (b BranchResult) OK() bool { return !b.Skipped && b.Err == nil }

// RunReport aggregates everything a human needs to decide on manual
// intervention: which targets succeeded or failed, whether the release
// went public, and how each fanout branch fared.
type RunReport struct {
	RunID      string
	Version    string
	ReleaseURL string
	Published  bool
	Legs       []LegResult
	Branches   []BranchResult
	Findings   []ScanFinding
	Warnings   []string
	Elapsed    time.Duration
}

// Outcome reduces the per-leg results to the aggregated run status.
func (r *RunReport) Outcome() Outcome {
	succeeded, failed := 0, 0
	for _, l := range r.Legs {
		if l.OK() {
			succeeded++
		} else {
			failed++
		}
	}
	for _, b := range r.Branches {
		if b.Skipped {
			continue
		}
		if b.OK() {
			succeeded++
		} else {
			failed++
		}
	}

	switch {
	case failed == 0:
		return OutcomeAllSuccess
	case succeeded == 0:
		return OutcomeAllFailure
	default:
		return OutcomePartialFailure
	}
}

// FailedLegs returns the legs that need manual follow-up.
func (r *RunReport) FailedLegs() []LegResult {
	var out []LegResult
	for _, l := range r.Legs {
		if !l.OK() {
			out = append(out, l)
		}
	}
	return out
}

// Render writes the report as framed sections.
func (r *RunReport) Render(w io.Writer, color bool) {
	output.SectionStart(w, "shipway_release", "Release")
	sec := output.NewSection(w, "Release "+r.Version, r.Elapsed, color)

	status := "failed"
	switch {
	case r.Published && r.Outcome() == OutcomeAllSuccess:
		status = "success"
	case r.Published:
		status = "skipped" // published with partial failures
	}
	sec.Row("%s  %s   %s", output.Bold(r.Version, color), output.StatusIcon(status, color), r.Outcome())
	if r.ReleaseURL != "" {
		sec.Row("%s", r.ReleaseURL)
	}
	if !r.Published {
		sec.Row("release is still a draft")
	}

	sec.Separator()
	for _, l := range r.Legs {
		if l.OK() {
			files := 0
			if l.Artifact != nil {
				files = len(l.Artifact.Files())
			}
			sec.Row("%s %-28s %d file(s)  %s",
				output.StatusIcon("success", color), l.Target.ID, files,
				output.Dimmed(output.FormatElapsed(l.Duration), color))
		} else {
			sec.Row("%s %-28s %s: %v",
				output.StatusIcon("failed", color), l.Target.ID, l.Stage, l.Err)
		}
	}

	if len(r.Branches) > 0 {
		sec.Separator()
		for _, b := range r.Branches {
			switch {
			case b.Skipped:
				sec.Row("%s %-28s skipped", output.StatusIcon("skipped", color), b.Name)
			case b.Err != nil:
				sec.Row("%s %-28s %v", output.StatusIcon("failed", color), b.Name, b.Err)
			default:
				sec.Row("%s %-28s %s",
					output.StatusIcon("success", color), b.Name,
					output.Dimmed(output.FormatElapsed(b.Duration), color))
			}
		}
	}

	if len(r.Findings) > 0 {
		sec.Separator()
		for _, f := range r.Findings {
			sec.Row("secret? %s:%d %s", f.File, f.Line, f.RuleID)
		}
	}
	for _, warn := range r.Warnings {
		sec.Row("warning: %s", warn)
	}

	sec.Close()
	output.SectionEnd(w, "shipway_release")
}
