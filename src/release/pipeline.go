package release

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/sofmeright/shipway/src/build"
	"github.com/sofmeright/shipway/src/config"
	"github.com/sofmeright/shipway/src/gitver"
	"github.com/sofmeright/shipway/src/notify"
	"github.com/sofmeright/shipway/src/pack"
	"github.com/sofmeright/shipway/src/registry"
)

// Pipeline runs one release: draft creation, parallel per-target legs
// (build → package → attach), the publish gate, and distribution
// fanout. Legs share no mutable state except the release record, which
// synchronizes its own attach operations.
type Pipeline struct {
	Config   *config.Config
	Version  *gitver.VersionInfo
	Notes    string
	Compiler build.Compiler
	Gate     *Gate

	// Fanout collaborators. Nil disables the branch regardless of config.
	Registry registry.Publisher
	Notifier notify.Notifier
	BadgeFn  func(version, status string) error

	RootDir    string
	ScratchDir string
	OutDir     string
	Verbose    bool
	Stderr     io.Writer
}

// Run executes the full pipeline and returns the aggregated report.
// Per-leg and per-branch failures live inside the report; the returned
// error is reserved for setup and gate failures that stop the run.
func (p *Pipeline) Run(ctx context.Context) (*RunReport, error) {
	start := time.Now()
	report := &RunReport{
		RunID:   uuid.NewString(),
		Version: p.Version.Version,
	}
	if p.Stderr == nil {
		p.Stderr = os.Stderr
	}

	record, err := p.Gate.CreateDraft(ctx, p.Version, p.Notes)
	if err != nil {
		report.Elapsed = time.Since(start)
		return report, err
	}
	report.ReleaseURL = record.URL

	p.runLegs(ctx, report)

	p.scanArtifacts(ctx, record, report)

	if p.shouldPublish(report) {
		if err := p.Gate.Publish(ctx); err != nil {
			report.Elapsed = time.Since(start)
			return report, err
		}
		report.Published = true
	}

	p.runFanout(ctx, report)

	report.Elapsed = time.Since(start)
	return report, nil
}

// runLegs dispatches one task per target, bounded by a weighted
// semaphore, and blocks until every leg has resolved. There is no
// cross-target cancellation: a failed leg is recorded and its siblings
// keep running.
func (p *Pipeline) runLegs(ctx context.Context, report *RunReport) {
	targets := p.Config.ResolvedTargets()

	rootDir := p.RootDir
	if rootDir == "" {
		rootDir = "."
	}
	packager := pack.NewPackager(
		p.Config.Product,
		p.Version.Version,
		p.OutDir,
		rootDir,
		p.Config.Toolchain.DebCommand,
		p.Verbose,
	)

	jobs := p.Config.Toolchain.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	sem := semaphore.NewWeighted(int64(jobs))

	results := make([]LegResult, len(targets))
	var wg sync.WaitGroup

	for i, target := range targets {
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = LegResult{Target: target, Stage: "build", Err: err}
			continue
		}
		wg.Add(1)
		go func(i int, target config.TargetConfig) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = p.runLeg(ctx, packager, target)
		}(i, target)
	}

	// Wait-for-all barrier: publish must not be evaluated until every
	// dispatched leg has completed, success or failure.
	wg.Wait()

	report.Legs = results
	for _, leg := range results {
		if leg.Artifact != nil {
			report.Warnings = append(report.Warnings, leg.Artifact.Warnings...)
		}
	}
}

// runLeg executes build → package → attach for one target. Every
// failure is contained in the returned result.
func (p *Pipeline) runLeg(ctx context.Context, packager *pack.Packager, target config.TargetConfig) LegResult {
	start := time.Now()
	leg := LegResult{Target: target, Stage: "done"}

	// Scratch location exclusively owned by this leg.
	scratch := filepath.Join(p.ScratchDir, target.ID)

	binPath, err := p.Compiler.Compile(ctx, target, scratch)
	if err != nil {
		leg.Stage = "build"
		leg.Err = err
		leg.Duration = time.Since(start)
		return leg
	}

	res := build.Result{
		Target:     target,
		Status:     build.StatusSuccess,
		BinaryPath: binPath,
	}

	art, err := packager.Package(ctx, res)
	if err != nil {
		leg.Stage = "package"
		leg.Err = err
		leg.Duration = time.Since(start)
		return leg
	}

	if err := p.Gate.Attach(ctx, art); err != nil {
		leg.Stage = "attach"
		leg.Err = err
		leg.Artifact = art
		leg.Duration = time.Since(start)
		return leg
	}

	leg.Artifact = art
	leg.Duration = time.Since(start)
	return leg
}

// scanArtifacts runs the pre-publish secret scan over every attached file.
func (p *Pipeline) scanArtifacts(ctx context.Context, record *Record, report *RunReport) {
	if !p.Config.Scan.Enabled {
		return
	}

	var files []string
	for _, art := range record.Artifacts() {
		files = append(files, art.Files()...)
	}
	if len(files) == 0 {
		return
	}

	findings, err := ScanArtifacts(ctx, p.Config.Scan, files)
	if err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("artifact scan: %v", err))
	}
	report.Findings = findings
}

// shouldPublish applies the partial-failure and scan policies. A run
// where nothing built never publishes, regardless of policy.
func (p *Pipeline) shouldPublish(report *RunReport) bool {
	failed := len(report.FailedLegs())
	if len(report.Legs) > 0 && failed == len(report.Legs) {
		return false
	}
	if p.Config.Release.Publish == config.PublishAllSuccess && failed > 0 {
		return false
	}
	if p.Config.Scan.Block && len(report.Findings) > 0 {
		return false
	}
	return true
}

// runFanout launches the distribution branches concurrently. Branches
// only run after a successful publish, have no mutual ordering, and a
// failed branch affects neither its siblings nor the release state.
func (p *Pipeline) runFanout(ctx context.Context, report *RunReport) {
	// Leg-level status at publish time; branch outcomes are not known yet.
	status := string(OutcomeAllSuccess)
	if len(report.FailedLegs()) > 0 {
		status = string(OutcomePartialFailure)
	}

	type branch struct {
		name    string
		enabled bool
		when    config.Condition
		run     func(context.Context) error
	}

	fanout := p.Config.Fanout
	branches := []branch{
		{
			name:    "registry",
			enabled: fanout.Registry.Enabled && p.Registry != nil,
			when:    fanout.Registry.When,
			run: func(ctx context.Context) error {
				return p.Registry.Publish(ctx, p.Version.Version)
			},
		},
		{
			name:    "notify",
			enabled: fanout.Notify.Enabled && p.Notifier != nil,
			when:    fanout.Notify.When,
			run: func(ctx context.Context) error {
				return p.Notifier.Notify(ctx, status, p.Version.Version)
			},
		},
		{
			name:    "badge",
			enabled: fanout.Badge.Enabled && p.BadgeFn != nil,
			when:    fanout.Badge.When,
			run: func(ctx context.Context) error {
				return p.BadgeFn(p.Version.Version, status)
			},
		},
	}

	results := make([]BranchResult, len(branches))
	var wg sync.WaitGroup

	for i, b := range branches {
		if !b.enabled {
			results[i] = BranchResult{Name: b.name, Skipped: true}
			continue
		}
		if !report.Published || !b.when.Matches(p.Version.Tag, p.Version.Branch) {
			results[i] = BranchResult{Name: b.name, Skipped: true}
			continue
		}

		wg.Add(1)
		go func(i int, b branch) {
			defer wg.Done()
			branchStart := time.Now()
			err := b.run(ctx)
			results[i] = BranchResult{
				Name:     b.name,
				Duration: time.Since(branchStart),
				Err:      err,
			}
			if err != nil {
				fmt.Fprintf(p.Stderr, "warning: %s branch: %v\n", b.name, err)
			}
		}(i, b)
	}

	wg.Wait()
	report.Branches = results
}
