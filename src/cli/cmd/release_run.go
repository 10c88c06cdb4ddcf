package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sofmeright/shipway/src/badge"
	"github.com/sofmeright/shipway/src/build"
	"github.com/sofmeright/shipway/src/forge"
	"github.com/sofmeright/shipway/src/gitver"
	"github.com/sofmeright/shipway/src/notify"
	"github.com/sofmeright/shipway/src/output"
	"github.com/sofmeright/shipway/src/pack"
	"github.com/sofmeright/shipway/src/registry"
	"github.com/sofmeright/shipway/src/release"
)

var (
	rrTag       string
	rrNotesFile string
	rrOutDir    string
	rrScratch   string
	rrDryRun    bool
)

var releaseRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the release pipeline for the current tag",
	Long: `Build the product for every configured target in parallel, package
each binary per platform conventions, attach the artifacts to a draft
release, then publish and fan out to distribution channels.

The version is detected from the git tag at HEAD unless --tag is given.`,
	RunE: runReleaseRun,
}

func init() {
	releaseRunCmd.Flags().StringVar(&rrTag, "tag", "", "release tag (default: detected from git)")
	releaseRunCmd.Flags().StringVar(&rrNotesFile, "notes", "", "path to release notes markdown file")
	releaseRunCmd.Flags().StringVar(&rrOutDir, "out", "dist", "directory for packaged artifacts")
	releaseRunCmd.Flags().StringVar(&rrScratch, "scratch", "", "scratch directory for build outputs (default: temp dir)")
	releaseRunCmd.Flags().BoolVar(&rrDryRun, "dry-run", false, "build and package only, skip the forge entirely")

	releaseCmd.AddCommand(releaseRunCmd)
}

func runReleaseRun(cmd *cobra.Command, args []string) error {
	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	ctx := context.Background()
	color := output.UseColor()
	w := os.Stdout

	// Resolve the version for this run.
	var versionInfo *gitver.VersionInfo
	if rrTag != "" {
		versionInfo, err = gitver.Parse(rrTag)
	} else {
		versionInfo, err = gitver.Detect(rootDir)
	}
	if err != nil {
		return fmt.Errorf("resolving version: %w", err)
	}

	// Cross-check the build manifest, if the project carries one.
	manifest, err := gitver.ReadManifest(rootDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: reading manifest: %v\n", err)
	}
	if warn := gitver.CheckManifest(manifest, versionInfo); warn != "" {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warn)
	}

	output.ContextBlock(w, []output.KV{
		{Key: "product", Value: cfg.Product},
		{Key: "version", Value: versionInfo.Version},
		{Key: "tag", Value: versionInfo.Tag},
		{Key: "targets", Value: fmt.Sprintf("%d", len(cfg.ResolvedTargets()))},
	})

	if rrDryRun {
		return runDryRun(ctx, rootDir, versionInfo)
	}

	// Release notes: explicit file wins over generated conventional-commit notes.
	var notes string
	if rrNotesFile != "" {
		data, err := os.ReadFile(rrNotesFile)
		if err != nil {
			return fmt.Errorf("reading notes file: %w", err)
		}
		notes = string(data)
	} else {
		notes, err = release.GenerateNotes(rootDir, versionInfo.Tag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: generating notes: %v\n", err)
		}
	}

	forgeClient, err := newForgeClient(rootDir)
	if err != nil {
		return err
	}

	scratchDir, cleanup, err := resolveScratchDir()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := os.MkdirAll(rrOutDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	pipeline := &release.Pipeline{
		Config:   cfg,
		Version:  versionInfo,
		Notes:    notes,
		Compiler: newCompiler(rootDir),
		Gate:     release.NewGate(forgeClient, cfg.Release),

		Registry: newRegistryPublisher(rootDir),
		Notifier: newNotifier(),
		BadgeFn:  newBadgeFn(),

		RootDir:    rootDir,
		ScratchDir: scratchDir,
		OutDir:     rrOutDir,
		Verbose:    verbose,
		Stderr:     os.Stderr,
	}

	report, runErr := pipeline.Run(ctx)
	report.Render(w, color)
	if runErr != nil {
		return fmt.Errorf("release %s: %w", versionInfo.Tag, runErr)
	}

	if report.Outcome() == release.OutcomeAllFailure {
		return fmt.Errorf("release %s: all targets failed", versionInfo.Tag)
	}
	return nil
}

// runDryRun builds and packages every target without touching the forge.
func runDryRun(ctx context.Context, rootDir string, versionInfo *gitver.VersionInfo) error {
	scratchDir, cleanup, err := resolveScratchDir()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := os.MkdirAll(rrOutDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	compiler := newCompiler(rootDir)
	packager := newPackager(rootDir, versionInfo.Version)

	color := output.UseColor()
	w := os.Stdout

	output.SectionStart(w, "sw_dry_run", "Dry run")
	sec := output.NewSection(w, "Dry run", 0, color)
	for _, target := range cfg.ResolvedTargets() {
		scratch := filepath.Join(scratchDir, target.ID)
		binPath, err := compiler.Compile(ctx, target, scratch)
		if err != nil {
			sec.Row("%s %s: %v", output.StatusIcon("failed", color), target.ID, err)
			continue
		}
		art, err := packager.Package(ctx, build.Result{
			Target:     target,
			Status:     build.StatusSuccess,
			BinaryPath: binPath,
		})
		if err != nil {
			sec.Row("%s %s: %v", output.StatusIcon("failed", color), target.ID, err)
			continue
		}
		for _, f := range art.Files() {
			sec.Row("%s %s", output.StatusIcon("success", color), filepath.Base(f))
		}
	}
	sec.Close()
	output.SectionEnd(w, "sw_dry_run")
	return nil
}

// newForgeClient builds the forge client from config, falling back to
// detection from the git remote when the config leaves it unset.
func newForgeClient(rootDir string) (forge.Forge, error) {
	fc := cfg.Release.Forge

	provider := forge.Provider(fc.Provider)
	baseURL := fc.URL
	project := fc.Project

	if provider == "" || baseURL == "" || project == "" {
		remoteURL, err := gitver.RemoteURL(rootDir)
		if err != nil {
			return nil, fmt.Errorf("detecting git remote: %w", err)
		}
		if provider == "" {
			provider = forge.DetectProvider(remoteURL)
		}
		if baseURL == "" {
			baseURL = forge.BaseURL(remoteURL)
		}
		if project == "" {
			project = gitver.ProjectPath(remoteURL)
		}
	}

	if provider == forge.Unknown || provider == "" {
		return nil, fmt.Errorf("could not determine forge provider; set release.forge.provider")
	}

	return forge.New(provider, baseURL, project)
}

func newPackager(rootDir, version string) *pack.Packager {
	return pack.NewPackager(cfg.Product, version, rrOutDir, rootDir, cfg.Toolchain.DebCommand, verbose)
}

func newCompiler(rootDir string) build.Compiler {
	return &build.Toolchain{
		Product: cfg.Product,
		Config:  cfg.Toolchain,
		RootDir: rootDir,
		Verbose: verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

func newRegistryPublisher(rootDir string) registry.Publisher {
	rc := cfg.Fanout.Registry
	if !rc.Enabled || len(rc.Command) == 0 {
		return nil
	}
	pub := registry.NewCommand(rc, verbose)
	if pub.Dir == "" {
		pub.Dir = rootDir
	}
	return pub
}

func newNotifier() notify.Notifier {
	nc := cfg.Fanout.Notify
	if !nc.Enabled {
		return nil
	}
	return notify.NewWebhook(nc.URL)
}

func newBadgeFn() func(version, status string) error {
	bc := cfg.Fanout.Badge
	if !bc.Enabled || bc.Path == "" {
		return nil
	}
	return func(version, status string) error {
		return badge.WriteStatusBadge(bc.Path, version, status, bc.Font)
	}
}

// resolveScratchDir returns the scratch directory and a cleanup func.
// An explicit --scratch directory is kept; temp dirs are removed.
func resolveScratchDir() (string, func(), error) {
	if rrScratch != "" {
		if err := os.MkdirAll(rrScratch, 0o755); err != nil {
			return "", nil, fmt.Errorf("creating scratch directory: %w", err)
		}
		return rrScratch, func() {}, nil
	}
	dir, err := os.MkdirTemp("", "shipway-*")
	if err != nil {
		return "", nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	return dir, func() { _ = os.RemoveAll(dir) }, nil
}
