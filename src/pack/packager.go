package pack

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sofmeright/shipway/src/build"
	"github.com/sofmeright/shipway/src/config"
)

// Artifact is the packaged output of one successful target leg.
// Immutable once produced.
type Artifact struct {
	Target config.TargetConfig

	// Archives are the produced archive paths, in plan order.
	Archives []string

	// DebFile is the OS-native package path, empty when the target
	// does not request one.
	DebFile string

	// Warnings collects tolerated problems (e.g. a failed symbol
	// strip) for the run report.
	Warnings []string
}

// Files returns every file this artifact contributes to the release.
func (a Artifact) Files() []string {
	files := make([]string, 0, len(a.Archives)+1)
	files = append(files, a.Archives...)
	if a.DebFile != "" {
		files = append(files, a.DebFile)
	}
	return files
}

// Packager converts raw build outputs into distributable artifacts.
type Packager struct {
	Product    string
	Version    string
	OutDir     string
	RootDir    string
	DebCommand []string
	Verbose    bool
	Stderr     io.Writer
}

// NewPackager creates a packager writing artifacts under outDir.
func NewPackager(product, version, outDir, rootDir string, debCommand []string, verbose bool) *Packager {
	return &Packager{
		Product:    product,
		Version:    version,
		OutDir:     outDir,
		RootDir:    rootDir,
		DebCommand: debCommand,
		Verbose:    verbose,
		Stderr:     os.Stderr,
	}
}

// Package executes the packaging plan for one successful build result.
// Must only be called when the result succeeded.
func (p *Packager) Package(ctx context.Context, res build.Result) (*Artifact, error) {
	if !res.Succeeded() {
		return nil, fmt.Errorf("packaging requested for failed target %s", res.Target.ID)
	}

	art := &Artifact{Target: res.Target}
	binaryName := res.Target.BinaryName(p.Product)

	for _, action := range Plan(p.Product, p.Version, res.Target) {
		switch action.Kind {
		case ActionStrip:
			if err := stripSymbols(ctx, res.BinaryPath, p.Verbose, p.Stderr); err != nil {
				// Best effort — record and move on.
				art.Warnings = append(art.Warnings, err.Error())
			}

		case ActionZip:
			out := filepath.Join(p.OutDir, action.FileName)
			if err := ensureDir(out); err != nil {
				return nil, err
			}
			if err := writeZip(out, res.BinaryPath, binaryName); err != nil {
				return nil, fmt.Errorf("writing %s: %w", action.FileName, err)
			}
			art.Archives = append(art.Archives, out)

		case ActionTarGz:
			out := filepath.Join(p.OutDir, action.FileName)
			if err := ensureDir(out); err != nil {
				return nil, err
			}
			if err := writeTarGz(out, res.BinaryPath, binaryName); err != nil {
				return nil, fmt.Errorf("writing %s: %w", action.FileName, err)
			}
			art.Archives = append(art.Archives, out)

		case ActionDeb:
			out := filepath.Join(p.OutDir, action.FileName)
			if err := ensureDir(out); err != nil {
				return nil, err
			}
			if err := p.buildDeb(ctx, res.Target, out); err != nil {
				return nil, err
			}
			art.DebFile = out
		}
	}

	return art, nil
}
