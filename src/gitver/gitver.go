// Package gitver resolves the release version token from git and
// cross-checks it against the product manifest. It is the shared
// foundation the pipeline uses to identify a run.
package gitver

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// VersionInfo holds the resolved version token for one release run.
// Immutable once created — the pipeline never rewrites it.
type VersionInfo struct {
	Tag          string // the triggering tag as given ("v1.2.3")
	Version      string // "1.2.3" or "1.2.3-rc.1"
	Major        uint64
	Minor        uint64
	Patch        uint64
	Prerelease   string // "rc.1", "" for stable
	SHA          string
	Branch       string
	IsPrerelease bool
}

// Parse validates a version token (with or without "v" prefix) and
// splits it into its parts.
func Parse(token string) (*VersionInfo, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(token), "v")
	sv, err := semver.StrictNewVersion(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid version token %q: %w", token, err)
	}

	return &VersionInfo{
		Tag:          strings.TrimSpace(token),
		Version:      sv.String(),
		Major:        sv.Major(),
		Minor:        sv.Minor(),
		Patch:        sv.Patch(),
		Prerelease:   sv.Prerelease(),
		IsPrerelease: sv.Prerelease() != "",
	}, nil
}

// Detect resolves the version from the tag at HEAD. The pipeline is
// tag-triggered: a run without an exact tag is an error, not a guess.
func Detect(rootDir string) (*VersionInfo, error) {
	tag, err := gitCmd(rootDir, "describe", "--tags", "--exact-match")
	if err != nil {
		return nil, fmt.Errorf("HEAD is not at a release tag: %w", err)
	}

	v, err := Parse(tag)
	if err != nil {
		return nil, err
	}

	if sha, err := gitCmd(rootDir, "rev-parse", "--short=7", "HEAD"); err == nil {
		v.SHA = sha
	}
	if branch, err := gitCmd(rootDir, "rev-parse", "--abbrev-ref", "HEAD"); err == nil {
		v.Branch = branch
	}

	return v, nil
}

// gitCmd runs a git command and returns trimmed stdout.
func gitCmd(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
