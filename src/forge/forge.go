// Package forge provides a platform-agnostic abstraction over the
// release-hosting service (GitHub, GitLab, Gitea). The release gate talks only
// to this interface, so the pipeline works identically regardless of
// where releases are stored.
package forge

import "context"

// Provider identifies a release-hosting platform.
type Provider string

const (
	GitHub  Provider = "github"
	GitLab  Provider = "gitlab"
	Gitea   Provider = "gitea"
	Unknown Provider = "unknown"
)

// Forge is the interface every platform implements.
type Forge interface {
	// Provider returns which platform this forge represents.
	Provider() Provider

	// CreateDraft creates a non-public draft release for a version tag.
	CreateDraft(ctx context.Context, opts DraftOptions) (*Release, error)

	// GetRelease looks up an existing release by tag. Returns
	// (nil, nil) when no release exists for the tag.
	GetRelease(ctx context.Context, tag string) (*Release, error)

	// UploadAsset attaches a file to an existing release.
	UploadAsset(ctx context.Context, releaseID string, asset Asset) error

	// SetPublished flips the release out of its draft state, making
	// it publicly visible.
	SetPublished(ctx context.Context, releaseID string) error
}

// DraftOptions configures a new draft release.
type DraftOptions struct {
	TagName    string
	Name       string
	Notes      string // markdown body
	Prerelease bool
}

// Release is a release record on a forge.
type Release struct {
	ID    string // platform-specific ID
	URL   string // web URL to the release page
	Draft bool
}

// Asset is a file to attach to a release.
type Asset struct {
	Name     string // display name
	FilePath string // local file to upload
	MIMEType string // e.g. "application/gzip"
}
