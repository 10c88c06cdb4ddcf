package release

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sofmeright/shipway/src/config"
	"github.com/sofmeright/shipway/src/forge"
	"github.com/sofmeright/shipway/src/gitver"
	"github.com/sofmeright/shipway/src/pack"
)

// Gate is the single publish point of a run. It creates the draft
// release before any build starts, collects artifacts from completed
// legs, and flips the release public exactly once.
type Gate struct {
	forge  forge.Forge
	policy config.ReleaseConfig
	record *Record
}

// NewGate creates a gate backed by a forge.
func NewGate(f forge.Forge, policy config.ReleaseConfig) *Gate {
	return &Gate{forge: f, policy: policy}
}

// Record returns the release record, nil before CreateDraft.
func (g *Gate) Record() *Record { return g.record }

// CreateDraft ensures a draft release exists for the version and binds
// the gate to it. Safe to re-run: a leftover draft from a prior run is
// adopted when the reuse policy allows, otherwise ErrDraftExists. An
// already-published release for the tag is ErrAlreadyPublished.
func (g *Gate) CreateDraft(ctx context.Context, v *gitver.VersionInfo, notes string) (*Record, error) {
	existing, err := g.forge.GetRelease(ctx, v.Tag)
	if err != nil {
		return nil, fmt.Errorf("looking up release %s: %w", v.Tag, err)
	}

	if existing != nil {
		if !existing.Draft {
			return nil, fmt.Errorf("release %s: %w", v.Tag, ErrAlreadyPublished)
		}
		if !g.policy.ReuseDraft {
			return nil, fmt.Errorf("release %s: %w", v.Tag, ErrDraftExists)
		}
		g.record = NewRecord(v.Version, existing.ID, existing.URL)
		return g.record, nil
	}

	created, err := g.forge.CreateDraft(ctx, forge.DraftOptions{
		TagName:    v.Tag,
		Name:       v.Tag,
		Notes:      notes,
		Prerelease: g.policy.Prerelease || v.IsPrerelease,
	})
	if err != nil {
		return nil, fmt.Errorf("creating draft %s: %w", v.Tag, err)
	}

	g.record = NewRecord(v.Version, created.ID, created.URL)
	return g.record, nil
}

// Attach uploads every file of an artifact to the draft and records it.
// Called concurrently by completed legs. Upload failures come back as
// UploadError — retryable by the caller, never retried here.
func (g *Gate) Attach(ctx context.Context, art *pack.Artifact) error {
	for _, file := range art.Files() {
		asset := forge.Asset{
			Name:     filepath.Base(file),
			FilePath: file,
		}
		if err := g.forge.UploadAsset(ctx, g.record.RemoteID, asset); err != nil {
			return &UploadError{File: file, Err: err}
		}
	}

	g.record.attach(art)
	return nil
}

// Publish flips the release out of draft. Must only be called after
// every leg has been accounted for. A second call returns
// ErrAlreadyPublished without touching the forge again.
func (g *Gate) Publish(ctx context.Context) error {
	return g.record.transition(func() error {
		if err := g.forge.SetPublished(ctx, g.record.RemoteID); err != nil {
			return fmt.Errorf("publishing %s: %w", g.record.Version, err)
		}
		return nil
	})
}
