package release

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofmeright/shipway/src/config"
	"github.com/sofmeright/shipway/src/forge"
	"github.com/sofmeright/shipway/src/gitver"
	"github.com/sofmeright/shipway/src/pack"
)

// fakeForge is an in-memory forge for gate and pipeline tests.
type fakeForge struct {
	mu sync.Mutex

	existing   *forge.Release // pre-seeded release for GetRelease
	createErr  error
	uploadErr  error
	publishErr error

	creates   int
	uploads   []string
	publishes int
}

func (f *fakeForge) Provider() forge.Provider { return forge.GitHub }

func (f *fakeForge) GetRelease(ctx context.Context, tag string) (*forge.Release, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.existing, nil
}

func (f *fakeForge) CreateDraft(ctx context.Context, opts forge.DraftOptions) (*forge.Release, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.creates++
	return &forge.Release{
		ID:    "rel-1",
		URL:   "https://example.com/releases/" + opts.TagName,
		Draft: true,
	}, nil
}

func (f *fakeForge) UploadAsset(ctx context.Context, releaseID string, asset forge.Asset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads = append(f.uploads, asset.Name)
	return nil
}

func (f *fakeForge) SetPublished(ctx context.Context, releaseID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.publishes++
	return nil
}

func mustVersion(t *testing.T, token string) *gitver.VersionInfo {
	t.Helper()

	v, err := gitver.Parse(token)
	require.NoError(t, err)
	return v
}

func TestGateCreateDraft(t *testing.T) {
	f := &fakeForge{}
	g := NewGate(f, config.DefaultReleaseConfig())

	rec, err := g.CreateDraft(context.Background(), mustVersion(t, "v1.2.3"), "notes")
	require.NoError(t, err)

	assert.Equal(t, 1, f.creates)
	assert.Equal(t, "rel-1", rec.RemoteID)
	assert.Equal(t, "1.2.3", rec.Version)
	assert.Equal(t, StateDraft, rec.State())
}

func TestGateCreateDraftAlreadyPublished(t *testing.T) {
	f := &fakeForge{existing: &forge.Release{ID: "rel-1", Draft: false}}
	g := NewGate(f, config.DefaultReleaseConfig())

	_, err := g.CreateDraft(context.Background(), mustVersion(t, "v1.2.3"), "")
	assert.ErrorIs(t, err, ErrAlreadyPublished)
	assert.Zero(t, f.creates)
}

func TestGateCreateDraftReusePolicy(t *testing.T) {
	leftover := &forge.Release{ID: "rel-old", URL: "https://example.com/old", Draft: true}

	t.Run("reuse adopts the leftover draft", func(t *testing.T) {
		f := &fakeForge{existing: leftover}
		g := NewGate(f, config.ReleaseConfig{ReuseDraft: true})

		rec, err := g.CreateDraft(context.Background(), mustVersion(t, "v1.2.3"), "")
		require.NoError(t, err)
		assert.Equal(t, "rel-old", rec.RemoteID)
		assert.Zero(t, f.creates)
	})

	t.Run("no reuse is a conflict", func(t *testing.T) {
		f := &fakeForge{existing: leftover}
		g := NewGate(f, config.ReleaseConfig{ReuseDraft: false})

		_, err := g.CreateDraft(context.Background(), mustVersion(t, "v1.2.3"), "")
		assert.ErrorIs(t, err, ErrDraftExists)
	})
}

func TestGateAttachUploadsEveryFile(t *testing.T) {
	f := &fakeForge{}
	g := NewGate(f, config.DefaultReleaseConfig())
	_, err := g.CreateDraft(context.Background(), mustVersion(t, "v1.2.3"), "")
	require.NoError(t, err)

	art := &pack.Artifact{
		Archives: []string{"/out/railcar-1.2.3-x.zip", "/out/railcar-1.2.3-x.tar.gz"},
		DebFile:  "/out/railcar-1.2.3-amd64.deb",
	}
	require.NoError(t, g.Attach(context.Background(), art))

	assert.Equal(t, []string{
		"railcar-1.2.3-x.zip",
		"railcar-1.2.3-x.tar.gz",
		"railcar-1.2.3-amd64.deb",
	}, f.uploads)
	assert.Len(t, g.Record().Artifacts(), 1)
}

func TestGateAttachFailureIsUploadError(t *testing.T) {
	f := &fakeForge{uploadErr: errors.New("503")}
	g := NewGate(f, config.DefaultReleaseConfig())
	_, err := g.CreateDraft(context.Background(), mustVersion(t, "v1.2.3"), "")
	require.NoError(t, err)

	err = g.Attach(context.Background(), &pack.Artifact{Archives: []string{"/out/a.tar.gz"}})

	var ue *UploadError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "/out/a.tar.gz", ue.File)
	// Failed attaches leave no trace in the record.
	assert.Empty(t, g.Record().Artifacts())
}

func TestGateAttachConcurrentLegsLoseNothing(t *testing.T) {
	f := &fakeForge{}
	g := NewGate(f, config.DefaultReleaseConfig())
	_, err := g.CreateDraft(context.Background(), mustVersion(t, "v1.2.3"), "")
	require.NoError(t, err)

	const legs = 16
	var wg sync.WaitGroup
	for i := 0; i < legs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			art := &pack.Artifact{Archives: []string{fmt.Sprintf("/out/a-%d.tar.gz", i)}}
			_ = g.Attach(context.Background(), art)
		}(i)
	}
	wg.Wait()

	assert.Len(t, g.Record().Artifacts(), legs)
	assert.Len(t, f.uploads, legs)
}

func TestGatePublishHappensExactlyOnce(t *testing.T) {
	f := &fakeForge{}
	g := NewGate(f, config.DefaultReleaseConfig())
	_, err := g.CreateDraft(context.Background(), mustVersion(t, "v1.2.3"), "")
	require.NoError(t, err)

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = g.Publish(context.Background())
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyPublished)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, f.publishes)
	assert.Equal(t, StatePublished, g.Record().State())
}

func TestGatePublishFailureKeepsDraft(t *testing.T) {
	f := &fakeForge{publishErr: errors.New("502")}
	g := NewGate(f, config.DefaultReleaseConfig())
	_, err := g.CreateDraft(context.Background(), mustVersion(t, "v1.2.3"), "")
	require.NoError(t, err)

	require.Error(t, g.Publish(context.Background()))
	assert.Equal(t, StateDraft, g.Record().State())

	// The transition is retryable once the forge recovers.
	f.mu.Lock()
	f.publishErr = nil
	f.mu.Unlock()
	require.NoError(t, g.Publish(context.Background()))
	assert.Equal(t, StatePublished, g.Record().State())
}
