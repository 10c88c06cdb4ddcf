package release

import (
	"sync"

	"github.com/sofmeright/shipway/src/pack"
)

// State is the lifecycle state of a release record.
type State string

const (
	StateDraft     State = "draft"
	StatePublished State = "published"
)

// Record is the in-memory view of one release: version, draft/published
// state, and the artifact set attached so far. Attach and publish are
// safe to call from concurrent legs.
type Record struct {
	Version  string
	RemoteID string // forge-side release ID
	URL      string

	mu        sync.Mutex
	state     State
	artifacts []*pack.Artifact
}

// NewRecord creates a draft record bound to a forge-side release.
func NewRecord(version, remoteID, url string) *Record {
	return &Record{
		Version:  version,
		RemoteID: remoteID,
		URL:      url,
		state:    StateDraft,
	}
}

// State returns the current lifecycle state.
func (r *Record) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Artifacts returns a snapshot of the attached artifact set.
func (r *Record) Artifacts() []*pack.Artifact {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*pack.Artifact, len(r.artifacts))
	copy(out, r.artifacts)
	return out
}

// attach appends an artifact. No lost updates under concurrent legs.
func (r *Record) attach(a *pack.Artifact) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.artifacts = append(r.artifacts, a)
}

// transition flips draft → published. The forge call happens inside fn
// while the lock is held, so a duplicate publish can never produce a
// second side effect.
func (r *Record) transition(fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StatePublished {
		return ErrAlreadyPublished
	}
	if err := fn(); err != nil {
		return err
	}
	r.state = StatePublished
	return nil
}
