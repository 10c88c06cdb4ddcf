package release

import (
	"errors"
	"fmt"
)

// Gate conflicts. Callers branch on these — publishing twice or
// colliding with a prior run's draft is expected operator territory,
// not a crash.
var (
	// ErrDraftExists means a draft for this version is left over from
	// a prior run and the reuse policy disallows adopting it.
	ErrDraftExists = errors.New("draft release already exists for this version")

	// ErrAlreadyPublished means the release already left its draft
	// state. Publish is never performed twice.
	ErrAlreadyPublished = errors.New("release is already published")
)

// UploadError is a failed asset attach. The draft is intact — the
// caller may re-run the failed leg; the gate does not retry.
type UploadError struct {
	File string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("uploading %s: %v", e.File, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
