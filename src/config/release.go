package config

// PublishPolicy controls whether a release with failed build legs may
// still go public.
type PublishPolicy string

const (
	// PublishOnPartial publishes whatever succeeded; failed legs are
	// reported for manual follow-up.
	PublishOnPartial PublishPolicy = "on_partial"

	// PublishAllSuccess keeps the draft unpublished unless every leg
	// succeeded.
	PublishAllSuccess PublishPolicy = "all_success"
)

// ReleaseConfig holds release gate and forge configuration.
type ReleaseConfig struct {
	// Publish is the partial-failure policy: on_partial (default)
	// or all_success.
	Publish PublishPolicy `yaml:"publish"`

	// ReuseDraft allows attaching to a draft left over from a prior
	// run of the same version instead of failing with a conflict.
	ReuseDraft bool `yaml:"reuse_draft"`

	// Prerelease marks the release as a prerelease on the forge.
	// When unset it is inferred from the version token.
	Prerelease bool `yaml:"prerelease,omitempty"`

	Forge ForgeConfig `yaml:"forge"`
}

// ForgeConfig identifies the release-hosting forge.
type ForgeConfig struct {
	// Provider is the forge type: github, gitlab, gitea. Empty means detect
	// from the git remote.
	Provider string `yaml:"provider,omitempty"`

	// URL is the forge base URL (e.g. "https://github.com").
	URL string `yaml:"url,omitempty"`

	// Project is the project identifier (e.g. "owner/repo" or a
	// numeric GitLab project ID). Empty means resolve from env.
	Project string `yaml:"project,omitempty"`
}

// DefaultReleaseConfig returns sensible defaults for the release gate.
func DefaultReleaseConfig() ReleaseConfig {
	return ReleaseConfig{
		Publish:    PublishOnPartial,
		ReuseDraft: true,
	}
}
