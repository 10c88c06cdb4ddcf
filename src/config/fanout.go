package config

// FanoutConfig holds post-publish distribution branches. Branches run
// concurrently and independently — one branch failing never rolls back
// the release or affects its siblings.
type FanoutConfig struct {
	Registry RegistryFanout `yaml:"registry"`
	Notify   NotifyFanout   `yaml:"notify"`
	Badge    BadgeFanout    `yaml:"badge"`
}

// RegistryFanout publishes the released artifacts to a secondary
// package registry via an external command (e.g. npm).
type RegistryFanout struct {
	Enabled bool `yaml:"enabled"`

	// Command is the publish invocation, run from Dir.
	// Placeholder {version} is resolved before execution.
	Command []string `yaml:"command,omitempty"`

	// Dir is the working directory for the publish command.
	Dir string `yaml:"dir,omitempty"`

	// When gates this branch on tag/branch patterns.
	When Condition `yaml:"when,omitempty"`
}

// NotifyFanout posts a {status, version} payload to a webhook.
type NotifyFanout struct {
	Enabled bool `yaml:"enabled"`

	// URL is the webhook endpoint. Empty falls back to the
	// SHIPWAY_WEBHOOK_URL env var.
	URL string `yaml:"url,omitempty"`

	When Condition `yaml:"when,omitempty"`
}

// BadgeFanout writes a release status badge SVG.
type BadgeFanout struct {
	Enabled bool `yaml:"enabled"`

	// Path is where the SVG is written (default: release-badge.svg).
	Path string `yaml:"path,omitempty"`

	// Font is an optional TTF/OTF file used to measure and embed
	// badge text. Empty uses approximate metrics.
	Font string `yaml:"font,omitempty"`

	When Condition `yaml:"when,omitempty"`
}

// Condition gates a fanout branch on the triggering tag or branch.
// All present fields must match (AND); each field is a pattern list
// with OR semantics and ! negation.
type Condition struct {
	Tags     []string `yaml:"tags,omitempty"`
	Branches []string `yaml:"branches,omitempty"`
}

// Matches evaluates the condition against resolved tag/branch values.
func (c Condition) Matches(tag, branch string) bool {
	if len(c.Tags) > 0 {
		if tag == "" || !MatchPatterns(c.Tags, tag) {
			return false
		}
	}
	if len(c.Branches) > 0 && !MatchPatterns(c.Branches, branch) {
		return false
	}
	return true
}

// DefaultFanoutConfig enables notification and badge; registry publish
// needs an explicit command so it starts disabled.
func DefaultFanoutConfig() FanoutConfig {
	return FanoutConfig{
		Notify: NotifyFanout{Enabled: true},
		Badge: BadgeFanout{
			Enabled: true,
			Path:    "release-badge.svg",
		},
	}
}
