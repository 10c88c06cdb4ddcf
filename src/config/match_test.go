package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchPatterns(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		value    string
		want     bool
	}{
		{"empty list matches everything", nil, "v1.2.3", true},
		{"literal match", []string{"main"}, "main", true},
		{"literal miss", []string{"main"}, "develop", false},
		{"regex match", []string{`^v\d+\.\d+\.\d+$`}, "v1.2.3", true},
		{"regex miss", []string{`^v\d+\.\d+\.\d+$`}, "v1.2.3-beta.1", false},
		{"or logic", []string{"main", "release-.*"}, "release-2026", true},
		{"exclude wins over include", []string{"v.*", "!v0.*"}, "v0.1.0", false},
		{"exclude passes non-matching", []string{"v.*", "!v0.*"}, "v1.0.0", true},
		{"exclude-only allows rest", []string{"!nightly"}, "v1.0.0", true},
		{"exclude-only rejects match", []string{"!nightly"}, "nightly", false},
		{"invalid regex falls back to literal", []string{"a[b"}, "a[b", true},
		{"invalid regex literal miss", []string{"a[b"}, "ab", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchPatterns(tt.patterns, tt.value))
		})
	}
}

func TestConditionMatches(t *testing.T) {
	tests := []struct {
		name   string
		cond   Condition
		tag    string
		branch string
		want   bool
	}{
		{"empty condition always matches", Condition{}, "v1.0.0", "main", true},
		{"tag pattern matches", Condition{Tags: []string{`^v`}}, "v1.0.0", "", true},
		{"tag pattern requires a tag", Condition{Tags: []string{`^v`}}, "", "main", false},
		{"branch pattern matches", Condition{Branches: []string{"main"}}, "", "main", true},
		{"branch pattern miss", Condition{Branches: []string{"main"}}, "", "develop", false},
		{
			"tag and branch are both required",
			Condition{Tags: []string{`^v`}, Branches: []string{"main"}},
			"v1.0.0", "develop", false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Matches(tt.tag, tt.branch))
		})
	}
}
