package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".shipway.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, "app", cfg.Product)
	assert.Equal(t, PublishOnPartial, cfg.Release.Publish)
	assert.True(t, cfg.Release.ReuseDraft)
	assert.True(t, cfg.Fanout.Notify.Enabled)
	assert.True(t, cfg.Fanout.Badge.Enabled)
	assert.Equal(t, "release-badge.svg", cfg.Fanout.Badge.Path)
	assert.False(t, cfg.Fanout.Registry.Enabled)
	assert.True(t, cfg.Scan.Enabled)
	assert.False(t, cfg.Scan.Block)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
product: railcar
toolchain:
  jobs: 2
release:
  publish: all_success
  reuse_draft: false
targets:
  - id: x86_64-unknown-linux-gnu
    os: linux
    arch: amd64
fanout:
  registry:
    enabled: true
    command: ["npm", "publish"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "railcar", cfg.Product)
	assert.Equal(t, 2, cfg.Toolchain.Jobs)
	assert.Equal(t, PublishAllSuccess, cfg.Release.Publish)
	assert.False(t, cfg.Release.ReuseDraft)
	assert.True(t, cfg.Fanout.Registry.Enabled)
	assert.Equal(t, []string{"npm", "publish"}, cfg.Fanout.Registry.Command)

	targets := cfg.ResolvedTargets()
	require.Len(t, targets, 1)
	assert.Equal(t, "x86_64-unknown-linux-gnu", targets[0].ID)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "product: [unclosed")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestResolvedTargetsDefaultsToBuiltinMatrix(t *testing.T) {
	cfg := defaults()

	targets := cfg.ResolvedTargets()
	require.Len(t, targets, 6)

	ids := make([]string, len(targets))
	for i, target := range targets {
		ids[i] = target.ID
	}
	assert.Equal(t, []string{
		"aarch64-apple-darwin",
		"x86_64-apple-darwin",
		"x86_64-unknown-linux-musl",
		"aarch64-unknown-linux-musl",
		"x86_64-pc-windows-msvc",
		"aarch64-pc-windows-msvc",
	}, ids)
}

func TestResolvedTargetsReturnsCopy(t *testing.T) {
	cfg := defaults()
	cfg.Targets = []TargetConfig{{ID: "one", OS: "linux", Arch: "amd64"}}

	targets := cfg.ResolvedTargets()
	targets[0].ID = "mutated"

	assert.Equal(t, "one", cfg.Targets[0].ID)
}

func TestTargetZipClass(t *testing.T) {
	tests := []struct {
		os   string
		want bool
	}{
		{"windows", true},
		{"linux", false},
		{"darwin", false},
	}

	for _, tt := range tests {
		t.Run(tt.os, func(t *testing.T) {
			target := TargetConfig{OS: tt.os}
			assert.Equal(t, tt.want, target.ZipClass())
		})
	}
}

func TestTargetBinaryName(t *testing.T) {
	win := TargetConfig{OS: "windows"}
	lin := TargetConfig{OS: "linux"}

	assert.Equal(t, "railcar.exe", win.BinaryName("railcar"))
	assert.Equal(t, "railcar", lin.BinaryName("railcar"))
}

func TestDefaultMatrixDebTarget(t *testing.T) {
	var deb []TargetConfig
	for _, target := range DefaultTargets() {
		if target.Deb {
			deb = append(deb, target)
		}
	}

	require.Len(t, deb, 1)
	assert.Equal(t, "x86_64-unknown-linux-musl", deb[0].ID)
	assert.Equal(t, "amd64", deb[0].DebArch)
}
