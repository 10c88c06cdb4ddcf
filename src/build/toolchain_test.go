package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofmeright/shipway/src/config"
)

func linuxTarget() config.TargetConfig {
	return config.TargetConfig{ID: "x86_64-unknown-linux-musl", OS: "linux", Arch: "amd64"}
}

func TestResolvePlaceholders(t *testing.T) {
	tc := NewToolchain("railcar", config.ToolchainConfig{}, t.TempDir(), false)

	tests := []struct {
		in     string
		target config.TargetConfig
		want   string
	}{
		{"--target={target}", linuxTarget(), "--target=x86_64-unknown-linux-musl"},
		{"build/{os}/{arch}", linuxTarget(), "build/linux/amd64"},
		{"out/{bin}", linuxTarget(), "out/railcar"},
		{"out/{bin}", config.TargetConfig{ID: "w", OS: "windows", Arch: "amd64"}, "out/railcar.exe"},
		{"{product}", linuxTarget(), "railcar"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, tc.resolve(tt.in, tt.target))
		})
	}
}

func TestCommandArgsAppendsTargetFlags(t *testing.T) {
	cfg := config.ToolchainConfig{Command: []string{"cargo", "build", "--target", "{target}"}}
	tc := NewToolchain("railcar", cfg, t.TempDir(), false)

	target := linuxTarget()
	target.Flags = []string{"--features", "vendored"}

	assert.Equal(t, []string{
		"cargo", "build", "--target", "x86_64-unknown-linux-musl",
		"--features", "vendored",
	}, tc.commandArgs(target))
}

func TestCompileCollectsBinaryIntoScratch(t *testing.T) {
	rootDir := t.TempDir()
	cfg := config.ToolchainConfig{
		Command: []string{"sh", "-c", "mkdir -p out/{target} && printf built > out/{target}/{bin}"},
		Output:  "out/{target}/{bin}",
	}
	tc := NewToolchain("railcar", cfg, rootDir, false)

	scratch := filepath.Join(t.TempDir(), "leg")
	path, err := tc.Compile(context.Background(), linuxTarget(), scratch)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(scratch, "railcar"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "built", string(data))
}

func TestCompileFailureNamesTheTarget(t *testing.T) {
	cfg := config.ToolchainConfig{
		Command: []string{"sh", "-c", "exit 1"},
		Output:  "out/{bin}",
	}
	tc := NewToolchain("railcar", cfg, t.TempDir(), false)

	_, err := tc.Compile(context.Background(), linuxTarget(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x86_64-unknown-linux-musl")
}

func TestCompileWithoutCommand(t *testing.T) {
	tc := NewToolchain("railcar", config.ToolchainConfig{}, t.TempDir(), false)

	_, err := tc.Compile(context.Background(), linuxTarget(), t.TempDir())
	assert.Error(t, err)
}
