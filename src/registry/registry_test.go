package registry

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofmeright/shipway/src/config"
)

func TestPublishResolvesVersionPlaceholder(t *testing.T) {
	dir := t.TempDir()
	p := NewCommand(config.RegistryFanout{
		Command: []string{"sh", "-c", "printf {version} > published.txt"},
		Dir:     dir,
	}, false)
	p.Stdout = io.Discard
	p.Stderr = io.Discard

	require.NoError(t, p.Publish(context.Background(), "1.2.3"))

	data, err := os.ReadFile(filepath.Join(dir, "published.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", string(data))
}

func TestPublishFailureNamesTheVersion(t *testing.T) {
	p := NewCommand(config.RegistryFanout{
		Command: []string{"sh", "-c", "exit 3"},
		Dir:     t.TempDir(),
	}, false)
	p.Stdout = io.Discard
	p.Stderr = io.Discard

	err := p.Publish(context.Background(), "1.2.3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1.2.3")
}

func TestPublishWithoutCommand(t *testing.T) {
	p := NewCommand(config.RegistryFanout{}, false)

	assert.Error(t, p.Publish(context.Background(), "1.2.3"))
}
