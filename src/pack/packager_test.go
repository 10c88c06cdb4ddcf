package pack

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofmeright/shipway/src/build"
	"github.com/sofmeright/shipway/src/config"
)

func writeFakeBinary(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "railcar")
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
	return path
}

// darwin targets skip the strip step, so tests stay independent of the
// host toolchain.
func darwinTarget() config.TargetConfig {
	return config.TargetConfig{ID: "aarch64-apple-darwin", OS: "darwin", Arch: "arm64"}
}

func TestPackageDarwinProducesTarGz(t *testing.T) {
	bin := writeFakeBinary(t, "#!/bin/true\n")
	outDir := t.TempDir()

	p := NewPackager("railcar", "1.2.3", outDir, t.TempDir(), nil, false)
	art, err := p.Package(context.Background(), build.Result{
		Target:     darwinTarget(),
		Status:     build.StatusSuccess,
		BinaryPath: bin,
	})
	require.NoError(t, err)

	require.Len(t, art.Archives, 1)
	assert.Equal(t, filepath.Join(outDir, "railcar-1.2.3-aarch64-apple-darwin.tar.gz"), art.Archives[0])
	assert.Empty(t, art.DebFile)
	assert.Equal(t, art.Archives, art.Files())
}

func TestPackageWindowsProducesZipAndTarGz(t *testing.T) {
	bin := writeFakeBinary(t, "MZ fake exe\n")
	outDir := t.TempDir()
	target := config.TargetConfig{ID: "x86_64-pc-windows-msvc", OS: "windows", Arch: "amd64"}

	p := NewPackager("railcar", "1.2.3", outDir, t.TempDir(), nil, false)
	p.Stderr = io.Discard
	art, err := p.Package(context.Background(), build.Result{
		Target:     target,
		Status:     build.StatusSuccess,
		BinaryPath: bin,
	})
	require.NoError(t, err)

	require.Len(t, art.Archives, 2)
	assert.Equal(t, "railcar-1.2.3-x86_64-pc-windows-msvc.zip", filepath.Base(art.Archives[0]))
	assert.Equal(t, "railcar-1.2.3-x86_64-pc-windows-msvc.tar.gz", filepath.Base(art.Archives[1]))

	// The zip entry carries the platform-correct binary name.
	zr, err := zip.OpenReader(art.Archives[0])
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 1)
	assert.Equal(t, "railcar.exe", zr.File[0].Name)
}

func TestPackageRejectsFailedResult(t *testing.T) {
	p := NewPackager("railcar", "1.2.3", t.TempDir(), t.TempDir(), nil, false)

	_, err := p.Package(context.Background(), build.Result{
		Target: darwinTarget(),
		Status: build.StatusFailed,
	})
	assert.Error(t, err)
}

func TestTarGzEntryIsExecutableWithBareName(t *testing.T) {
	bin := writeFakeBinary(t, "payload")
	out := filepath.Join(t.TempDir(), "a.tar.gz")

	require.NoError(t, writeTarGz(out, bin, "railcar"))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	tr := tar.NewReader(gz)

	hdr, err := tr.Next()
	require.NoError(t, err)
	assert.Equal(t, "railcar", hdr.Name)
	assert.Equal(t, int64(0o755), hdr.Mode)

	data, err := io.ReadAll(tr)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	_, err = tr.Next()
	assert.Equal(t, io.EOF, err)
}

func TestArchivesAreDeterministic(t *testing.T) {
	bin := writeFakeBinary(t, "same bytes every time")

	first := filepath.Join(t.TempDir(), "a.tar.gz")
	second := filepath.Join(t.TempDir(), "b.tar.gz")
	require.NoError(t, writeTarGz(first, bin, "railcar"))
	require.NoError(t, writeTarGz(second, bin, "railcar"))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	firstZip := filepath.Join(t.TempDir(), "a.zip")
	secondZip := filepath.Join(t.TempDir(), "b.zip")
	require.NoError(t, writeZip(firstZip, bin, "railcar"))
	require.NoError(t, writeZip(secondZip, bin, "railcar"))

	az, err := os.ReadFile(firstZip)
	require.NoError(t, err)
	bz, err := os.ReadFile(secondZip)
	require.NoError(t, err)
	assert.Equal(t, az, bz)
}
