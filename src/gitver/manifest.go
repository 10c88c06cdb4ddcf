package gitver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Manifest is the product identity declared by the repo's build
// manifest (Cargo.toml). Used to cross-check the tag-derived version
// and to default the product name.
type Manifest struct {
	Name    string
	Version string
}

// cargoManifest mirrors the [package] table of a Cargo.toml.
type cargoManifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
}

// ReadManifest loads the product manifest from rootDir.
// Returns (nil, nil) when the repo has no manifest — the manifest is a
// cross-check, not a requirement.
func ReadManifest(rootDir string) (*Manifest, error) {
	path := filepath.Join(rootDir, "Cargo.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var m cargoManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if m.Package.Name == "" {
		return nil, nil
	}

	return &Manifest{
		Name:    m.Package.Name,
		Version: m.Package.Version,
	}, nil
}

// CheckManifest compares the tag-derived version with the manifest
// version. Returns a human-readable warning when they disagree, empty
// string otherwise.
func CheckManifest(m *Manifest, v *VersionInfo) string {
	if m == nil || m.Version == "" || v == nil {
		return ""
	}
	if m.Version != v.Version {
		return fmt.Sprintf("tag version %s disagrees with %s manifest version %s",
			v.Version, m.Name, m.Version)
	}
	return ""
}
