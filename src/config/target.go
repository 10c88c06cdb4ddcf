package config

// TargetConfig defines one entry of the build matrix: a platform /
// architecture / build-flag combination to compile and package for.
// The matrix is fixed at pipeline-definition time — targets are copied
// into the run and never mutated.
type TargetConfig struct {
	// ID is the unique target identifier, embedded in artifact file
	// names (e.g. "x86_64-unknown-linux-musl").
	ID string `yaml:"id"`

	// OS is the host class: linux, darwin, windows.
	// It drives archive selection — windows targets are zip-class.
	OS string `yaml:"os"`

	// Arch is the CPU architecture (amd64, arm64).
	Arch string `yaml:"arch"`

	// Env holds extra toolchain environment (cross-compilation
	// toggles, linker overrides).
	Env map[string]string `yaml:"env,omitempty"`

	// Flags are extra arguments appended to the toolchain command.
	Flags []string `yaml:"flags,omitempty"`

	// Deb enables the secondary OS-native package for this target.
	Deb bool `yaml:"deb,omitempty"`

	// DebArch is the fixed architecture label used in the .deb file
	// name. Required when Deb is set.
	DebArch string `yaml:"deb_arch,omitempty"`
}

// ZipClass reports whether this target gets a zip archive in addition
// to the tar.gz every target receives.
func (t TargetConfig) ZipClass() bool {
	return t.OS == "windows"
}

// BinaryName returns the platform-correct binary file name for a product.
func (t TargetConfig) BinaryName(product string) string {
	if t.OS == "windows" {
		return product + ".exe"
	}
	return product
}

// DefaultTargets returns the built-in release matrix, in publish order.
func DefaultTargets() []TargetConfig {
	return []TargetConfig{
		{
			ID:   "aarch64-apple-darwin",
			OS:   "darwin",
			Arch: "arm64",
		},
		{
			ID:   "x86_64-apple-darwin",
			OS:   "darwin",
			Arch: "amd64",
		},
		{
			ID:      "x86_64-unknown-linux-musl",
			OS:      "linux",
			Arch:    "amd64",
			Env:     map[string]string{"CC": "musl-gcc"},
			Deb:     true,
			DebArch: "amd64",
		},
		{
			ID:   "aarch64-unknown-linux-musl",
			OS:   "linux",
			Arch: "arm64",
			Env:  map[string]string{"CC": "aarch64-linux-musl-gcc"},
		},
		{
			ID:   "x86_64-pc-windows-msvc",
			OS:   "windows",
			Arch: "amd64",
		},
		{
			ID:   "aarch64-pc-windows-msvc",
			OS:   "windows",
			Arch: "arm64",
		},
	}
}
