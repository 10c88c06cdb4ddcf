package config

// ToolchainConfig describes the external compiler invocation. Shipway
// does not know how binaries are built — it runs the configured command
// once per target and collects the produced binary.
type ToolchainConfig struct {
	// Command is the build command template. Placeholders resolved
	// per target: {target}, {os}, {arch}.
	Command []string `yaml:"command"`

	// Output is the path template of the binary the command produces,
	// resolved with the same placeholders plus {product} and {bin}
	// ({bin} includes the .exe suffix on windows).
	Output string `yaml:"output"`

	// DebCommand is the OS-native package build invocation for
	// targets that request one. Placeholders: {target}, {os}, {arch},
	// {version}, {out} (the destination .deb path).
	DebCommand []string `yaml:"deb_command,omitempty"`

	// Jobs bounds how many targets compile concurrently.
	// Zero means one per CPU.
	Jobs int `yaml:"jobs,omitempty"`
}

// DefaultToolchainConfig returns a cargo-style cross build setup.
func DefaultToolchainConfig() ToolchainConfig {
	return ToolchainConfig{
		Command:    []string{"cargo", "build", "--release", "--target", "{target}"},
		Output:     "target/{target}/release/{bin}",
		DebCommand: []string{"cargo-deb", "--no-build", "--target", "{target}", "--output", "{out}"},
	}
}
