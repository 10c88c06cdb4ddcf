package config

// ScanConfig controls the pre-publish secret scan of packaged artifacts.
type ScanConfig struct {
	Enabled bool `yaml:"enabled"`

	// Block turns a finding into a publish blocker instead of a warning.
	Block bool `yaml:"block"`

	// MaxFileSize skips files larger than this many bytes (0 = no limit).
	MaxFileSize int64 `yaml:"max_file_size,omitempty"`
}

// DefaultScanConfig enables scanning in warn-only mode.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Enabled:     true,
		Block:       false,
		MaxFileSize: 64 << 20,
	}
}
