package release

import (
	"context"
	"os"

	"github.com/zricethezav/gitleaks/v8/detect"

	"github.com/sofmeright/shipway/src/config"
)

// ScanFinding is one secret hit in a packaged artifact.
type ScanFinding struct {
	File        string
	Line        int
	RuleID      string
	Description string
}

// ScanArtifacts runs a secret scan over the files about to be uploaded.
// Whether findings block publication is the caller's policy decision.
func ScanArtifacts(ctx context.Context, cfg config.ScanConfig, files []string) ([]ScanFinding, error) {
	detector, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, err
	}

	var findings []ScanFinding
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return findings, err
		}

		if cfg.MaxFileSize > 0 {
			if info, statErr := os.Stat(file); statErr == nil && info.Size() > cfg.MaxFileSize {
				continue
			}
		}

		data, err := os.ReadFile(file)
		if err != nil {
			return findings, err
		}

		for _, h := range detector.DetectBytes(data) {
			findings = append(findings, ScanFinding{
				File:        file,
				Line:        h.StartLine + 1, // gitleaks is 0-indexed
				RuleID:      h.RuleID,
				Description: h.Description,
			})
		}
	}

	return findings, nil
}
