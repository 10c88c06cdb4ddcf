// Package pack turns one successful build into its distributable
// forms. Which forms a target gets is a pure function of target
// metadata — never of the ambient environment — so packaging stays
// deterministic and testable on any OS.
package pack

import (
	"fmt"

	"github.com/sofmeright/shipway/src/config"
)

// ActionKind identifies one packaging step.
type ActionKind string

const (
	ActionStrip ActionKind = "strip" // best effort, never fails the leg
	ActionZip   ActionKind = "zip"
	ActionTarGz ActionKind = "targz"
	ActionDeb   ActionKind = "deb"
)

// Action is one planned packaging step for a target.
type Action struct {
	Kind ActionKind

	// FileName is the artifact this action produces, empty for strip.
	FileName string
}

// Plan maps target metadata to the ordered packaging actions for one
// release version:
//
//   - every target gets a gzip-compressed tar archive
//   - zip-class targets (windows) additionally get a zip
//   - targets with the deb flag additionally get an OS-native package
//
// Symbols are stripped first where the platform tooling allows it
// (darwin strip tends to break signed binaries, so darwin is skipped).
func Plan(product, version string, target config.TargetConfig) []Action {
	var actions []Action

	if target.OS != "darwin" {
		actions = append(actions, Action{Kind: ActionStrip})
	}

	if target.ZipClass() {
		actions = append(actions, Action{
			Kind:     ActionZip,
			FileName: ArchiveName(product, version, target.ID, "zip"),
		})
	}

	actions = append(actions, Action{
		Kind:     ActionTarGz,
		FileName: ArchiveName(product, version, target.ID, "tar.gz"),
	})

	if target.Deb {
		actions = append(actions, Action{
			Kind:     ActionDeb,
			FileName: DebName(product, version, target.DebArch),
		})
	}

	return actions
}

// ArchiveName builds the canonical artifact file name. Version and
// target ID are embedded for uniqueness and traceability.
func ArchiveName(product, version, targetID, ext string) string {
	return fmt.Sprintf("%s-%s-%s.%s", product, version, targetID, ext)
}

// DebName builds the OS-native package file name with the target's
// fixed architecture label.
func DebName(product, version, debArch string) string {
	return fmt.Sprintf("%s-%s-%s.deb", product, version, debArch)
}
