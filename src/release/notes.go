// Package release implements the release gate, the per-target pipeline
// scheduler, and post-publish distribution fanout.
package release

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Commit is a parsed conventional commit.
type Commit struct {
	Hash    string
	Type    string // feat, fix, chore, ...
	Summary string
}

var conventionalRe = regexp.MustCompile(`^(\w+)(?:\([^)]+\))?!?\s*:\s*(.+)`)

// noteCategories defines the display order for release notes.
var noteCategories = []struct {
	prefix string
	title  string
}{
	{"feat", "Features"},
	{"fix", "Bug Fixes"},
	{"perf", "Performance"},
	{"docs", "Documentation"},
	{"chore", "Maintenance"},
}

// GenerateNotes produces markdown release notes from the git log
// between the previous tag and the release tag. Commits without a
// conventional prefix, or with a type outside the category table,
// land under "Other Changes".
func GenerateNotes(repoDir, tag string) (string, error) {
	rangeSpec := tag
	if prev := previousTag(repoDir, tag); prev != "" {
		rangeSpec = fmt.Sprintf("%s..%s", prev, tag)
	}

	out, err := gitLog(repoDir, rangeSpec)
	if err != nil {
		return "", fmt.Errorf("reading git log for %s: %w", rangeSpec, err)
	}

	known := make(map[string]bool, len(noteCategories))
	for _, cat := range noteCategories {
		known[cat.prefix] = true
	}

	byType := map[string][]Commit{}
	var other []Commit
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		hash, msg, _ := strings.Cut(line, " ")
		c := Commit{Hash: hash, Summary: msg}
		if m := conventionalRe.FindStringSubmatch(msg); m != nil {
			c.Type = m[1]
			c.Summary = m[2]
		}
		if known[c.Type] {
			byType[c.Type] = append(byType[c.Type], c)
		} else {
			other = append(other, c)
		}
	}

	var b strings.Builder
	for _, cat := range noteCategories {
		commits := byType[cat.prefix]
		if len(commits) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s\n\n", cat.title)
		for _, c := range commits {
			fmt.Fprintf(&b, "- %s (%s)\n", c.Summary, c.Hash)
		}
		b.WriteString("\n")
	}
	if len(other) > 0 {
		b.WriteString("### Other Changes\n\n")
		for _, c := range other {
			fmt.Fprintf(&b, "- %s (%s)\n", c.Summary, c.Hash)
		}
	}

	return strings.TrimSpace(b.String()), nil
}

// previousTag returns the tag preceding the release tag, empty when
// the release tag is the first.
func previousTag(repoDir, tag string) string {
	cmd := exec.Command("git", "describe", "--tags", "--abbrev=0", tag+"^")
	cmd.Dir = repoDir
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func gitLog(repoDir, rangeSpec string) (string, error) {
	cmd := exec.Command("git", "log", "--pretty=format:%h %s", rangeSpec)
	cmd.Dir = repoDir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
