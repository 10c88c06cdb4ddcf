package gitver

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
)

// RemoteURL returns the origin remote URL of the repo at rootDir.
func RemoteURL(rootDir string) (string, error) {
	repo, err := git.PlainOpen(rootDir)
	if err != nil {
		return "", fmt.Errorf("opening repo: %w", err)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("resolving origin remote: %w", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("origin remote has no URL")
	}
	return urls[0], nil
}

// ProjectPath extracts the "org/repo" project path from a git remote
// URL. Handles SSH (git@host:org/repo.git) and HTTPS forms.
func ProjectPath(remoteURL string) string {
	url := remoteURL

	// SSH format: git@host:org/repo.git
	if idx := strings.Index(url, ":"); idx >= 0 && !strings.HasPrefix(url, "http") {
		return strings.TrimSuffix(url[idx+1:], ".git")
	}

	// HTTPS format: https://host/org/repo.git
	for _, prefix := range []string{"https://", "http://"} {
		if strings.HasPrefix(url, prefix) {
			withoutScheme := strings.TrimPrefix(url, prefix)
			if slashIdx := strings.Index(withoutScheme, "/"); slashIdx >= 0 {
				return strings.TrimSuffix(withoutScheme[slashIdx+1:], ".git")
			}
		}
	}

	return ""
}
