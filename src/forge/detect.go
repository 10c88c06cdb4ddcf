package forge

import "strings"

// DetectProvider determines the forge platform from a git remote URL.
func DetectProvider(remoteURL string) Provider {
	lower := strings.ToLower(remoteURL)

	switch {
	case strings.Contains(lower, "github.com"):
		return GitHub
	case strings.Contains(lower, "gitlab"):
		return GitLab
	case strings.Contains(lower, "gitea"), strings.Contains(lower, "codeberg"), strings.Contains(lower, "forgejo"):
		return Gitea
	default:
		return Unknown
	}
}

// BaseURL extracts the forge base URL from a git remote URL.
// Handles SSH (git@host:path) and HTTPS (https://host/path) formats.
func BaseURL(remoteURL string) string {
	url := remoteURL

	// SSH format: git@host:org/repo.git
	if strings.Contains(url, "@") && !strings.HasPrefix(url, "http") {
		parts := strings.SplitN(url, "@", 2)
		if len(parts) == 2 {
			hostPath := parts[1]
			if colonIdx := strings.Index(hostPath, ":"); colonIdx >= 0 {
				return "https://" + hostPath[:colonIdx]
			}
		}
	}

	// HTTPS format: https://host/org/repo.git
	for _, scheme := range []string{"https://", "http://"} {
		if strings.HasPrefix(url, scheme) {
			withoutScheme := strings.TrimPrefix(url, scheme)
			if slashIdx := strings.Index(withoutScheme, "/"); slashIdx >= 0 {
				return scheme + withoutScheme[:slashIdx]
			}
			return url
		}
	}

	return url
}
