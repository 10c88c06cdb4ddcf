package forge

import "fmt"

// New creates a forge client for the given provider.
func New(provider Provider, baseURL, project string) (Forge, error) {
	switch provider {
	case GitHub:
		return NewGitHub(baseURL, project), nil
	case GitLab:
		return NewGitLab(baseURL, project), nil
	case Gitea:
		return NewGitea(baseURL, project), nil
	default:
		return nil, fmt.Errorf("unknown forge provider: %s", provider)
	}
}
