package forge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// GitHubForge implements the Forge interface for GitHub and GitHub Enterprise.
type GitHubForge struct {
	BaseURL string // "https://api.github.com" or "https://ghes.example.com/api/v3"
	Token   string
	Owner   string
	Repo    string
}

// NewGitHub creates a GitHub forge client.
// Token is resolved from env: GITHUB_TOKEN, GH_TOKEN.
// Owner/Repo is resolved from env: GITHUB_REPOSITORY (owner/repo),
// unless project ("owner/repo") is given.
func NewGitHub(baseURL, project string) *GitHubForge {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		token = os.Getenv("GH_TOKEN")
	}

	if project == "" {
		project = os.Getenv("GITHUB_REPOSITORY")
	}
	var owner, repo string
	if idx := strings.Index(project, "/"); idx >= 0 {
		owner = project[:idx]
		repo = project[idx+1:]
	}

	apiBase := "https://api.github.com"
	if baseURL != "" && !strings.Contains(baseURL, "github.com") {
		// GitHub Enterprise Server
		apiBase = strings.TrimRight(baseURL, "/") + "/api/v3"
	}

	return &GitHubForge{
		BaseURL: apiBase,
		Token:   token,
		Owner:   owner,
		Repo:    repo,
	}
}

func (g *GitHubForge) Provider() Provider { return GitHub }

func (g *GitHubForge) apiURL(path string) string {
	return fmt.Sprintf("%s/repos/%s/%s%s", g.BaseURL, g.Owner, g.Repo, path)
}

// uploadBaseURL returns the upload API base for asset uploads.
// github.com uses uploads.github.com; GHES uses {host}/api/uploads.
func (g *GitHubForge) uploadBaseURL() string {
	if strings.Contains(g.BaseURL, "api.github.com") {
		return "https://uploads.github.com"
	}
	return strings.Replace(g.BaseURL, "/api/v3", "/api/uploads", 1)
}

func (g *GitHubForge) doJSON(ctx context.Context, method, url string, body interface{}, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("GitHub API %s %s: %d %s", method, url, resp.StatusCode, string(respBody))
	}

	if result != nil {
		return json.Unmarshal(respBody, result)
	}
	return nil
}

func (g *GitHubForge) CreateDraft(ctx context.Context, opts DraftOptions) (*Release, error) {
	payload := map[string]interface{}{
		"tag_name":   opts.TagName,
		"name":       opts.Name,
		"body":       opts.Notes,
		"draft":      true,
		"prerelease": opts.Prerelease,
	}

	var resp struct {
		ID      int    `json:"id"`
		HTMLURL string `json:"html_url"`
		Draft   bool   `json:"draft"`
	}

	if err := g.doJSON(ctx, "POST", g.apiURL("/releases"), payload, &resp); err != nil {
		return nil, err
	}

	return &Release{
		ID:    fmt.Sprintf("%d", resp.ID),
		URL:   resp.HTMLURL,
		Draft: resp.Draft,
	}, nil
}

func (g *GitHubForge) GetRelease(ctx context.Context, tag string) (*Release, error) {
	// Published releases are addressable by tag.
	var rel struct {
		ID      int    `json:"id"`
		HTMLURL string `json:"html_url"`
		Draft   bool   `json:"draft"`
	}
	err := g.doJSON(ctx, "GET", g.apiURL("/releases/tags/"+tag), nil, &rel)
	if err == nil {
		return &Release{ID: fmt.Sprintf("%d", rel.ID), URL: rel.HTMLURL, Draft: rel.Draft}, nil
	}

	// Drafts are not addressable by tag — scan the release list.
	var releases []struct {
		ID      int    `json:"id"`
		TagName string `json:"tag_name"`
		HTMLURL string `json:"html_url"`
		Draft   bool   `json:"draft"`
	}
	if listErr := g.doJSON(ctx, "GET", g.apiURL("/releases?per_page=100"), nil, &releases); listErr != nil {
		return nil, listErr
	}
	for _, r := range releases {
		if r.TagName == tag {
			return &Release{ID: fmt.Sprintf("%d", r.ID), URL: r.HTMLURL, Draft: r.Draft}, nil
		}
	}
	return nil, nil
}

func (g *GitHubForge) UploadAsset(ctx context.Context, releaseID string, asset Asset) error {
	f, err := os.Open(asset.FilePath)
	if err != nil {
		return err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return err
	}

	uploadURL := fmt.Sprintf("%s/repos/%s/%s/releases/%s/assets?name=%s",
		g.uploadBaseURL(), g.Owner, g.Repo, releaseID, asset.Name)

	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, f)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.Token)
	req.ContentLength = stat.Size()

	mimeType := asset.MIMEType
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(asset.FilePath))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
	}
	req.Header.Set("Content-Type", mimeType)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GitHub upload asset: %d %s", resp.StatusCode, string(body))
	}
	return nil
}

func (g *GitHubForge) SetPublished(ctx context.Context, releaseID string) error {
	payload := map[string]interface{}{"draft": false}
	return g.doJSON(ctx, "PATCH", g.apiURL("/releases/"+releaseID), payload, nil)
}
