package forge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// GiteaForge implements the Forge interface for Gitea and Forgejo instances.
type GiteaForge struct {
	BaseURL string // e.g. "https://codeberg.org"
	Token   string
	Owner   string
	Repo    string
}

// NewGitea creates a Gitea/Forgejo forge client.
// Token is resolved from env: GITEA_TOKEN, FORGEJO_TOKEN.
// Owner/Repo is resolved from env unless project ("owner/repo") is
// given: CI_REPO (Woodpecker CI), GITHUB_REPOSITORY (Gitea Actions
// uses GitHub-compatible vars).
func NewGitea(baseURL, project string) *GiteaForge {
	token := os.Getenv("GITEA_TOKEN")
	if token == "" {
		token = os.Getenv("FORGEJO_TOKEN")
	}

	if project == "" {
		project = os.Getenv("CI_REPO")
	}
	if project == "" {
		project = os.Getenv("GITHUB_REPOSITORY")
	}
	var owner, repo string
	if idx := strings.Index(project, "/"); idx >= 0 {
		owner = project[:idx]
		repo = project[idx+1:]
	}

	return &GiteaForge{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Owner:   owner,
		Repo:    repo,
	}
}

func (g *GiteaForge) Provider() Provider { return Gitea }

func (g *GiteaForge) apiURL(path string) string {
	return fmt.Sprintf("%s/api/v1/repos/%s/%s%s", g.BaseURL, g.Owner, g.Repo, path)
}

func (g *GiteaForge) doJSON(ctx context.Context, method, url string, body interface{}, result interface{}) error {
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
	req.Header.Set("Authorization", "token "+g.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("Gitea API %s %s: %d %s", method, url, resp.StatusCode, string(respBody))
	}

	if result != nil {
		return json.Unmarshal(respBody, result)
	}
	return nil
}

func (g *GiteaForge) CreateDraft(ctx context.Context, opts DraftOptions) (*Release, error) {
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

func (g *GiteaForge) GetRelease(ctx context.Context, tag string) (*Release, error) {
	// The by-tag endpoint does not serve drafts.
	var rel struct {
		ID      int    `json:"id"`
		HTMLURL string `json:"html_url"`
		Draft   bool   `json:"draft"`
	}
	err := g.doJSON(ctx, "GET", g.apiURL("/releases/tags/"+tag), nil, &rel)
	if err == nil {
		return &Release{ID: fmt.Sprintf("%d", rel.ID), URL: rel.HTMLURL, Draft: rel.Draft}, nil
	}
	if err != errNotFound {
		return nil, err
	}

	var releases []struct {
		ID      int    `json:"id"`
		TagName string `json:"tag_name"`
		HTMLURL string `json:"html_url"`
		Draft   bool   `json:"draft"`
	}
	listErr := g.doJSON(ctx, "GET", g.apiURL("/releases?limit=100"), nil, &releases)
	if listErr == errNotFound {
		return nil, nil
	}
	if listErr != nil {
		return nil, listErr
	}
	for _, r := range releases {
		if r.TagName == tag {
			return &Release{ID: fmt.Sprintf("%d", r.ID), URL: r.HTMLURL, Draft: r.Draft}, nil
		}
	}
	return nil, nil
}

func (g *GiteaForge) UploadAsset(ctx context.Context, releaseID string, asset Asset) error {
	f, err := os.Open(asset.FilePath)
	if err != nil {
		return err
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("attachment", asset.Name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	uploadURL := g.apiURL("/releases/" + releaseID + "/assets?name=" + url.QueryEscape(asset.Name))
	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "token "+g.Token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Gitea upload asset: %d %s", resp.StatusCode, string(body))
	}
	return nil
}

func (g *GiteaForge) SetPublished(ctx context.Context, releaseID string) error {
	payload := map[string]interface{}{"draft": false}
	return g.doJSON(ctx, "PATCH", g.apiURL("/releases/"+releaseID), payload, nil)
}
