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
	"path/filepath"
	"time"
)

// GitLabForge implements the Forge interface for GitLab instances.
//
// GitLab has no draft flag on releases. Draft state is emulated with an
// upcoming release (released_at in the future); SetPublished rewrites
// released_at to now. Release IDs are tag names — that is how the
// GitLab release API addresses them.
type GitLabForge struct {
	BaseURL   string // e.g. "https://gitlab.example.com"
	Token     string // private token or job token
	ProjectID string // numeric ID or "group/project" path
}

// upcomingHorizon is how far in the future an emulated draft is dated.
const upcomingHorizon = 365 * 24 * time.Hour

// NewGitLab creates a GitLab forge client.
// Token is resolved from env: GITLAB_TOKEN, CI_JOB_TOKEN.
// ProjectID is resolved from env unless project is given: CI_PROJECT_ID,
// CI_PROJECT_PATH.
func NewGitLab(baseURL, project string) *GitLabForge {
	token := os.Getenv("GITLAB_TOKEN")
	if token == "" {
		token = os.Getenv("CI_JOB_TOKEN")
	}

	if project == "" {
		project = os.Getenv("CI_PROJECT_ID")
	}
	if project == "" {
		project = os.Getenv("CI_PROJECT_PATH")
	}

	return &GitLabForge{
		BaseURL:   baseURL,
		Token:     token,
		ProjectID: project,
	}
}

func (g *GitLabForge) Provider() Provider { return GitLab }

func (g *GitLabForge) apiURL(path string) string {
	return fmt.Sprintf("%s/api/v4/projects/%s%s", g.BaseURL, url.PathEscape(g.ProjectID), path)
}

func (g *GitLabForge) doJSON(ctx context.Context, method, apiURL string, body interface{}, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("PRIVATE-TOKEN", g.Token)
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
		return fmt.Errorf("GitLab API %s %s: %d %s", method, apiURL, resp.StatusCode, string(respBody))
	}

	if result != nil {
		return json.Unmarshal(respBody, result)
	}
	return nil
}

var errNotFound = fmt.Errorf("not found")

func (g *GitLabForge) CreateDraft(ctx context.Context, opts DraftOptions) (*Release, error) {
	payload := map[string]interface{}{
		"tag_name":    opts.TagName,
		"name":        opts.Name,
		"description": opts.Notes,
		"released_at": time.Now().Add(upcomingHorizon).UTC().Format(time.RFC3339),
	}

	var resp struct {
		Links struct {
			Self string `json:"self"`
		} `json:"_links"`
	}

	if err := g.doJSON(ctx, "POST", g.apiURL("/releases"), payload, &resp); err != nil {
		return nil, err
	}

	return &Release{
		ID:    opts.TagName,
		URL:   resp.Links.Self,
		Draft: true,
	}, nil
}

func (g *GitLabForge) GetRelease(ctx context.Context, tag string) (*Release, error) {
	var resp struct {
		TagName    string `json:"tag_name"`
		ReleasedAt string `json:"released_at"`
		Links      struct {
			Self string `json:"self"`
		} `json:"_links"`
	}

	err := g.doJSON(ctx, "GET", g.apiURL("/releases/"+url.PathEscape(tag)), nil, &resp)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	draft := false
	if t, parseErr := time.Parse(time.RFC3339, resp.ReleasedAt); parseErr == nil {
		draft = t.After(time.Now())
	}

	return &Release{ID: tag, URL: resp.Links.Self, Draft: draft}, nil
}

// UploadAsset uploads the file to the project uploads area, then links
// it to the release as an asset.
func (g *GitLabForge) UploadAsset(ctx context.Context, releaseID string, asset Asset) error {
	fullPath, err := g.uploadFile(ctx, asset.FilePath, asset.Name)
	if err != nil {
		return err
	}

	payload := map[string]string{
		"name": asset.Name,
		"url":  g.BaseURL + fullPath,
	}
	return g.doJSON(ctx, "POST",
		g.apiURL("/releases/"+url.PathEscape(releaseID)+"/assets/links"), payload, nil)
}

func (g *GitLabForge) SetPublished(ctx context.Context, releaseID string) error {
	payload := map[string]string{
		"released_at": time.Now().UTC().Format(time.RFC3339),
	}
	return g.doJSON(ctx, "PUT", g.apiURL("/releases/"+url.PathEscape(releaseID)), payload, nil)
}

// uploadFile posts a multipart file to the project uploads API and
// returns the instance-relative path of the stored file. The response
// "url" field is relative to the project web path and would dangle if
// joined to the instance base URL, so "full_path" is preferred and
// "url" is only a fallback, prefixed with the project path.
func (g *GitLabForge) uploadFile(ctx context.Context, filePath, name string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.apiURL("/uploads"), &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("PRIVATE-TOKEN", g.Token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("GitLab upload %s: %d %s", filepath.Base(filePath), resp.StatusCode, string(respBody))
	}

	var result struct {
		URL      string `json:"url"`
		FullPath string `json:"full_path"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	if result.FullPath != "" {
		return result.FullPath, nil
	}
	return "/" + g.ProjectID + result.URL, nil
}
