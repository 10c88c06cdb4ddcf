package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAssetFile(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("artifact bytes"), 0o644))
	return path
}

func TestGitLabUploadAssetLinksInstancePath(t *testing.T) {
	var linked map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/uploads"):
			fmt.Fprint(w, `{"url":"/uploads/5f9d/app-1.0.0.tar.gz","full_path":"/group/proj/uploads/5f9d/app-1.0.0.tar.gz"}`)
		case strings.HasSuffix(r.URL.Path, "/assets/links"):
			require.NoError(t, json.NewDecoder(r.Body).Decode(&linked))
			fmt.Fprint(w, `{}`)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	g := &GitLabForge{BaseURL: srv.URL, Token: "tok", ProjectID: "group/proj"}
	err := g.UploadAsset(context.Background(), "v1.0.0", Asset{
		Name:     "app-1.0.0.tar.gz",
		FilePath: writeAssetFile(t, "app-1.0.0.tar.gz"),
	})
	require.NoError(t, err)

	require.NotNil(t, linked)
	assert.Equal(t, "app-1.0.0.tar.gz", linked["name"])
	// The uploads API returns a project-relative "url"; the link must
	// carry the instance-relative path or it resolves nowhere.
	assert.Equal(t, srv.URL+"/group/proj/uploads/5f9d/app-1.0.0.tar.gz", linked["url"])
}

func TestGitLabUploadAssetFallsBackToProjectPath(t *testing.T) {
	var linked map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/uploads"):
			fmt.Fprint(w, `{"url":"/uploads/5f9d/app-1.0.0.zip"}`)
		case strings.HasSuffix(r.URL.Path, "/assets/links"):
			require.NoError(t, json.NewDecoder(r.Body).Decode(&linked))
			fmt.Fprint(w, `{}`)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	g := &GitLabForge{BaseURL: srv.URL, Token: "tok", ProjectID: "group/proj"}
	err := g.UploadAsset(context.Background(), "v1.0.0", Asset{
		Name:     "app-1.0.0.zip",
		FilePath: writeAssetFile(t, "app-1.0.0.zip"),
	})
	require.NoError(t, err)

	require.NotNil(t, linked)
	assert.Equal(t, srv.URL+"/group/proj/uploads/5f9d/app-1.0.0.zip", linked["url"])
}
