package fetchers

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// configureClient configures client that intercepts ALL requests and forwards them into the specified handler.
func configureClient(t *testing.T, handleFunc http.Handler) *http.Client {
	t.Helper()
	srv := httptest.NewTLSServer(handleFunc)

	// Configuring so that all the request go into our handler.
	return &http.Client{
		Transport: &http.Transport{
			DialContext: func(_ context.Context, network, _ string) (net.Conn, error) {
				return net.Dial(network, srv.Listener.Addr().String())
			},
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
}

func TestGitHubFetcher_RecipeContent(t *testing.T) {
	cl := configureClient(t, http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		_, _ = rw.Write([]byte(`{
			"name": "recipe.cfg",
			"path": "recipes/gcc/recipe.cfg",
			"content": "[DEFAULT]\nversion = 1.0_>=\ntoolchain = goolf_>=2016a"
		}`))
	}))

	expected := "[DEFAULT]\nversion = 1.0_>=\ntoolchain = goolf_>=2016a"

	fetcher := NewGitHubFetcher(cl, "buildhub", "recipes", "v2.1")
	content, err := fetcher.FileContent(context.Background(), "recipes/gcc/recipe.cfg")
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != expected {
		t.Errorf("expected recipe content %q, got %q", expected, string(content))
	}
}

func TestGitHubFetcher_HttpNotFound(t *testing.T) {
	cl := configureClient(t, http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusNotFound)
		_, _ = rw.Write([]byte(`{
			"message": "Not Found",
			"documentation_url": "https://docs.github.com/rest/reference/repos#get-repository-content"
		  }`))
	}))

	fetcher := NewGitHubFetcher(cl, "buildhub", "recipes", "")
	_, err := fetcher.FileContent(context.Background(), "recipes/no-such/recipe.cfg")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound on missing recipe, got '%v'", err)
	}
}

func TestGitHubFetcher_DirectoryPath(t *testing.T) {
	cl := configureClient(t, http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		_, _ = rw.Write([]byte(`[
			{
			  "name": "recipe.cfg",
			  "path": "recipes/gcc/recipe.cfg",
			  "sha": "4f2d1c9ab830e1c32f74a09d1f5cbf07d6a2e45b",
			  "url": "https://api.github.com/repos/buildhub/recipes/contents/recipes/gcc/recipe.cfg?ref=master"
			},
			{
			  "name": "toolchains.yaml",
			  "path": "recipes/toolchains.yaml",
			  "sha": "9b70ac21ce6de84713ff04be1fd30a521ea848dd",
			  "url": "https://api.github.com/repos/buildhub/recipes/contents/recipes/toolchains.yaml?ref=master"
			}
		  ]`))
	}))

	fetcher := NewGitHubFetcher(cl, "buildhub", "recipes", "")
	_, err := fetcher.FileContent(context.Background(), "recipes")
	if err == nil || !strings.Contains(err.Error(), "is a directory") {
		t.Errorf("expected directory error on non-file path, got '%v'", err)
	}
}

func TestGitHubFetcher_TransportError(t *testing.T) {
	// No response reaches the client at all; the error must surface
	// without being mistaken for a missing file.
	cl := &http.Client{
		Transport: &http.Transport{
			DialContext: func(_ context.Context, _, _ string) (net.Conn, error) {
				return nil, errors.New("no route to host")
			},
		},
	}

	fetcher := NewGitHubFetcher(cl, "buildhub", "recipes", "")
	_, err := fetcher.FileContent(context.Background(), "recipes/gcc/recipe.cfg")
	if err == nil {
		t.Fatal("expected error on transport failure, got none")
	}
	if errors.Is(err, ErrFileNotFound) {
		t.Errorf("transport failure misreported as missing file: %v", err)
	}
}
