package fetchers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v33/github"
)

// GitHubFetcher serves recipe and registry files straight from a GitHub
// repository tree. Owner and Repo represent '{owner}/{repo}' notation;
// Ref pins the tree to a commit hash, branch or tag (empty means the
// repository default branch).
type GitHubFetcher struct {
	Owner  string
	Repo   string
	Ref    string
	client *github.Client
}

// NewGitHubFetcher constructs a GitHubFetcher over the given repository.
// httpClient can carry OAuth2 or BasicAuth transport for increased API
// rate limits; nil selects the default client.
func NewGitHubFetcher(httpClient *http.Client, owner, repo, ref string) FileFetcher {
	return &GitHubFetcher{
		Owner:  owner,
		Repo:   repo,
		Ref:    ref,
		client: github.NewClient(httpClient),
	}
}

// FileContent fetches the file at the repository-root-relative path.
// Missing files report ErrFileNotFound; a path naming a directory is an
// error, since recipes and registries are single files.
func (f GitHubFetcher) FileContent(ctx context.Context, path string) ([]byte, error) {
	opts := github.RepositoryContentGetOptions{
		Ref: f.Ref,
	}

	fc, dc, resp, err := f.client.Repositories.GetContents(ctx, f.Owner, f.Repo, path, &opts)
	if err != nil {
		// resp is nil when the request never reached the API.
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("unable to load %q from github: %w", path, err)
	}

	if len(dc) != 0 {
		return nil, fmt.Errorf("%q is a directory, not a recipe file", path)
	}

	c, err := fc.GetContent()

	return []byte(c), err
}
