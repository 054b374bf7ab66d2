package buildhub

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/buildhub/buildhub-core/providers/fetchers"
	"github.com/buildhub/buildhub-core/providers/parsers"
	"github.com/buildhub/buildhub-core/providers/toolchain"
)

// gitRepoRgx is used to parse repository info from GIT-compatible address string.
//
// Examples matching the regexp:
//
//	'git@myhostname:vendor/reponame.git'
//	'https://myhostname/vendor/reponame.git' and so on...
//
// Groups:
//
//	1: protocol (e.g. 'https://' or 'git@')
//	6: hostname (e.g. 'github.com')
//	8: full repo name (e.g. 'vendor/reponame')
var gitRepoRgx string = `^(((git@)|(git:|ssh:|(http[s]?:\/\/))))([\w\.@\\-~]+)(:|\/)([\w\.@\:\/\-~]+)(\.git)(\/-)?`

// gitRepoRgxCompiled is compiled from gitRepoRgx.
var gitRepoRgxCompiled *regexp.Regexp

func init() {
	gitRepoRgxCompiled = regexp.MustCompile(gitRepoRgx)
}

// RecipeSource represents abstraction over build recipe storage and
// yields the recipe's configuration tree.
type RecipeSource interface {
	// Tree returns the recipe's section tree in source order.
	Tree(ctx context.Context) (*parsers.ConfigTree, error)
}

// NewMemorySource builds a source over in-memory recipe files, useful
// for testing or embedding. An empty filename selects the parser's
// default recipe name.
func NewMemorySource(files map[string][]byte, filename string) RecipeSource {
	return &MemoryRecipeSource{
		parser: parsers.NewINIParser(fetchers.ByteMapFetcher{Files: files}, filename),
	}
}

// MemoryRecipeSource serves recipes from an in-memory file map.
type MemoryRecipeSource struct {
	parser parsers.RecipeParser
}

// Tree returns the recipe's section tree in source order.
func (s MemoryRecipeSource) Tree(ctx context.Context) (*parsers.ConfigTree, error) {
	return s.parser.Tree(ctx)
}

// gitRepo represents basic repository information.
type gitRepo struct {
	host, vendor, repo string
}

// supGitSrcs - supported git sources.
var supGitSrcs = []string{"github.com"}

// NewGitSource constructs new Git RecipeSource implementation.
//
// SHA can both refer to commit hash/branch/tag.
//
// You can pass specific signed httpClient with any information you want
// the requests go with, for example OAuth2/BasicAuth information to
// github API for increased rate limits and so on.
//
// repoAddr is your repository address (e.g. 'git@myhostname:vendor/reponame.git')
func NewGitSource(httpClient *http.Client, repoAddr, sha, filename string) (RecipeSource, error) {
	repoData, err := parseGitAddr(repoAddr)
	if err != nil {
		return nil, err
	}
	fetcher := fetchers.NewGitHubFetcher(httpClient, repoData.vendor, repoData.repo, sha)
	return &GitRecipeSource{parser: parsers.NewINIParser(fetcher, filename)}, nil
}

// GitRecipeSource represents Git RecipeSource implementation, capable
// of fetching build recipes straight from Git repositories.
type GitRecipeSource struct {
	parser parsers.RecipeParser
}

// Tree returns the recipe's section tree in source order.
func (s GitRecipeSource) Tree(ctx context.Context) (*parsers.ConfigTree, error) {
	return s.parser.Tree(ctx)
}

// ResolveRecipe fetches a recipe from the source and resolves it
// against the registry in one pass.
func ResolveRecipe(ctx context.Context, src RecipeSource, reg toolchain.Registry, log hclog.Logger) (*Resolution, error) {
	tree, err := src.Tree(ctx)
	if err != nil {
		return nil, err
	}
	return NewResolver(reg, log).Resolve(tree)
}

// parseGitAddr - helper to parse information from git repository address string
func parseGitAddr(addr string) (*gitRepo, error) {
	matches := gitRepoRgxCompiled.FindStringSubmatch(addr)
	if matches == nil || matches[6] == "" || matches[8] == "" {
		return nil, fmt.Errorf("unsupported git repository format %q", addr)
	}
	hostName, repoName := matches[6], matches[8]

	if !gitHostSupported(hostName) {
		return nil, fmt.Errorf("git source %q is not supported", hostName)
	}

	if !strings.Contains(repoName, "/") {
		return nil, fmt.Errorf("unable to parse vendor from name %q", repoName)
	}
	repoNameParts := strings.Split(repoName, "/")

	return &gitRepo{host: hostName, vendor: repoNameParts[0], repo: repoNameParts[1]}, nil
}

// gitHostSupported - helper to check git source support status
func gitHostSupported(host string) bool {
	for _, v := range supGitSrcs {
		if v == host {
			return true
		}
	}
	return false
}
