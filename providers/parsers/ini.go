package parsers

import (
	"context"
	"fmt"

	"github.com/go-ini/ini"

	"github.com/buildhub/buildhub-core/providers/fetchers"
)

// NewINIParser constructs a recipe parser for INI-style section syntax.
// If 'filename' parameter is an empty string - 'recipe.cfg' will be
// used instead.
func NewINIParser(fetcher fetchers.FileFetcher, filename string) RecipeParser {
	if filename == "" {
		return &INIParser{fetcher: fetcher, SourceName: "recipe.cfg"}
	}
	return &INIParser{fetcher: fetcher, SourceName: filename}
}

// INIParser represents concrete INI recipe parser implementation.
type INIParser struct {
	fetcher fetchers.FileFetcher
	// SourceName is the source filename (e.g. 'recipe.cfg')
	SourceName string
}

// Tree method returns the recipe's configuration tree.
func (p INIParser) Tree(ctx context.Context) (*ConfigTree, error) {
	b, err := p.fetcher.FileContent(ctx, p.SourceName)
	if err != nil {
		if err == fetchers.ErrFileNotFound {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("unable to fetch recipe %q from the source: %w", p.SourceName, err)
	}
	return ParseTree(b)
}

// ParseTree contains the recipe text parsing logic. Section order is
// preserved; the DEFAULT section is included only when it carries keys,
// so recipes without recipe-wide declarations resolve with none.
func ParseTree(data []byte) (*ConfigTree, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse recipe content: %w", err)
	}

	tree := &ConfigTree{}
	for _, s := range f.Sections() {
		if s.Name() == ini.DefaultSection && len(s.Keys()) == 0 {
			continue
		}
		tree.Sections = append(tree.Sections, Section{
			Name:    s.Name(),
			Options: s.KeysHash(),
		})
	}
	return tree, nil
}
