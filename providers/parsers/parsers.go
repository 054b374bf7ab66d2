/*
Package parsers turns raw build recipe configuration text into the
two-level section tree consumed by the resolver.

A recipe is a set of named sections, each carrying a flat key/value
body. The section named DEFAULT is reserved for recipe-wide version and
toolchain declarations; every other section name is a candidate
toolchain or version constraint expression.
*/
package parsers

import (
	"context"
	"errors"
)

var (
	ErrFileNotFound = errors.New("recipe file not found")
)

// DefaultSection is the reserved section name carrying recipe-wide
// declarations.
const DefaultSection = "DEFAULT"

// Section is one named block of a recipe configuration with its raw
// key/value body. The body is kept verbatim; interpreting it belongs to
// downstream consumers.
type Section struct {
	Name    string
	Options map[string]string
}

// ConfigTree is the two-level recipe configuration: sections in source
// order, each with its key/value body.
type ConfigTree struct {
	Sections []Section
}

// Section returns the named section, if present.
func (t *ConfigTree) Section(name string) (Section, bool) {
	for _, s := range t.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// RecipeParser represents basic interface for recipe parsers in this
// package.
type RecipeParser interface {
	// Tree has to return the recipe's configuration tree with section
	// order preserved.
	Tree(ctx context.Context) (*ConfigTree, error)
}
