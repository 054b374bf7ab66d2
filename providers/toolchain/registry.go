/*
Package toolchain matches toolchain constraint expressions against a
registry of known toolchain names.

A toolchain is a named, versioned combination of compiler and supporting
libraries that a dependency can be built against. The set of valid names
is not fixed by this package: it is supplied by a Registry, typically
loaded from a YAML document shipped next to the recipes it serves.
*/
package toolchain

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/buildhub/buildhub-core/providers/fetchers"
)

var (
	ErrBadRegistry = errors.New("invalid toolchain registry")
)

// Registry supplies the current set of known toolchain names. Matchers
// take a snapshot of it at construction time.
type Registry interface {
	Names() []string
}

// Static is a fixed, in-memory registry.
type Static []string

// Names returns a copy of the registered names.
func (s Static) Names() []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// Entry describes one registered toolchain.
type Entry struct {
	Name      string   `yaml:"name"`
	Compiler  string   `yaml:"compiler,omitempty"`
	Libraries []string `yaml:"libraries,omitempty"`
}

// File is a registry loaded from a YAML document of the form:
//
//	toolchains:
//	  - name: goolf
//	    compiler: GCC
//	    libraries: [OpenMPI, OpenBLAS, FFTW]
//	  - name: intel
//	    compiler: icc
type File struct {
	Toolchains []Entry `yaml:"toolchains"`
}

// Names returns the registered names in document order.
func (f *File) Names() []string {
	out := make([]string, len(f.Toolchains))
	for i, e := range f.Toolchains {
		out[i] = e.Name
	}
	return out
}

// Entry returns the registered entry for name, if any.
func (f *File) Entry(name string) (Entry, bool) {
	for _, e := range f.Toolchains {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// LoadRegistry parses a YAML registry document. Every entry must carry
// a name and names must be unique.
func LoadRegistry(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unable to parse toolchain registry content: %w", err)
	}
	seen := make(map[string]struct{}, len(f.Toolchains))
	for _, e := range f.Toolchains {
		if e.Name == "" {
			return nil, fmt.Errorf("%w: toolchain entry without a name", ErrBadRegistry)
		}
		if _, dup := seen[e.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate toolchain %q", ErrBadRegistry, e.Name)
		}
		seen[e.Name] = struct{}{}
	}
	return &f, nil
}

// FetchRegistry loads a YAML registry through a file fetcher, so the
// registry can live in the same repository as the recipes.
func FetchRegistry(ctx context.Context, fetcher fetchers.FileFetcher, path string) (*File, error) {
	b, err := fetcher.FileContent(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch toolchain registry %q: %w", path, err)
	}
	return LoadRegistry(b)
}
