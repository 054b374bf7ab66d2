/*
Package buildhub resolves build recipe configuration trees into
structured version and toolchain constraint bindings.

A recipe's DEFAULT section may declare a recipe-wide version and
toolchain constraint; every other section is classified as a toolchain
constraint, a version constraint, or neither, with its key/value body
kept verbatim for downstream consumers.
*/
package buildhub

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/buildhub/buildhub-core/providers/parsers"
	"github.com/buildhub/buildhub-core/providers/toolchain"
	"github.com/buildhub/buildhub-core/providers/versioneer"
)

var (
	ErrDefaultSection = errors.New("invalid DEFAULT section")
)

// ToolchainSection couples a toolchain constraint with the section body
// declared under it (e.g. "for toolchain intel >= 2020a, use these
// dependency overrides").
type ToolchainSection struct {
	Toolchain *toolchain.Constraint
	Options   map[string]string
}

// VersionSection couples a version constraint with the section body
// declared under it.
type VersionSection struct {
	Constraint *versioneer.Constraint
	Options    map[string]string
}

// Resolution is the classified outcome of one recipe tree.
type Resolution struct {
	// Recipe-wide constraints from the DEFAULT section, nil when the
	// recipe declares none.
	DefaultVersion   *versioneer.Constraint
	DefaultToolchain *toolchain.Constraint

	Toolchains []ToolchainSection
	Versions   []VersionSection
	// Unclassified holds sections matching neither grammar. Not an
	// error; the caller decides how to treat them.
	Unclassified []parsers.Section
}

// SupportsToolchain reports whether a candidate toolchain name and
// version pass the recipe-wide DEFAULT toolchain constraint. The
// version check keeps the constraint's version as the left operand of
// the relation.
func (r *Resolution) SupportsToolchain(name, version string) bool {
	if r.DefaultToolchain == nil {
		return true
	}
	if r.DefaultToolchain.Name != name {
		return false
	}
	if r.DefaultToolchain.Version == nil {
		return true
	}
	return r.DefaultToolchain.Version.Check(version)
}

// SupportsVersion reports whether a candidate version passes the
// recipe-wide DEFAULT version constraint, with the same operand order
// as SupportsToolchain.
func (r *Resolution) SupportsVersion(version string) bool {
	if r.DefaultVersion == nil {
		return true
	}
	return r.DefaultVersion.Check(version)
}

// Resolver classifies recipe sections against a snapshot of the
// registry's toolchain names. A Resolver is meant to serve one
// resolution pass; it is not safe for concurrent use.
type Resolver struct {
	log      hclog.Logger
	matcher  *toolchain.Matcher
	versions *versioneer.ConstraintList
}

// NewResolver constructs a resolver for the given toolchain registry.
func NewResolver(reg toolchain.Registry, log hclog.Logger) *Resolver {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Resolver{
		log:      log,
		matcher:  toolchain.NewMatcher(reg, log),
		versions: versioneer.NewConstraintList(log),
	}
}

// Resolve walks the tree and classifies every section. A malformed
// DEFAULT declaration aborts the pass with ErrDefaultSection, since the
// rest of resolution depends on a well-formed default; sections
// matching neither grammar are recorded unclassified and resolution
// continues.
func (r *Resolver) Resolve(tree *parsers.ConfigTree) (*Resolution, error) {
	res := &Resolution{}
	for _, section := range tree.Sections {
		if section.Name == parsers.DefaultSection {
			if err := r.resolveDefault(section, res); err != nil {
				return nil, err
			}
			continue
		}
		// Toolchain names take priority over bare version expressions.
		if tc, ok := r.matcher.Match(section.Name); ok {
			res.Toolchains = append(res.Toolchains, ToolchainSection{Toolchain: tc, Options: section.Options})
			continue
		}
		if vc, ok := r.versions.Match(section.Name); ok {
			res.Versions = append(res.Versions, VersionSection{Constraint: vc, Options: section.Options})
			continue
		}
		r.log.Debug("section matches neither toolchain nor version grammar", "section", section.Name)
		res.Unclassified = append(res.Unclassified, section)
	}
	return res, nil
}

func (r *Resolver) resolveDefault(section parsers.Section, res *Resolution) error {
	if v, ok := section.Options["version"]; ok {
		c, err := r.versions.Add(v)
		if err != nil {
			return fmt.Errorf("%w: version %q: %v", ErrDefaultSection, v, err)
		}
		res.DefaultVersion = c
	}
	if t, ok := section.Options["toolchain"]; ok {
		tc, ok := r.matcher.Match(t)
		if !ok {
			return fmt.Errorf("%w: toolchain %q does not match any known toolchain", ErrDefaultSection, t)
		}
		res.DefaultToolchain = tc
	}
	return nil
}
