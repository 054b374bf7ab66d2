package toolchain

import (
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/buildhub/buildhub-core/providers/versioneer"
)

// Constraint is a matched toolchain expression. A nil Version means the
// expression named the toolchain without a version suffix: any version
// of that toolchain is acceptable.
type Constraint struct {
	Name    string
	Raw     string
	Version *versioneer.Constraint
}

// Matcher recognizes expressions of the form `name[_versionexpr]` whose
// leading name is known to the registry. The name set is a snapshot
// taken at construction; build a fresh Matcher to pick up registry
// changes.
//
// The matcher composes a set-membership check over the snapshot with
// the version expression grammar instead of interpolating names into
// one pattern, so names containing regexp metacharacters or separators
// cannot corrupt the grammar.
type Matcher struct {
	log   hclog.Logger
	names map[string]struct{}
}

// NewMatcher builds a matcher over a snapshot of the registry's names.
func NewMatcher(reg Registry, log hclog.Logger) *Matcher {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	names := make(map[string]struct{})
	for _, n := range reg.Names() {
		names[n] = struct{}{}
	}
	log.Debug("toolchain matcher built", "known_names", len(names))
	return &Matcher{log: log, names: names}
}

// Match reports the toolchain constraint expressed by txt, or absence
// when the leading token is not a known toolchain name, even if the
// trailing part would otherwise parse as a version expression.
//
// When the name itself contains separator characters the longest known
// name wins, so the split point is deterministic.
func (m *Matcher) Match(txt string) (*Constraint, bool) {
	if _, ok := m.names[txt]; ok {
		m.log.Debug("toolchain match without version suffix", "toolchain", txt)
		return &Constraint{Name: txt, Raw: txt}, true
	}
	for i := strings.LastIndex(txt, versioneer.Separator); i > 0; i = strings.LastIndex(txt[:i], versioneer.Separator) {
		name := txt[:i]
		if _, known := m.names[name]; !known {
			continue
		}
		version, ok := versioneer.Parse(txt[i+1:], m.log)
		if !ok {
			continue
		}
		m.log.Debug("toolchain match", "toolchain", name, "version", version.Raw)
		return &Constraint{Name: name, Raw: txt, Version: version}, true
	}
	m.log.Debug("no toolchain match", "expression", txt)
	return nil, false
}
