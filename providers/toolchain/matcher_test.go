package toolchain

import (
	"testing"

	"github.com/buildhub/buildhub-core/providers/versioneer"
)

func TestMatcher_VersionSuffix(t *testing.T) {
	m := NewMatcher(Static{"goolf", "intel"}, nil)

	// Operator-first and separator-joined suffix forms are equivalent.
	for _, raw := range []string{"goolf_>=2016a", "goolf_2016a_>="} {
		c, ok := m.Match(raw)
		if !ok {
			t.Fatalf("expected toolchain match for %q, got none", raw)
		}
		if c.Name != "goolf" || c.Raw != raw {
			t.Errorf("toolchain %q matched incorrectly, got '%+v'", raw, c)
		}
		if c.Version == nil {
			t.Fatalf("expected version suffix for %q, got none", raw)
		}
		if c.Version.Operator != versioneer.OpGreaterEqual || c.Version.Version.String() != "2016a" {
			t.Errorf("version suffix of %q parsed incorrectly, got '%+v'", raw, c.Version)
		}
	}
}

func TestMatcher_NoVersionSuffix(t *testing.T) {
	m := NewMatcher(Static{"goolf", "intel"}, nil)

	c, ok := m.Match("intel")
	if !ok {
		t.Fatal("expected toolchain match, got none")
	}
	if c.Name != "intel" || c.Version != nil {
		t.Errorf("expected any-version match on 'intel', got '%+v'", c)
	}
}

func TestMatcher_NoMatch(t *testing.T) {
	m := NewMatcher(Static{"goolf", "intel"}, nil)

	for _, raw := range []string{
		"unknown_>=1.0",      // name not in the registry
		"goolf_not_a_ver_!!", // known name, malformed suffix
		"",
	} {
		if c, ok := m.Match(raw); ok {
			t.Errorf("expected no toolchain match for %q, got '%+v'", raw, c)
		}
	}
}

func TestMatcher_SeparatorInName(t *testing.T) {
	m := NewMatcher(Static{"intel", "intel_compat"}, nil)

	c, ok := m.Match("intel_compat_2020a")
	if !ok {
		t.Fatal("expected toolchain match, got none")
	}
	// Longest known name wins over 'intel' + 'compat_2020a'.
	if c.Name != "intel_compat" || c.Version == nil || c.Version.Version.String() != "2020a" {
		t.Errorf("toolchain matched incorrectly, got '%+v'", c)
	}
}

// mutableRegistry lets a test change the name set after construction.
type mutableRegistry struct {
	names []string
}

func (r *mutableRegistry) Names() []string { return r.names }

func TestMatcher_SnapshotsRegistry(t *testing.T) {
	reg := &mutableRegistry{names: []string{"goolf"}}
	m := NewMatcher(reg, nil)

	reg.names = []string{"goolf", "intel"}

	if _, ok := m.Match("intel"); ok {
		t.Error("expected stale matcher to miss names added after construction")
	}
	if _, ok := NewMatcher(reg, nil).Match("intel"); !ok {
		t.Error("expected rebuilt matcher to know the added name")
	}
}
