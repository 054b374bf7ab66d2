/*
Package versioneer provides the loose version model and the version
constraint expression grammar used by build recipes.

A loose version is compared token-wise rather than against a fixed
major.minor.patch schema, so values like '2016a' or '1.2.3-rc1' order
sensibly next to plain dotted versions.
*/
package versioneer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/hashicorp/go-hclog"
)

var (
	ErrMalformedVersion = errors.New("malformed version")
)

// fallbackVersion substitutes an absent version value.
const fallbackVersion = "0.0.0"

// token is one comparable component of a loose version, either numeric
// or textual, never both.
type token struct {
	num     int
	text    string
	numeric bool
}

// compare orders two tokens. Numeric tokens order as integers, textual
// tokens lexicographically. At mixed positions numeric sorts before
// textual, so '1.2.1' orders before '1.2rc'.
func (t token) compare(o token) int {
	if t.numeric != o.numeric {
		if t.numeric {
			return -1
		}
		return 1
	}
	if t.numeric {
		switch {
		case t.num < o.num:
			return -1
		case t.num > o.num:
			return 1
		}
		return 0
	}
	return strings.Compare(t.text, o.text)
}

// Version is a loosely structured version: the source string split into
// numeric and textual tokens on delimiters ('.', '-', '_') and on
// digit/non-digit transitions. Immutable once constructed.
type Version struct {
	raw    string
	tokens []token
}

// NewVersion parses a loose version string. Empty input is malformed;
// any non-blank string tokenizes successfully.
func NewVersion(value string) (*Version, error) {
	if strings.TrimSpace(value) == "" {
		return nil, fmt.Errorf("%w: empty version string", ErrMalformedVersion)
	}
	return &Version{raw: value, tokens: tokenize(value)}, nil
}

// tokenize splits a version string into its comparable tokens.
func tokenize(value string) []token {
	var tokens []token
	var buf strings.Builder
	numeric := false
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		if n, err := strconv.Atoi(buf.String()); err == nil && numeric {
			tokens = append(tokens, token{num: n, numeric: true})
		} else {
			// Digit runs too large for int degrade to textual tokens.
			tokens = append(tokens, token{text: buf.String()})
		}
		buf.Reset()
	}
	for _, r := range value {
		switch {
		case r == '.' || r == '-' || r == '_':
			flush()
		case unicode.IsDigit(r):
			if !numeric {
				flush()
				numeric = true
			}
			buf.WriteRune(r)
		default:
			if numeric {
				flush()
				numeric = false
			}
			buf.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// Compare returns -1, 0 or 1 as v orders before, equal to or after o.
// Tokens compare pairwise in source order; a token sequence that is a
// strict prefix of another orders before the longer sequence.
func (v *Version) Compare(o *Version) int {
	for i := 0; i < len(v.tokens) && i < len(o.tokens); i++ {
		if c := v.tokens[i].compare(o.tokens[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(v.tokens) < len(o.tokens):
		return -1
	case len(v.tokens) > len(o.tokens):
		return 1
	}
	return 0
}

// Len returns the token count, the structural depth of the version.
func (v *Version) Len() int {
	return len(v.tokens)
}

// String returns the original unmodified version string.
func (v *Version) String() string {
	return v.raw
}

// convertVersion parses value, substituting a defined fallback for an
// absent value with a warning rather than failing. Grammar-captured
// version tokens are never blank, so the parse itself cannot fail.
func convertVersion(value string, log hclog.Logger) *Version {
	if strings.TrimSpace(value) == "" {
		log.Warn("no version passed, using fallback", "fallback", fallbackVersion)
		value = fallbackVersion
	}
	v, _ := NewVersion(value)
	return v
}
