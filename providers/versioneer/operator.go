package versioneer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/go-hclog"
)

var (
	ErrConstraintParse = errors.New("text does not match the version expression grammar")
	ErrUnknownOperator = errors.New("unknown constraint operator")
)

// Separator splits the version part from the operator part in a
// constraint expression, and a toolchain name from its version suffix.
const Separator = "_"

// Operator is one of the six comparison operators a constraint
// expression may carry.
type Operator string

const (
	OpEqual        = Operator("==")
	OpNotEqual     = Operator("!=")
	OpGreater      = Operator(">")
	OpGreaterEqual = Operator(">=")
	OpLess         = Operator("<")
	OpLessEqual    = Operator("<=")
)

// cmpFunc reports whether two versions satisfy an operator's relation.
type cmpFunc func(a, b *Version) bool

// verConfig is used to store the compiled version expression grammar.
type verConfig struct {
	operators       map[Operator]cmpFunc // supported operators mapped to their relations
	symbols         []Operator           // alternation order, two-character symbols first
	exprRgxCompiled *regexp.Regexp       // anchored expression grammar
	preIdx          int                  // submatch index of the prefix operator
	verIdx          int                  // submatch index of the version part
	opIdx           int                  // submatch index of the suffix operator
}

// verCfg is the package-wide version grammar configuration.
var verCfg verConfig

// Version grammar initialization and expression compiling.
func init() {
	verCfg.operators = map[Operator]cmpFunc{
		OpEqual:        func(a, b *Version) bool { return a.Compare(b) == 0 },
		OpNotEqual:     func(a, b *Version) bool { return a.Compare(b) != 0 },
		OpGreater:      func(a, b *Version) bool { return a.Compare(b) > 0 },
		OpGreaterEqual: func(a, b *Version) bool { return a.Compare(b) >= 0 },
		OpLess:         func(a, b *Version) bool { return a.Compare(b) < 0 },
		OpLessEqual:    func(a, b *Version) bool { return a.Compare(b) <= 0 },
	}
	// '>' must not shadow '>=' in the alternation.
	verCfg.symbols = []Operator{OpEqual, OpNotEqual, OpGreaterEqual, OpLessEqual, OpGreater, OpLess}

	ops := make([]string, 0, len(verCfg.symbols))
	for _, s := range verCfg.symbols {
		ops = append(ops, regexp.QuoteMeta(string(s)))
	}
	alternation := strings.Join(ops, "|")

	// The version part starts and ends with an alphanumeric character
	// and never contains operator symbols or whitespace. The operator
	// is either a bare prefix ('>=2016a') or a separator-joined suffix
	// ('2016a_>='); expressions carrying both are rejected after the
	// match.
	verCfg.exprRgxCompiled = regexp.MustCompile(fmt.Sprintf(
		`^(?:(?P<preop>%[1]s))?(?P<version>[0-9A-Za-z](?:[\w.+\-]*[0-9A-Za-z])?)(?:%[2]s(?P<operator>%[1]s))?$`,
		alternation, regexp.QuoteMeta(Separator)))
	verCfg.preIdx = verCfg.exprRgxCompiled.SubexpIndex("preop")
	verCfg.verIdx = verCfg.exprRgxCompiled.SubexpIndex("version")
	verCfg.opIdx = verCfg.exprRgxCompiled.SubexpIndex("operator")
}

// CheckFunc evaluates a candidate version string against a constraint.
// The constraint's own version is always the left operand of the
// relation: the check built for "5.0_>" is satisfied when 5.0 is
// strictly greater than the candidate.
type CheckFunc func(candidate string) bool

// NewCheck builds the check function for a version text and operator
// symbol. Symbols outside the supported set fail with
// ErrUnknownOperator; the grammar cannot produce one, but callers
// supplying operator text directly can.
func NewCheck(version string, operator Operator, log hclog.Logger) (CheckFunc, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	cmp, ok := verCfg.operators[operator]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, operator)
	}
	ver := convertVersion(version, log)
	return func(candidate string) bool {
		test := convertVersion(candidate, log)
		res := cmp(ver, test)
		log.Debug("version check", "version", ver, "operator", operator, "candidate", test, "result", res)
		return res
	}, nil
}

// Constraint is one parsed version expression.
type Constraint struct {
	Raw      string   // the matched expression text
	Version  *Version // the parsed version part
	Operator Operator // OpEqual when the expression carries no operator
	Check    CheckFunc
}

// Parse matches txt against the version expression grammar. It is pure:
// nothing is mutated and non-conforming text is reported as absence,
// not an error, so callers can fall through to another grammar.
func Parse(txt string, log hclog.Logger) (*Constraint, bool) {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	m := verCfg.exprRgxCompiled.FindStringSubmatch(txt)
	if m == nil {
		log.Debug("no match for version expression", "expression", txt)
		return nil, false
	}
	if m[verCfg.preIdx] != "" && m[verCfg.opIdx] != "" {
		log.Debug("version expression carries two operators", "expression", txt)
		return nil, false
	}
	operator := OpEqual
	if m[verCfg.preIdx] != "" {
		operator = Operator(m[verCfg.preIdx])
	} else if m[verCfg.opIdx] != "" {
		operator = Operator(m[verCfg.opIdx])
	}
	verStr := m[verCfg.verIdx]
	check, err := NewCheck(verStr, operator, log)
	if err != nil {
		log.Error("grammar produced an unsupported operator", "expression", txt, "error", err)
		return nil, false
	}
	return &Constraint{
		Raw:      txt,
		Version:  convertVersion(verStr, log),
		Operator: operator,
		Check:    check,
	}, true
}

// ConstraintList is an ordered collection of version constraints kept
// highest version first, such that list[i].Version >= list[i+1].Version.
// It is not safe for concurrent mutation; callers own synchronization.
type ConstraintList struct {
	log         hclog.Logger
	constraints []*Constraint
}

// NewConstraintList constructs an empty constraint list.
func NewConstraintList(log hclog.Logger) *ConstraintList {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &ConstraintList{log: log}
}

// Match parses txt without mutating the list. Safe for validation-only
// callers probing whether text is a version expression.
func (l *ConstraintList) Match(txt string) (*Constraint, bool) {
	return Parse(txt, l.log)
}

// Add parses txt and inserts the constraint before the first stored
// entry whose version is strictly smaller, keeping the list descending;
// equal versions keep insertion order. The scan is linear, which is
// fine at the scale of a recipe's dependency list.
func (l *ConstraintList) Add(txt string) (*Constraint, error) {
	c, ok := Parse(txt, l.log)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrConstraintParse, txt)
	}
	idx := len(l.constraints)
	for i, existing := range l.constraints {
		if existing.Version.Compare(c.Version) < 0 {
			idx = i
			break
		}
	}
	l.log.Debug("inserting constraint", "constraint", c.Raw, "index", idx)
	l.constraints = append(l.constraints, nil)
	copy(l.constraints[idx+1:], l.constraints[idx:])
	l.constraints[idx] = c
	return c, nil
}

// Constraints returns the stored constraints, highest version first.
func (l *ConstraintList) Constraints() []*Constraint {
	out := make([]*Constraint, len(l.constraints))
	copy(out, l.constraints)
	return out
}

// Len returns the number of stored constraints.
func (l *ConstraintList) Len() int {
	return len(l.constraints)
}
