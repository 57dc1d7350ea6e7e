// Copyright 2026 Grum999. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lexer

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrRuleMissingType       = errors.New("rule has no token type")
	ErrRuleEmptyPattern      = errors.New("rule pattern is empty")
	ErrRuleUnpairedMultiLine = errors.New("multi-line start and end patterns must both be provided")
)

// Look-around groups are not supported by RE2 and would not support arbitrary
// width patterns anyway. The compiler strips a leading look-behind and a
// trailing look-ahead from the rule pattern and keeps them as separate
// predicates evaluated against the text adjacent to a candidate match.
var (
	leadingLookBehind = regexp.MustCompile(`^\(\?<([=!])(.*?)\)`)
	trailingLookAhead = regexp.MustCompile(`\(\?([=!])(.*?)\)$`)
)

// lookAround is an arbitrary-width predicate checked against the text slice
// before (look-behind) or after (look-ahead) a candidate segment.
type lookAround struct {
	re     *regexp.Regexp
	negate bool
}

// match reports whether the predicate accepts the adjacent text.
func (la *lookAround) match(adjacent string) bool {
	return la.re.MatchString(adjacent) != la.negate
}

// MultiLinePair holds the start/end patterns delimiting one form of an
// unterminated multi-line token, used by line-based re-lexing consumers.
type MultiLinePair struct {
	Start *regexp.Regexp
	End   *regexp.Regexp
}

// RuleSpec is the declarative description compiled into a Rule.
type RuleSpec struct {
	Type    TokenType
	Pattern string

	// CaseSensitive inverts the default: rules are case insensitive unless
	// this is set.
	CaseSensitive bool

	// IgnoreIndent exempts tokens produced by this rule from triggering
	// INDENT/DEDENT synthesis.
	IgnoreIndent bool

	// MultiLineStart/MultiLineEnd are paired by index; both lists must have
	// the same length.
	MultiLineStart []string
	MultiLineEnd   []string
}

// Rule maps a pattern (plus optional look-around predicates and flags) to a
// token type. Identity within a tokenizer is positional: the first registered
// rule matching a segment wins.
//
// A rule with structural problems is never rejected at construction: the
// problems are recorded in Errs and the rule is excluded from matching.
type Rule struct {
	spec RuleSpec

	split *regexp.Regexp // look-around-stripped pattern, joined into the combined alternation
	whole *regexp.Regexp // anchored form resolving a whole segment's type

	lookBehind *lookAround
	lookAhead  *lookAround

	multiLine []MultiLinePair

	errs []error
}

// CompileRule builds a Rule from its declarative description. It never fails:
// structural problems are recorded on the returned rule, which is then marked
// invalid and ignored by matching. Registering an invalid rule through
// NewTokenizer raises one aggregated configuration error.
func CompileRule(spec RuleSpec) *Rule {
	r := &Rule{spec: spec}

	if spec.Type.IsZero() {
		r.errs = append(r.errs, ErrRuleMissingType)
	}
	r.compilePattern(spec.Pattern)
	r.compileMultiLine(spec.MultiLineStart, spec.MultiLineEnd)
	return r
}

// NewRule is the common case: a case-insensitive rule without flags.
func NewRule(typ TokenType, pattern string) *Rule {
	return CompileRule(RuleSpec{Type: typ, Pattern: pattern})
}

func (r *Rule) compilePattern(pattern string) {
	if pattern == "" {
		r.errs = append(r.errs, ErrRuleEmptyPattern)
		return
	}

	if m := leadingLookBehind.FindStringSubmatch(pattern); m != nil {
		re, err := regexp.Compile("(?:" + m[2] + ")$")
		if err != nil {
			r.errs = append(r.errs, fmt.Errorf("look-behind pattern %q: %w", m[2], err))
			return
		}
		r.lookBehind = &lookAround{re: re, negate: m[1] == "!"}
		pattern = pattern[len(m[0]):]
	}

	if m := trailingLookAhead.FindStringSubmatch(pattern); m != nil {
		re, err := regexp.Compile("^(?:" + m[2] + ")")
		if err != nil {
			r.errs = append(r.errs, fmt.Errorf("look-ahead pattern %q: %w", m[2], err))
			return
		}
		r.lookAhead = &lookAround{re: re, negate: m[1] == "!"}
		pattern = pattern[:len(pattern)-len(m[0])]
	}

	split, err := regexp.Compile(pattern)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("pattern %q: %w", pattern, err))
		return
	}
	r.split = split

	whole := "^(?:" + pattern + ")$"
	if !r.spec.CaseSensitive {
		whole = "(?i)" + whole
	}
	r.whole, err = regexp.Compile(whole)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("anchored pattern %q: %w", pattern, err))
		r.split = nil
	}
}

func (r *Rule) compileMultiLine(starts, ends []string) {
	if len(starts) != len(ends) {
		r.errs = append(r.errs, ErrRuleUnpairedMultiLine)
		return
	}

	for i := range starts {
		pair := MultiLinePair{}
		var err error
		if pair.Start, err = r.compileCased(starts[i]); err != nil {
			r.errs = append(r.errs, fmt.Errorf("multi-line start pattern %q: %w", starts[i], err))
			continue
		}
		if pair.End, err = r.compileCased(ends[i]); err != nil {
			r.errs = append(r.errs, fmt.Errorf("multi-line end pattern %q: %w", ends[i], err))
			continue
		}
		r.multiLine = append(r.multiLine, pair)
	}
}

func (r *Rule) compileCased(pattern string) (*regexp.Regexp, error) {
	if !r.spec.CaseSensitive {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

// Type returns the token type produced by the rule.
func (r *Rule) Type() TokenType { return r.spec.Type }

// CaseInsensitive reports whether the rule matches case insensitively.
func (r *Rule) CaseInsensitive() bool { return !r.spec.CaseSensitive }

// IgnoreIndent reports whether tokens from this rule skip indent synthesis.
func (r *Rule) IgnoreIndent() bool { return r.spec.IgnoreIndent }

// MultiLine returns the compiled (start, end) pattern pairs, nil when the
// rule has none.
func (r *Rule) MultiLine() []MultiLinePair { return r.multiLine }

// IsValid reports whether the rule can participate in matching.
func (r *Rule) IsValid() bool { return len(r.errs) == 0 && r.split != nil }

// Errs returns the structural problems recorded at compilation.
func (r *Rule) Errs() []error { return r.errs }

// splitPattern returns the rule's contribution to the combined alternation,
// wrapped to honor its own case sensitivity.
func (r *Rule) splitPattern() string {
	if !r.spec.CaseSensitive {
		return "(?i:" + r.split.String() + ")"
	}
	return "(?:" + r.split.String() + ")"
}

// matches reports whether segment, found at [start, end) of text, resolves to
// this rule: the anchored form must match the whole segment and both
// look-around predicates must accept the adjacent text.
func (r *Rule) matches(text, segment string, start, end int) bool {
	if !r.IsValid() || !r.whole.MatchString(segment) {
		return false
	}
	if r.lookBehind != nil && !r.lookBehind.match(text[:start]) {
		return false
	}
	if r.lookAhead != nil && !r.lookAhead.match(text[end:]) {
		return false
	}
	return true
}

func (r *Rule) String() string {
	if !r.IsValid() {
		return fmt.Sprintf("%s / invalid / %v", r.spec.Type, r.errs)
	}
	return fmt.Sprintf("%s: %s", r.spec.Type, r.split)
}
