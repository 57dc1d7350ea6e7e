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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testType = TokenType{Namespace: "test", Code: "Word", Category: CategoryName}

func TestCompileRuleLookAroundExtraction(t *testing.T) {
	testCases := []struct {
		pattern       string
		split         string
		lookBehind    string
		lookBehindNeg bool
		lookAhead     string
		lookAheadNeg  bool
	}{
		{
			pattern: `\w+`,
			split:   `\w+`,
		},
		{
			pattern:    `(?<=def\s+)(?:[a-z_][a-z0-9_]*)`,
			split:      `(?:[a-z_][a-z0-9_]*)`,
			lookBehind: `(?:def\s+)$`,
		},
		{
			pattern:   `\b\w+\b(?=\()`,
			split:     `\b\w+\b`,
			lookAhead: `^(?:\()`,
		},
		{
			pattern:      `\b\w+\b(?!\()`,
			split:        `\b\w+\b`,
			lookAhead:    `^(?:\()`,
			lookAheadNeg: true,
		},
		{
			pattern:       `(?<!\.)(?:[a-z_][a-z0-9_]*)(?=\s*\()`,
			split:         `(?:[a-z_][a-z0-9_]*)`,
			lookBehind:    `(?:\.)$`,
			lookBehindNeg: true,
			lookAhead:     `^(?:\s*\()`,
		},
	}

	for _, tc := range testCases {
		r := NewRule(testType, tc.pattern)
		require.True(t, r.IsValid(), "pattern: %q, errs: %v", tc.pattern, r.Errs())
		assert.Equal(t, tc.split, r.split.String(), "pattern: %q", tc.pattern)

		if tc.lookBehind == "" {
			assert.Nil(t, r.lookBehind, "pattern: %q", tc.pattern)
		} else {
			require.NotNil(t, r.lookBehind, "pattern: %q", tc.pattern)
			assert.Equal(t, tc.lookBehind, r.lookBehind.re.String(), "pattern: %q", tc.pattern)
			assert.Equal(t, tc.lookBehindNeg, r.lookBehind.negate, "pattern: %q", tc.pattern)
		}
		if tc.lookAhead == "" {
			assert.Nil(t, r.lookAhead, "pattern: %q", tc.pattern)
		} else {
			require.NotNil(t, r.lookAhead, "pattern: %q", tc.pattern)
			assert.Equal(t, tc.lookAhead, r.lookAhead.re.String(), "pattern: %q", tc.pattern)
			assert.Equal(t, tc.lookAheadNeg, r.lookAhead.negate, "pattern: %q", tc.pattern)
		}
	}
}

func TestRuleMatchesLookAround(t *testing.T) {
	funcDecl := NewRule(testType, `(?<=def\s+)(?:[a-z_][a-z0-9_]*)(?=\s*\()`)
	require.True(t, funcDecl.IsValid())

	testCases := []struct {
		text     string
		segment  string
		start    int
		expected bool
	}{
		// "foo" preceded by "def " and followed by "("
		{text: "def foo():", segment: "foo", start: 4, expected: true},
		// whitespace allowed between name and parenthesis
		{text: "def foo ():", segment: "foo", start: 4, expected: true},
		// not a declaration: no "def" before
		{text: "x = foo()", segment: "foo", start: 4, expected: false},
		// no call parenthesis after
		{text: "def foo:", segment: "foo", start: 4, expected: false},
	}

	for _, tc := range testCases {
		got := funcDecl.matches(tc.text, tc.segment, tc.start, tc.start+len(tc.segment))
		assert.Equal(t, tc.expected, got, "text: %q", tc.text)
	}
}

func TestRuleMatchesNegativeLookAhead(t *testing.T) {
	notACall := NewRule(testType, `\b\w+\b(?!\()`)
	require.True(t, notACall.IsValid())

	assert.False(t, notACall.matches("foo(bar)", "foo", 0, 3))
	assert.True(t, notACall.matches("foo(bar)", "bar", 4, 7))
}

func TestRuleCaseSensitivity(t *testing.T) {
	insensitive := NewRule(testType, `keyword`)
	sensitive := CompileRule(RuleSpec{Type: testType, Pattern: `keyword`, CaseSensitive: true})

	assert.True(t, insensitive.matches("KEYWORD", "KEYWORD", 0, 7))
	assert.False(t, sensitive.matches("KEYWORD", "KEYWORD", 0, 7))
	assert.True(t, sensitive.matches("keyword", "keyword", 0, 7))

	assert.True(t, insensitive.CaseInsensitive())
	assert.False(t, sensitive.CaseInsensitive())
}

func TestCompileRuleInvalid(t *testing.T) {
	testCases := []struct {
		name     string
		spec     RuleSpec
		expected error
	}{
		{
			name:     "missing type",
			spec:     RuleSpec{Pattern: `\w+`},
			expected: ErrRuleMissingType,
		},
		{
			name:     "empty pattern",
			spec:     RuleSpec{Type: testType},
			expected: ErrRuleEmptyPattern,
		},
		{
			name:     "unpaired multi-line patterns",
			spec:     RuleSpec{Type: testType, Pattern: `\w+`, MultiLineStart: []string{`'{3}`}},
			expected: ErrRuleUnpairedMultiLine,
		},
	}

	for _, tc := range testCases {
		r := CompileRule(tc.spec)
		assert.False(t, r.IsValid(), tc.name)
		assert.ErrorIs(t, errors.Join(r.Errs()...), tc.expected, tc.name)
	}
}

func TestCompileRuleBadPattern(t *testing.T) {
	r := NewRule(testType, `(unclosed`)
	assert.False(t, r.IsValid())
	assert.NotEmpty(t, r.Errs())

	// a rule invalidated by its pattern never matches anything
	assert.False(t, r.matches("(unclosed", "(unclosed", 0, 9))
}

func TestCompileRuleMultiLine(t *testing.T) {
	r := CompileRule(RuleSpec{
		Type:           testType,
		Pattern:        `'{3}(?:.|\s|\n)*?'{3}`,
		MultiLineStart: []string{`'{3}`},
		MultiLineEnd:   []string{`'{3}`},
	})
	require.True(t, r.IsValid(), "errs: %v", r.Errs())
	require.Len(t, r.MultiLine(), 1)

	pair := r.MultiLine()[0]
	assert.True(t, pair.Start.MatchString("'''unterminated"))
	assert.True(t, pair.End.MatchString("terminated'''"))
}
