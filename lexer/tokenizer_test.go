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
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	wordType    = TokenType{Namespace: "test", Code: "Word", Category: CategoryName}
	keywordType = TokenType{Namespace: "test", Code: "Keyword", Category: CategoryKeyword}
	stringType  = TokenType{Namespace: "test", Code: "String", Category: CategoryString}
	closerType  = TokenType{Namespace: "test", Code: "Closer", Category: CategoryPunctuation}
)

// tok is the comparable projection of a Token used in expectations.
type tok struct {
	Type   TokenType
	Text   string
	Row    int
	Col    int
	Indent int
}

func summarize(s *TokenStream) []tok {
	var out []tok
	for t := range s.All() {
		out = append(out, tok{Type: t.Type(), Text: t.Text(), Row: t.Row(), Col: t.Column(), Indent: t.Indent()})
	}
	return out
}

func mustTokenizer(t *testing.T, rules []*Rule) *Tokenizer {
	t.Helper()
	tk, err := NewTokenizer(rules)
	require.NoError(t, err)
	return tk
}

// wordRules tokenizes everything into words, horizontal spaces and newlines.
func wordRules() []*Rule {
	return []*Rule{
		NewRule(wordType, `\w+`),
		NewRule(TokenSpace, `[^\S\n]+`),
		NewRule(TokenNewline, `\n`),
	}
}

// lineRules matches whole indented words so that line-leading whitespace is
// carried by the token itself, which is what indentation synthesis keys on.
func lineRules() []*Rule {
	return []*Rule{
		NewRule(wordType, `[ \t]*\w+`),
		NewRule(TokenNewline, `\n`),
	}
}

func TestTokenizePositions(t *testing.T) {
	tk := mustTokenizer(t, wordRules())

	stream := tk.Tokenize("ab c\nde\n")
	assert.Equal(t, []tok{
		{Type: wordType, Text: "ab", Row: 1, Col: 1},
		{Type: TokenSpace, Text: " ", Row: 1, Col: 3, Indent: 1},
		{Type: wordType, Text: "c", Row: 1, Col: 4},
		{Type: TokenNewline, Text: "\n", Row: 1, Col: 5},
		{Type: wordType, Text: "de", Row: 2, Col: 1},
		{Type: TokenNewline, Text: "\n", Row: 2, Col: 3},
	}, summarize(stream))

	first := stream.At(0)
	require.NotNil(t, first)
	assert.Equal(t, 0, first.PositionStart())
	assert.Equal(t, 2, first.PositionEnd())
	assert.Equal(t, 2, first.Length())
	assert.Equal(t, 3, first.ColumnEnd())
}

// A token's indent is the width of its own leading whitespace, wherever it
// sits on the line; newlines always report zero.
func TestTokenIndentIsLeadingWhitespaceWidth(t *testing.T) {
	tk := mustTokenizer(t, wordRules())

	stream := tk.Tokenize("a \t b\n\t\tc\n")
	assert.Equal(t, 0, stream.At(0).Indent(), "word without leading whitespace")
	assert.Equal(t, 3, stream.At(1).Indent(), "mid-line whitespace run")
	assert.Equal(t, 0, stream.At(3).Indent(), "newline")
	assert.Equal(t, 2, stream.At(4).Indent(), "line-leading whitespace run")
}

func TestTokenizeCoverage(t *testing.T) {
	tk := mustTokenizer(t, wordRules())

	// inputs containing runs no rule claims; concatenating raw token texts
	// must always reconstruct the input
	testCases := []string{
		"plain words only",
		"a §§ b ?!",
		"§§\n\t?? mixed\nlines §",
		"\n\n\n",
		"trailing gap ==",
	}

	for _, input := range testCases {
		stream := tk.Tokenize(input)
		var rebuilt strings.Builder
		for token := range stream.All() {
			rebuilt.WriteString(token.Text())
		}
		assert.Equal(t, input, rebuilt.String(), "input: %q", input)
	}
}

func TestTokenizeUnknownGaps(t *testing.T) {
	tk := mustTokenizer(t, wordRules())

	stream := tk.Tokenize("a §§ b")
	require.Equal(t, 5, stream.Len())

	unknown := stream.At(2)
	assert.Equal(t, TokenUnknown, unknown.Type())
	assert.Equal(t, "§§", unknown.Text())
	assert.True(t, unknown.IsUnknown())
	assert.Nil(t, unknown.Rule())
}

func TestTokenizeDeterminism(t *testing.T) {
	input := "def foo():\n    return 1\n"

	first := summarize(mustTokenizer(t, wordRules()).Tokenize(input))
	second := summarize(mustTokenizer(t, wordRules()).Tokenize(input))
	assert.Equal(t, first, second)
}

func TestTokenizeFirstMatchWins(t *testing.T) {
	keyword := NewRule(keywordType, `foo`)
	word := NewRule(wordType, `\w+`)
	space := NewRule(TokenSpace, `[^\S\n]+`)

	tk := mustTokenizer(t, []*Rule{keyword, word, space})
	stream := tk.Tokenize("foo bar")
	assert.Equal(t, keywordType, stream.At(0).Type())
	assert.Equal(t, wordType, stream.At(2).Type())

	// swapping the order flips the winning rule for the ambiguous text
	flipped := mustTokenizer(t, []*Rule{word, keyword, space})
	stream = flipped.Tokenize("foo bar")
	assert.Equal(t, wordType, stream.At(0).Type())
	assert.Equal(t, wordType, stream.At(2).Type())
}

func TestTokenizeCacheTransparency(t *testing.T) {
	tk := mustTokenizer(t, wordRules())

	first := tk.Tokenize("one two")
	second := tk.Tokenize("one two")
	assert.Equal(t, 1, tk.scans, "second call must be served from cache")
	assert.Same(t, first, second)

	tk.Tokenize("three")
	assert.Equal(t, 2, tk.scans)

	// a cold scan of the same input yields an equal stream
	tk.ClearCache()
	third := tk.Tokenize("one two")
	assert.Equal(t, 3, tk.scans)
	assert.Equal(t, summarize(first), summarize(third))
}

func TestRuleChangeInvalidatesCache(t *testing.T) {
	tk := mustTokenizer(t, wordRules())

	stream := tk.Tokenize("a == b")
	assert.Equal(t, TokenUnknown, stream.At(2).Type())

	tk.AddRule(NewRule(keywordType, `==`), InsertLast)
	stream = tk.Tokenize("a == b")
	assert.Equal(t, 2, tk.scans, "rule change must drop cached results")
	assert.Equal(t, keywordType, stream.At(2).Type())
}

func TestTokenizeEmpty(t *testing.T) {
	tk := mustTokenizer(t, wordRules())
	assert.Equal(t, 0, tk.Tokenize("").Len())

	empty := mustTokenizer(t, nil)
	assert.Equal(t, 0, empty.Tokenize("no rules registered").Len())
}

func TestSimplifyWhitespace(t *testing.T) {
	rules := []*Rule{
		NewRule(TokenComment, `#[^\n]*`),
		NewRule(stringType, `'[^']*'`),
		NewRule(wordType, `\w+`),
		NewRule(TokenSpace, `[^\S\n]+`),
	}

	tk := mustTokenizer(t, rules)
	tk.SetSimplifyWhitespace(true)

	stream := tk.Tokenize("a   'x \t y' # keep   this")
	assert.Equal(t, "   ", stream.At(1).Text())
	assert.Equal(t, " ", stream.At(1).Value())
	assert.Equal(t, "'x \t y'", stream.At(2).Text())
	assert.Equal(t, "'x y'", stream.At(2).Value())

	// comment-category tokens keep their raw spacing
	comment := stream.At(4)
	require.Equal(t, TokenComment, comment.Type())
	assert.Equal(t, "# keep   this", comment.Value())

	// disabled: value always equals text
	tk.SetSimplifyWhitespace(false)
	stream = tk.Tokenize("a   'x \t y'")
	assert.Equal(t, "   ", stream.At(1).Value())
}

func structural(s *TokenStream) []tok {
	var out []tok
	for t := range s.All() {
		if t.Type().Category == CategoryStructural {
			out = append(out, tok{Type: t.Type(), Text: t.Text(), Row: t.Row(), Col: t.Column(), Indent: t.Indent()})
		}
	}
	return out
}

func TestIndentSynthesis(t *testing.T) {
	tk := mustTokenizer(t, lineRules())
	tk.SetIndentWidth(2)

	stream := tk.Tokenize("a\n  b\n    c\n  d\ne\n")
	assert.Equal(t, []tok{
		{Type: TokenIndent, Row: 2, Col: 1, Indent: 2},
		{Type: TokenIndent, Row: 3, Col: 1, Indent: 2},
		{Type: TokenDedent, Row: 4, Col: 1, Indent: 2},
		{Type: TokenDedent, Row: 5, Col: 1, Indent: 2},
	}, structural(stream))

	// synthesized tokens contribute no text but span the whitespace they
	// describe, directly before their triggering token
	indent := stream.At(2)
	require.Equal(t, TokenIndent, indent.Type())
	assert.Equal(t, 2, indent.PositionStart())
	assert.Equal(t, 4, indent.PositionEnd())
	assert.Equal(t, "  b", indent.Next().Text())
}

func TestIndentMultipleSteps(t *testing.T) {
	tk := mustTokenizer(t, lineRules())
	tk.SetIndentWidth(2)

	// jumping two levels at once emits two INDENT tokens, and returning to
	// zero emits the matching two DEDENT tokens
	stream := tk.Tokenize("a\n    b\nc\n")
	assert.Equal(t, []tok{
		{Type: TokenIndent, Row: 2, Col: 1, Indent: 2},
		{Type: TokenIndent, Row: 2, Col: 3, Indent: 2},
		{Type: TokenDedent, Row: 3, Col: 1, Indent: 2},
		{Type: TokenDedent, Row: 3, Col: 3, Indent: 2},
	}, structural(stream))
}

func TestWrongIndent(t *testing.T) {
	tk := mustTokenizer(t, lineRules())
	tk.SetIndentWidth(4)

	stream := tk.Tokenize("a\n      b\n")
	assert.Equal(t, []tok{
		{Type: TokenIndent, Row: 2, Col: 1, Indent: 4},
		{Type: TokenWrongIndent, Row: 2, Col: 5, Indent: 2},
	}, structural(stream))
}

func TestWrongDedent(t *testing.T) {
	tk := mustTokenizer(t, lineRules())
	tk.SetIndentWidth(4)

	stream := tk.Tokenize("a\n        b\n  c\n")
	assert.Equal(t, []tok{
		{Type: TokenIndent, Row: 2, Col: 1, Indent: 4},
		{Type: TokenIndent, Row: 2, Col: 5, Indent: 4},
		{Type: TokenDedent, Row: 3, Col: 1, Indent: 4},
		{Type: TokenWrongDedent, Row: 3, Col: 5, Indent: 2},
	}, structural(stream))
}

func TestIndentAutoDetect(t *testing.T) {
	tk := mustTokenizer(t, lineRules())
	tk.SetIndentWidth(-1)

	// the first indented line fixes the unit (3) for the rest of the call
	stream := tk.Tokenize("a\n   b\n      c\n")
	assert.Equal(t, []tok{
		{Type: TokenIndent, Row: 2, Col: 1, Indent: 3},
		{Type: TokenIndent, Row: 3, Col: 1, Indent: 3},
	}, structural(stream))
}

func TestIndentDisabled(t *testing.T) {
	tk := mustTokenizer(t, lineRules())

	stream := tk.Tokenize("a\n  b\n    c\n")
	assert.Empty(t, structural(stream))
}

func TestIndentIgnoredByRule(t *testing.T) {
	rules := append(lineRules(),
		CompileRule(RuleSpec{Type: closerType, Pattern: `[ \t]*\)`, IgnoreIndent: true}))

	tk := mustTokenizer(t, rules)
	tk.SetIndentWidth(2)

	// the closing parenthesis line neither emits a DEDENT nor advances the
	// previous indentation width
	stream := tk.Tokenize("a\n  b\n)\n  c\n")
	assert.Equal(t, []tok{
		{Type: TokenIndent, Row: 2, Col: 1, Indent: 2},
	}, structural(stream))
}

func TestBlankLinesDoNotAffectIndent(t *testing.T) {
	tk := mustTokenizer(t, lineRules())
	tk.SetIndentWidth(2)

	stream := tk.Tokenize("a\n  b\n\n\n  c\n")
	assert.Equal(t, []tok{
		{Type: TokenIndent, Row: 2, Col: 1, Indent: 2},
	}, structural(stream))
}

func TestAddRule(t *testing.T) {
	a1 := NewRule(wordType, `a1`)
	a2 := NewRule(wordType, `a2`)
	b := NewRule(keywordType, `b`)

	testCases := []struct {
		mode     InsertMode
		expected []*Rule
	}{
		{mode: InsertLast, expected: []*Rule{a1, a2, b}},
		{mode: InsertBeforeFirstOfType, expected: []*Rule{b, a1, a2}},
		{mode: InsertAfterFirstOfType, expected: []*Rule{a1, b, a2}},
		{mode: InsertBeforeLastOfType, expected: []*Rule{a1, b, a2}},
		{mode: InsertAfterLastOfType, expected: []*Rule{a1, a2, b}},
	}

	for _, tc := range testCases {
		tk := mustTokenizer(t, []*Rule{a1, a2})
		// b has no rule of its own type yet: *OfType modes fall back to append
		tk.AddRule(b, tc.mode)
		assert.Equal(t, []*Rule{a1, a2, b}, tk.Rules(), "mode: %v", tc.mode)
	}

	for _, tc := range testCases {
		tk := mustTokenizer(t, []*Rule{a1, a2})
		w := NewRule(wordType, `w`)
		tk.AddRule(w, tc.mode)

		var want []*Rule
		for _, r := range tc.expected {
			if r == b {
				want = append(want, w)
			} else {
				want = append(want, r)
			}
		}
		assert.Equal(t, want, tk.Rules(), "mode: %v", tc.mode)
	}
}

func TestAddRuleInvalid(t *testing.T) {
	tk := mustTokenizer(t, wordRules())

	bad := NewRule(wordType, "")
	tk.AddRule(bad, InsertLast)

	assert.Len(t, tk.Rules(), 3, "invalid rule must not join the matching set")
	require.Len(t, tk.InvalidRules(), 1)
	assert.Same(t, bad, tk.InvalidRules()[0].Rule)
	assert.ErrorIs(t, tk.InvalidRules()[0].Reason, ErrRuleEmptyPattern)
}

func TestRemoveRule(t *testing.T) {
	a1 := NewRule(wordType, `a1`)
	a2 := NewRule(wordType, `a2`)
	b := NewRule(keywordType, `b`)

	testCases := []struct {
		mode     RemoveMode
		expected []*Rule
	}{
		{mode: RemoveFirst, expected: []*Rule{a2, b}},
		{mode: RemoveLast, expected: []*Rule{a1, b}},
		{mode: RemoveAllOfType, expected: []*Rule{b}},
	}

	for _, tc := range testCases {
		tk := mustTokenizer(t, []*Rule{a1, a2, b})
		tk.RemoveRule(a1, tc.mode)
		assert.Equal(t, tc.expected, tk.Rules(), "mode: %v", tc.mode)
	}
}

func TestNewTokenizerRejectsInvalidRules(t *testing.T) {
	_, err := NewTokenizer([]*Rule{NewRule(wordType, `\w+`), NewRule(wordType, "")})
	assert.ErrorIs(t, err, ErrRuleEmptyPattern)
}

func TestMultiLineRules(t *testing.T) {
	plain := NewRule(wordType, `\w+`)
	multi := CompileRule(RuleSpec{
		Type:           stringType,
		Pattern:        `'{3}(?:.|\s|\n)*?'{3}`,
		MultiLineStart: []string{`'{3}`},
		MultiLineEnd:   []string{`'{3}`},
	})

	tk := mustTokenizer(t, []*Rule{multi, plain})
	assert.Equal(t, []*Rule{multi}, tk.MultiLineRules())
}

func TestTokenEqualsText(t *testing.T) {
	sensitive := CompileRule(RuleSpec{Type: keywordType, Pattern: `FOO`, CaseSensitive: true})
	insensitive := NewRule(wordType, `\w+`)
	space := NewRule(TokenSpace, `[^\S\n]+`)

	tk := mustTokenizer(t, []*Rule{sensitive, insensitive, space})
	stream := tk.Tokenize("FOO Bar")

	foo, bar := stream.At(0), stream.At(2)

	// CaseFromRule follows the owning rule's sensitivity
	assert.True(t, foo.EqualsText("FOO", CaseFromRule, false))
	assert.False(t, foo.EqualsText("foo", CaseFromRule, false))
	assert.True(t, bar.EqualsText("BAR", CaseFromRule, false))

	// explicit overrides
	assert.True(t, foo.EqualsText("foo", CaseInsensitive, false))
	assert.False(t, bar.EqualsText("BAR", CaseSensitive, false))

	// pre-lowered candidates skip the redundant lowering
	assert.True(t, bar.EqualsText("bar", CaseFromRule, true))
	assert.False(t, bar.EqualsText("BAR", CaseFromRule, true))

	assert.True(t, bar.EqualsAnyText([]string{"x", "bar"}, CaseFromRule, true))
	assert.False(t, bar.EqualsAnyText([]string{"x", "y"}, CaseFromRule, true))
}

func runTokenizeBenchmark(b *testing.B, input string) {
	b.Helper()
	tk, err := NewTokenizer(wordRules())
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < b.N; i++ {
		tk.ClearCache()
		_ = tk.Tokenize(input)
	}
}

func BenchmarkTokenizeSmall(b *testing.B) {
	runTokenizeBenchmark(b, "def foo():\n    return 1\n")
}

func BenchmarkTokenizeLarge(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 1000; i++ {
		sb.WriteString(fmt.Sprintf("line%d with several words inside\n", i))
	}
	runTokenizeBenchmark(b, sb.String())
}
