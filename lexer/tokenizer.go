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

// Package lexer provides a generic, rule-driven lexing engine: an ordered set
// of declarative pattern rules applied to arbitrary text producing a
// deterministic, positioned, typed token sequence.
//
// One engine serves several purposes: syntax highlighting of multiple
// languages and lightweight structural scanning of header-like text. Rules
// are plain regular expressions extended with arbitrary-width look-around
// predicates; the engine combines all rule patterns into a single alternation
// for a one-pass scan, synthesizes INDENT/DEDENT tokens from raw whitespace,
// and caches results keyed by content hash.
//
// The tokenizer does not verify the validity of the tokenized text; that is
// the job of whatever parser consumes the token stream.
package lexer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Grum999/PyKritaAPI/internal/collections"
)

// InsertMode selects where AddRule places a rule in the ordered list.
type InsertMode int

const (
	InsertLast InsertMode = iota
	InsertBeforeFirstOfType
	InsertAfterFirstOfType
	InsertBeforeLastOfType
	InsertAfterLastOfType
)

// RemoveMode selects which rule(s) of the given type RemoveRule drops.
type RemoveMode int

const (
	RemoveLast RemoveMode = iota
	RemoveFirst
	RemoveAllOfType
)

// InvalidRule records a rule rejected by AddRule together with the reason.
type InvalidRule struct {
	Rule   *Rule
	Reason error
}

var wsRun = regexp.MustCompile(`\s+`)

// Tokenizer splits text into tokens according to an ordered rule list. Rule
// order is significant: the first rule matching a segment wins.
//
// A Tokenizer and its cache are single-threaded; callers needing parallel
// tokenization must use independent Tokenizer instances.
type Tokenizer struct {
	rules        []*Rule
	invalidRules []InvalidRule

	combined    *regexp.Regexp
	needRebuild bool

	cache *tokenCache

	simplifyWhitespace bool

	// indentWidth: 0 disables indentation synthesis, negative requests
	// auto-detection per Tokenize call, positive fixes the unit.
	indentWidth int

	scans int // full (non-cached) scans performed, observable in tests
}

// NewTokenizer builds an engine over the given ordered rules using the
// default cache bounds. Registering any invalid rule here is a configuration
// error: all recorded problems are aggregated into the returned error.
func NewTokenizer(rules []*Rule) (*Tokenizer, error) {
	return NewTokenizerWithCache(rules, DefaultCacheConfig)
}

// NewTokenizerWithCache is NewTokenizer with explicit cache bounds.
func NewTokenizerWithCache(rules []*Rule, cfg CacheConfig) (*Tokenizer, error) {
	var errs []error
	for _, r := range rules {
		for _, err := range r.Errs() {
			errs = append(errs, fmt.Errorf("rule %q: %w", r.spec.Pattern, err))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid tokenizer rules: %w", errors.Join(errs...))
	}

	return &Tokenizer{
		rules:       append([]*Rule(nil), rules...),
		needRebuild: true,
		cache:       newTokenCache(cfg),
	}, nil
}

// Rules returns the registered valid rules in matching order.
func (tk *Tokenizer) Rules() []*Rule {
	return append([]*Rule(nil), tk.rules...)
}

// MultiLineRules returns the rules carrying multi-line (start, end) pattern
// pairs, used by line-based re-lexing consumers such as editors.
func (tk *Tokenizer) MultiLineRules() []*Rule {
	return collections.FilterSlice(tk.rules, func(r *Rule) bool { return len(r.MultiLine()) > 0 })
}

// InvalidRules returns the rules rejected by AddRule since construction.
func (tk *Tokenizer) InvalidRules() []InvalidRule {
	return append([]InvalidRule(nil), tk.invalidRules...)
}

// AddRule inserts a rule according to mode. Unlike NewTokenizer, an invalid
// rule is not an error here: it is excluded from matching and recorded in
// InvalidRules, so incremental changes degrade gracefully.
func (tk *Tokenizer) AddRule(rule *Rule, mode InsertMode) {
	if !rule.IsValid() {
		tk.invalidRules = append(tk.invalidRules, InvalidRule{Rule: rule, Reason: errors.Join(rule.Errs()...)})
		return
	}

	index := len(tk.rules)
	switch mode {
	case InsertBeforeFirstOfType:
		if i := tk.firstOfType(rule.Type()); i >= 0 {
			index = i
		}
	case InsertAfterFirstOfType:
		if i := tk.firstOfType(rule.Type()); i >= 0 {
			index = i + 1
		}
	case InsertBeforeLastOfType:
		if i := tk.lastOfType(rule.Type()); i >= 0 {
			index = i
		}
	case InsertAfterLastOfType:
		if i := tk.lastOfType(rule.Type()); i >= 0 {
			index = i + 1
		}
	}

	tk.rules = append(tk.rules[:index], append([]*Rule{rule}, tk.rules[index:]...)...)
	tk.needRebuild = true
}

// RemoveRule drops rule(s) of the same type as rule, according to mode.
func (tk *Tokenizer) RemoveRule(rule *Rule, mode RemoveMode) {
	typ := rule.Type()
	switch mode {
	case RemoveFirst:
		if i := tk.firstOfType(typ); i >= 0 {
			tk.rules = append(tk.rules[:i], tk.rules[i+1:]...)
			tk.needRebuild = true
		}
	case RemoveLast:
		if i := tk.lastOfType(typ); i >= 0 {
			tk.rules = append(tk.rules[:i], tk.rules[i+1:]...)
			tk.needRebuild = true
		}
	case RemoveAllOfType:
		kept := collections.FilterSlice(tk.rules, func(r *Rule) bool { return r.Type() != typ })
		if len(kept) != len(tk.rules) {
			tk.rules = kept
			tk.needRebuild = true
		}
	}
}

func (tk *Tokenizer) firstOfType(typ TokenType) int {
	for i, r := range tk.rules {
		if r.Type() == typ {
			return i
		}
	}
	return -1
}

func (tk *Tokenizer) lastOfType(typ TokenType) int {
	for i := len(tk.rules) - 1; i >= 0; i-- {
		if tk.rules[i].Type() == typ {
			return i
		}
	}
	return -1
}

// IndentWidth returns the configured indentation unit.
func (tk *Tokenizer) IndentWidth() int { return tk.indentWidth }

// SetIndentWidth configures indentation synthesis: 0 disables it, a negative
// value requests auto-detection (the unit is fixed to the first non-empty
// indentation width met within a Tokenize call), a positive value fixes it.
func (tk *Tokenizer) SetIndentWidth(width int) {
	if width < 0 {
		width = -1
	}
	if tk.indentWidth != width {
		tk.indentWidth = width
		tk.needRebuild = true
	}
}

// SimplifyWhitespace reports whether token values have whitespace collapsed.
func (tk *Tokenizer) SimplifyWhitespace() bool { return tk.simplifyWhitespace }

// SetSimplifyWhitespace toggles collapsing whitespace runs to one space in
// Value() of non comment-category tokens. Text() and positions are never
// affected.
func (tk *Tokenizer) SetSimplifyWhitespace(enabled bool) {
	if tk.simplifyWhitespace != enabled {
		tk.simplifyWhitespace = enabled
		tk.needRebuild = true
	}
}

// SetBulkMode toggles the cache's high-throughput batch mode: recency
// bookkeeping is suspended while enabled and reconciled when disabled.
func (tk *Tokenizer) SetBulkMode(enabled bool) { tk.cache.setBulkMode(enabled) }

// ClearCache drops every cached tokenization result.
func (tk *Tokenizer) ClearCache() { tk.cache.clear() }

// rebuild recompiles the combined alternation from the valid rules, each
// wrapped to honor its own case sensitivity, and fully invalidates the cache.
func (tk *Tokenizer) rebuild() {
	tk.needRebuild = false
	tk.cache.clear()
	tk.combined = nil
	if len(tk.rules) == 0 {
		return
	}
	patterns := collections.MapSlice(tk.rules, func(r *Rule) string { return r.splitPattern() })
	tk.combined = regexp.MustCompile("(?m)" + strings.Join(patterns, "|"))
}

// Tokenize splits text into a token stream. Results are cached by content
// hash: repeated calls with unchanged rules and options return the same
// immutable stream without re-scanning. Callers walk it through independent
// cursors obtained from TokenStream.Cursor.
func (tk *Tokenizer) Tokenize(text string) *TokenStream {
	if tk.needRebuild {
		tk.rebuild()
	}

	if text == "" || tk.combined == nil {
		return newTokenStream(nil)
	}

	hash := hashContent(text)
	if stream, ok := tk.cache.get(hash); ok {
		tk.cache.sweep()
		return stream
	}

	stream := newTokenStream(tk.scan(text))
	tk.cache.put(hash, stream)
	tk.cache.sweep()
	return stream
}

// scan runs the single-pass split and type resolution over text.
func (tk *Tokenizer) scan(text string) []*Token {
	tk.scans++

	// Segments tile the whole text: combined-pattern matches plus the gaps
	// between them. Gaps match no rule and become UNKNOWN tokens, so that
	// concatenating raw token texts always reconstructs the input.
	type span struct{ start, end int }
	var segments []span
	pos := 0
	for _, m := range tk.combined.FindAllStringIndex(text, -1) {
		if m[0] > pos {
			segments = append(segments, span{pos, m[0]})
		}
		if m[1] > m[0] {
			segments = append(segments, span{m[0], m[1]})
		}
		pos = m[1]
	}
	if pos < len(text) {
		segments = append(segments, span{pos, len(text)})
	}

	st := scanState{
		tokenizer:  tk,
		text:       text,
		row:        1,
		indentUnit: tk.indentWidth,
	}

	var tokens []*Token
	for _, sg := range segments {
		segment := text[sg.start:sg.end]

		var matched *Rule
		for _, r := range tk.rules {
			if r.matches(text, segment, sg.start, sg.end) {
				matched = r
				break
			}
		}

		token := st.newToken(matched, segment, sg.start, sg.end)
		tokens = st.synthesizeIndent(tokens, token, matched)
		tokens = append(tokens, token)
		st.advance(segment, sg.start)
	}
	return tokens
}

// scanState carries position and indentation bookkeeping across one scan.
type scanState struct {
	tokenizer *Tokenizer
	text      string

	row       int // 1-based line of the next segment start
	lineStart int // absolute offset of the current line start

	indentUnit int // effective unit; fixed on first use in auto-detect mode
	prevWidth  int // indentation width of the previous qualifying line
}

func (st *scanState) newToken(rule *Rule, segment string, start, end int) *Token {
	typ := TokenUnknown
	if rule != nil {
		typ = rule.Type()
	}

	value := segment
	if st.tokenizer.simplifyWhitespace && typ.Category != CategoryComment {
		value = wsRun.ReplaceAllString(segment, " ")
	}

	indent := 0
	if typ != TokenNewline {
		indent = len(segment) - len(strings.TrimLeft(segment, " \t\v\f\r\n"))
	}

	return &Token{
		typ:    typ,
		rule:   rule,
		text:   segment,
		value:  value,
		lower:  strings.ToLower(segment),
		start:  start,
		end:    end,
		row:    st.row,
		col:    start - st.lineStart + 1,
		indent: indent,
	}
}

// advance moves the line bookkeeping past a consumed segment.
func (st *scanState) advance(segment string, start int) {
	if newlines := strings.Count(segment, "\n"); newlines > 0 {
		st.row += newlines
		st.lineStart = start + strings.LastIndexByte(segment, '\n') + 1
	}
}

// synthesizeIndent inserts INDENT/DEDENT (and WRONG_*) tokens before token
// when it starts a line with a changed indentation width. Only rule-backed,
// non-blank, column-1 tokens whose rule does not ignore indentation qualify;
// prevWidth advances only on those.
func (st *scanState) synthesizeIndent(tokens []*Token, token *Token, rule *Rule) []*Token {
	if st.indentUnit == 0 || rule == nil || rule.IgnoreIndent() {
		return tokens
	}
	if token.col != 1 || strings.TrimSpace(token.text) == "" {
		return tokens
	}

	width := token.indent
	if st.indentUnit < 0 {
		if width == 0 {
			return tokens
		}
		// auto-detection: the first indented line fixes the unit for the
		// remainder of this call
		st.indentUnit = width
	}

	switch {
	case width > st.prevWidth:
		steps, rem := divmod(width-st.prevWidth, st.indentUnit)
		tokens = st.appendSynthesized(tokens, token, TokenIndent, TokenWrongIndent, steps, rem)
	case width < st.prevWidth:
		steps, rem := divmod(st.prevWidth-width, st.indentUnit)
		tokens = st.appendSynthesized(tokens, token, TokenDedent, TokenWrongDedent, steps, rem)
	}
	st.prevWidth = width
	return tokens
}

// appendSynthesized emits steps full-unit tokens of typ then, if a remainder
// is left, one wrongTyp token of that width. Synthesized tokens carry no text
// (they are zero-width) but span the whitespace columns they describe.
func (st *scanState) appendSynthesized(tokens []*Token, trigger *Token, typ, wrongTyp TokenType, steps, rem int) []*Token {
	unit := st.indentUnit
	for i := 0; i < steps; i++ {
		tokens = append(tokens, st.synthetic(typ, trigger, trigger.start+unit*i, unit))
	}
	if rem > 0 {
		tokens = append(tokens, st.synthetic(wrongTyp, trigger, trigger.start+unit*steps, rem))
	}
	return tokens
}

func (st *scanState) synthetic(typ TokenType, trigger *Token, start, width int) *Token {
	return &Token{
		typ:    typ,
		start:  start,
		end:    start + width,
		row:    trigger.row,
		col:    start - st.lineStart + 1,
		indent: width,
	}
}

func divmod(a, b int) (int, int) {
	return a / b, a % b
}
