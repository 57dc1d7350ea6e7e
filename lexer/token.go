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
)

// Category classifies token types for rendering and value post-processing.
// It is deliberately coarse: fine-grained identity lives in TokenType.
type Category int

const (
	CategoryNone Category = iota

	// Structural tokens are synthesized by the tokenizer itself (indent,
	// dedent and their wrong-width variants) and never match input text.
	CategoryStructural

	CategoryWhitespace
	CategoryComment
	CategoryKeyword
	CategoryName
	CategoryLiteral
	CategoryString
	CategoryNumber
	CategoryOperator
	CategoryPunctuation
	CategoryDecorator
)

func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryStructural:
		return "structural"
	case CategoryWhitespace:
		return "whitespace"
	case CategoryComment:
		return "comment"
	case CategoryKeyword:
		return "keyword"
	case CategoryName:
		return "name"
	case CategoryLiteral:
		return "literal"
	case CategoryString:
		return "string"
	case CategoryNumber:
		return "number"
	case CategoryOperator:
		return "operator"
	case CategoryPunctuation:
		return "punctuation"
	case CategoryDecorator:
		return "decorator"
	default:
		return "unknown category"
	}
}

// TokenType identifies one class of tokens. Identity is the (Namespace, Code)
// pair: the engine compares types opaquely and never interprets them.
//
// The structural set below lives in the empty namespace; language definitions
// extend the space by declaring values in their own namespace.
type TokenType struct {
	// Namespace scopes language-specific types, e.g. "python". Empty for the
	// structural set.
	Namespace string

	// Code is the stable identifier of the type within its namespace.
	Code string

	// Category drives whitespace simplification and rendering defaults.
	Category Category

	// Description is a human-readable explanation of the type.
	Description string
}

// Structural token types, produced by every tokenizer regardless of the
// registered rule set.
var (
	TokenUnknown     = TokenType{Code: "Unknown", Description: "This value is not known in grammar and might not be interpreted"}
	TokenNewline     = TokenType{Code: "NewLine", Category: CategoryWhitespace, Description: "A line feed"}
	TokenSpace       = TokenType{Code: "Space", Category: CategoryWhitespace, Description: "Space(s) character(s)"}
	TokenIndent      = TokenType{Code: "Indent", Category: CategoryStructural, Description: "An indented block start"}
	TokenDedent      = TokenType{Code: "Dedent", Category: CategoryStructural, Description: "An indented block finished"}
	TokenWrongIndent = TokenType{Code: "WrongIndent", Category: CategoryStructural, Description: "An indent is found but doesn't match expected indentation value"}
	TokenWrongDedent = TokenType{Code: "WrongDedent", Category: CategoryStructural, Description: "A dedent is found but doesn't match expected indentation value"}
	TokenComment     = TokenType{Code: "Comment", Category: CategoryComment, Description: "A comment text"}
)

// IsZero reports whether the type is the zero value, i.e. missing.
func (t TokenType) IsZero() bool {
	return t == TokenType{}
}

func (t TokenType) String() string {
	if t.Namespace == "" {
		return t.Code
	}
	return t.Namespace + "." + t.Code
}

// CaseMode selects how EqualsText compares text.
type CaseMode int

const (
	// CaseFromRule compares according to the case sensitivity of the rule
	// that produced the token. Tokens without a rule compare case sensitive.
	CaseFromRule CaseMode = iota
	CaseSensitive
	CaseInsensitive
)

// Token is one positioned element of a tokenized text. Immutable once built;
// it is owned by the TokenStream that produced it.
type Token struct {
	typ    TokenType
	rule   *Rule // nil for synthesized and unknown tokens
	text   string
	value  string
	lower  string // precomputed lowercase of text for insensitive comparison
	start  int    // absolute byte offset in the tokenized text
	end    int
	row    int // 1-based line number of the token start
	col    int // 1-based column of the token start
	indent int // leading whitespace width, 0 for non indent-bearing tokens

	stream *TokenStream
	index  int
}

// Type returns the token type, copied from its rule at construction time.
func (t *Token) Type() TokenType { return t.typ }

// Rule returns the rule that matched this token, or nil for synthesized
// (indent/dedent) and unknown tokens.
func (t *Token) Rule() *Rule { return t.rule }

// Text returns the raw matched text. Concatenating Text over a whole stream
// reconstructs the tokenized input: synthesized tokens contribute nothing.
func (t *Token) Text() string { return t.text }

// Value returns the processed text: equal to Text unless the tokenizer was
// configured to simplify whitespace, in which case runs of whitespace are
// collapsed to one space for every non comment-category token.
func (t *Token) Value() string { return t.value }

// PositionStart returns the absolute start offset in the tokenized text.
func (t *Token) PositionStart() int { return t.start }

// PositionEnd returns the absolute end offset (exclusive).
func (t *Token) PositionEnd() int { return t.end }

// Length returns the raw text length.
func (t *Token) Length() int { return t.end - t.start }

// Row returns the 1-based line number of the token start.
func (t *Token) Row() int { return t.row }

// Column returns the 1-based column of the token start within its line.
func (t *Token) Column() int { return t.col }

// ColumnEnd returns the 1-based column just past the token on its start line.
func (t *Token) ColumnEnd() int { return t.col + t.Length() }

// Indent returns the width of the leading whitespace carried by the token.
func (t *Token) Indent() int { return t.indent }

// IsUnknown reports whether no rule claimed the token's text.
func (t *Token) IsUnknown() bool { return t.typ == TokenUnknown }

// Previous returns the preceding token in the stream, or nil at the start.
func (t *Token) Previous() *Token {
	if t.stream == nil || t.index == 0 {
		return nil
	}
	return t.stream.tokens[t.index-1]
}

// Next returns the following token in the stream, or nil at the end.
func (t *Token) Next() *Token {
	if t.stream == nil || t.index+1 >= len(t.stream.tokens) {
		return nil
	}
	return t.stream.tokens[t.index+1]
}

// EqualsText compares the token text with value. The comparison honors the
// owning rule's case sensitivity unless mode overrides it. When the caller
// already lowercased value, valueLowered skips the redundant lowering.
func (t *Token) EqualsText(value string, mode CaseMode, valueLowered bool) bool {
	if t.insensitive(mode) {
		if !valueLowered {
			value = strings.ToLower(value)
		}
		return t.lower == value
	}
	return t.text == value
}

// EqualsAnyText reports whether the token text equals any of the candidates,
// under the same comparison rules as EqualsText.
func (t *Token) EqualsAnyText(values []string, mode CaseMode, valuesLowered bool) bool {
	for _, v := range values {
		if t.EqualsText(v, mode, valuesLowered) {
			return true
		}
	}
	return false
}

func (t *Token) insensitive(mode CaseMode) bool {
	switch mode {
	case CaseSensitive:
		return false
	case CaseInsensitive:
		return true
	default:
		return t.rule != nil && t.rule.CaseInsensitive()
	}
}

func (t *Token) String() string {
	return fmt.Sprintf("<Token(%d, %q, Type[%s], Length: %d, Global[Start: %d, End: %d], Line[Start: %d, Number: %d])>",
		t.indent, t.text, t.typ, t.Length(), t.start, t.end, t.col, t.row)
}
