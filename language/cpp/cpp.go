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

// Package cpp defines a tokenization subset for C++ header files: not a
// complete grammar, but enough to scan headers for declarations, comments and
// Qt-specific identifiers.
package cpp

import (
	"github.com/Grum999/PyKritaAPI/language"
	"github.com/Grum999/PyKritaAPI/lexer"
)

func cppType(code string, category lexer.Category, description string) lexer.TokenType {
	return lexer.TokenType{Namespace: "cpp", Code: code, Category: category, Description: description}
}

var (
	TokenString       = cppType("Str", lexer.CategoryString, "A String value")
	TokenCommentBlock = cppType("Comment_blk", lexer.CategoryComment, "A comment block")

	TokenIdentifier = cppType("Identifier", lexer.CategoryName, "An identifier")
	TokenIgnored    = cppType("Ignored", lexer.CategoryNone, "Declarations skipped by consumers")

	TokenDelimiterOperator   = cppType("Delim_operator", lexer.CategoryOperator, "Assignment")
	TokenDelimiterSeparator  = cppType("Delim_separator", lexer.CategoryPunctuation, "Separator like comma")
	TokenDelimiterParenOpen  = cppType("Delim_parO", lexer.CategoryPunctuation, "Parenthesis (open)")
	TokenDelimiterParenClose = cppType("Delim_parC", lexer.CategoryPunctuation, "Parenthesis (close)")
	TokenDelimiterCurlyOpen  = cppType("Delim_curlbO", lexer.CategoryPunctuation, "Curly brace (open)")
	TokenDelimiterCurlyClose = cppType("Delim_curlbC", lexer.CategoryPunctuation, "Curly brace (close)")
)

func rules() []*lexer.Rule {
	caseSensitive := func(typ lexer.TokenType, pattern string) *lexer.Rule {
		return lexer.CompileRule(lexer.RuleSpec{Type: typ, Pattern: pattern, CaseSensitive: true})
	}

	return []*lexer.Rule{
		lexer.NewRule(TokenString,
			`(?:"(?:(?:.?\\"|[^"])*(?:\.(?:\\"|[^"]*))*")|(?:'(?:.?\\'|[^'])*(?:\.(?:\\'|[^']*))*'))`),

		lexer.CompileRule(lexer.RuleSpec{
			Type:           TokenCommentBlock,
			Pattern:        `(?:/\*(?:.|\s|\n)*?\*/)`,
			MultiLineStart: []string{`/\*`},
			MultiLineEnd:   []string{`\*/`},
		}),
		lexer.NewRule(lexer.TokenComment, `//[^\n]*`),

		caseSensitive(TokenIdentifier, `Qt::[A-Za-z\d_]+`),
		caseSensitive(TokenIdentifier, `QList<[^>]+>|QMap<[^>]+>`),
		caseSensitive(TokenIdentifier, `Q_DECL_DEPRECATED`),

		// destructors, explicit constructors, preprocessor lines and noise
		// that header consumers skip over
		lexer.NewRule(TokenIgnored,
			`^\s*~[^;]+;|^\s*explicit[^;]*;|#[^\n]*$|[\*\-&~]|const|override|Q_SLOTS`),

		caseSensitive(TokenIdentifier,
			`\d+|\b(?:[a-zA-Z_][a-zA-Z0-9_]*)(?:<(?:[a-zA-Z_][a-zA-Z0-9_]*\*?)(?:\s*,\s*[a-zA-Z_][a-zA-Z0-9_]*\*?)*>)?`),

		lexer.NewRule(TokenDelimiterOperator, `=`),
		lexer.NewRule(TokenDelimiterSeparator, `[,:;]`),
		lexer.NewRule(TokenDelimiterParenOpen, `\(`),
		lexer.CompileRule(lexer.RuleSpec{Type: TokenDelimiterParenClose, Pattern: `\)`, IgnoreIndent: true}),
		lexer.NewRule(TokenDelimiterCurlyOpen, `\{`),
		lexer.CompileRule(lexer.RuleSpec{Type: TokenDelimiterCurlyClose, Pattern: `\}`, IgnoreIndent: true}),

		lexer.NewRule(lexer.TokenSpace, `[^\S\n]+`),
		lexer.NewRule(lexer.TokenNewline, `(?:^\s*\r?\n|\r?\n?\s*\r?\n)+`),
	}
}

// NewDefinition builds the C++ header definition. Headers are not
// indentation-sensitive so no indent width is configured.
func NewDefinition() *language.Definition {
	tokenizer, err := lexer.NewTokenizer(rules())
	if err != nil {
		panic(err)
	}
	tokenizer.SetSimplifyWhitespace(true)

	def := language.New("Header C++", []string{".h"}, tokenizer)
	for typ, style := range styles {
		def.SetStyle(typ, style)
	}
	return def
}

var styles = map[lexer.TokenType]language.Style{
	TokenString:        {Foreground: "#98c379"},
	TokenCommentBlock:  {Foreground: "#5c6370", Italic: true},
	TokenIdentifier:    {Foreground: "#e6e6e6"},
	lexer.TokenComment: {Foreground: "#5c6370", Italic: true},
}
