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

// Package python defines the Python tokenization rules: strings in all their
// byte/format/long variants, comments, decorators, keywords, builtins,
// numbers, declarations and delimiters. Long strings carry multi-line
// start/end pairs for line-based re-lexing consumers.
package python

import (
	"github.com/Grum999/PyKritaAPI/language"
	"github.com/Grum999/PyKritaAPI/lexer"
)

func pyType(code string, category lexer.Category, description string) lexer.TokenType {
	return lexer.TokenType{Namespace: "python", Code: code, Category: category, Description: description}
}

var (
	TokenString       = pyType("Str", lexer.CategoryString, "A String value")
	TokenFString      = pyType("Fstr", lexer.CategoryString, "A F-String value")
	TokenBString      = pyType("Bstr", lexer.CategoryString, "A Binary String value")
	TokenStringLongS  = pyType("Str_l_s", lexer.CategoryString, "A long String value (single quote)")
	TokenStringLongD  = pyType("Str_l_d", lexer.CategoryString, "A long String value (double quotes)")
	TokenFStringLongS = pyType("Fstr_l_s", lexer.CategoryString, "A long F-String value (single quote)")
	TokenFStringLongD = pyType("Fstr_l_d", lexer.CategoryString, "A long F-String value (double quotes)")
	TokenBStringLongS = pyType("Bstr_l_s", lexer.CategoryString, "A long Binary String value (single quote)")
	TokenBStringLongD = pyType("Bstr_l_d", lexer.CategoryString, "A long Binary String value (double quotes)")

	TokenNumberInt = pyType("Number_int", lexer.CategoryNumber, "An INTEGER NUMBER value")
	TokenNumberFlt = pyType("Number_flt", lexer.CategoryNumber, "A FLOAT NUMBER value")

	TokenKeyword         = pyType("Kwrd", lexer.CategoryKeyword, "A keyword identifier")
	TokenKeywordSoft     = pyType("Kwrd_soft", lexer.CategoryKeyword, "A soft keyword identifier")
	TokenKeywordConstant = pyType("Kwrd_const", lexer.CategoryKeyword, "A keyword constant")
	TokenKeywordOperator = pyType("Kwrd_operator", lexer.CategoryKeyword, "A keyword operator")

	TokenBuiltinFunc      = pyType("Builtin_fct", lexer.CategoryName, "Built-in function")
	TokenBuiltinException = pyType("Builtin_except", lexer.CategoryName, "Built-in exception")

	TokenOperatorBinary = pyType("Boperators", lexer.CategoryOperator, "Operators like plus, minus, divide, ...")
	TokenOperatorDual   = pyType("Doperators", lexer.CategoryOperator, `Operators like "-" that can be unary or binary`)

	TokenDelimiter           = pyType("Delim", lexer.CategoryPunctuation, "Miscellaneous delimiters")
	TokenDelimiterOperator   = pyType("Delim_operator", lexer.CategoryOperator, "Operators considered as delimiters in Python")
	TokenDelimiterSeparator  = pyType("Delim_separator", lexer.CategoryPunctuation, "Separator like comma")
	TokenDelimiterParenOpen  = pyType("Delim_parO", lexer.CategoryPunctuation, "Parenthesis (open)")
	TokenDelimiterParenClose = pyType("Delim_parC", lexer.CategoryPunctuation, "Parenthesis (close)")
	TokenDelimiterBrackOpen  = pyType("Delim_brackO", lexer.CategoryPunctuation, "Bracket (open)")
	TokenDelimiterBrackClose = pyType("Delim_brackC", lexer.CategoryPunctuation, "Bracket (close)")
	TokenDelimiterCurlyOpen  = pyType("Delim_curlbO", lexer.CategoryPunctuation, "Curly brace (open)")
	TokenDelimiterCurlyClose = pyType("Delim_curlbC", lexer.CategoryPunctuation, "Curly brace (close)")

	TokenDeclFunc  = pyType("Function_decl", lexer.CategoryName, "Declare a Function")
	TokenDeclClass = pyType("Class_decl", lexer.CategoryName, "Declare a Class")

	TokenIdentifier = pyType("Identifier", lexer.CategoryName, "An identifier")
	TokenDecorator  = pyType("Decorator", lexer.CategoryDecorator, "A decorator")

	TokenLineJoin = pyType("Linejoin", lexer.CategoryPunctuation, "Line join")
)

// rules returns the ordered Python rule table. Order is significant: long
// string forms must come before short ones, keywords before identifiers.
func rules() []*lexer.Rule {
	caseSensitive := func(typ lexer.TokenType, pattern string) *lexer.Rule {
		return lexer.CompileRule(lexer.RuleSpec{Type: typ, Pattern: pattern, CaseSensitive: true})
	}
	longString := func(typ lexer.TokenType, pattern, mlStart, mlEnd string) *lexer.Rule {
		return lexer.CompileRule(lexer.RuleSpec{
			Type:           typ,
			Pattern:        pattern,
			MultiLineStart: []string{mlStart},
			MultiLineEnd:   []string{mlEnd},
		})
	}

	return []*lexer.Rule{
		// string and bytes literals, long forms first
		// https://docs.python.org/3.10/reference/lexical_analysis.html#string-and-bytes-literals
		longString(TokenBStringLongS,
			`(?:RB|Rb|rB|rb|BR|bR|Br|br|B|b)(?:'{3}(?:.|\s|\n)*?'{3})`,
			`(RB|Rb|rB|rb|BR|bR|Br|br|B|b)(?:'{3})`, `(?:'{3})`),
		longString(TokenBStringLongD,
			`(?:RB|Rb|rB|rb|BR|bR|Br|br|B|b)(?:"{3}(?:.|\s|\n)*?"{3})`,
			`(RB|Rb|rB|rb|BR|bR|Br|br|B|b)(?:"{3})`, `(?:"{3})`),
		longString(TokenFStringLongS,
			`(?:RF|Rf|rF|rf|FR|fR|Fr|fr|F|f)(?:'{3}(?:.|\s|\n)*?'{3})`,
			`(RF|Rf|rF|rf|FR|fR|Fr|fr|F|f)(?:'{3})`, `(?:'{3})`),
		longString(TokenFStringLongD,
			`(?:RF|Rf|rF|rf|FR|fR|Fr|fr|F|f)(?:"{3}(?:.|\s|\n)*?"{3})`,
			`(RF|Rf|rF|rf|FR|fR|Fr|fr|F|f)(?:"{3})`, `(?:"{3})`),
		longString(TokenStringLongS,
			`(?:U|u|R|r)?(?:'{3}(?:.|\s|\n)*?'{3})`,
			`(U|u|R|r)?(?:'{3})`, `(?:'{3})`),
		longString(TokenStringLongD,
			`(?:U|u|R|r)?(?:"{3}(?:.|\s|\n)*?"{3})`,
			`(U|u|R|r)?(?:"{3})`, `(?:"{3})`),

		lexer.NewRule(TokenBString,
			`(?:RB|Rb|rB|rb|BR|bR|Br|br|B|b)(?:(?:"(?:.?\\"|[^"])*(?:\.(?:\\"|[^"]*))*")|(?:'(?:.?\\'|[^'])*(?:\.(?:\\'|[^']*))*'))`),
		lexer.NewRule(TokenFString,
			`(?:RF|Rf|rF|rf|FR|fR|Fr|fr|F|f)(?:(?:"(?:.?\\"|[^"])*(?:\.(?:\\"|[^"]*))*")|(?:'(?:.?\\'|[^'])*(?:\.(?:\\'|[^']*))*'))`),
		lexer.NewRule(TokenString,
			`(?:U|u|R|r)?(?:(?:"(?:.?\\"|[^"])*(?:\.(?:\\"|[^"]*))*")|(?:'(?:.?\\'|[^'])*(?:\.(?:\\'|[^']*))*'))`),

		lexer.NewRule(lexer.TokenComment, `#[^\n]*`),

		// https://peps.python.org/pep-0318/
		lexer.NewRule(TokenDecorator, `(?:@[a-z_][a-z0-9_]*)\b`),

		// https://docs.python.org/3.10/reference/lexical_analysis.html#keywords
		caseSensitive(TokenKeyword,
			`\b(?:`+
				`yield|`+
				`with|while|`+
				`try|`+
				`return|raise|`+
				`pass|`+
				`nonlocal|`+
				`lambda|`+
				`import|if|`+
				`global|`+
				`from|for|finally|`+
				`except|else|elif|`+
				`del|def|`+
				`continue|class|`+
				`break|`+
				`await|async|assert|as`+
				`)\b`),
		caseSensitive(TokenKeywordOperator, `\b(?:and|in|is|or|not)\b`),

		// https://docs.python.org/3.10/library/functions.html
		caseSensitive(TokenBuiltinFunc,
			`\b(?:`+
				`zip|`+
				`vars|`+
				`type|tuple|`+
				`super|sum|str|staticmethod|sorted|slice|setattr|set|`+
				`round|reversed|repr|range|`+
				`property|print|pow|`+
				`ord|open|oct|object|`+
				`next|`+
				`min|memoryview|max|map|`+
				`locals|list|len|`+
				`iter|issubclass|isinstance|int|input|id|`+
				`hex|help|hash|hasattr|`+
				`globals|getattr|`+
				`frozenset|format|float|filter|`+
				`exec|eval|enumerate|`+
				`divmod|dir|dict|delattr|`+
				`complex|compile|classmethod|chr|callable|`+
				`bytes|bytearray|breakpoint|bool|bin|`+
				`ascii|any|anext|all|aiter|abs|`+
				`__import__`+
				`)\b(?=\()`),

		// https://docs.python.org/3.10/library/exceptions.html
		caseSensitive(TokenBuiltinException,
			`\b(?:`+
				`ZeroDivisionError|`+
				`Warning|`+
				`ValueError|`+
				`UserWarning|UnicodeWarning|UnicodeTranslateError|UnicodeError|UnicodeEncodeError|UnicodeDecodeError|UnboundLocalError|`+
				`TypeError|TimeoutError|TabError|`+
				`SystemExit|SystemError|SyntaxWarning|SyntaxError|StopIteration|StopAsyncIteration|`+
				`RuntimeWarning|RuntimeError|ResourceWarning|ReferenceError|RecursionError|`+
				`ProcessLookupError|PermissionError|PendingDeprecationWarning|`+
				`OverflowError|OSError|`+
				`NotImplementedError|NotADirectoryError|NameError|`+
				`ModuleNotFoundError|MemoryError|`+
				`LookupError|`+
				`KeyboardInterrupt|KeyError|`+
				`IsADirectoryError|InterruptedError|IndexError|IndentationError|ImportWarning|ImportError|`+
				`GeneratorExit|`+
				`FutureWarning|FloatingPointError|FileNotFoundError|FileExistsError|`+
				`Exception|EncodingWarning|EOFError|`+
				`DeprecationWarning|`+
				`ConnectionResetError|ConnectionRefusedError|ConnectionError|ConnectionAbortedError|ChildProcessError|`+
				`BytesWarning|BufferError|BrokenPipeError|BlockingIOError|BaseException|`+
				`AttributeError|AssertionError|ArithmeticError`+
				`)\b`),

		// https://docs.python.org/3.10/library/constants.html
		caseSensitive(TokenKeywordConstant, `\b(?:Ellipsis|False|None|True|NotImplemented)\b`),

		// https://docs.python.org/3.10/reference/lexical_analysis.html#soft-keywords
		caseSensitive(TokenKeywordSoft, `\b(?:case|match|_)\b`),

		// https://docs.python.org/3.10/reference/lexical_analysis.html#floating-point-literals (+imaginary)
		lexer.NewRule(TokenNumberFlt,
			`\b(?:(?:\d(?:_?\d)*\.|\.)(?:\d(?:_?\d)*)?(?:e[+-]?\d(?:_?\d)*)?|[1-9]\d*(?:e[+-]?\d(?:_?\d)*))j?\b`),

		// https://docs.python.org/3.10/reference/lexical_analysis.html#integer-literals (+imaginary)
		lexer.NewRule(TokenNumberInt,
			`\b(?:[1-9](?:_?\d+)*|0o(?:_?[0-7]+)*|0b(?:_?[01]+)*|0x(?:_?[0-9A-F]+)*|0+)j?\b`),

		lexer.NewRule(TokenDeclFunc, `(?<=def\s+)(?:[a-z_][a-z0-9_]*)(?=\s*\()`),
		lexer.NewRule(TokenDeclClass, `(?<=class\s+)(?:[a-zA-Z_][a-zA-Z0-9_]*)(?=\s*[\(:])`),

		// https://docs.python.org/3.10/reference/lexical_analysis.html#identifiers
		caseSensitive(TokenIdentifier, `\b(?:[a-zA-Z_][a-zA-Z0-9_]*)\b`),

		lexer.NewRule(TokenLineJoin, `\s\\$`),

		// https://docs.python.org/3.10/reference/lexical_analysis.html#delimiters
		// must be defined before operators to let the combined pattern catch
		// them properly
		lexer.NewRule(TokenDelimiter, `->`),
		lexer.NewRule(TokenDelimiterOperator,
			`(?:\+=|-=|\*\*=|\*=|//=|/=|%=|@=|&=|\|=|\^=|>>=|<<=|=)`),

		// https://docs.python.org/3.10/reference/lexical_analysis.html#operators
		lexer.CompileRule(lexer.RuleSpec{
			Type:          TokenOperatorBinary,
			Pattern:       `\+|\*\*|\*|//|/|%|<<|>>|&|\||\^|~|:=|<=|<>|<|>=|>|==|!=`,
			CaseSensitive: true,
			IgnoreIndent:  true,
		}),
		lexer.CompileRule(lexer.RuleSpec{Type: TokenOperatorDual, Pattern: `-`, IgnoreIndent: true}),

		lexer.NewRule(TokenDelimiterSeparator, `[,;\.:]`),
		lexer.NewRule(TokenDelimiterParenOpen, `\(`),
		lexer.CompileRule(lexer.RuleSpec{Type: TokenDelimiterParenClose, Pattern: `\)`, IgnoreIndent: true}),
		lexer.NewRule(TokenDelimiterBrackOpen, `\[`),
		lexer.CompileRule(lexer.RuleSpec{Type: TokenDelimiterBrackClose, Pattern: `\]`, IgnoreIndent: true}),
		lexer.NewRule(TokenDelimiterCurlyOpen, `\{`),
		lexer.CompileRule(lexer.RuleSpec{Type: TokenDelimiterCurlyClose, Pattern: `\}`, IgnoreIndent: true}),

		// all spaces except line feed
		lexer.NewRule(lexer.TokenSpace, `[^\S\n]+`),

		// line feed, swallowing blank lines
		lexer.NewRule(lexer.TokenNewline, `(?:^\s*\r?\n|\r?\n?\s*\r?\n)+`),

		// everything else
		lexer.NewRule(lexer.TokenUnknown, `[^\s]+`),
	}
}

// NewDefinition builds the Python language definition: whitespace
// simplification on, indentation unit of 4.
func NewDefinition() *language.Definition {
	tokenizer, err := lexer.NewTokenizer(rules())
	if err != nil {
		// the rule table is static; a compilation problem is a programming error
		panic(err)
	}
	tokenizer.SetSimplifyWhitespace(true)
	tokenizer.SetIndentWidth(4)

	def := language.New("Python", []string{".py"}, tokenizer)
	for typ, style := range styles {
		def.SetStyle(typ, style)
	}
	return def
}

// styles follows the dark theme of the original definition.
var styles = map[lexer.TokenType]language.Style{
	TokenString:       {Foreground: "#98c379"},
	TokenStringLongS:  {Foreground: "#aed095"},
	TokenStringLongD:  {Foreground: "#aed095"},
	TokenFString:      {Foreground: "#98c379", Italic: true},
	TokenFStringLongS: {Foreground: "#aed095", Italic: true},
	TokenFStringLongD: {Foreground: "#aed095", Italic: true},
	TokenBString:      {Foreground: "#56b6c2"},
	TokenBStringLongS: {Foreground: "#7cc6d0"},
	TokenBStringLongD: {Foreground: "#7cc6d0"},

	TokenNumberInt: {Foreground: "#c9986a"},
	TokenNumberFlt: {Foreground: "#c9986a"},

	TokenKeyword:         {Foreground: "#c678dd", Bold: true},
	TokenKeywordSoft:     {Foreground: "#c678dd", Bold: true},
	TokenKeywordConstant: {Foreground: "#dd7892", Bold: true},
	TokenKeywordOperator: {Foreground: "#ff99ff", Bold: true},

	TokenBuiltinFunc:      {Foreground: "#80bfff"},
	TokenBuiltinException: {Foreground: "#e83030", Bold: true},

	TokenOperatorBinary: {Foreground: "#ff99ff"},
	TokenOperatorDual:   {Foreground: "#ff99ff"},

	TokenDelimiter:           {Foreground: "#ff66d9"},
	TokenDelimiterOperator:   {Foreground: "#ff99ff"},
	TokenDelimiterSeparator:  {Foreground: "#ff66d9"},
	TokenDelimiterParenOpen:  {Foreground: "#ff66d9"},
	TokenDelimiterParenClose: {Foreground: "#ff66d9"},
	TokenDelimiterBrackOpen:  {Foreground: "#ff66d9"},
	TokenDelimiterBrackClose: {Foreground: "#ff66d9"},
	TokenDelimiterCurlyOpen:  {Foreground: "#ff66d9"},
	TokenDelimiterCurlyClose: {Foreground: "#ff66d9"},

	TokenLineJoin: {Foreground: "#ff66d9", Bold: true},

	TokenDeclFunc:  {Foreground: "#ffe066", Bold: true},
	TokenDeclClass: {Foreground: "#ffe066", Bold: true},

	TokenIdentifier: {Foreground: "#e6e6e6"},
	TokenDecorator:  {Foreground: "#ffffe6", Bold: true, Italic: true},

	lexer.TokenComment: {Foreground: "#5c6370", Italic: true},
}
