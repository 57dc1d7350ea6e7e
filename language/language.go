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

// Package language defines how a concrete language binds an ordered rule set
// to the lexing engine: a Definition carries a configured tokenizer, the file
// extensions it claims and the rendering styles of its token types.
//
// Built-in definitions live in subpackages; custom ones load from YAML.
package language

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Grum999/PyKritaAPI/internal/collections"
	"github.com/Grum999/PyKritaAPI/lexer"
)

// Style describes how tokens of one type are rendered by highlighters.
type Style struct {
	Foreground string `yaml:"foreground"`
	Bold       bool   `yaml:"bold"`
	Italic     bool   `yaml:"italic"`
}

// Definition binds a named language to its configured tokenizer.
type Definition struct {
	name       string
	extensions []string
	tokenizer  *lexer.Tokenizer
	styles     map[lexer.TokenType]Style
}

// New builds a Definition over an already configured tokenizer. Extensions
// are normalized to lower case with a leading dot.
func New(name string, extensions []string, tokenizer *lexer.Tokenizer) *Definition {
	def := &Definition{
		name:      name,
		tokenizer: tokenizer,
		styles:    make(map[lexer.TokenType]Style),
	}
	for _, ext := range extensions {
		def.extensions = append(def.extensions, normalizeExt(ext))
	}
	return def
}

// Name returns the language name.
func (d *Definition) Name() string { return d.name }

// Extensions returns the file extensions claimed by the language.
func (d *Definition) Extensions() []string {
	return append([]string(nil), d.extensions...)
}

// Tokenizer returns the tokenizer configured for the language.
func (d *Definition) Tokenizer() *lexer.Tokenizer { return d.tokenizer }

// SetStyle records the rendering style of one token type.
func (d *Definition) SetStyle(typ lexer.TokenType, style Style) {
	d.styles[typ] = style
}

// Style returns the rendering style of a token type, falling back to the
// zero Style when none was recorded.
func (d *Definition) Style(typ lexer.TokenType) (Style, bool) {
	style, ok := d.styles[typ]
	return style, ok
}

// Registry maps file extensions and names to language definitions.
type Registry struct {
	byName map[string]*Definition
	byExt  map[string]*Definition
	names  collections.Set[string]
}

func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Definition),
		byExt:  make(map[string]*Definition),
		names:  collections.SetOf[string](),
	}
}

// Register adds a definition, claiming its name and extensions. The last
// registration wins on conflicts.
func (r *Registry) Register(def *Definition) {
	r.byName[strings.ToLower(def.Name())] = def
	r.names.Add(strings.ToLower(def.Name()))
	for _, ext := range def.Extensions() {
		r.byExt[ext] = def
	}
}

// ByName returns the definition registered under name, case insensitive.
func (r *Registry) ByName(name string) (*Definition, bool) {
	def, ok := r.byName[strings.ToLower(name)]
	return def, ok
}

// ByExtension returns the definition claiming the extension of path.
func (r *Registry) ByExtension(path string) (*Definition, bool) {
	def, ok := r.byExt[normalizeExt(filepath.Ext(path))]
	return def, ok
}

// Names returns the registered language names, sorted.
func (r *Registry) Names() []string {
	return r.names.SortedValues(strings.Compare)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// parseCategory maps the YAML category names onto lexer categories.
func parseCategory(name string) (lexer.Category, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return lexer.CategoryNone, nil
	case "whitespace":
		return lexer.CategoryWhitespace, nil
	case "comment":
		return lexer.CategoryComment, nil
	case "keyword":
		return lexer.CategoryKeyword, nil
	case "name":
		return lexer.CategoryName, nil
	case "literal":
		return lexer.CategoryLiteral, nil
	case "string":
		return lexer.CategoryString, nil
	case "number":
		return lexer.CategoryNumber, nil
	case "operator":
		return lexer.CategoryOperator, nil
	case "punctuation":
		return lexer.CategoryPunctuation, nil
	case "decorator":
		return lexer.CategoryDecorator, nil
	default:
		return lexer.CategoryNone, fmt.Errorf("unknown token category %q", name)
	}
}
