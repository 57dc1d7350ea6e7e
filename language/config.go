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

package language

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Grum999/PyKritaAPI/lexer"
)

// RuleConfig is the YAML form of one tokenizer rule.
type RuleConfig struct {
	Type           string   `yaml:"type"`
	Category       string   `yaml:"category"`
	Description    string   `yaml:"description"`
	Pattern        string   `yaml:"pattern"`
	CaseSensitive  bool     `yaml:"caseSensitive"`
	IgnoreIndent   bool     `yaml:"ignoreIndent"`
	MultiLineStart []string `yaml:"multiLineStart"`
	MultiLineEnd   []string `yaml:"multiLineEnd"`
	Style          *Style   `yaml:"style"`
}

// DefinitionConfig is the YAML form of a whole language definition.
type DefinitionConfig struct {
	Name               string       `yaml:"name"`
	Extensions         []string     `yaml:"extensions"`
	IndentWidth        int          `yaml:"indentWidth"`
	SimplifyWhitespace bool         `yaml:"simplifyWhitespace"`
	Rules              []RuleConfig `yaml:"rules"`
}

// LoadDefinition reads a YAML language definition. Rule order in the file is
// the matching order.
func LoadDefinition(r io.Reader) (*Definition, error) {
	var cfg DefinitionConfig
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decoding language definition: %w", err)
	}
	return cfg.Build()
}

// LoadDefinitionFile is LoadDefinition over a file path.
func LoadDefinitionFile(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadDefinition(f)
}

// Build compiles the configured rules into a Definition.
func (cfg *DefinitionConfig) Build() (*Definition, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("language definition has no name")
	}

	namespace := strings.ToLower(cfg.Name)
	styles := make(map[lexer.TokenType]Style)

	var rules []*lexer.Rule
	for _, rc := range cfg.Rules {
		typ, err := cfg.tokenType(namespace, rc)
		if err != nil {
			return nil, err
		}
		rules = append(rules, lexer.CompileRule(lexer.RuleSpec{
			Type:           typ,
			Pattern:        rc.Pattern,
			CaseSensitive:  rc.CaseSensitive,
			IgnoreIndent:   rc.IgnoreIndent,
			MultiLineStart: rc.MultiLineStart,
			MultiLineEnd:   rc.MultiLineEnd,
		}))
		if rc.Style != nil {
			styles[typ] = *rc.Style
		}
	}

	tokenizer, err := lexer.NewTokenizer(rules)
	if err != nil {
		return nil, fmt.Errorf("language %q: %w", cfg.Name, err)
	}
	tokenizer.SetIndentWidth(cfg.IndentWidth)
	tokenizer.SetSimplifyWhitespace(cfg.SimplifyWhitespace)

	def := New(cfg.Name, cfg.Extensions, tokenizer)
	for typ, style := range styles {
		def.SetStyle(typ, style)
	}
	return def, nil
}

// structural token types addressable by their code from YAML definitions
var structuralTypes = []lexer.TokenType{
	lexer.TokenUnknown, lexer.TokenNewline, lexer.TokenSpace, lexer.TokenComment,
}

func (cfg *DefinitionConfig) tokenType(namespace string, rc RuleConfig) (lexer.TokenType, error) {
	if rc.Type == "" {
		return lexer.TokenType{}, fmt.Errorf("language %q: rule %q has no type", cfg.Name, rc.Pattern)
	}

	for _, t := range structuralTypes {
		if strings.EqualFold(t.Code, rc.Type) {
			return t, nil
		}
	}

	category, err := parseCategory(rc.Category)
	if err != nil {
		return lexer.TokenType{}, fmt.Errorf("language %q: rule %q: %w", cfg.Name, rc.Type, err)
	}
	return lexer.TokenType{
		Namespace:   namespace,
		Code:        rc.Type,
		Category:    category,
		Description: rc.Description,
	}, nil
}
