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

// highlight renders a source file to the terminal with ANSI colors. Styles
// come from the language definition, falling back to per-category defaults.
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Grum999/PyKritaAPI/language"
	"github.com/Grum999/PyKritaAPI/language/cpp"
	"github.com/Grum999/PyKritaAPI/language/python"
	"github.com/Grum999/PyKritaAPI/lexer"
)

// categoryStyles are the fallback colors of token categories without a
// per-type style in the language definition.
var categoryStyles = map[lexer.Category]language.Style{
	lexer.CategoryComment:     {Foreground: "#5c6370", Italic: true},
	lexer.CategoryKeyword:     {Foreground: "#c678dd", Bold: true},
	lexer.CategoryString:      {Foreground: "#98c379"},
	lexer.CategoryNumber:      {Foreground: "#c9986a"},
	lexer.CategoryOperator:    {Foreground: "#ff99ff"},
	lexer.CategoryPunctuation: {Foreground: "#ff66d9"},
	lexer.CategoryDecorator:   {Foreground: "#ffffe6", Bold: true, Italic: true},
}

func main() {
	lang := flag.String("lang", "", "Language name; inferred from file extension when empty")
	rulesFile := flag.String("rules", "", "YAML language definition to use instead of the built-in ones")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		log.Fatal("Program requires exactly 1 argument - a source file path, or - for stdin. Flags need to be defined before arguments")
	}
	file := flag.Arg(0)

	registry := language.NewRegistry()
	registry.Register(python.NewDefinition())
	registry.Register(cpp.NewDefinition())

	def, err := pickDefinition(registry, *rulesFile, *lang, file)
	if err != nil {
		log.Fatal(err)
	}

	text, err := readInput(file)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", file, err)
	}

	render(os.Stdout, def, def.Tokenizer().Tokenize(text))
}

func pickDefinition(registry *language.Registry, rulesFile, lang, file string) (*language.Definition, error) {
	if rulesFile != "" {
		def, err := language.LoadDefinitionFile(rulesFile)
		if err != nil {
			return nil, err
		}
		return def, nil
	}
	if lang != "" {
		def, ok := registry.ByName(lang)
		if !ok {
			return nil, unknownLanguage(lang, registry)
		}
		return def, nil
	}
	def, ok := registry.ByExtension(file)
	if !ok {
		return nil, unknownLanguage(file, registry)
	}
	return def, nil
}

type unknownLanguageError struct {
	requested string
	available []string
}

func unknownLanguage(requested string, registry *language.Registry) error {
	return &unknownLanguageError{requested: requested, available: registry.Names()}
}

func (e *unknownLanguageError) Error() string {
	return "no language definition for " + e.requested + ", available: " + strings.Join(e.available, ", ")
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func render(out io.Writer, def *language.Definition, stream *lexer.TokenStream) {
	for cursor := stream.Cursor(); cursor.HasNext(); {
		token := cursor.Next()
		if token.Length() == 0 {
			continue
		}

		style, ok := def.Style(token.Type())
		if !ok {
			style, ok = categoryStyles[token.Type().Category]
		}
		if !ok {
			io.WriteString(out, token.Text())
			continue
		}

		io.WriteString(out, ansiStyle(style).Render(token.Text()))
	}
	io.WriteString(out, "\n")
}

func ansiStyle(style language.Style) lipgloss.Style {
	s := lipgloss.NewStyle()
	if style.Foreground != "" {
		s = s.Foreground(lipgloss.Color(style.Foreground))
	}
	return s.Bold(style.Bold).Italic(style.Italic)
}
