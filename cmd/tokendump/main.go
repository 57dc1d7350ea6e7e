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

// tokendump tokenizes source files and dumps the token stream as JSON lines
// or YAML. Positional arguments are glob patterns (doublestar syntax);
// xz-compressed inputs are decompressed transparently.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ulikunitz/xz"
	"gopkg.in/yaml.v3"

	"github.com/Grum999/PyKritaAPI/internal/collections"
	"github.com/Grum999/PyKritaAPI/language"
	"github.com/Grum999/PyKritaAPI/language/cpp"
	"github.com/Grum999/PyKritaAPI/language/python"
	"github.com/Grum999/PyKritaAPI/lexer"
)

// dumpedToken is the serialized form of one token.
type dumpedToken struct {
	File   string `json:"file" yaml:"file"`
	Type   string `json:"type" yaml:"type"`
	Text   string `json:"text" yaml:"text"`
	Value  string `json:"value,omitempty" yaml:"value,omitempty"`
	Start  int    `json:"start" yaml:"start"`
	End    int    `json:"end" yaml:"end"`
	Row    int    `json:"row" yaml:"row"`
	Column int    `json:"column" yaml:"column"`
	Indent int    `json:"indent,omitempty" yaml:"indent,omitempty"`
}

func main() {
	lang := flag.String("lang", "", "Language name; inferred from file extension when empty")
	rulesFile := flag.String("rules", "", "YAML language definition to use instead of the built-in ones")
	format := flag.String("format", "jsonl", "Output format: jsonl or yaml")
	output := flag.String("output", "", "Output file path; stdout when empty")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		log.Fatal("Program requires at least 1 argument - a file path or glob pattern. Flags need to be defined before arguments")
	}
	if *format != "jsonl" && *format != "yaml" {
		log.Fatalf("Unknown output format %q, expected jsonl or yaml", *format)
	}

	registry := language.NewRegistry()
	registry.Register(python.NewDefinition())
	registry.Register(cpp.NewDefinition())

	var custom *language.Definition
	if *rulesFile != "" {
		def, err := language.LoadDefinitionFile(*rulesFile)
		if err != nil {
			log.Fatalf("Failed to load language definition %s: %v", *rulesFile, err)
		}
		registry.Register(def)
		custom = def
	}

	files := expandArgs(flag.Args())
	if len(files) == 0 {
		log.Fatal("No input file matches the given patterns")
	}

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("Failed to create output file: %v", err)
		}
		defer f.Close()
		out = f
	}

	// batches bypass per-call cache bookkeeping
	bulk := len(files) > 1
	tokenizers := collections.FilterMapSlice(registry.Names(), func(name string) (*lexer.Tokenizer, bool) {
		def, ok := registry.ByName(name)
		if !ok {
			return nil, false
		}
		return def.Tokenizer(), true
	})
	if bulk {
		for _, tk := range tokenizers {
			tk.SetBulkMode(true)
		}
	}

	var tokens []dumpedToken
	for _, file := range files {
		def := custom
		if *lang != "" {
			named, ok := registry.ByName(*lang)
			if !ok {
				log.Fatalf("Unknown language %q, available: %s", *lang, strings.Join(registry.Names(), ", "))
			}
			def = named
		} else if def == nil {
			byExt, ok := registry.ByExtension(file)
			if !ok {
				log.Printf("No language claims %s, skipped", file)
				continue
			}
			def = byExt
		}

		text, err := readInput(file)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", file, err)
		}
		tokens = append(tokens, dumpTokens(file, def.Tokenizer().Tokenize(text))...)
	}

	if bulk {
		for _, tk := range tokenizers {
			tk.SetBulkMode(false)
		}
	}

	if err := write(out, *format, tokens); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
}

// expandArgs resolves the positional arguments: glob patterns expand to the
// matching paths, plain paths pass through. Overlapping patterns yield each
// file once, in first-seen order.
func expandArgs(args []string) []string {
	var files []string
	seen := collections.SetOf[string]()
	for _, arg := range args {
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			log.Fatalf("Invalid glob pattern %q: %v", arg, err)
		}
		if matches == nil && !strings.ContainsAny(arg, "*?[{") {
			matches = []string{arg}
		}
		for _, match := range matches {
			if seen.Contains(match) {
				continue
			}
			seen.Add(match)
			files = append(files, match)
		}
	}
	return files
}

// readInput loads a file, decompressing it when xz-compressed.
func readInput(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		if r, err = xz.NewReader(f); err != nil {
			return "", fmt.Errorf("opening xz stream: %w", err)
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func dumpTokens(file string, stream *lexer.TokenStream) []dumpedToken {
	out := make([]dumpedToken, 0, stream.Len())
	for cursor := stream.Cursor(); cursor.HasNext(); {
		t := cursor.Next()
		d := dumpedToken{
			File:   file,
			Type:   t.Type().String(),
			Text:   t.Text(),
			Start:  t.PositionStart(),
			End:    t.PositionEnd(),
			Row:    t.Row(),
			Column: t.Column(),
			Indent: t.Indent(),
		}
		if t.Value() != t.Text() {
			d.Value = t.Value()
		}
		out = append(out, d)
	}
	return out
}

func write(out io.Writer, format string, tokens []dumpedToken) error {
	if format == "yaml" {
		return yaml.NewEncoder(out).Encode(tokens)
	}

	enc := json.NewEncoder(out)
	for _, t := range tokens {
		if err := enc.Encode(t); err != nil {
			return err
		}
	}
	return nil
}
