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

import "iter"

// TokenStream is the immutable, ordered result of one tokenization. The
// stream owns its tokens; cached streams are shared between Tokenize callers,
// so reading positions live in per-caller Cursor values, never in the stream.
type TokenStream struct {
	tokens []*Token
}

func newTokenStream(tokens []*Token) *TokenStream {
	s := &TokenStream{tokens: tokens}
	for i, t := range tokens {
		t.stream = s
		t.index = i
	}
	return s
}

// Len returns the number of tokens in the stream.
func (s *TokenStream) Len() int { return len(s.tokens) }

// At returns the i-th token, or nil when out of range.
func (s *TokenStream) At(i int) *Token {
	if i < 0 || i >= len(s.tokens) {
		return nil
	}
	return s.tokens[i]
}

// All returns an iterator over the tokens in order.
func (s *TokenStream) All() iter.Seq[*Token] {
	return func(yield func(*Token) bool) {
		for _, t := range s.tokens {
			if !yield(t) {
				return
			}
		}
	}
}

// Cursor returns a fresh, independent cursor positioned at the start. Every
// logical consumer must hold its own cursor: a second consumer fetching the
// same cached stream never rewinds the first one.
func (s *TokenStream) Cursor() *Cursor {
	return &Cursor{stream: s}
}

// Cursor is a forward-movable, resettable position over a TokenStream.
type Cursor struct {
	stream *TokenStream
	pos    int
}

// HasNext reports whether Next would return a token.
func (c *Cursor) HasNext() bool { return c.pos < len(c.stream.tokens) }

// AtEnd reports whether the cursor is past the last token.
func (c *Cursor) AtEnd() bool { return !c.HasNext() }

// Next returns the next token and advances, or nil when exhausted.
func (c *Cursor) Next() *Token {
	if c.AtEnd() {
		return nil
	}
	t := c.stream.tokens[c.pos]
	c.pos++
	return t
}

// Reset moves the cursor back to the start of the stream.
func (c *Cursor) Reset() { c.pos = 0 }
