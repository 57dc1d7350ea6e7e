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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamAt(t *testing.T) {
	tk := mustTokenizer(t, wordRules())
	stream := tk.Tokenize("one two")

	require.Equal(t, 3, stream.Len())
	assert.Equal(t, "one", stream.At(0).Text())
	assert.Equal(t, "two", stream.At(2).Text())
	assert.Nil(t, stream.At(-1))
	assert.Nil(t, stream.At(3))
}

func TestTokenLinks(t *testing.T) {
	tk := mustTokenizer(t, wordRules())
	stream := tk.Tokenize("one two")

	first, last := stream.At(0), stream.At(2)
	assert.Nil(t, first.Previous())
	assert.Equal(t, " ", first.Next().Text())
	assert.Same(t, first, first.Next().Previous())
	assert.Nil(t, last.Next())
}

func TestCursorWalk(t *testing.T) {
	tk := mustTokenizer(t, wordRules())
	cursor := tk.Tokenize("one two").Cursor()

	var texts []string
	for cursor.HasNext() {
		texts = append(texts, cursor.Next().Text())
	}
	assert.Equal(t, []string{"one", " ", "two"}, texts)

	assert.True(t, cursor.AtEnd())
	assert.Nil(t, cursor.Next())

	cursor.Reset()
	require.True(t, cursor.HasNext())
	assert.Equal(t, "one", cursor.Next().Text())
}

func TestCursorsAreIndependent(t *testing.T) {
	tk := mustTokenizer(t, wordRules())

	// both calls are served by the same cached stream
	a := tk.Tokenize("one two").Cursor()
	b := tk.Tokenize("one two").Cursor()

	assert.Equal(t, "one", a.Next().Text())
	assert.Equal(t, " ", a.Next().Text())

	// b is not affected by a's progress, nor a by b's reset
	assert.Equal(t, "one", b.Next().Text())
	b.Reset()
	assert.Equal(t, "two", a.Next().Text())
}
