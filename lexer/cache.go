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
	"slices"
	"time"

	"golang.org/x/crypto/blake2b"
)

// contentHash is the wide hash keying tokenization results by input content.
type contentHash [blake2b.Size]byte

func hashContent(text string) contentHash {
	return blake2b.Sum512([]byte(text))
}

// CacheConfig bounds the token cache. Values are explicit so tests can
// exercise eviction without waiting on wall-clock time.
type CacheConfig struct {
	// MaxEntries is the hard entry cap; the oldest entries by recency are
	// trimmed when exceeded.
	MaxEntries int

	// MinRetained entries are always kept, regardless of staleness.
	MinRetained int

	// Staleness is the last-touch age after which an entry is dropped.
	Staleness time.Duration

	// SweepInterval spaces out staleness sweeps: at most one per interval.
	SweepInterval time.Duration
}

// DefaultCacheConfig mirrors the historical bounds: 500 entries, 5 always
// retained, two minutes of staleness swept at most every two minutes.
var DefaultCacheConfig = CacheConfig{
	MaxEntries:    500,
	MinRetained:   5,
	Staleness:     2 * time.Minute,
	SweepInterval: 2 * time.Minute,
}

type cacheEntry struct {
	stream    *TokenStream
	lastTouch time.Time
	rank      int // insertion rank, informational
}

// tokenCache stores token streams keyed by content hash, with recency-bounded
// eviction. It is owned by one Tokenizer and shares its single-threaded
// contract. While bulk mode is active the recency order is not maintained;
// it is reconstructed from last-touch stamps when bulk mode ends.
type tokenCache struct {
	entries   map[contentHash]*cacheEntry
	order     []contentHash // recency order, oldest first; unmaintained in bulk mode
	lastSweep time.Time
	bulk      bool
	nextRank  int
	cfg       CacheConfig

	now func() time.Time // injectable clock for tests
}

func newTokenCache(cfg CacheConfig) *tokenCache {
	c := &tokenCache{cfg: cfg, now: time.Now}
	c.clear()
	return c
}

func (c *tokenCache) clear() {
	c.entries = make(map[contentHash]*cacheEntry)
	c.order = nil
	c.nextRank = 0
	c.lastSweep = c.now()
}

// get returns the cached stream and refreshes its recency, unless bulk mode
// suspended the bookkeeping.
func (c *tokenCache) get(hash contentHash) (*TokenStream, bool) {
	entry, ok := c.entries[hash]
	if !ok {
		return nil, false
	}
	entry.lastTouch = c.now()
	if !c.bulk {
		if i := slices.Index(c.order, hash); i >= 0 {
			c.order = append(slices.Delete(c.order, i, i+1), hash)
		}
	}
	return entry.stream, true
}

func (c *tokenCache) put(hash contentHash, stream *TokenStream) {
	c.entries[hash] = &cacheEntry{stream: stream, lastTouch: c.now(), rank: c.nextRank}
	c.nextRank++
	if !c.bulk {
		c.order = append(c.order, hash)
	}
}

func (c *tokenCache) remove(hash contentHash) {
	delete(c.entries, hash)
	if i := slices.Index(c.order, hash); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}
}

// sweep drops stale entries, keeping at least MinRetained most-recently-used
// ones, then trims down to MaxEntries oldest-first. The staleness pass is
// rate-limited to one run per SweepInterval; the hard cap is enforced on
// every call. Suspended entirely in bulk mode.
func (c *tokenCache) sweep() {
	if c.bulk {
		return
	}

	current := c.now()
	if current.Sub(c.lastSweep) > c.cfg.SweepInterval {
		c.lastSweep = current
		if protected := len(c.order) - c.cfg.MinRetained; protected > 0 {
			for _, hash := range slices.Clone(c.order[:protected]) {
				if current.Sub(c.entries[hash].lastTouch) > c.cfg.Staleness {
					c.remove(hash)
				}
			}
		}
	}

	if over := len(c.order) - c.cfg.MaxEntries; over > 0 {
		for _, hash := range slices.Clone(c.order[:over]) {
			c.remove(hash)
		}
	}
}

// setBulkMode toggles high-throughput batch mode. Disabling it reconstructs
// the recency order from last-touch stamps and resumes normal eviction.
func (c *tokenCache) setBulkMode(enabled bool) {
	if c.bulk == enabled {
		return
	}
	c.bulk = enabled
	if enabled {
		return
	}

	c.order = make([]contentHash, 0, len(c.entries))
	for hash := range c.entries {
		c.order = append(c.order, hash)
	}
	slices.SortFunc(c.order, func(a, b contentHash) int {
		return c.entries[a].lastTouch.Compare(c.entries[b].lastTouch)
	})
	c.sweep()
}

func (c *tokenCache) len() int { return len(c.entries) }
