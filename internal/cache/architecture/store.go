// Package architecture caches successful generation results keyed by prompt.
package architecture

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"merngen/internal/types"
)

const (
	DefaultSize = 256
	DefaultTTL  = time.Hour
)

// Entry is one cached generation.
type Entry struct {
	Doc         *types.ArchitectureDocument
	ProjectType types.ProjectType
}

// Store is a threadsafe LRU with a fixed TTL per entry.
type Store struct {
	lru *expirable.LRU[string, Entry]
}

// New creates a Store. size <= 0 and ttl <= 0 fall back to the defaults.
func New(size int, ttl time.Duration) *Store {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{lru: expirable.NewLRU[string, Entry](size, nil, ttl)}
}

// Key normalizes a prompt into a cache key. Blank prompts have no key.
func Key(prompt string) (string, bool) {
	k := strings.TrimSpace(prompt)
	return k, k != ""
}

func (s *Store) Get(prompt string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	k, ok := Key(prompt)
	if !ok {
		return Entry{}, false
	}
	return s.lru.Get(k)
}

// Put stores e unless the prompt is blank or the entry has no document.
func (s *Store) Put(prompt string, e Entry) {
	if s == nil || e.Doc == nil {
		return
	}
	if k, ok := Key(prompt); ok {
		s.lru.Add(k, e)
	}
}

func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return s.lru.Len()
}

func (s *Store) Purge() {
	if s != nil {
		s.lru.Purge()
	}
}
