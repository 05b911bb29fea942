package store

import (
	"cmp"
	"slices"
	"sort"
	"sync"
)

// Keyed is implemented by every stored item. Key is the primary key used for
// deduplication and default ordering.
type Keyed interface {
	Key() string
}

// Ordered is an in-memory set of items kept unique and sorted by primary key
type Ordered[T Keyed] struct {
	mu    sync.RWMutex
	keys  []string // sorted
	items map[string]T
}

// NewOrdered creates an ordered store holding items
func NewOrdered[T Keyed](items ...T) *Ordered[T] {
	s := &Ordered[T]{items: make(map[string]T)}
	s.Extend(items...)
	return s
}

// Insert adds item, replacing any item with the same key
func (s *Ordered[T]) Insert(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insert(item)
}

// Extend inserts every item
func (s *Ordered[T]) Extend(items ...T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.insert(item)
	}
}

func (s *Ordered[T]) insert(item T) {
	if s.items == nil {
		s.items = make(map[string]T)
	}
	k := item.Key()
	if _, exists := s.items[k]; !exists {
		i := sort.SearchStrings(s.keys, k)
		s.keys = slices.Insert(s.keys, i, k)
	}
	s.items[k] = item
}

// Get returns the item stored under key
func (s *Ordered[T]) Get(key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[key]
	return item, ok
}

// Clear removes every item
func (s *Ordered[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = nil
	s.items = make(map[string]T)
}

// Len returns the number of items
func (s *Ordered[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

// Items returns a copy of the items in primary key order
func (s *Ordered[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]T, 0, len(s.keys))
	for _, k := range s.keys {
		result = append(result, s.items[k])
	}
	return result
}

// OrderBy returns the items sorted ascending by a derived key, ties broken by primary key
func OrderBy[T Keyed, K cmp.Ordered](s *Ordered[T], key func(T) K) []T {
	items := s.Items()
	return sortBy(items, key, false)
}

// OrderByDesc returns the items sorted descending by (derived key, primary key)
func OrderByDesc[T Keyed, K cmp.Ordered](s *Ordered[T], key func(T) K) []T {
	items := s.Items()
	return sortBy(items, key, true)
}

func sortBy[T Keyed, K cmp.Ordered](items []T, key func(T) K, desc bool) []T {
	type entry struct {
		key  K
		item T
	}
	entries := make([]entry, len(items))
	for i, item := range items {
		entries[i] = entry{key: key(item), item: item}
	}

	slices.SortFunc(entries, func(a, b entry) int {
		c := cmp.Compare(a.key, b.key)
		if c == 0 {
			c = cmp.Compare(a.item.Key(), b.item.Key())
		}
		if desc {
			return -c
		}
		return c
	})

	result := make([]T, len(entries))
	for i, e := range entries {
		result[i] = e.item
	}
	return result
}
