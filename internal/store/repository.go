package store

import (
	"cmp"
	"fmt"
	"strings"
	"sync"
)

// Named is an item with a display name the query filter matches against
type Named interface {
	Keyed
	DisplayName() string
}

type entry[T Named] struct {
	seq  uint64
	item T
}

func (e entry[T]) Key() string { return e.item.Key() }

// Repository is a query-filterable view over an ordered store. Items keep the
// order they were first inserted in.
type Repository[T Named] struct {
	mu           sync.RWMutex
	defaultLabel string
	label        string
	query        string
	hasQuery     bool
	nextSeq      uint64
	entries      *Ordered[entry[T]]
}

// NewRepository creates an empty repository labelled label
func NewRepository[T Named](label string, items ...T) *Repository[T] {
	r := &Repository[T]{
		defaultLabel: label,
		label:        label,
		entries:      NewOrdered[entry[T]](),
	}
	r.Extend(items...)
	return r
}

// Insert adds item. An item with an existing key replaces the old one in place.
func (r *Repository[T]) Insert(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insert(item)
}

// Extend inserts every item in order
func (r *Repository[T]) Extend(items ...T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range items {
		r.insert(item)
	}
}

func (r *Repository[T]) insert(item T) {
	if existing, ok := r.entries.Get(item.Key()); ok {
		r.entries.Insert(entry[T]{seq: existing.seq, item: item})
		return
	}
	r.nextSeq++
	r.entries.Insert(entry[T]{seq: r.nextSeq, item: item})
}

// Clear removes every item. The query is kept.
func (r *Repository[T]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries.Clear()
	r.nextSeq = 0
}

// Replace clears the repository and inserts items
func (r *Repository[T]) Replace(items ...T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries.Clear()
	r.nextSeq = 0
	for _, item := range items {
		r.insert(item)
	}
}

// SetQuery sets the filter; an empty query clears it
func (r *Repository[T]) SetQuery(q string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.query = q
	r.hasQuery = q != ""
	if r.hasQuery {
		r.label = fmt.Sprintf("%s (%q)", r.defaultLabel, q)
	} else {
		r.label = r.defaultLabel
	}
}

// Query returns the active filter
func (r *Repository[T]) Query() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.query, r.hasQuery
}

// Label returns the display label, including the active query if any
func (r *Repository[T]) Label() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.label
}

// Matches reports whether item passes the active filter
func (r *Repository[T]) Matches(item T) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.matches(item)
}

func (r *Repository[T]) matches(item T) bool {
	return !r.hasQuery || strings.Contains(item.DisplayName(), r.query)
}

// Items returns the matching items in insertion order
func (r *Repository[T]) Items() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ordered := OrderBy(r.entries, func(e entry[T]) uint64 { return e.seq })
	return r.filter(ordered)
}

// Len returns the number of matching items
func (r *Repository[T]) Len() int {
	return len(r.Items())
}

// Total returns the number of items regardless of the query
func (r *Repository[T]) Total() int {
	return r.entries.Len()
}

func (r *Repository[T]) filter(entries []entry[T]) []T {
	result := make([]T, 0, len(entries))
	for _, e := range entries {
		if r.matches(e.item) {
			result = append(result, e.item)
		}
	}
	return result
}

// RepositoryOrderBy returns the matching items sorted ascending by a derived key
func RepositoryOrderBy[T Named, K cmp.Ordered](r *Repository[T], key func(T) K) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter(OrderBy(r.entries, func(e entry[T]) K { return key(e.item) }))
}

// RepositoryOrderByDesc returns the matching items sorted descending by a derived key
func RepositoryOrderByDesc[T Named, K cmp.Ordered](r *Repository[T], key func(T) K) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter(OrderByDesc(r.entries, func(e entry[T]) K { return key(e.item) }))
}
