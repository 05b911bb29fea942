package app

import (
	"logagrip/internal/domain"
	"logagrip/internal/preset"
	"logagrip/internal/store"
)

// GroupOrder is the projection used to list log groups
type GroupOrder int

const (
	GroupsByName GroupOrder = iota
	GroupsByCreatedAsc
	GroupsByCreatedDesc
	GroupsBySizeAsc
	GroupsBySizeDesc
	groupOrderCount
)

var groupOrderNames = [...]string{
	GroupsByName:        "name",
	GroupsByCreatedAsc:  "created ↑",
	GroupsByCreatedDesc: "created ↓",
	GroupsBySizeAsc:     "size ↑",
	GroupsBySizeDesc:    "size ↓",
}

func (o GroupOrder) String() string {
	if o < 0 || o >= groupOrderCount {
		return "unknown"
	}
	return groupOrderNames[o]
}

// Next returns the following order, wrapping around
func (o GroupOrder) Next() GroupOrder {
	return (o + 1) % groupOrderCount
}

// Apply projects the matching groups of r in this order
func (o GroupOrder) Apply(r *store.Repository[domain.LogGroup]) []domain.LogGroup {
	switch o {
	case GroupsByCreatedAsc:
		return store.RepositoryOrderBy(r, createdAt)
	case GroupsByCreatedDesc:
		return store.RepositoryOrderByDesc(r, createdAt)
	case GroupsBySizeAsc:
		return store.RepositoryOrderBy(r, storedBytes)
	case GroupsBySizeDesc:
		return store.RepositoryOrderByDesc(r, storedBytes)
	default:
		return store.RepositoryOrderBy(r, func(g domain.LogGroup) string { return g.Name })
	}
}

func createdAt(g domain.LogGroup) int64 {
	return g.CreationTime.UnixNano()
}

func storedBytes(g domain.LogGroup) uint64 {
	return uint64(g.Stored)
}

// PresetOrder is the projection used to list presets
type PresetOrder int

const (
	PresetsByConfig PresetOrder = iota
	PresetsByName
)

func (o PresetOrder) String() string {
	if o == PresetsByName {
		return "name"
	}
	return "config"
}

// Next toggles between configuration and name order
func (o PresetOrder) Next() PresetOrder {
	if o == PresetsByName {
		return PresetsByConfig
	}
	return PresetsByName
}

// Apply projects the matching presets of s in this order
func (o PresetOrder) Apply(s *preset.Store) []domain.Preset {
	if o == PresetsByName {
		return preset.ByName(s)
	}
	return s.Items()
}
