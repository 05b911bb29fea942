package preset

import (
	"logagrip/internal/domain"
	"logagrip/internal/store"
)

// Label is the region title of the preset list
const Label = "Presets"

// AnonymousName names the ad-hoc preset built from a groups search
const AnonymousName = "anonymous"

// Store holds the presets in configuration order
type Store = store.Repository[domain.Preset]

// NewStore creates a preset store holding presets
func NewStore(presets ...domain.Preset) *Store {
	return store.NewRepository(Label, presets...)
}

// Defaults returns the presets used when the config names none
func Defaults() []domain.Preset {
	return []domain.Preset{
		domain.NewPreset("project-prd", ""),
		domain.NewPreset("project-stg", ""),
		domain.NewPreset("project-dev", ""),
		domain.NewPreset("lambda", ""),
		domain.NewPreset("glue", ""),
	}
}

// Anonymous returns the unnamed preset a groups search submits
func Anonymous(prefix string) domain.Preset {
	return domain.NewPreset(AnonymousName, prefix)
}

// ByName returns the matching presets sorted by name
func ByName(s *Store) []domain.Preset {
	return store.RepositoryOrderBy(s, func(p domain.Preset) string { return p.Name })
}
