package app

import (
	"logagrip/internal/domain"
)

// ListView is a rendered list region
type ListView struct {
	Label    string
	Query    string
	Items    []string
	Selected int // -1 when nothing is selected
}

// GroupsView is the rendered log group table
type GroupsView struct {
	Label     string
	Rows      []domain.LogGroup
	Selected  int
	Order     GroupOrder
	Profile   domain.ProfileName
	Loading   bool
	Exhausted bool
}

// SearchView is the rendered header input
type SearchView struct {
	Text   string
	Cursor int
}

// DebugView is the rendered debug pane, newest entries first
type DebugView struct {
	Keys []DebugKey
	Logs []DebugLog
}

// Snapshot is an immutable copy of everything a frame shows
type Snapshot struct {
	Focus     Focus
	Session   domain.SessionID
	Selection Region
	Focused   bool
	QuitKey   domain.Key
	Search    SearchView
	Presets   ListView
	Profiles  ListView
	Groups    GroupsView
	Debug     *DebugView
	Status    string
}

// Snapshot copies the current state for rendering
func (a *App) Snapshot() Snapshot {
	d := a.data
	s := Snapshot{
		Focus:     a.focus,
		Session:   a.session,
		Selection: a.shell.Selection(),
		Focused:   a.shell.HasFocus(),
		QuitKey:   a.quitKey,
		Search:    SearchView{Text: d.Search.Query(), Cursor: d.Search.Cursor()},
		Presets: ListView{
			Label:    d.Presets.Label(),
			Query:    queryOf(d.Presets.Query()),
			Items:    displayNames(a.shell.PresetOrder().Apply(d.Presets)),
			Selected: a.shell.Cursor(RegionPresets),
		},
		Profiles: ListView{
			Label:    d.Profiles.Label(),
			Query:    queryOf(d.Profiles.Query()),
			Items:    displayNames(d.Profiles.Items()),
			Selected: a.shell.Cursor(RegionProfiles),
		},
		Groups: GroupsView{
			Label:     d.Groups.Label(),
			Rows:      a.shell.GroupOrder().Apply(d.Groups),
			Selected:  a.shell.Cursor(RegionGroups),
			Order:     a.shell.GroupOrder(),
			Profile:   a.profile,
			Loading:   a.loading,
			Exhausted: a.listing && a.cursor.Exhausted,
		},
		Status: a.status,
	}
	if d.Debug != nil {
		s.Debug = &DebugView{Keys: reversed(d.Debug.Keys()), Logs: reversed(d.Debug.Logs())}
	}
	return s
}

func queryOf(q string, _ bool) string { return q }

type displayNamer interface {
	DisplayName() string
}

func displayNames[T displayNamer](items []T) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.DisplayName()
	}
	return names
}

func reversed[T any](items []T) []T {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}
