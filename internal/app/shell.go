package app

import (
	"logagrip/internal/domain"
)

// Region is one of the shell's sibling panes
type Region int

const (
	RegionNone Region = iota
	RegionPresets
	RegionProfiles
	RegionGroups
)

func (r Region) String() string {
	switch r {
	case RegionPresets:
		return "Presets"
	case RegionProfiles:
		return "Profiles"
	case RegionGroups:
		return "Groups"
	default:
		return "None"
	}
}

// Next returns the region after r. With no region selected it is Presets.
func (r Region) Next() Region {
	switch r {
	case RegionPresets:
		return RegionProfiles
	case RegionProfiles:
		return RegionGroups
	case RegionGroups:
		return RegionPresets
	default:
		return RegionPresets
	}
}

// Prev returns the region before r. With no region selected it is Groups.
func (r Region) Prev() Region {
	switch r {
	case RegionPresets:
		return RegionGroups
	case RegionProfiles:
		return RegionPresets
	case RegionGroups:
		return RegionProfiles
	default:
		return RegionGroups
	}
}

const noItem = -1

// ShellState tracks which region is selected, whether keys move inside it,
// and the item cursor of every region
type ShellState struct {
	selection Region
	focus     bool
	cursors   map[Region]int
	groups    GroupOrder
	presets   PresetOrder
}

// NewShellState returns a state with nothing selected
func NewShellState() *ShellState {
	return &ShellState{
		cursors: map[Region]int{
			RegionPresets:  noItem,
			RegionProfiles: noItem,
			RegionGroups:   noItem,
		},
	}
}

func (s *ShellState) Selection() Region { return s.selection }
func (s *ShellState) HasFocus() bool    { return s.focus }

// Cursor returns the selected item index of r, or -1
func (s *ShellState) Cursor(r Region) int {
	if i, ok := s.cursors[r]; ok {
		return i
	}
	return noItem
}

// GroupOrder returns the active log group projection
func (s *ShellState) GroupOrder() GroupOrder { return s.groups }

// CycleGroupOrder switches to the next log group projection
func (s *ShellState) CycleGroupOrder() GroupOrder {
	s.groups = s.groups.Next()
	return s.groups
}

// PresetOrder returns the active preset projection
func (s *ShellState) PresetOrder() PresetOrder { return s.presets }

// TogglePresetOrder switches the preset projection. The cursor follows the
// selected preset to its new position.
func (s *ShellState) TogglePresetOrder(d *Data) PresetOrder {
	selected, ok := s.SelectedPreset(d)
	s.presets = s.presets.Next()
	if ok {
		for i, p := range s.presets.Apply(d.Presets) {
			if p.Key() == selected.Key() {
				s.cursors[RegionPresets] = i
				break
			}
		}
	}
	return s.presets
}

// SetFocus focuses the selected region; without a selection it does nothing
func (s *ShellState) SetFocus() {
	if s.selection != RegionNone {
		s.focus = true
	}
}

// ClearFocus returns navigation to region level
func (s *ShellState) ClearFocus() { s.focus = false }

// SelectNext moves the item cursor when focused, otherwise the region
func (s *ShellState) SelectNext(d *Data) { s.step(d, 1) }

// SelectPrevious moves the item cursor when focused, otherwise the region
func (s *ShellState) SelectPrevious(d *Data) { s.step(d, -1) }

func (s *ShellState) step(d *Data, dir int) {
	if !s.focus {
		if dir > 0 {
			s.selection = s.selection.Next()
		} else {
			s.selection = s.selection.Prev()
		}
		return
	}
	if s.selection == RegionNone {
		return
	}
	s.cursors[s.selection] = stepIndex(s.Cursor(s.selection), s.length(d, s.selection), dir)
}

// stepIndex moves idx by dir modulo length. From no item the result is 0 and
// an empty region has no item.
func stepIndex(idx, length, dir int) int {
	if length <= 0 {
		return noItem
	}
	next := 0
	if idx != noItem {
		next = idx + dir
	}
	switch {
	case next < 0:
		return length + next
	case next >= length:
		return next % length
	default:
		return next
	}
}

// Clamp pulls the cursor of r back inside the region after its items changed.
// A cursor past the end lands on the last item, an emptied region has none.
func (s *ShellState) Clamp(d *Data, r Region) {
	idx, ok := s.cursors[r]
	if !ok || idx == noItem {
		return
	}
	if n := s.length(d, r); idx >= n {
		s.cursors[r] = n - 1
	}
}

func (s *ShellState) length(d *Data, r Region) int {
	switch r {
	case RegionPresets:
		return d.Presets.Len()
	case RegionProfiles:
		return d.Profiles.Len()
	case RegionGroups:
		return d.Groups.Len()
	default:
		return 0
	}
}

// SelectedPreset returns the preset under the presets cursor in the active order
func (s *ShellState) SelectedPreset(d *Data) (domain.Preset, bool) {
	return itemAt(s.presets.Apply(d.Presets), s.Cursor(RegionPresets))
}

// SelectedProfile returns the profile under the profiles cursor
func (s *ShellState) SelectedProfile(d *Data) (domain.ProfileName, bool) {
	return itemAt(d.Profiles.Items(), s.Cursor(RegionProfiles))
}

// SelectedGroup returns the log group under the groups cursor in the active order
func (s *ShellState) SelectedGroup(d *Data) (domain.LogGroup, bool) {
	return itemAt(s.groups.Apply(d.Groups), s.Cursor(RegionGroups))
}

func itemAt[T any](items []T, idx int) (T, bool) {
	var zero T
	if idx < 0 || idx >= len(items) {
		return zero, false
	}
	return items[idx], true
}

// ExecuteItem acts on the item under the cursor. On presets or profiles with a
// profile selected it moves to Groups and requests that profile's log groups.
// Groups have nothing to open yet.
func (s *ShellState) ExecuteItem(d *Data) domain.Action {
	switch s.selection {
	case RegionPresets, RegionProfiles:
		profile, ok := s.SelectedProfile(d)
		if !ok {
			return nil
		}
		s.selection = RegionGroups
		action := domain.RequestLogGroupsAction{Profile: profile}
		if p, ok := s.SelectedPreset(d); ok {
			action.Preset = &p
		}
		return action
	default:
		return nil
	}
}
