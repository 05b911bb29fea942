package app

import (
	"time"

	"logagrip/internal/domain"
	"logagrip/internal/preset"
	"logagrip/internal/profile"
	"logagrip/internal/store"
)

// GroupsLabel is the region title of the log group table
const GroupsLabel = "Groups"

// DebugCapacity bounds each debug pane ring
const DebugCapacity = 30

// Data contains everything the shell browses
type Data struct {
	Presets  *preset.Store
	Profiles *profile.Store
	Groups   *store.Repository[domain.LogGroup]
	Search   SearchData
	Sessions *SessionSet
	Debug    *DebugData // nil when the debug pane is disabled
}

// NewData creates the browsing state. debug enables the debug pane.
func NewData(presets *preset.Store, profiles *profile.Store, debug bool) *Data {
	d := &Data{
		Presets:  presets,
		Profiles: profiles,
		Groups:   store.NewRepository[domain.LogGroup](GroupsLabel),
		Sessions: NewSessionSet(),
	}
	if debug {
		d.Debug = NewDebugData(DebugCapacity)
	}
	return d
}

// DebugKey is one numbered key press
type DebugKey struct {
	No  uint64
	Key domain.Key
}

// DebugLog is one timestamped diagnostic line
type DebugLog struct {
	At  time.Time
	Msg string
}

// DebugData keeps the most recent keys and diagnostics for the debug pane
type DebugData struct {
	capacity int
	keyNo    uint64
	keys     []DebugKey
	logs     []DebugLog
	now      func() time.Time
}

// NewDebugData creates rings holding at most capacity entries each
func NewDebugData(capacity int) *DebugData {
	return &DebugData{capacity: capacity, now: time.Now}
}

// AppendKey records a key press
func (d *DebugData) AppendKey(k domain.Key) {
	d.keyNo++
	d.keys = appendBounded(d.keys, DebugKey{No: d.keyNo, Key: k}, d.capacity)
}

// Append records a diagnostic line. It makes DebugData a logging.Sink.
func (d *DebugData) Append(msg string) {
	d.logs = appendBounded(d.logs, DebugLog{At: d.now(), Msg: msg}, d.capacity)
}

// Keys returns the recorded keys, oldest first
func (d *DebugData) Keys() []DebugKey { return append([]DebugKey(nil), d.keys...) }

// Logs returns the recorded diagnostics, oldest first
func (d *DebugData) Logs() []DebugLog { return append([]DebugLog(nil), d.logs...) }

func appendBounded[T any](ring []T, item T, capacity int) []T {
	if capacity <= 0 {
		return ring
	}
	if len(ring) == capacity {
		ring = append(ring[:0], ring[1:]...)
	}
	return append(ring, item)
}

// Session is a future log stream browsing tab
type Session struct {
	Profile domain.ProfileName
	Group   domain.LogGroup
}

// SessionSet holds the open sessions keyed by id
type SessionSet struct {
	sessions map[domain.SessionID]Session
	nextID   domain.SessionID
}

// NewSessionSet returns an empty set whose first id is 1
func NewSessionSet() *SessionSet {
	return &SessionSet{sessions: make(map[domain.SessionID]Session), nextID: 1}
}

// Insert stores s under the next id and returns that id
func (s *SessionSet) Insert(session Session) domain.SessionID {
	id := s.nextID
	s.sessions[id] = session
	s.nextID = id.Next()
	return id
}

// Len returns the number of sessions
func (s *SessionSet) Len() int { return len(s.sessions) }
