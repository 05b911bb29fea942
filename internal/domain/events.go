package domain

import "time"

// EventType represents the type of an event on the merged stream
type EventType string

// Event types
const (
	EventTick   EventType = "Tick"
	EventInput  EventType = "Input"
	EventAction EventType = "Action"
)

// Event is the interface for everything the main loop consumes
type Event interface {
	Type() EventType
}

// TickEvent asks the main loop to redraw
type TickEvent struct {
	At time.Time
}

func (e TickEvent) Type() EventType { return EventTick }

// InputEvent carries one decoded key press
type InputEvent struct {
	Key Key
}

func (e InputEvent) Type() EventType { return EventInput }

// ActionEvent carries an action relayed from the action queue
type ActionEvent struct {
	Action Action
}

func (e ActionEvent) Type() EventType { return EventAction }

// ActionType represents the type of an action
type ActionType string

// Action types
const (
	ActionSearch           ActionType = "Search"
	ActionRequestLogGroups ActionType = "RequestLogGroups"
	ActionNextLogGroups    ActionType = "NextLogGroups"
	ActionRefreshLogGroups ActionType = "RefreshLogGroups"
	ActionReceiveLogGroups ActionType = "ReceiveLogGroups"
	ActionError            ActionType = "Error"
)

// Action is an intent crossing the boundary between background tasks and the main loop
type Action interface {
	Type() ActionType
}

// SearchAction is emitted when the header search is submitted
type SearchAction struct {
	Query string
}

func (a SearchAction) Type() ActionType { return ActionSearch }

// RequestLogGroupsAction asks for the first page of log groups visible to a profile.
// A nil Preset lists every group.
type RequestLogGroupsAction struct {
	Profile ProfileName
	Preset  *Preset
}

func (a RequestLogGroupsAction) Type() ActionType { return ActionRequestLogGroups }

// NextLogGroupsAction asks for the page after the one currently shown
type NextLogGroupsAction struct{}

func (a NextLogGroupsAction) Type() ActionType { return ActionNextLogGroups }

// RefreshLogGroupsAction reissues the request for the page currently shown
type RefreshLogGroupsAction struct{}

func (a RefreshLogGroupsAction) Type() ActionType { return ActionRefreshLogGroups }

// ReceiveLogGroupsAction carries one fetched page back to the main loop.
// Generation identifies the request that produced it.
type ReceiveLogGroupsAction struct {
	Generation uint64
	Profile    ProfileName
	Groups     []LogGroup
	Cursor     CursorState
}

func (a ReceiveLogGroupsAction) Type() ActionType { return ActionReceiveLogGroups }

// ErrorAction reports a failure from a background task. Generation identifies
// the fetch that failed; zero means the failure belongs to no fetch.
type ErrorAction struct {
	Generation uint64
	Message    string
	Err        error
}

func (a ErrorAction) Type() ActionType { return ActionError }

// NewErrorAction builds an ErrorAction from err
func NewErrorAction(err error) ErrorAction {
	return ErrorAction{Message: err.Error(), Err: err}
}
