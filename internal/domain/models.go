package domain

import (
	"fmt"
	"time"
)

// ProfileName names an AWS shared-config profile
type ProfileName string

func (p ProfileName) Key() string         { return string(p) }
func (p ProfileName) DisplayName() string { return string(p) }

// Preset is a named log-group name prefix
type Preset struct {
	Name            string
	GroupNamePrefix *string
}

// NewPreset creates a preset; an empty prefix means no prefix
func NewPreset(name, prefix string) Preset {
	p := Preset{Name: name}
	if prefix != "" {
		p.GroupNamePrefix = &prefix
	}
	return p
}

func (p Preset) Key() string         { return p.Name }
func (p Preset) DisplayName() string { return p.Name }

// Prefix returns the group name prefix or ""
func (p Preset) Prefix() string {
	if p.GroupNamePrefix == nil {
		return ""
	}
	return *p.GroupNamePrefix
}

func (p Preset) String() string {
	if p.GroupNamePrefix == nil {
		return p.Name
	}
	return fmt.Sprintf("%s(%s)", p.Name, *p.GroupNamePrefix)
}

// LogGroup is a CloudWatch Logs log group. The ARN is its identity.
type LogGroup struct {
	ARN          string
	CreationTime time.Time
	Name         string
	Retention    *time.Duration
	Stored       Size
}

func (g LogGroup) Key() string         { return g.ARN }
func (g LogGroup) DisplayName() string { return g.Name }

// LogStream is a CloudWatch Logs log stream. Streams are not browsable yet.
type LogStream struct {
	ARN               string
	CreationTime      time.Time
	Name              string
	FirstEventTime    time.Time
	LastEventTime     time.Time
	LastIngestionTime time.Time
}

func (s LogStream) Key() string { return s.ARN }

// CursorState is the resumable position of a log group listing
type CursorState struct {
	Prefix    *string
	PageToken *string
	NextToken *string
	Exhausted bool
}

// SessionID identifies a browsing session
type SessionID uint64

// Next returns the following id
func (id SessionID) Next() SessionID { return id + 1 }
