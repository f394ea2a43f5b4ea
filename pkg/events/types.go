package events

import (
	"time"
)

// EventType distinguishes voice calls from text messages
type EventType string

const (
	TypeAll  EventType = "all"
	TypeCall EventType = "call"
	TypeSMS  EventType = "sms"
)

// Valid reports whether the event type is one of the known values
func (t EventType) Valid() bool {
	switch t {
	case TypeAll, TypeCall, TypeSMS:
		return true
	}
	return false
}

// Matches reports whether an event of type other passes a filter of type t
func (t EventType) Matches(other EventType) bool {
	return t == TypeAll || t == other
}

// Event is a single normalized call or SMS record.
// Source and Target are phone numbers as produced by the upstream
// normalization pipeline; they are re-normalized at every boundary anyway.
type Event struct {
	ID        string        `json:"id"`
	Dataset   string        `json:"dataset"`
	Source    string        `json:"source"`
	Target    string        `json:"target"`
	Type      EventType     `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
}

// Filter selects a subset of events from a dataset
type Filter struct {
	Dataset string
	From    *time.Time
	To      *time.Time
	Type    EventType
}

// Match reports whether the event passes the filter
func (f Filter) Match(e Event) bool {
	if f.Dataset != "" && e.Dataset != f.Dataset {
		return false
	}
	if !f.Type.Matches(e.Type) && f.Type != "" {
		return false
	}
	if f.From != nil && e.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && e.Timestamp.After(*f.To) {
		return false
	}
	return true
}
