package storage

import (
	"errors"
	"time"
)

var (
	ErrInvalidTimestamp = errors.New("invalid timestamp, expected " + TimestampLayout)
	ErrPastTimestamp    = errors.New("event time must be in the future")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotFound         = errors.New("event not found")
	ErrAccessDenied     = errors.New("access denied")
	ErrEmptyTitle       = errors.New("event title is required")
	ErrBadVisibility    = errors.New("unknown visibility")
)

// Storage is the event store. Every query and mutation takes the viewer
// explicitly, Anonymous when nobody is logged in.
type Storage interface {
	CreateEvent(owner UserID, e NewEvent) (EventID, error)
	Event(id EventID, viewer UserID) (Event, error)
	RSVP(id EventID, viewer UserID) error
	Range(start, end time.Time, viewer UserID) []Event
	Upcoming(days int, viewer UserID) []Event
	Search(query string, viewer UserID) []Event
	EventsForUser(viewer UserID) []Event
}
