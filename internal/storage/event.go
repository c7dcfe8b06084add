package storage

import (
	"fmt"
	"strings"
)

type (
	EventID int64
	UserID  int64
)

// Anonymous is the viewer of a caller that is not logged in.
const Anonymous UserID = 0

type Visibility int

const (
	Public Visibility = iota
	Private
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "Public"
	case Private:
		return "Private"
	default:
		return fmt.Sprintf("Visibility(%d)", int(v))
	}
}

// ParseVisibility accepts the names as well as the yes/no answers of the menu prompt.
func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public", "1", "yes", "y", "true":
		return Public, nil
	case "private", "0", "no", "n", "false":
		return Private, nil
	default:
		return Public, fmt.Errorf("%q: %w", s, ErrBadVisibility)
	}
}

// Event is a snapshot of a stored event. Attendees are in ascending order.
type Event struct {
	ID          EventID
	Title       string
	Time        Timestamp
	Visibility  Visibility
	OwnerID     UserID
	Attendees   []UserID
	Description string
}

// NewEvent holds the caller supplied fields of an event to create.
type NewEvent struct {
	Title       string     `validate:"required"`
	When        string     // TimestampLayout
	Visibility  Visibility `validate:"oneof=0 1"`
	Description string
}

// IsAttending reports whether user is in the attendee set.
func (e Event) IsAttending(user UserID) bool {
	for _, a := range e.Attendees {
		if a == user {
			return true
		}
	}
	return false
}

// Visible reports whether viewer may see e: public events are visible to
// everybody, private ones only to the owner and the attendees.
func Visible(e Event, viewer UserID) bool {
	return CanSee(e.Visibility, e.OwnerID, viewer, e.IsAttending)
}

// CanSee is Visible for callers that keep attendees in their own structure.
func CanSee(v Visibility, owner, viewer UserID, attends func(UserID) bool) bool {
	if v == Public {
		return true
	}
	if viewer == Anonymous {
		return false
	}
	return viewer == owner || attends(viewer)
}
