package memorystorage

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lomoval/event-organizer/internal/storage"
	"github.com/lomoval/event-organizer/internal/storage/timeindex"
	"golang.org/x/text/cases"
)

const (
	day = 24 * time.Hour
	// maxDays keeps days*day within time.Duration.
	maxDays = int(math.MaxInt64 / int64(day))
)

type record struct {
	event     storage.Event
	attendees map[storage.UserID]struct{}
}

func (r *record) snapshot() storage.Event {
	e := r.event
	e.Attendees = make([]storage.UserID, 0, len(r.attendees))
	for id := range r.attendees {
		e.Attendees = append(e.Attendees, id)
	}
	sort.Slice(e.Attendees, func(i, j int) bool { return e.Attendees[i] < e.Attendees[j] })
	return e
}

func (r *record) attends(user storage.UserID) bool {
	_, ok := r.attendees[user]
	return ok
}

func (r *record) visible(viewer storage.UserID) bool {
	return storage.CanSee(r.event.Visibility, r.event.OwnerID, viewer, r.attends)
}

// Storage keeps events in memory. The data map owns the records, the index
// holds their IDs keyed by event time.
type Storage struct {
	mu       sync.RWMutex
	data     map[storage.EventID]*record
	index    *timeindex.Index[storage.EventID]
	idSeq    storage.EventID
	now      func() time.Time
	validate *validator.Validate
}

type Option func(s *Storage)

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		s.now = now
	}
}

func New(opts ...Option) *Storage {
	s := &Storage{
		data:     make(map[storage.EventID]*record),
		index:    timeindex.New[storage.EventID](),
		now:      time.Now,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Storage) CreateEvent(owner storage.UserID, e storage.NewEvent) (storage.EventID, error) {
	if owner == storage.Anonymous {
		return 0, fmt.Errorf("failed to create event: %w", storage.ErrNotAuthenticated)
	}
	e.Title = strings.TrimSpace(e.Title)
	if err := s.validateEvent(e); err != nil {
		return 0, err
	}

	ts := storage.ParseTimestamp(strings.TrimSpace(e.When))
	if !ts.Valid() {
		return 0, fmt.Errorf("failed to parse %q: %w", e.When, storage.ErrInvalidTimestamp)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !ts.IsFuture(s.now()) {
		return 0, fmt.Errorf("event time %s: %w", ts, storage.ErrPastTimestamp)
	}

	id := s.nextID()
	s.data[id] = &record{
		event: storage.Event{
			ID:          id,
			Title:       e.Title,
			Time:        ts,
			Visibility:  e.Visibility,
			OwnerID:     owner,
			Description: e.Description,
		},
		attendees: make(map[storage.UserID]struct{}),
	}
	s.index.Insert(ts.Time(), id)
	return id, nil
}

func (s *Storage) Event(id storage.EventID, viewer storage.UserID) (storage.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.data[id]
	if !ok {
		return storage.Event{}, fmt.Errorf("event %d: %w", id, storage.ErrNotFound)
	}
	if !r.visible(viewer) {
		return storage.Event{}, fmt.Errorf("event %d: %w", id, storage.ErrAccessDenied)
	}
	return r.snapshot(), nil
}

// RSVP adds viewer to the attendees of the event. Repeated calls are no-ops.
func (s *Storage) RSVP(id storage.EventID, viewer storage.UserID) error {
	if viewer == storage.Anonymous {
		return fmt.Errorf("failed to rsvp event %d: %w", id, storage.ErrNotAuthenticated)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.data[id]
	if !ok {
		return fmt.Errorf("failed to rsvp event %d: %w", id, storage.ErrNotFound)
	}
	if !r.visible(viewer) {
		return fmt.Errorf("failed to rsvp event %d: %w", id, storage.ErrAccessDenied)
	}
	r.attendees[viewer] = struct{}{}
	return nil
}

// Range selects visible events in [start:end]. The order of the result is not part of the contract.
func (s *Storage) Range(start, end time.Time, viewer storage.UserID) []storage.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectByRange(start, end, viewer)
}

// Upcoming selects visible events from now to now plus days.
func (s *Storage) Upcoming(days int, viewer storage.UserID) []storage.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if days > maxDays {
		days = maxDays
	}
	now := s.now()
	return s.selectByRange(now, now.Add(time.Duration(days)*day), viewer)
}

// Search matches query against title and description ignoring case.
// Results are ordered by event ID.
func (s *Storage) Search(query string, viewer storage.UserID) []storage.Event {
	fold := cases.Fold()
	query = fold.String(query)

	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]storage.Event, 0)
	for _, r := range s.data {
		if !r.visible(viewer) {
			continue
		}
		if strings.Contains(fold.String(r.event.Title), query) ||
			strings.Contains(fold.String(r.event.Description), query) {
			events = append(events, r.snapshot())
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events
}

// EventsForUser lists events owned or attended by viewer sorted by time.
func (s *Storage) EventsForUser(viewer storage.UserID) []storage.Event {
	events := make([]storage.Event, 0)
	if viewer == storage.Anonymous {
		return events
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.data {
		if r.event.OwnerID == viewer || r.attends(viewer) {
			events = append(events, r.snapshot())
		}
	}
	sort.Slice(events, func(i, j int) bool {
		if c := events[i].Time.Compare(events[j].Time); c != 0 {
			return c < 0
		}
		return events[i].ID < events[j].ID
	})
	return events
}

func (s *Storage) selectByRange(start, end time.Time, viewer storage.UserID) []storage.Event {
	ids := s.index.Range(start, end, func(id storage.EventID) bool {
		return s.data[id].visible(viewer)
	})
	events := make([]storage.Event, 0, len(ids))
	for _, id := range ids {
		events = append(events, s.data[id].snapshot())
	}
	return events
}

func (s *Storage) validateEvent(e storage.NewEvent) error {
	err := s.validate.Struct(e)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return fmt.Errorf("failed to validate event: %w", err)
	}
	for _, fe := range vErrs {
		switch fe.Field() {
		case "Title":
			return storage.ErrEmptyTitle
		case "Visibility":
			return fmt.Errorf("visibility %d: %w", e.Visibility, storage.ErrBadVisibility)
		}
	}
	return fmt.Errorf("failed to validate event: %w", err)
}

func (s *Storage) nextID() storage.EventID {
	s.idSeq++
	return s.idSeq
}
