// Package cli is the line based interactive front end of the organizer.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lomoval/event-organizer/internal/app"
	"github.com/lomoval/event-organizer/internal/storage"
	log "github.com/sirupsen/logrus"
)

var errExit = errors.New("exit")

type inputLine struct {
	text string
	err  error
}

type Menu struct {
	app         *app.App
	in          *bufio.Scanner
	out         io.Writer
	defaultDays int
	now         func() time.Time

	ctx        context.Context
	lines      chan inputLine
	readerOnce sync.Once
}

type Option func(m *Menu)

// WithClock sets the clock used to reject past dates before they reach the store.
// It should be the clock the store was created with.
func WithClock(now func() time.Time) Option {
	return func(m *Menu) {
		m.now = now
	}
}

func New(a *app.App, in io.Reader, out io.Writer, defaultDays int, opts ...Option) *Menu {
	m := &Menu{
		app:         a,
		in:          bufio.NewScanner(in),
		out:         out,
		defaultDays: defaultDays,
		now:         time.Now,
		lines:       make(chan inputLine),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run serves the menu until the user exits, the input ends or ctx is done.
// A prompt waiting for input is interrupted by ctx as well.
func (m *Menu) Run(ctx context.Context) error {
	m.ctx = ctx
	m.readerOnce.Do(func() { go m.scan() })
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		m.printMenu()
		line, err := m.readLine()
		if err != nil {
			return m.finish(err)
		}
		choice, err := strconv.Atoi(line)
		if err != nil {
			m.println("✗ Invalid input. Please enter a number.")
			continue
		}

		if m.app.LoggedIn() {
			err = m.loggedInChoice(choice)
		} else {
			err = m.loggedOutChoice(choice)
		}
		if err != nil {
			return m.finish(err)
		}
	}
}

func (m *Menu) finish(err error) error {
	if errors.Is(err, errExit) {
		m.println("Goodbye!")
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func (m *Menu) loggedOutChoice(choice int) error {
	switch choice {
	case 1:
		return m.login()
	case 2:
		return m.register()
	case 3:
		return m.search()
	case 4:
		return m.upcoming()
	case 5:
		return errExit
	}
	m.invalidChoice(choice)
	return nil
}

func (m *Menu) loggedInChoice(choice int) error {
	switch choice {
	case 1:
		m.app.Logout()
		m.println("✓ Logged out successfully.")
		return nil
	case 2:
		return m.createEvent()
	case 3:
		return m.rsvp()
	case 4:
		return m.myEvents()
	case 5:
		return m.search()
	case 6:
		return m.upcoming()
	case 7:
		return errExit
	}
	m.invalidChoice(choice)
	return nil
}

func (m *Menu) invalidChoice(choice int) {
	log.WithField("choice", choice).Debug("invalid menu choice")
	m.println("✗ Invalid choice. Please try again.")
}

func (m *Menu) printMenu() {
	m.println("")
	m.println("==== EVENT ORGANIZER ====")
	if m.app.LoggedIn() {
		m.printf("Logged in as: %s\n", m.app.CurrentUsername())
		m.println("1. Logout")
		m.println("2. Create New Event")
		m.println("3. RSVP to Event")
		m.println("4. My Events")
		m.println("5. Search Events")
		m.println("6. Upcoming Events")
		m.println("7. Exit")
	} else {
		m.println("1. Login")
		m.println("2. Register")
		m.println("3. Search Events")
		m.println("4. Upcoming Events")
		m.println("5. Exit")
	}
	m.printf("Enter your choice: ")
}

func (m *Menu) login() error {
	username, err := m.prompt("Enter username: ")
	if err != nil {
		return err
	}
	password, err := m.prompt("Enter password: ")
	if err != nil {
		return err
	}
	if err := m.app.Login(username, password); err != nil {
		m.println("✗ Invalid credentials.")
		return nil
	}
	m.println("✓ Login successful!")
	return nil
}

func (m *Menu) register() error {
	username, err := m.prompt("Enter username: ")
	if err != nil {
		return err
	}
	if m.app.Users.Exists(username) {
		m.println("✗ Username already exists.")
		return nil
	}
	password, err := m.prompt("Enter password: ")
	if err != nil {
		return err
	}
	if err := m.app.Register(username, password); err != nil {
		m.printf("✗ Registration failed: %v\n", err)
		return nil
	}
	m.println("✓ Registration successful!")
	return nil
}

func (m *Menu) createEvent() error {
	title, err := m.prompt("Enter event title: ")
	if err != nil {
		return err
	}

	var when string
	for {
		when, err = m.prompt("Enter event date (" + storage.TimestampLayout + "): ")
		if err != nil {
			return err
		}
		ts := storage.ParseTimestamp(when)
		if !ts.Valid() {
			m.println("✗ Invalid date format. Please try again.")
			continue
		}
		if !ts.IsFuture(m.now()) {
			m.println("✗ Event date must be in the future.")
			continue
		}
		break
	}

	var visibility storage.Visibility
	for {
		answer, err := m.prompt("Is public? (1 for yes, 0 for no): ")
		if err != nil {
			return err
		}
		if visibility, err = storage.ParseVisibility(answer); err == nil {
			break
		}
		m.println("✗ Please answer 1 or 0.")
	}

	description, err := m.prompt("Enter description: ")
	if err != nil {
		return err
	}

	id, err := m.app.CreateEvent(storage.NewEvent{
		Title:       title,
		When:        when,
		Visibility:  visibility,
		Description: description,
	})
	if err != nil {
		m.printf("✗ Error creating event: %v\n", err)
		return nil
	}
	m.printf("✓ Event created successfully! (ID: %d)\n", id)
	return nil
}

func (m *Menu) rsvp() error {
	id, ok, err := m.promptID("Enter event ID to RSVP: ")
	if err != nil || !ok {
		return err
	}
	if err := m.app.RSVP(id); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			m.println("✗ RSVP failed. Event not found.")
		case errors.Is(err, storage.ErrAccessDenied):
			m.println("✗ RSVP failed. Access denied.")
		default:
			m.printf("✗ RSVP failed: %v\n", err)
		}
		return nil
	}
	m.println("✓ RSVP successful!")
	return nil
}

func (m *Menu) myEvents() error {
	events := m.app.MyEvents()
	renderList(m.out, events, "your events")
	if len(events) == 0 {
		return nil
	}

	m.println("\nOptions:")
	m.println("1. View event details")
	m.println("0. Back to main menu")
	choice, err := m.prompt("Enter choice: ")
	if err != nil || choice != "1" {
		return err
	}
	id, ok, err := m.promptID("Enter event ID: ")
	if err != nil || !ok {
		return err
	}
	m.showFrom(events, id, "✗ Event not found in your events.")
	return nil
}

func (m *Menu) search() error {
	query, err := m.prompt("\nEnter search query (or leave empty for all events): ")
	if err != nil {
		return err
	}
	events := m.app.Search(query)
	renderList(m.out, events, fmt.Sprintf("events matching '%s'", query))
	if len(events) == 0 {
		return nil
	}

	id, ok, err := m.promptID("Enter event ID to view details (0 to cancel): ")
	if err != nil || !ok || id == 0 {
		return err
	}
	m.showFrom(events, id, "✗ Event not found.")
	return nil
}

func (m *Menu) upcoming() error {
	answer, err := m.prompt(fmt.Sprintf("\nShow events for how many days? (default %d): ", m.defaultDays))
	if err != nil {
		return err
	}
	days, err := strconv.Atoi(answer)
	if err != nil {
		days = m.defaultDays
	}
	renderList(m.out, m.app.Upcoming(days), "upcoming events")
	return nil
}

func (m *Menu) showFrom(events []storage.Event, id storage.EventID, notFound string) {
	for _, e := range events {
		if e.ID == id {
			renderDetails(m.out, e, m.app.Users.Username(e.OwnerID))
			return
		}
	}
	m.println(notFound)
}

func (m *Menu) promptID(text string) (storage.EventID, bool, error) {
	answer, err := m.prompt(text)
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseInt(answer, 10, 64)
	if err != nil {
		m.println("✗ Invalid event ID.")
		return 0, false, nil
	}
	return storage.EventID(id), true, nil
}

func (m *Menu) prompt(text string) (string, error) {
	m.printf("%s", text)
	return m.readLine()
}

func (m *Menu) readLine() (string, error) {
	select {
	case <-m.ctx.Done():
		return "", m.ctx.Err()
	case l, ok := <-m.lines:
		if !ok {
			return "", io.EOF
		}
		return l.text, l.err
	}
}

// scan feeds input lines to readLine. It is the only reader of m.in.
func (m *Menu) scan() {
	defer close(m.lines)
	for m.in.Scan() {
		m.lines <- inputLine{text: strings.TrimSpace(m.in.Text())}
	}
	if err := m.in.Err(); err != nil {
		m.lines <- inputLine{err: fmt.Errorf("failed to read input: %w", err)}
	}
}

func (m *Menu) printf(format string, args ...interface{}) {
	fmt.Fprintf(m.out, format, args...)
}

func (m *Menu) println(text string) {
	fmt.Fprintln(m.out, text)
}
