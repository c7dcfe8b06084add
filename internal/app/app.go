package app

import (
	"github.com/lomoval/event-organizer/internal/storage"
	log "github.com/sirupsen/logrus"
)

type Users interface {
	Register(username, password string) (storage.UserID, error)
	Authenticate(username, password string) (storage.UserID, error)
	Exists(username string) bool
	Lookup(username string) (storage.UserID, bool)
	Username(id storage.UserID) string
}

type SeedUser struct {
	Username string
	Password string
}

type SeedEvent struct {
	Owner       string
	Title       string
	Time        string
	Public      bool
	Description string
}

// App binds the store to a single session. All queries run as the logged in
// user or anonymously.
type App struct {
	Storage storage.Storage
	Users   Users
	current storage.UserID
}

func New(storage storage.Storage, users Users) *App {
	return &App{Storage: storage, Users: users}
}

func (a *App) Register(username, password string) error {
	id, err := a.Users.Register(username, password)
	if err != nil {
		return err
	}
	log.WithField("user", id).Info("user registered")
	return nil
}

func (a *App) Login(username, password string) error {
	id, err := a.Users.Authenticate(username, password)
	if err != nil {
		log.WithField("username", username).Warn("failed login")
		return err
	}
	a.current = id
	log.WithField("user", id).Info("user logged in")
	return nil
}

func (a *App) Logout() {
	if a.current != storage.Anonymous {
		log.WithField("user", a.current).Info("user logged out")
	}
	a.current = storage.Anonymous
}

func (a *App) CurrentUser() storage.UserID {
	return a.current
}

func (a *App) LoggedIn() bool {
	return a.current != storage.Anonymous
}

func (a *App) CurrentUsername() string {
	return a.Users.Username(a.current)
}

func (a *App) CreateEvent(e storage.NewEvent) (storage.EventID, error) {
	id, err := a.Storage.CreateEvent(a.current, e)
	if err != nil {
		return 0, err
	}
	log.WithField("event", id).WithField("owner", a.current).Debug("event created")
	return id, nil
}

func (a *App) RSVP(id storage.EventID) error {
	return a.Storage.RSVP(id, a.current)
}

func (a *App) Event(id storage.EventID) (storage.Event, error) {
	return a.Storage.Event(id, a.current)
}

func (a *App) Upcoming(days int) []storage.Event {
	return a.Storage.Upcoming(days, a.current)
}

func (a *App) Search(query string) []storage.Event {
	return a.Storage.Search(query, a.current)
}

func (a *App) MyEvents() []storage.Event {
	return a.Storage.EventsForUser(a.current)
}

// Seed registers users and creates events on behalf of their owners.
// Entries that cannot be applied are skipped with a warning.
func (a *App) Seed(users []SeedUser, events []SeedEvent) {
	for _, u := range users {
		if _, err := a.Users.Register(u.Username, u.Password); err != nil {
			log.Warnf("skip seed user %q: %v", u.Username, err)
		}
	}

	for _, e := range events {
		owner, ok := a.Users.Lookup(e.Owner)
		if !ok {
			log.Warnf("skip seed event %q: unknown owner %q", e.Title, e.Owner)
			continue
		}
		visibility := storage.Private
		if e.Public {
			visibility = storage.Public
		}
		id, err := a.Storage.CreateEvent(owner, storage.NewEvent{
			Title:       e.Title,
			When:        e.Time,
			Visibility:  visibility,
			Description: e.Description,
		})
		if err != nil {
			log.Warnf("skip seed event %q: %v", e.Title, err)
			continue
		}
		log.WithField("event", id).Debug("seed event created")
	}
}
