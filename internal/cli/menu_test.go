package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/lomoval/event-organizer/internal/app"
	"github.com/lomoval/event-organizer/internal/storage"
	memorystorage "github.com/lomoval/event-organizer/internal/storage/memory"
	"github.com/lomoval/event-organizer/internal/users"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	m.Run()
}

func clock() time.Time {
	return storage.ParseTimestamp("2030-01-01 09:00").Time()
}

func newApp(t *testing.T) *app.App {
	t.Helper()
	a := app.New(
		memorystorage.New(memorystorage.WithClock(clock)),
		users.New(users.WithCost(bcrypt.MinCost)),
	)
	a.Seed(
		[]app.SeedUser{{Username: "admin", Password: "admin"}},
		[]app.SeedEvent{
			{
				Owner: "admin", Title: "Marathon", Time: "2030-09-01 07:00", Public: true,
				Description: "City marathon open to all residents",
			},
			{
				Owner: "admin", Title: "Birthday Party", Time: "2030-07-20 19:30",
				Description: "Private celebration with friends",
			},
		},
	)
	return a
}

func run(t *testing.T, a *app.App, lines ...string) string {
	t.Helper()
	out := &bytes.Buffer{}
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	require.NoError(t, New(a, in, out, 7, WithClock(clock)).Run(context.Background()))
	return out.String()
}

func TestMenuLoggedOut(t *testing.T) {
	t.Run("exit", func(t *testing.T) {
		out := run(t, newApp(t), "5")
		require.Contains(t, out, "1. Login")
		require.Contains(t, out, "Goodbye!")
	})

	t.Run("end of input", func(t *testing.T) {
		out := run(t, newApp(t))
		require.NotContains(t, out, "Goodbye!")
	})

	t.Run("invalid input", func(t *testing.T) {
		out := run(t, newApp(t), "abc", "42", "5")
		require.Contains(t, out, "Invalid input. Please enter a number.")
		require.Contains(t, out, "Invalid choice. Please try again.")
	})

	t.Run("search public only", func(t *testing.T) {
		out := run(t, newApp(t), "3", "", "0", "5")
		require.Contains(t, out, "Marathon")
		require.NotContains(t, out, "Birthday Party")
	})

	t.Run("search details", func(t *testing.T) {
		out := run(t, newApp(t), "3", "MARATHON", "1", "5")
		require.Contains(t, out, "Creator: admin")
		require.Contains(t, out, "City marathon open to all r...")
	})

	t.Run("nothing found", func(t *testing.T) {
		out := run(t, newApp(t), "3", "chess", "5")
		require.Contains(t, out, "No events matching 'chess' found.")
	})

	t.Run("upcoming default days", func(t *testing.T) {
		out := run(t, newApp(t), "4", "", "5")
		require.Contains(t, out, "No upcoming events found.")
	})

	t.Run("register and login", func(t *testing.T) {
		a := newApp(t)
		out := run(t, a, "2", "admin", "2", "bob", "pw", "1", "bob", "bad", "1", "bob", "pw", "7")
		require.Contains(t, out, "Username already exists.")
		require.Contains(t, out, "Registration successful!")
		require.Contains(t, out, "Invalid credentials.")
		require.Contains(t, out, "Login successful!")
		require.Contains(t, out, "Logged in as: bob")
		require.True(t, a.LoggedIn())
	})
}

func TestMenuLoggedIn(t *testing.T) {
	t.Run("create event", func(t *testing.T) {
		a := newApp(t)
		out := run(t, a,
			"1", "admin", "admin",
			"2", "Retro", "tomorrow", "2001-01-01 10:00", "2029-12-31 10:00", "2030-01-02 11:00", "maybe", "0", "sprint retro",
			"7",
		)
		require.Contains(t, out, "Invalid date format. Please try again.")
		require.Equal(t, 2, strings.Count(out, "Event date must be in the future."))
		require.Contains(t, out, "Please answer 1 or 0.")
		require.Contains(t, out, "Event created successfully! (ID: 3)")

		e, err := a.Event(3)
		require.NoError(t, err)
		require.Equal(t, storage.Private, e.Visibility)
		require.Equal(t, "sprint retro", e.Description)
	})

	t.Run("rsvp", func(t *testing.T) {
		a := newApp(t)
		require.NoError(t, a.Register("bob", "pw"))
		out := run(t, a,
			"1", "bob", "pw",
			"3", "2",
			"3", "99",
			"3", "x",
			"3", "1",
			"4", "1", "1",
			"7",
		)
		require.Contains(t, out, "RSVP failed. Access denied.")
		require.Contains(t, out, "RSVP failed. Event not found.")
		require.Contains(t, out, "Invalid event ID.")
		require.Contains(t, out, "RSVP successful!")
		require.Contains(t, out, "Attendees: 1")
	})

	t.Run("my events sorted", func(t *testing.T) {
		out := run(t, newApp(t), "1", "admin", "admin", "4", "0", "1", "5")
		party := strings.Index(out, "Birthday Party")
		marathon := strings.Index(out, "Marathon")
		require.True(t, party > 0 && marathon > party)
		require.Contains(t, out, "Logged out successfully.")
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		out := &bytes.Buffer{}
		require.NoError(t, New(newApp(t), strings.NewReader("5\n"), out, 7).Run(ctx))
		require.Empty(t, out.String())
	})

	t.Run("stops while waiting for input", func(t *testing.T) {
		for _, lines := range [][]string{
			nil,
			{"1", "admin", "admin", "2", "Retro", "bad date"},
		} {
			in, w := io.Pipe()
			ctx, cancel := context.WithCancel(context.Background())
			menu := New(newApp(t), in, &bytes.Buffer{}, 7, WithClock(clock))

			done := make(chan error, 1)
			go func() {
				done <- menu.Run(ctx)
			}()
			for _, l := range lines {
				_, err := io.WriteString(w, l+"\n")
				require.NoError(t, err)
			}

			cancel()
			select {
			case err := <-done:
				require.NoError(t, err)
			case <-time.After(time.Second):
				t.Fatal("menu did not stop after cancel")
			}
			require.NoError(t, w.Close())
		}
	})
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 20))
	require.Equal(t, "Annual technology...", truncate("Annual technology summit", 20))
	require.Equal(t, "Привет", truncate("Привет", 6))
	require.Equal(t, "При...", truncate("Привет мир", 6))
}
