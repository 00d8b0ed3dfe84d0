package console

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recordbook/client"
	"recordbook/form"
	"recordbook/models"
	"recordbook/render"
	"recordbook/routes"
	"recordbook/storage/sqlite"
)

type session struct {
	store   *sqlite.SQLiteStore
	surface *render.Text
	out     *bytes.Buffer
	console *Console
}

// newSession serves schema from a fresh SQLite database and wires a console
// reading script to it.
func newSession(t *testing.T, schema models.Schema, script string) *session {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(routes.SetupRoutes(store, prometheus.NewRegistry(), schema))
	t.Cleanup(srv.Close)

	out := &bytes.Buffer{}
	prompt := NewPrompt(strings.NewReader(script), out)
	surface := render.NewText(out, schema, time.UTC)
	api := client.New(srv.URL, schema.Collection, client.WithTimeout(5*time.Second))
	ctrl := form.New(schema, api, surface, prompt, prompt, form.WithLocation(time.UTC))

	return &session{
		store:   store,
		surface: surface,
		out:     out,
		console: New(prompt, ctrl, surface, 5*time.Second),
	}
}

func TestCreateEditDelete(t *testing.T) {
	s := newSession(t, models.BillSchema, strings.Join([]string{
		"set embasa 120.50",
		"set coelba 89.30",
		"save",
		"edit 1",
		"set coelba 100",
		"save",
		"delete 1",
		"y",
		"quit",
		"set embasa 1",
	}, "\n"))

	require.NoError(t, s.console.Run(context.Background()))

	got := s.out.String()
	assert.Contains(t, got, "No bills found for the selected date range")
	assert.Contains(t, got, "Bill created.")
	assert.Contains(t, got, "R$ 120.50")
	assert.Contains(t, got, "-- bill form (edit) --")
	assert.Contains(t, got, "[update] [cancel]")
	assert.Contains(t, got, "Bill updated.")
	assert.Contains(t, got, "R$ 100.00")
	assert.Contains(t, got, "Are you sure you want to delete this bill? [y/N]")
	assert.Contains(t, got, "Bill deleted.")
	assert.NotContains(t, got, "error:")

	assert.Empty(t, s.surface.Entries())
	records, err := s.store.List(context.Background(), "bills", models.DateRange{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestUpdateKeepsCreatedAt(t *testing.T) {
	s := newSession(t, models.ItemSchema, strings.Join([]string{
		"set name Desk lamp",
		"set price 35",
		"save",
		"edit 1",
		"set price 40",
		"save",
	}, "\n"))

	require.NoError(t, s.console.Run(context.Background()))

	entries := s.surface.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Desk lamp", entries[0].Fields["name"])
	assert.Equal(t, 40.0, entries[0].Fields["price"])
	assert.NotNil(t, entries[0].UpdatedAt)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestDeclinedDeleteKeepsRecord(t *testing.T) {
	s := newSession(t, models.ItemSchema, strings.Join([]string{
		"set name Chair",
		"set price 80",
		"save",
		"delete 1",
		"n",
	}, "\n"))

	require.NoError(t, s.console.Run(context.Background()))

	assert.Len(t, s.surface.Entries(), 1)
	assert.NotContains(t, s.out.String(), "Item deleted.")
}

func TestInvalidCommandsAreReported(t *testing.T) {
	s := newSession(t, models.BillSchema, "")
	ctx := context.Background()

	steps := []struct {
		line string
		want string
	}{
		{"bogus", `error: unknown command "bogus", type help`},
		{"set price 3", "error: price is not a field of bills"},
		{"set embasa", "error: usage: set FIELD VALUE"},
		{"edit x", "error: no entry x in the list"},
		{"get", "error: usage: get ID"},
		{"delete 4", "error: no entry 4 in the list"},
		{"filter 2025-09-30 2025-09-01", "error: The end date must be greater than or equal to the start date."},
		{"filter 2025-09-01", "error: usage: filter [START END]"},
		{"set embasa -5", ""},
		{"set coelba 1", ""},
		{"save", "error: Please enter valid values: embasa must not be negative."},
	}
	for _, step := range steps {
		quit := s.console.Exec(ctx, step.line)
		assert.False(t, quit, step.line)
		if step.want != "" {
			assert.Contains(t, s.out.String(), step.want, step.line)
		}
	}

	records, err := s.store.List(ctx, "bills", models.DateRange{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFilterCommand(t *testing.T) {
	s := newSession(t, models.BillSchema, "")
	ctx := context.Background()

	require.NoError(t, s.store.Create(ctx, "bills", &models.Record{
		ID:        "sept",
		Fields:    map[string]any{"embasa": 1.0, "coelba": 2.0},
		CreatedAt: time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC),
	}))
	s.console.Exec(ctx, "list")
	require.Len(t, s.surface.Entries(), 1)

	s.console.Exec(ctx, "filter 2025-10-01 -")
	assert.Empty(t, s.surface.Entries())

	s.console.Exec(ctx, "filter - 2025-09-15")
	assert.Len(t, s.surface.Entries(), 1)

	s.console.Exec(ctx, "clear")
	assert.Len(t, s.surface.Entries(), 1)
}

func TestShowInCreateMode(t *testing.T) {
	s := newSession(t, models.ItemSchema, "")

	s.console.Exec(context.Background(), "show")

	got := s.out.String()
	assert.Contains(t, got, "-- item form (create) --")
	assert.Contains(t, got, "[save]")
	assert.NotContains(t, got, "[cancel]")
	assert.NotContains(t, got, "updated_at:")
}

func TestQuit(t *testing.T) {
	s := newSession(t, models.ItemSchema, "")
	assert.True(t, s.console.Exec(context.Background(), "quit"))
	assert.True(t, s.console.Exec(context.Background(), "exit"))
	assert.False(t, s.console.Exec(context.Background(), "   "))
}

func TestSetWithoutValueKeepsInput(t *testing.T) {
	s := newSession(t, models.BillSchema, "")
	ctx := context.Background()

	s.console.Exec(ctx, "set embasa 12")
	s.console.Exec(ctx, "set embasa")

	assert.Contains(t, s.out.String(), "error: usage: set FIELD VALUE")
	assert.Equal(t, "12", s.console.ctrl.State().Values["embasa"])
}

func TestGetLoadsRecordByID(t *testing.T) {
	s := newSession(t, models.ItemSchema, "")
	ctx := context.Background()
	require.NoError(t, s.store.Create(ctx, "items", &models.Record{
		ID:        "lamp-1",
		Fields:    map[string]any{"name": "Lamp", "price": 12.0},
		CreatedAt: time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC),
	}))

	s.console.Exec(ctx, "get lamp-1")

	state := s.console.ctrl.State()
	assert.Equal(t, form.ModeEdit, state.Mode)
	assert.Equal(t, "lamp-1", state.ID)
	assert.Equal(t, "Lamp", state.Values["name"])
	assert.Contains(t, s.out.String(), "-- item form (edit) --")

	s.console.Exec(ctx, "get missing")
	assert.Contains(t, s.out.String(), "error: Failed to load item missing")
}

func TestEditAndDeleteByID(t *testing.T) {
	s := newSession(t, models.ItemSchema, "y\n")
	ctx := context.Background()
	require.NoError(t, s.store.Create(ctx, "items", &models.Record{
		ID:        "chair-1",
		Fields:    map[string]any{"name": "Chair", "price": 80.0},
		CreatedAt: time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC),
	}))
	s.console.Exec(ctx, "list")

	s.console.Exec(ctx, "edit chair-1")
	assert.Equal(t, "chair-1", s.console.ctrl.State().ID)

	s.console.Exec(ctx, "delete chair-1")
	assert.Empty(t, s.surface.Entries())
	assert.Contains(t, s.out.String(), "Item deleted.")
}
