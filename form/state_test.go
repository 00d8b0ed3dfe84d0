package form

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recordbook/models"
)

var (
	fixedNow = time.Date(2025, 10, 14, 15, 4, 5, 0, time.UTC)
	editNow  = fixedNow.Add(time.Hour)
)

func TestBeginEditThenCancelRestoresDefaults(t *testing.T) {
	records := []models.Record{
		{ID: "7", Fields: map[string]any{"embasa": 10.0, "coelba": 20.0}, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "b-2", Fields: map[string]any{"embasa": 0.0, "coelba": 1.25}},
		{ID: "x", Fields: map[string]any{}},
	}
	defaults := NewState(models.BillSchema, fixedNow, time.UTC)

	for _, rec := range records {
		edited := BeginEdit(models.BillSchema, rec, editNow, time.UTC)
		require.Equal(t, ModeEdit, edited.Mode)

		restored := Cancel(models.BillSchema, fixedNow, time.UTC)
		if diff := cmp.Diff(defaults, restored); diff != "" {
			t.Errorf("Cancel after BeginEdit(%s) mismatch (-want +got):\n%s", rec.ID, diff)
		}
	}
}

func TestNewState(t *testing.T) {
	s := NewState(models.BillSchema, fixedNow, time.UTC)

	assert.Equal(t, ModeCreate, s.Mode)
	assert.Empty(t, s.ID)
	assert.Equal(t, map[string]string{"embasa": "", "coelba": ""}, s.Values)
	assert.Equal(t, "2025-10-14T15:04", s.CreatedAt)
	assert.Empty(t, s.UpdatedAt)
	assert.Equal(t, View{SubmitLabel: "Save"}, s.View())
}

func TestBeginEdit(t *testing.T) {
	rec := models.Record{
		ID:        "7",
		Fields:    map[string]any{"embasa": 10.0, "coelba": 20.5},
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	s := BeginEdit(models.BillSchema, rec, editNow, time.UTC)

	want := State{
		Mode:      ModeEdit,
		ID:        "7",
		Values:    map[string]string{"embasa": "10.00", "coelba": "20.50"},
		CreatedAt: "2024-01-01T00:00",
		UpdatedAt: "2025-10-14T16:04",
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("BeginEdit mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, View{SubmitLabel: "Update", ShowCancel: true, ShowUpdatedAt: true}, s.View())
}

func TestBeginEditWithoutCreatedAtUsesNow(t *testing.T) {
	s := BeginEdit(models.ItemSchema, models.Record{ID: "1", Fields: map[string]any{"name": "Lamp", "price": 3.0}}, editNow, time.UTC)

	assert.Equal(t, "2025-10-14T16:04", s.CreatedAt)
	assert.Equal(t, "Lamp", s.Values["name"])
	assert.Equal(t, "3.00", s.Values["price"])
}

func TestWithDoesNotAlias(t *testing.T) {
	s := NewState(models.BillSchema, fixedNow, time.UTC)
	changed := s.With("embasa", "1")

	assert.Equal(t, "", s.Values["embasa"])
	assert.Equal(t, "1", changed.Values["embasa"])
	assert.Equal(t, "2024-01-01T00:00", s.With(CreatedAtField, "2024-01-01T00:00").CreatedAt)
}

func TestPrepareSubmitCreate(t *testing.T) {
	s := NewState(models.BillSchema, fixedNow, time.UTC).
		With("embasa", "120.50").
		With("coelba", "89.30")

	action, err := PrepareSubmit(models.BillSchema, s, fixedNow, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, ActionCreate, action.Kind)
	assert.Empty(t, action.ID)
	want := models.Record{
		Fields:    map[string]any{"embasa": 120.5, "coelba": 89.3},
		CreatedAt: fixedNow,
	}
	if diff := cmp.Diff(want, action.Record); diff != "" {
		t.Errorf("create record mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepareSubmitUpdate(t *testing.T) {
	rec := models.Record{
		ID:        "7",
		Fields:    map[string]any{"embasa": 10.0, "coelba": 20.0},
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	s := BeginEdit(models.BillSchema, rec, fixedNow, time.UTC)

	action, err := PrepareSubmit(models.BillSchema, s, editNow, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, ActionUpdate, action.Kind)
	assert.Equal(t, "7", action.ID)
	assert.Equal(t, "2024-01-01T00:00:00Z", models.FormatCanonical(action.Record.CreatedAt))
	require.NotNil(t, action.Record.UpdatedAt)
	assert.Equal(t, editNow, *action.Record.UpdatedAt)
}

func TestPrepareSubmitUpdateWithInvalidCreatedAt(t *testing.T) {
	s := State{
		Mode:      ModeEdit,
		ID:        "7",
		Values:    map[string]string{"embasa": "1", "coelba": "2"},
		CreatedAt: "not a date",
	}

	action, err := PrepareSubmit(models.BillSchema, s, editNow, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, editNow, action.Record.CreatedAt)
}

func TestPrepareSubmitReadsInputInLocation(t *testing.T) {
	bahia := time.FixedZone("BRT", -3*60*60)
	s := State{
		Mode:      ModeEdit,
		ID:        "7",
		Values:    map[string]string{"embasa": "1", "coelba": "2"},
		CreatedAt: "2024-01-01T00:00",
	}

	action, err := PrepareSubmit(models.BillSchema, s, editNow, bahia)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T03:00:00Z", models.FormatCanonical(action.Record.CreatedAt))
}

func TestPrepareSubmitRejectsInvalidAmounts(t *testing.T) {
	for _, raw := range []string{"-1", "abc", "", "NaN", "-0.5"} {
		s := NewState(models.BillSchema, fixedNow, time.UTC).With("embasa", raw).With("coelba", "1")

		_, err := PrepareSubmit(models.BillSchema, s, fixedNow, time.UTC)

		assert.True(t, models.IsValidation(err), "input %q", raw)
	}
}
