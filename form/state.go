// Package form implements the create/edit form controller shared by every
// record collection.
//
// The state machine is kept as plain values: NewState, BeginEdit, Cancel and
// PrepareSubmit are pure and return the next state or the request to issue.
// Controller wraps them with the store, the render surface and the user
// prompts.
package form

import (
	"time"

	"recordbook/models"
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// CreatedAtField addresses the created-at input through Controller.Set.
const CreatedAtField = "created_at"

// State is the full content of the form. Values holds the raw input of each
// schema field.
type State struct {
	Mode      Mode
	ID        string
	Values    map[string]string
	CreatedAt string
	UpdatedAt string
}

// View describes what the form shows for a state.
type View struct {
	SubmitLabel   string
	ShowCancel    bool
	ShowUpdatedAt bool
}

func (s State) View() View {
	if s.Mode == ModeEdit {
		return View{SubmitLabel: "Update", ShowCancel: true, ShowUpdatedAt: true}
	}
	return View{SubmitLabel: "Save"}
}

// NewState returns the empty create form.
func NewState(schema models.Schema, now time.Time, loc *time.Location) State {
	values := make(map[string]string, len(schema.Fields))
	for _, f := range schema.Fields {
		values[f.Name] = ""
	}
	return State{
		Mode:      ModeCreate,
		Values:    values,
		CreatedAt: models.FormatInput(now, loc),
	}
}

// Cancel leaves edit mode and clears every input.
func Cancel(schema models.Schema, now time.Time, loc *time.Location) State {
	return NewState(schema, now, loc)
}

// BeginEdit loads rec into the form, from either mode.
func BeginEdit(schema models.Schema, rec models.Record, now time.Time, loc *time.Location) State {
	values := make(map[string]string, len(schema.Fields))
	for _, f := range schema.Fields {
		values[f.Name] = f.FormatValue(rec.Fields[f.Name])
	}

	createdAt := models.FormatInput(rec.CreatedAt, loc)
	if createdAt == "" {
		createdAt = models.FormatInput(now, loc)
	}

	return State{
		Mode:      ModeEdit,
		ID:        rec.ID,
		Values:    values,
		CreatedAt: createdAt,
		UpdatedAt: models.FormatInput(now, loc),
	}
}

// With returns a copy of s with one input changed.
func (s State) With(field, value string) State {
	if field == CreatedAtField {
		s.CreatedAt = value
		return s
	}
	values := make(map[string]string, len(s.Values))
	for k, v := range s.Values {
		values[k] = v
	}
	values[field] = value
	s.Values = values
	return s
}

type ActionKind int

const (
	ActionCreate ActionKind = iota
	ActionUpdate
)

// Action is the store request a submit resolves to.
type Action struct {
	Kind   ActionKind
	ID     string
	Record models.Record
}

// PrepareSubmit validates the inputs and builds the request. An empty id
// always means create; otherwise the update is addressed to that id.
func PrepareSubmit(schema models.Schema, s State, now time.Time, loc *time.Location) (Action, error) {
	fields, err := schema.Validate(s.Values)
	if err != nil {
		return Action{}, err
	}
	now = now.UTC()

	if s.ID == "" {
		return Action{
			Kind: ActionCreate,
			Record: models.Record{
				Fields:    fields,
				CreatedAt: now,
			},
		}, nil
	}

	createdAt, ok := models.ParseTimestamp(s.CreatedAt, loc)
	if !ok {
		createdAt = now
	}
	return Action{
		Kind: ActionUpdate,
		ID:   s.ID,
		Record: models.Record{
			ID:        s.ID,
			Fields:    fields,
			CreatedAt: createdAt.UTC(),
			UpdatedAt: &now,
		},
	}, nil
}
