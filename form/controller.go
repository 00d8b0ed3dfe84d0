package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"recordbook/models"
)

// ErrBusy is returned when a mutation is requested while another one is
// still in flight.
var ErrBusy = errors.New("another operation is still in progress")

// RecordStore is the record store API of one collection.
type RecordStore interface {
	List(ctx context.Context, r models.DateRange) ([]models.Record, error)
	Get(ctx context.Context, id string) (*models.Record, error)
	Create(ctx context.Context, rec models.Record) (*models.Record, error)
	Update(ctx context.Context, id string, rec models.Record) (*models.Record, error)
	Delete(ctx context.Context, id string) error
}

// Surface shows the current list. Replace always receives the complete list.
type Surface interface {
	Replace(records []models.Record)
}

type Notifier interface {
	Info(msg string)
	Error(msg string)
}

type Confirmer interface {
	Confirm(prompt string) bool
}

type Controller struct {
	schema    models.Schema
	store     RecordStore
	surface   Surface
	notifier  Notifier
	confirmer Confirmer
	now       func() time.Time
	loc       *time.Location

	mu       sync.Mutex
	state    State
	filter   models.DateRange
	inFlight bool
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLocation sets the zone form inputs are read and written in.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) { c.loc = loc }
}

func New(schema models.Schema, store RecordStore, surface Surface, notifier Notifier, confirmer Confirmer, opts ...Option) *Controller {
	c := &Controller{
		schema:    schema,
		store:     store,
		surface:   surface,
		notifier:  notifier,
		confirmer: confirmer,
		now:       time.Now,
		loc:       time.Local,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state = NewState(schema, c.now(), c.loc)
	return c
}

func (c *Controller) Schema() models.Schema {
	return c.schema
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) View() View {
	return c.State().View()
}

func (c *Controller) Filter() models.DateRange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Set changes one input. field is a schema field name or CreatedAtField.
func (c *Controller) Set(field, value string) error {
	if _, ok := c.schema.Field(field); !ok && field != CreatedAtField {
		return &models.ValidationError{Field: field, Reason: "is not a field of " + c.schema.Plural}
	}
	c.mu.Lock()
	c.state = c.state.With(field, value)
	c.mu.Unlock()
	return nil
}

func (c *Controller) BeginEdit(rec models.Record) {
	c.mu.Lock()
	c.state = BeginEdit(c.schema, rec, c.now(), c.loc)
	c.mu.Unlock()
}

// Open fetches one record by id and loads it into the form.
func (c *Controller) Open(ctx context.Context, id string) error {
	if id == "" {
		return &models.ValidationError{Field: "id", Reason: "is required"}
	}
	rec, err := c.store.Get(ctx, id)
	if err != nil {
		slog.Error("Failed to fetch record",
			"collection", c.schema.Collection,
			"id", id,
			"error", err,
		)
		c.notifier.Error(fmt.Sprintf("Failed to load %s %s: %v", c.schema.Singular, id, err))
		return err
	}
	c.BeginEdit(*rec)
	return nil
}

func (c *Controller) Cancel() {
	c.mu.Lock()
	c.state = Cancel(c.schema, c.now(), c.loc)
	c.mu.Unlock()
}

// Submit creates or updates depending on the form mode. Invalid input never
// reaches the store. On failure the form is left as it was; on success it is
// reset and the list reloaded.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		c.notifier.Error("Please wait for the current operation to finish.")
		return ErrBusy
	}
	action, err := PrepareSubmit(c.schema, c.state, c.now(), c.loc)
	if err != nil {
		c.mu.Unlock()
		c.notifier.Error(fmt.Sprintf("Please enter valid values: %v.", err))
		return err
	}
	c.inFlight = true
	c.mu.Unlock()
	defer c.release()

	verb := "created"
	if action.Kind == ActionCreate {
		_, err = c.store.Create(ctx, action.Record)
	} else {
		verb = "updated"
		_, err = c.store.Update(ctx, action.ID, action.Record)
	}
	if err != nil {
		slog.Error("Failed to save record",
			"collection", c.schema.Collection,
			"id", action.ID,
			"error", err,
		)
		c.notifier.Error(fmt.Sprintf("Failed to save %s: %v", c.schema.Singular, err))
		return err
	}

	c.mu.Lock()
	// Keep an edit the user started while the request was in flight.
	if c.state.ID == action.ID {
		c.state = NewState(c.schema, c.now(), c.loc)
	}
	c.mu.Unlock()
	c.notifier.Info(fmt.Sprintf("%s %s.", capitalize(c.schema.Singular), verb))

	return c.Reload(ctx)
}

// Delete asks for confirmation first. Whatever the outcome of the request,
// the list is reloaded afterwards.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if id == "" {
		return &models.ValidationError{Field: "id", Reason: "is required"}
	}
	if !c.confirmer.Confirm(fmt.Sprintf("Are you sure you want to delete this %s?", c.schema.Singular)) {
		return nil
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		c.notifier.Error("Please wait for the current operation to finish.")
		return ErrBusy
	}
	c.inFlight = true
	c.mu.Unlock()
	defer c.release()

	err := c.store.Delete(ctx, id)
	if err != nil {
		slog.Error("Failed to delete record",
			"collection", c.schema.Collection,
			"id", id,
			"error", err,
		)
		c.notifier.Error(fmt.Sprintf("Failed to delete %s: %v", c.schema.Singular, err))
	} else {
		c.mu.Lock()
		// The record under edit no longer exists.
		if c.state.ID == id {
			c.state = NewState(c.schema, c.now(), c.loc)
		}
		c.mu.Unlock()
		c.notifier.Info(fmt.Sprintf("%s deleted.", capitalize(c.schema.Singular)))
	}

	if rerr := c.Reload(ctx); err == nil {
		err = rerr
	}
	return err
}

// Reload fetches the list with the current filter and replaces the surface
// content. On failure the surface is left untouched.
func (c *Controller) Reload(ctx context.Context) error {
	filter := c.Filter()

	records, err := c.store.List(ctx, filter)
	if err != nil {
		slog.Error("Failed to load records",
			"collection", c.schema.Collection,
			"start", filter.Start,
			"end", filter.End,
			"error", err,
		)
		c.notifier.Error(fmt.Sprintf("Failed to load %s: %v", c.schema.Plural, err))
		return err
	}

	c.surface.Replace(records)
	return nil
}

// ApplyFilter validates start <= end before issuing any request.
func (c *Controller) ApplyFilter(ctx context.Context, start, end string) error {
	r, err := models.ParseDateRange(start, end)
	if err != nil {
		c.notifier.Error(capitalize(err.Error()) + ".")
		return err
	}
	c.mu.Lock()
	c.filter = r
	c.mu.Unlock()
	return c.Reload(ctx)
}

func (c *Controller) ClearFilter(ctx context.Context) error {
	c.mu.Lock()
	c.filter = models.DateRange{}
	c.mu.Unlock()
	return c.Reload(ctx)
}

// DefaultRange is the last 30 days in the controller's clock.
func (c *Controller) DefaultRange() models.DateRange {
	return models.DefaultDateRange(c.now().In(c.loc))
}

func (c *Controller) release() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
