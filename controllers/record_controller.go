package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"recordbook/models"
	"recordbook/storage"
)

// RecordController serves the CRUD endpoints of one collection.
type RecordController struct {
	Schema models.Schema
	Store  storage.Store
	Now    func() time.Time
}

func NewRecordController(schema models.Schema, store storage.Store) *RecordController {
	return &RecordController{Schema: schema, Store: store, Now: time.Now}
}

func (c *RecordController) now() time.Time {
	return c.Now().UTC().Truncate(time.Second)
}

func (c *RecordController) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var rec models.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	fields, err := c.Schema.Normalize(rec.Fields)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec.ID = uuid.New().String()
	rec.Fields = fields
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = c.now()
	} else {
		rec.CreatedAt = rec.CreatedAt.UTC().Truncate(time.Second)
	}
	rec.UpdatedAt = nil

	if err := c.Store.Create(r.Context(), c.Schema.Collection, &rec); err != nil {
		c.storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

// ListRecords applies the optional start/end filter on created_at.
func (c *RecordController) ListRecords(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	dateRange, err := models.ParseDateRange(query.Get("start"), query.Get("end"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c.list(w, r, dateRange)
}

func (c *RecordController) ListAllRecords(w http.ResponseWriter, r *http.Request) {
	c.list(w, r, models.DateRange{})
}

func (c *RecordController) list(w http.ResponseWriter, r *http.Request, dateRange models.DateRange) {
	records, err := c.Store.List(r.Context(), c.Schema.Collection, dateRange)
	if err != nil {
		c.storeError(w, r, err)
		return
	}
	if records == nil {
		records = []models.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (c *RecordController) GetRecord(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := c.Store.Get(r.Context(), c.Schema.Collection, id)
	if err != nil {
		c.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// UpdateRecord keeps the stored created_at and never moves updated_at
// backwards.
func (c *RecordController) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var body models.Record
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	fields, err := c.Schema.Normalize(body.Fields)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	existing, err := c.Store.Get(r.Context(), c.Schema.Collection, id)
	if err != nil {
		c.storeError(w, r, err)
		return
	}

	updatedAt := c.now()
	if existing.UpdatedAt != nil && existing.UpdatedAt.After(updatedAt) {
		updatedAt = *existing.UpdatedAt
	}

	rec := models.Record{
		ID:        id,
		Fields:    fields,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: &updatedAt,
	}
	if err := c.Store.Update(r.Context(), c.Schema.Collection, &rec); err != nil {
		c.storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (c *RecordController) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := c.Store.Delete(r.Context(), c.Schema.Collection, id); err != nil {
		c.storeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *RecordController) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, "Record not found", http.StatusNotFound)
	case models.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("Store operation failed",
			"collection", c.Schema.Collection,
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
