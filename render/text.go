// Package render draws record lists as text cards.
package render

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"recordbook/models"
)

var (
	headerStyle      = lipgloss.NewStyle().Bold(true)
	labelStyle       = lipgloss.NewStyle().Bold(true)
	placeholderStyle = lipgloss.NewStyle().Faint(true)
)

// Text is a render surface over an io.Writer. It keeps the entries it last
// drew so callers can resolve an entry number back to its record.
type Text struct {
	w      io.Writer
	schema models.Schema
	loc    *time.Location

	mu      sync.Mutex
	entries []models.Record
}

func NewText(w io.Writer, schema models.Schema, loc *time.Location) *Text {
	if loc == nil {
		loc = time.UTC
	}
	return &Text{w: w, schema: schema, loc: loc}
}

// Replace discards the previous entries and draws records in full.
func (t *Text) Replace(records []models.Record) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append([]models.Record(nil), records...)

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("== %s (%d) ==", strings.ToUpper(t.schema.Plural), len(t.entries))))
	b.WriteString("\n")
	if len(t.entries) == 0 {
		b.WriteString(placeholderStyle.Render(t.schema.Placeholder()))
		b.WriteString("\n")
	}
	for i, rec := range t.entries {
		b.WriteString(t.card(i+1, rec))
	}
	fmt.Fprint(t.w, b.String())
}

// Entries returns what the last Replace drew.
func (t *Text) Entries() []models.Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.Record(nil), t.entries...)
}

// Entry resolves a 1-based entry number.
func (t *Text) Entry(n int) (models.Record, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n < 1 || n > len(t.entries) {
		return models.Record{}, false
	}
	return t.entries[n-1], true
}

func (t *Text) card(n int, rec models.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d] %s\n", n, rec.ID)
	for _, f := range t.schema.Fields {
		fmt.Fprintf(&b, "    %s %s\n", labelStyle.Render(f.Label+":"), FormatField(f, rec.Fields[f.Name]))
	}
	fmt.Fprintf(&b, "    %s %s\n", labelStyle.Render("Created:"), models.FormatDisplay(&rec.CreatedAt, t.loc))
	fmt.Fprintf(&b, "    %s %s\n", labelStyle.Render("Updated:"), models.FormatDisplay(rec.UpdatedAt, t.loc))
	fmt.Fprintf(&b, "    edit %d | delete %d\n", n, n)
	return b.String()
}

// FormatField renders a value for display; amounts are shown in reais.
func FormatField(f models.Field, v any) string {
	s := f.FormatValue(v)
	if s == "" {
		return "-"
	}
	if f.Kind == models.KindAmount {
		return "R$ " + s
	}
	return s
}
