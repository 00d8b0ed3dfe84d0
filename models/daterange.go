package models

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

var ErrInvalidRange = errors.New("the end date must be greater than or equal to the start date")

// DateRange holds optional inclusive bounds on created_at, as YYYY-MM-DD.
type DateRange struct {
	Start string
	End   string
}

// ParseDateRange validates both bounds and their order.
func ParseDateRange(start, end string) (DateRange, error) {
	r := DateRange{Start: strings.TrimSpace(start), End: strings.TrimSpace(end)}
	if _, _, err := r.Bounds(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// DefaultDateRange covers the last 30 days up to now.
func DefaultDateRange(now time.Time) DateRange {
	return DateRange{
		Start: now.AddDate(0, 0, -30).Format(DateLayout),
		End:   now.Format(DateLayout),
	}
}

func (r DateRange) IsZero() bool {
	return r.Start == "" && r.End == ""
}

// Bounds returns the half-open UTC interval [from, to). Days are UTC calendar
// days regardless of the zone records are displayed in. A zero time means the
// side is unbounded.
func (r DateRange) Bounds() (from, to time.Time, err error) {
	if r.Start != "" {
		from, err = time.Parse(DateLayout, r.Start)
		if err != nil {
			return time.Time{}, time.Time{}, &ValidationError{Field: "start", Reason: "must use the YYYY-MM-DD format"}
		}
	}
	if r.End != "" {
		end, perr := time.Parse(DateLayout, r.End)
		if perr != nil {
			return time.Time{}, time.Time{}, &ValidationError{Field: "end", Reason: "must use the YYYY-MM-DD format"}
		}
		if !from.IsZero() && from.After(end) {
			return time.Time{}, time.Time{}, ErrInvalidRange
		}
		to = end.AddDate(0, 0, 1)
	}
	return from, to, nil
}

// Query encodes the non-empty bounds as URL parameters.
func (r DateRange) Query() url.Values {
	q := url.Values{}
	if r.Start != "" {
		q.Set("start", r.Start)
	}
	if r.End != "" {
		q.Set("end", r.End)
	}
	return q
}
