package domain

import (
	"time"
)

const (
	// DateLayout is the calendar-date format accepted in query strings and forms.
	DateLayout = "2006-01-02"

	DefaultMinMagnitude = 4.0
	DefaultWindowDays   = 7

	// CatalogResultLimit caps the number of events requested from the catalog.
	CatalogResultLimit = 1000
	// MaxHistoryRows caps a history query; there is no pagination.
	MaxHistoryRows = 1000

	UnknownPlace = "Unknown location"
)

// Earthquake is a normalized seismic event. SourceID is the catalog's
// identifier and the deduplication key; ID is assigned by the store.
type Earthquake struct {
	ID        string
	SourceID  string
	Place     string
	Magnitude float64
	Depth     float64
	Latitude  float64
	Longitude float64
	EventTime time.Time
	CreatedAt time.Time
}

// BoundingBox is an optional geographic filter. Each bound applies on its own.
type BoundingBox struct {
	MinLatitude  *float64
	MaxLatitude  *float64
	MinLongitude *float64
	MaxLongitude *float64
}

// LiveQuery is the caller's request for live catalog data. Nil fields take defaults.
type LiveQuery struct {
	MinMagnitude *float64
	StartDate    *time.Time
	EndDate      *time.Time
	Box          BoundingBox
}

// CatalogQuery is a LiveQuery with every default resolved.
type CatalogQuery struct {
	MinMagnitude float64
	StartDate    time.Time
	EndDate      time.Time
	Box          BoundingBox
	Limit        int
}

// Resolve fills defaults relative to now: magnitude 4.0 and a window of the
// seven days ending today. A start date left out while an end date is given
// defaults to seven days before that end date.
func (q LiveQuery) Resolve(now time.Time) CatalogQuery {
	out := CatalogQuery{
		MinMagnitude: DefaultMinMagnitude,
		EndDate:      StartOfDay(now),
		Box:          q.Box,
		Limit:        CatalogResultLimit,
	}
	if q.MinMagnitude != nil {
		out.MinMagnitude = *q.MinMagnitude
	}
	if q.EndDate != nil {
		out.EndDate = StartOfDay(*q.EndDate)
	}
	out.StartDate = out.EndDate.AddDate(0, 0, -DefaultWindowDays)
	if q.StartDate != nil {
		out.StartDate = StartOfDay(*q.StartDate)
	}
	return out
}

// HistoryFilter selects persisted earthquakes. All present filters are combined with AND.
type HistoryFilter struct {
	MinMagnitude *float64
	StartDate    *time.Time
	EndDate      *time.Time
	Box          BoundingBox
}

// EventTimeBounds turns the calendar dates into a half-open interval
// [from, until). The end date covers its whole day.
func (f HistoryFilter) EventTimeBounds() (from, until *time.Time) {
	if f.StartDate != nil {
		t := StartOfDay(*f.StartDate)
		from = &t
	}
	if f.EndDate != nil {
		t := StartOfDay(*f.EndDate).AddDate(0, 0, 1)
		until = &t
	}
	return from, until
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// StartOfDay truncates t to midnight of its UTC calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
