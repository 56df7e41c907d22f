package handler

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/seismo-watch/seismic-api/internal/core/domain"
)

// naiveTimestampLayout accepts ISO timestamps without an offset, read as UTC.
const naiveTimestampLayout = "2006-01-02T15:04:05.999999999"

// earthquakeFilters are the query parameters shared by /live and /history.
type earthquakeFilters struct {
	MinMagnitude *float64
	StartDate    *time.Time
	EndDate      *time.Time
	Box          domain.BoundingBox
}

func parseEarthquakeFilters(c echo.Context) (earthquakeFilters, error) {
	var (
		f   earthquakeFilters
		err error
	)
	if f.MinMagnitude, err = queryFloat(c, "minMagnitude"); err != nil {
		return f, err
	}
	if f.StartDate, err = queryDate(c, "startDate"); err != nil {
		return f, err
	}
	if f.EndDate, err = queryDate(c, "endDate"); err != nil {
		return f, err
	}
	if f.Box.MinLatitude, err = queryFloat(c, "minLatitude"); err != nil {
		return f, err
	}
	if f.Box.MaxLatitude, err = queryFloat(c, "maxLatitude"); err != nil {
		return f, err
	}
	if f.Box.MinLongitude, err = queryFloat(c, "minLongitude"); err != nil {
		return f, err
	}
	if f.Box.MaxLongitude, err = queryFloat(c, "maxLongitude"); err != nil {
		return f, err
	}
	return f, nil
}

func (f earthquakeFilters) live() domain.LiveQuery {
	return domain.LiveQuery{MinMagnitude: f.MinMagnitude, StartDate: f.StartDate, EndDate: f.EndDate, Box: f.Box}
}

func (f earthquakeFilters) history() domain.HistoryFilter {
	return domain.HistoryFilter{MinMagnitude: f.MinMagnitude, StartDate: f.StartDate, EndDate: f.EndDate, Box: f.Box}
}

// queryFloat returns nil for an absent or empty parameter.
func queryFloat(c echo.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, domain.Validation("%s must be a number", name)
	}
	return &v, nil
}

func queryDate(c echo.Context, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	return parseFormDate(name, raw)
}

func parseFormDate(name, raw string) (*time.Time, error) {
	t, err := domain.ParseDate(raw)
	if err != nil {
		return nil, domain.Validation("%s must be a date in YYYY-MM-DD format", name)
	}
	return &t, nil
}

// parseTimestamp accepts RFC 3339 and offset-less ISO 8601 timestamps.
func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.ParseInLocation(naiveTimestampLayout, raw, time.UTC)
}
