// Package usgs queries the USGS FDSN event service for live earthquakes.
package usgs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/seismo-watch/seismic-api/internal/api/metrics"
	"github.com/seismo-watch/seismic-api/internal/core/domain"
)

const (
	DefaultBaseURL = "https://earthquake.usgs.gov/fdsnws/event/1/query"
	DefaultTimeout = 30 * time.Second

	fetchFailed = "failed to fetch earthquake data"
	// Largest body we are willing to parse; a 1000-feature response is a few MB.
	maxBodyBytes = 32 << 20
)

type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default client, which only sets a timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch performs one catalog query. Transport failures, non-2xx statuses and
// undecodable bodies are all reported as upstream errors.
func (c *Client) Fetch(ctx context.Context, q domain.CatalogQuery) ([]domain.Earthquake, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+queryParams(q).Encode(), nil)
	if err != nil {
		return nil, domain.Upstream(fetchFailed, err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.Upstream(fetchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, domain.Upstream(fetchFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.Upstream(fetchFailed,
			fmt.Errorf("catalog responded %d: %s", resp.StatusCode, snippet(body)))
	}
	if !gjson.ValidBytes(body) {
		return nil, domain.Upstream("malformed response from earthquake catalog", fmt.Errorf("invalid json: %s", snippet(body)))
	}

	records, skipped := parseFeatures(body)
	if skipped > 0 {
		metrics.CatalogFeaturesSkippedTotal.Add(float64(skipped))
		c.log.Debug().Int("skipped", skipped).Int("kept", len(records)).Msg("incomplete catalog features skipped")
	}
	return records, nil
}

func queryParams(q domain.CatalogQuery) url.Values {
	v := url.Values{}
	v.Set("format", "geojson")
	v.Set("starttime", q.StartDate.Format(domain.DateLayout))
	v.Set("endtime", q.EndDate.Format(domain.DateLayout))
	v.Set("minmagnitude", formatFloat(q.MinMagnitude))
	limit := q.Limit
	if limit <= 0 {
		limit = domain.CatalogResultLimit
	}
	v.Set("limit", strconv.Itoa(limit))

	optional := map[string]*float64{
		"minlatitude":  q.Box.MinLatitude,
		"maxlatitude":  q.Box.MaxLatitude,
		"minlongitude": q.Box.MinLongitude,
		"maxlongitude": q.Box.MaxLongitude,
	}
	for key, val := range optional {
		if val != nil {
			v.Set(key, formatFloat(*val))
		}
	}
	return v
}

// parseFeatures keeps features with a numeric magnitude, at least three
// coordinates with numeric longitude and latitude, and an origin time.
func parseFeatures(body []byte) ([]domain.Earthquake, int) {
	features := gjson.GetBytes(body, "features").Array()
	out := make([]domain.Earthquake, 0, len(features))
	skipped := 0

	for _, f := range features {
		eq, ok := parseFeature(f)
		if !ok {
			skipped++
			continue
		}
		out = append(out, eq)
	}
	return out, skipped
}

func parseFeature(f gjson.Result) (domain.Earthquake, bool) {
	mag := f.Get("properties.mag")
	if mag.Type != gjson.Number {
		return domain.Earthquake{}, false
	}

	coords := f.Get("geometry.coordinates").Array()
	if len(coords) < 3 || coords[0].Type != gjson.Number || coords[1].Type != gjson.Number {
		return domain.Earthquake{}, false
	}

	origin := f.Get("properties.time")
	if origin.Type != gjson.Number {
		return domain.Earthquake{}, false
	}

	place := strings.TrimSpace(f.Get("properties.place").String())
	if place == "" {
		place = domain.UnknownPlace
	}

	var depth float64
	if coords[2].Type == gjson.Number {
		depth = coords[2].Float()
	}

	return domain.Earthquake{
		SourceID:  f.Get("id").String(),
		Place:     place,
		Magnitude: mag.Float(),
		Depth:     depth,
		Latitude:  coords[1].Float(),
		Longitude: coords[0].Float(),
		EventTime: time.UnixMilli(origin.Int()).UTC(),
	}, true
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func snippet(b []byte) string {
	const max = 200
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
