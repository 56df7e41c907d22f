package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/seismo-watch/seismic-api/internal/core/domain"
)

func TestEarthquakeHandler_Live_ParsesQuery(t *testing.T) {
	e := newEcho()
	stub := &stubEarthquakeService{live: []domain.Earthquake{{
		SourceID: "us1", Place: "Somewhere", Magnitude: 5, EventTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}}}

	c, rec := jsonContext(e, http.MethodGet,
		"/api/earthquakes/live?minMagnitude=5.5&startDate=2024-01-01&maxLongitude=-70", "")
	if err := NewEarthquakeHandler(stub).Live(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	q := stub.lastLive
	if q.MinMagnitude == nil || *q.MinMagnitude != 5.5 {
		t.Errorf("unexpected magnitude %v", q.MinMagnitude)
	}
	if q.StartDate == nil || q.StartDate.Format(domain.DateLayout) != "2024-01-01" {
		t.Errorf("unexpected start date %v", q.StartDate)
	}
	if q.EndDate != nil || q.Box.MinLongitude != nil {
		t.Errorf("absent params must stay nil: %+v", q)
	}
	if q.Box.MaxLongitude == nil || *q.Box.MaxLongitude != -70 {
		t.Errorf("unexpected max longitude %v", q.Box.MaxLongitude)
	}

	var resp []earthquakeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0].ID != "us1" || resp[0].CreatedAt != nil {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestEarthquakeHandler_RejectsMalformedParams(t *testing.T) {
	cases := []string{
		"/api/earthquakes/history?minMagnitude=abc",
		"/api/earthquakes/history?minMagnitude=NaN",
		"/api/earthquakes/history?startDate=2024-13-01",
		"/api/earthquakes/history?endDate=01/01/2024",
		"/api/earthquakes/history?minLatitude=Inf",
	}
	for _, target := range cases {
		t.Run(target, func(t *testing.T) {
			stub := &stubEarthquakeService{}
			c, _ := jsonContext(newEcho(), http.MethodGet, target, "")
			err := NewEarthquakeHandler(stub).History(c)
			if domain.KindOf(err) != domain.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if stub.histCalls != 0 {
				t.Errorf("service must not be called")
			}
		})
	}
}

func TestEarthquakeHandler_Save(t *testing.T) {
	e := newEcho()
	var got domain.Earthquake
	stub := &stubEarthquakeService{saveFn: func(_ context.Context, eq domain.Earthquake) (*domain.Earthquake, error) {
		got = eq
		eq.ID = "row-1"
		eq.CreatedAt = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		return &eq, nil
	}}

	body := `{"id":"us7000abcd","place":"10 km N","magnitude":5.2,"depth":10.0,"latitude":35.1,"longitude":-118.2,"event_time":"2024-01-01T00:00:00Z"}`
	c, rec := jsonContext(e, http.MethodPost, "/api/earthquakes/save", body)
	if err := NewEarthquakeHandler(stub).Save(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.SourceID != "us7000abcd" || got.Magnitude != 5.2 || got.Longitude != -118.2 {
		t.Errorf("unexpected domain record %+v", got)
	}
	if !got.EventTime.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected event time %s", got.EventTime)
	}

	var resp earthquakeResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.ID != "us7000abcd" || resp.CreatedAt == nil {
		t.Errorf("expected source id and created_at in response, got %+v", resp)
	}
}

func TestEarthquakeHandler_Save_AcceptsNaiveTimestamp(t *testing.T) {
	var got domain.Earthquake
	stub := &stubEarthquakeService{saveFn: func(_ context.Context, eq domain.Earthquake) (*domain.Earthquake, error) {
		got = eq
		return &eq, nil
	}}

	body := `{"id":"x","magnitude":4.0,"latitude":0,"longitude":0,"event_time":"2024-03-04T05:06:07.250"}`
	c, _ := jsonContext(newEcho(), http.MethodPost, "/api/earthquakes/save", body)
	if err := NewEarthquakeHandler(stub).Save(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	want := time.Date(2024, 3, 4, 5, 6, 7, 250_000_000, time.UTC)
	if !got.EventTime.Equal(want) {
		t.Errorf("expected %s, got %s", want, got.EventTime)
	}
	if got.Depth != 0 {
		t.Errorf("expected depth default 0")
	}
}

func TestEarthquakeHandler_Save_Validation(t *testing.T) {
	stub := &stubEarthquakeService{saveFn: func(context.Context, domain.Earthquake) (*domain.Earthquake, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}
	cases := map[string]string{
		"missing id":        `{"magnitude":4,"latitude":0,"longitude":0,"event_time":"2024-01-01T00:00:00Z"}`,
		"missing magnitude": `{"id":"x","latitude":0,"longitude":0,"event_time":"2024-01-01T00:00:00Z"}`,
		"bad latitude":      `{"id":"x","magnitude":4,"latitude":91,"longitude":0,"event_time":"2024-01-01T00:00:00Z"}`,
		"bad event_time":    `{"id":"x","magnitude":4,"latitude":0,"longitude":0,"event_time":"yesterday"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := jsonContext(newEcho(), http.MethodPost, "/api/earthquakes/save", body)
			if err := NewEarthquakeHandler(stub).Save(c); domain.KindOf(err) != domain.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
