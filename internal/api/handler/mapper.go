package handler

import (
	"github.com/seismo-watch/seismic-api/internal/core/domain"
)

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	resp := userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		PhotoPath: u.PhotoPath,
		Role:      string(u.Role),
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
	if u.DateOfBirth != nil {
		dob := u.DateOfBirth.Format(domain.DateLayout)
		resp.DateOfBirth = &dob
	}
	return resp
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toNewsResponse(n *domain.News) newsResponse {
	return newsResponse{
		ID:         n.ID,
		Title:      n.Title,
		Content:    n.Content,
		DatePosted: n.DatePosted,
		AuthorID:   n.AuthorID,
		AuthorName: n.AuthorName,
	}
}

func toNewsResponses(items []*domain.News) []newsResponse {
	out := make([]newsResponse, 0, len(items))
	for _, n := range items {
		out = append(out, toNewsResponse(n))
	}
	return out
}

func toEarthquakeResponse(eq *domain.Earthquake) earthquakeResponse {
	resp := earthquakeResponse{
		ID:        eq.SourceID,
		Place:     eq.Place,
		Magnitude: eq.Magnitude,
		Depth:     eq.Depth,
		Latitude:  eq.Latitude,
		Longitude: eq.Longitude,
		EventTime: eq.EventTime.UTC(),
	}
	if !eq.CreatedAt.IsZero() {
		created := eq.CreatedAt.UTC()
		resp.CreatedAt = &created
	}
	return resp
}

func toLiveResponses(records []domain.Earthquake) []earthquakeResponse {
	out := make([]earthquakeResponse, 0, len(records))
	for i := range records {
		out = append(out, toEarthquakeResponse(&records[i]))
	}
	return out
}

func toHistoryResponses(records []*domain.Earthquake) []earthquakeResponse {
	out := make([]earthquakeResponse, 0, len(records))
	for _, r := range records {
		out = append(out, toEarthquakeResponse(r))
	}
	return out
}

// --- Request → Domain ---

func toEarthquake(req saveEarthquakeRequest) (domain.Earthquake, error) {
	eventTime, err := parseTimestamp(req.EventTime)
	if err != nil {
		return domain.Earthquake{}, domain.Validation("event_time must be an ISO 8601 timestamp")
	}
	eq := domain.Earthquake{
		SourceID:  req.ID,
		Place:     req.Place,
		Magnitude: *req.Magnitude,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		EventTime: eventTime,
	}
	if req.Depth != nil {
		eq.Depth = *req.Depth
	}
	return eq, nil
}
