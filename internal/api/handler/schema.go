package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

// registerRequest carries the text parts of the registration form.
type registerRequest struct {
	FirstName   string `form:"first_name"    json:"first_name"    validate:"required"`
	LastName    string `form:"last_name"     json:"last_name"     validate:"required"`
	Email       string `form:"email"         json:"email"         validate:"required,email"`
	Password    string `form:"password"      json:"password"      validate:"required"`
	Phone       string `form:"phone"         json:"phone"`
	DateOfBirth string `form:"date_of_birth" json:"date_of_birth"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	User        userResponse `json:"user"`
}

type userResponse struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	Phone       *string    `json:"phone"`
	DateOfBirth *string    `json:"date_of_birth"`
	PhotoPath   *string    `json:"photo_path"`
	Role        string     `json:"role"`
	LastLogin   *time.Time `json:"last_login"`
	CreatedAt   time.Time  `json:"created_at"`
}

// --- News ---

type createNewsRequest struct {
	Title   string `json:"title"   validate:"required"`
	Content string `json:"content" validate:"required"`
}

type updateNewsRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type newsResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	DatePosted time.Time `json:"date_posted"`
	AuthorID   string    `json:"author_id"`
	AuthorName *string   `json:"author_name"`
}

// --- Earthquakes ---

// saveEarthquakeRequest mirrors a record returned by the live endpoint.
type saveEarthquakeRequest struct {
	ID        string   `json:"id"         validate:"required"`
	Place     string   `json:"place"`
	Magnitude *float64 `json:"magnitude"  validate:"required"`
	Depth     *float64 `json:"depth"`
	Latitude  *float64 `json:"latitude"   validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude"  validate:"required,gte=-180,lte=180"`
	EventTime string   `json:"event_time" validate:"required"`
}

// earthquakeResponse identifies a record by its catalog id so live and
// history results share one shape.
type earthquakeResponse struct {
	ID        string     `json:"id"`
	Place     string     `json:"place"`
	Magnitude float64    `json:"magnitude"`
	Depth     float64    `json:"depth"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	EventTime time.Time  `json:"event_time"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
