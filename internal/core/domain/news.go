package domain

import "time"

// News is an article posted by an admin.
type News struct {
	ID         string
	Title      string
	Content    string
	DatePosted time.Time
	AuthorID   string
	// AuthorName is resolved on read; nil when the author cannot be found.
	AuthorName *string
}
