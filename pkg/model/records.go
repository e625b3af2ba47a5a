package model

import "time"

// FeedType is a free-form tag; these are the ones the forms offer.
const (
	FeedFeedback = "피드백"
	FeedMeeting  = "회의록"
	FeedIdea     = "아이디어"
)

// Resource is a saved link.
type Resource struct {
	ID         string    `json:"id"`
	Name       string    `json:"resourceName"`
	URL        string    `json:"url"`
	Category   string    `json:"category"`
	Registrant string    `json:"registrant"`
	Version    string    `json:"version"`
	CreatedAt  time.Time `json:"createdAt,omitzero"`
}

// Feed is a note, meeting minute or piece of feedback.
type Feed struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Author    string    `json:"authorName"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Event is a date-only calendar entry.
type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"eventName"`
	Date      string    `json:"date"` // YYYY-MM-DD
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Profile is the singleton user record.
type Profile struct {
	Name string `json:"name"`
}

const DefaultProfileName = "사용자"

// DefaultProfile is returned when no profile is stored.
func DefaultProfile() Profile {
	return Profile{Name: DefaultProfileName}
}
