package models

import "time"

type EventStatus string

const (
	StatusAvailable EventStatus = "available"
	StatusConfirmed EventStatus = "confirmed"
	StatusSuspended EventStatus = "suspended"
	StatusCancelled EventStatus = "cancelled"
	StatusFinished  EventStatus = "finished"
)

// Terminal reports whether no further transition may leave the status.
func (s EventStatus) Terminal() bool {
	switch s {
	case StatusSuspended, StatusCancelled, StatusFinished:
		return true
	}
	return false
}

type Event struct {
	ID              int64       `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	DateTime        time.Time   `json:"date_time"`
	Status          EventStatus `json:"status"`
	MinParticipants int         `json:"min_participants"`
	MaxParticipants int         `json:"max_participants"`
	Creator         User        `json:"creator"`
	Space           Space       `json:"space"`
	Sport           Sport       `json:"sport"`
	Participants    []User      `json:"participants"`
	CreatedAt       time.Time   `json:"created_at"`
}

// HasParticipant reports whether userID is currently a member.
func (e *Event) HasParticipant(userID int64) bool {
	for _, p := range e.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether the participant cap has been reached.
func (e *Event) IsFull() bool {
	return len(e.Participants) >= e.MaxParticipants
}

// EventPatch carries the creator-editable fields of an event.
// A nil field means "leave unchanged".
type EventPatch struct {
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	DateTime        *time.Time `json:"date_time,omitempty"`
	MinParticipants *int       `json:"min_participants,omitempty"`
	MaxParticipants *int       `json:"max_participants,omitempty"`
}

// EventFilter narrows paginated event listings.
type EventFilter struct {
	Statuses      []EventStatus
	FutureOnly    bool
	SportIDs      []int64
	SpaceID       int64
	ParticipantID int64
	MinLat        *float64
	MaxLat        *float64
	MinLng        *float64
	MaxLng        *float64
	Page          int
	PageSize      int
}

// EventPage is one page of a filtered event listing.
type EventPage struct {
	Events   []Event `json:"events"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
	Total    int     `json:"total"`
}
