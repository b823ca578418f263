package models

import "time"

type Role string

const (
	RoleSportsman Role = "sportsman"
	RoleAdmin     Role = "admin"
)

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role,omitempty"`
}

type Sport struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Space struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	IsAccessible  bool    `json:"is_accessible"`
	AverageRating float64 `json:"average_rating"`
	Sports        []Sport `json:"sports"`
}

// OffersSport reports whether the sport may be played at this space.
func (s *Space) OffersSport(sportID int64) bool {
	for _, sp := range s.Sports {
		if sp.ID == sportID {
			return true
		}
	}
	return false
}

type SpaceRating struct {
	ID        int64     `json:"id"`
	SpaceID   int64     `json:"space_id"`
	User      User      `json:"user"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
