package dto

import (
	"time"

	"github.com/google/uuid"
)

const EventProfileSubmitted = "profile_submitted"

// FeedEvent is what teachers receive on the live feed.
type FeedEvent struct {
	Type      string    `json:"type"`
	StudentID uuid.UUID `json:"student_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Created   bool      `json:"created"`
	At        time.Time `json:"at"`
}

type RecentQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}
