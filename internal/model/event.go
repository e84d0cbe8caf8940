package model

import "time"

// Event represents a club event.
type Event struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null;index"`
	Description string    `json:"description" gorm:"type:text;not null"`
	ClubID      uint      `json:"club_id" gorm:"not null;index"`
	StartDate   time.Time `json:"start_date" gorm:"not null;index"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	Location    string    `json:"location" gorm:"size:255"`
	Image       *string   `json:"image,omitempty" gorm:"size:512"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventWithClub is an event row with its club name flattened in.
type EventWithClub struct {
	Event
	ClubName string `json:"club_name"`
}
