package model

import "time"

// Club represents a student club.
type Club struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null;index"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Image       *string   `json:"image,omitempty" gorm:"size:512"`
	FacebookURL *string   `json:"facebook_url,omitempty" gorm:"size:512"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Events  []Event  `json:"-" gorm:"foreignKey:ClubID;constraint:OnDelete:CASCADE"`
	Members []Member `json:"-" gorm:"foreignKey:ClubID;constraint:OnDelete:CASCADE"`
}

// ClubWithCounts is a club row enriched with aggregate counts for listings.
type ClubWithCounts struct {
	Club
	EventCount  int64 `json:"event_count"`
	MemberCount int64 `json:"member_count"`
}
