package model

import "time"

// DefaultMemberRole is assigned when a membership is created without a role.
const DefaultMemberRole = "member"

// Member links a user to a club.
type Member struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	ClubID   uint      `json:"club_id" gorm:"not null;uniqueIndex:idx_member_club_user"`
	UserID   uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_member_club_user;index"`
	Role     string    `json:"role" gorm:"size:50;not null;default:'member'"`
	JoinedAt time.Time `json:"joined_at" gorm:"autoCreateTime"`

	User *UserSummary `json:"user,omitempty" gorm:"-"`
}
