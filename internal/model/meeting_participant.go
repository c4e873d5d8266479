package model

import (
	"time"
)

// MeetingParticipant links a user to a meeting. The role records which list
// the row came from; rows are written once per submitted entry, so a user
// named as both attendee and PIC gets two rows.
type MeetingParticipant struct {
	ID        uint      `gorm:"primaryKey"`
	MeetingID uint      `gorm:"not null;index"`
	UserID    uint      `gorm:"not null;index"`
	Role      string    `gorm:"not null;check:role IN ('attendee', 'pic')"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	User User `gorm:"foreignKey:UserID"`
}

// Participant roles
const (
	RoleAttendee = "attendee"
	RolePIC      = "pic"
)
