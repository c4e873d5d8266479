package model

import (
	"time"
)

// Meeting types
const (
	MeetingOffline = "offline"
	MeetingOnline  = "online"
)

// Meeting statuses
const (
	MeetingScheduled = "scheduled"
	MeetingCompleted = "completed"
)

type Meeting struct {
	ID             uint      `gorm:"primaryKey"`
	Title          string    `gorm:"not null"`
	Type           string    `gorm:"not null;check:type IN ('offline', 'online')"`
	MeetLink       string
	EventID        string
	Agenda         string    `gorm:"not null"`
	Place          string
	StartDate      time.Time `gorm:"type:date;not null"`
	EndDate        time.Time `gorm:"type:date;not null"`
	StartTime      string    `gorm:"not null"`
	EndTime        string    `gorm:"not null"`
	Notes          string
	Status         string    `gorm:"not null;default:scheduled;check:status IN ('scheduled', 'completed')"`
	AttachmentPath string
	AttachmentLink string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Participants []MeetingParticipant `gorm:"foreignKey:MeetingID;constraint:OnDelete:CASCADE"`
}
