package model

import (
	"time"
)

// Project statuses
const (
	ProjectPending    = "pending"
	ProjectInProgress = "in_progress"
	ProjectCompleted  = "completed"
)

type Project struct {
	ID             uint       `gorm:"primaryKey"`
	Name           string     `gorm:"uniqueIndex;not null"`
	Description    string
	Status         string     `gorm:"not null;check:status IN ('pending', 'in_progress', 'completed')"`
	Deadline       *time.Time `gorm:"type:date"`
	AttachmentPath string
	AttachmentLink string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Users []User `gorm:"many2many:project_users"`
	Tasks []Task `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// ProjectUser is the membership row behind the many2many. It is kept as an
// explicit model so the sync routine can diff memberships without touching
// the created_at of rows that survive an update.
type ProjectUser struct {
	ProjectID uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
