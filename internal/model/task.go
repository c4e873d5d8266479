package model

import (
	"time"
)

// Task statuses
const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskDone       = "done"
)

// Task is owned by its project and only ever written through the project
// create/update routines.
type Task struct {
	ID          uint       `gorm:"primaryKey"`
	ProjectID   uint       `gorm:"not null;index"`
	Title       string     `gorm:"not null"`
	Description string
	Status      string     `gorm:"not null;default:pending;check:status IN ('pending', 'in_progress', 'done')"`
	DueDate     *time.Time `gorm:"type:date"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Project Project `gorm:"foreignKey:ProjectID"`
}
