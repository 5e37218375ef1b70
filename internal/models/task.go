package models

import (
	"time"

	"gorm.io/gorm"
)

// Priority is the urgency bucket of a task. A nil *Priority means unset.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Task is the core work item. Tasks form a forest through ParentTaskID,
// which is a plain reference; children are always recomputed from the
// flat task list rather than loaded as an association.
type Task struct {
	ID                  string    `gorm:"primaryKey;size:36"`
	Title               string    `gorm:"size:255;not null"`
	Description         *string   `gorm:"type:text"`
	ParentTaskID        *string   `gorm:"size:36;index"`
	AssignorID          string    `gorm:"size:36;not null;index"`
	CurrentStatusID     *string   `gorm:"size:36;index"`
	Priority            *Priority `gorm:"size:16"`
	PredictedFinishDate *time.Time
	CreatedAt           time.Time
	CreatedBy           *string `gorm:"size:36"`
	UpdatedAt           time.Time
	UpdatedBy           *string        `gorm:"size:36"`
	DeletedAt           gorm.DeletedAt `gorm:"index"`
	DeletedBy           *string        `gorm:"size:36"`
}

// TaskAssignee links a user to a task they work on.
type TaskAssignee struct {
	TaskID    string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"primaryKey;size:36"`
	Position  int
	CreatedAt time.Time
}

// TaskStatus links a status into a task's possible-status set.
type TaskStatus struct {
	TaskID    string `gorm:"primaryKey;size:36"`
	StatusID  string `gorm:"primaryKey;size:36"`
	Position  int
	CreatedAt time.Time
}

// TaskLabel links a label to a task.
type TaskLabel struct {
	TaskID    string `gorm:"primaryKey;size:36"`
	LabelID   string `gorm:"primaryKey;size:36"`
	Position  int
	CreatedAt time.Time
}
