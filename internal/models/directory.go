package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an account that can assign, be assigned, and act on tasks.
type User struct {
	ID        string  `gorm:"primaryKey;size:36"`
	Name      string  `gorm:"size:255;not null"`
	Email     string  `gorm:"size:255;uniqueIndex"`
	TeamID    *string `gorm:"size:36"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Status is a named workflow state a task can be placed in.
type Status struct {
	ID          string  `gorm:"primaryKey;size:36"`
	Title       string  `gorm:"size:255;not null"`
	Description *string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// Label is a free-form tag attached to tasks.
type Label struct {
	ID        string `gorm:"primaryKey;size:36"`
	Title     string `gorm:"size:255;not null"`
	Color     string `gorm:"size:16"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
