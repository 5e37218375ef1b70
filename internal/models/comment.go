package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a note left on a task. Only its creator may edit or delete it.
type Comment struct {
	ID        string `gorm:"primaryKey;size:36"`
	TaskID    string `gorm:"size:36;not null;index"`
	CreatorID string `gorm:"size:36;not null"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
	CreatedBy *string `gorm:"size:36"`
	UpdatedAt time.Time
	UpdatedBy *string        `gorm:"size:36"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	DeletedBy *string        `gorm:"size:36"`
}
