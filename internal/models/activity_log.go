package models

import "time"

// Action names the kind of change an ActivityLog entry records.
type Action string

const (
	ActionTaskCreated          Action = "TASK_CREATED"
	ActionTaskUpdated          Action = "TASK_UPDATED"
	ActionTaskDeleted          Action = "TASK_DELETED"
	ActionTaskCloned           Action = "TASK_CLONED"
	ActionAssigneeAdded        Action = "ASSIGNEE_ADDED"
	ActionAssigneeRemoved      Action = "ASSIGNEE_REMOVED"
	ActionStatusAdded          Action = "STATUS_ADDED"
	ActionStatusRemoved        Action = "STATUS_REMOVED"
	ActionCurrentStatusChanged Action = "CURRENT_STATUS_CHANGED"
	ActionLabelAdded           Action = "LABEL_ADDED"
	ActionLabelRemoved         Action = "LABEL_REMOVED"
	ActionCommentAdded         Action = "COMMENT_ADDED"
)

// Actions lists every action in the vocabulary.
var Actions = []Action{
	ActionTaskCreated,
	ActionTaskUpdated,
	ActionTaskDeleted,
	ActionTaskCloned,
	ActionAssigneeAdded,
	ActionAssigneeRemoved,
	ActionStatusAdded,
	ActionStatusRemoved,
	ActionCurrentStatusChanged,
	ActionLabelAdded,
	ActionLabelRemoved,
	ActionCommentAdded,
}

// ActivityLog is one immutable audit record of a change to a task.
// The auto-increment ID orders entries that share a CreatedAt.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	TaskID    string    `gorm:"size:36;not null;index:idx_activity_task_created,priority:1"`
	UserID    string    `gorm:"size:36;not null"`
	Action    Action    `gorm:"size:50;not null"`
	Field     *string   `gorm:"size:100"`
	OldValue  *string   `gorm:"type:text"`
	NewValue  *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null;index:idx_activity_task_created,priority:2"`
}
