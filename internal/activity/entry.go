package activity

import (
	"time"

	"github.com/zulandar/tasktrail/internal/models"
)

// FieldChange is one attribute whose value differs between two versions
// of a task. A nil Old or New means the attribute was unset.
type FieldChange struct {
	Field string
	Old   *string
	New   *string
}

// Recorder stamps every entry of one mutation with the same actor and
// timestamp, in the order they were added.
type Recorder struct {
	actor   string
	at      time.Time
	entries []models.ActivityLog
}

// NewRecorder starts a batch for actor at time at.
func NewRecorder(actor string, at time.Time) *Recorder {
	return &Recorder{actor: actor, at: at.UTC()}
}

// Event records an action with no field diff.
func (r *Recorder) Event(taskID string, action models.Action, oldValue, newValue *string) {
	r.entries = append(r.entries, models.ActivityLog{
		TaskID:    taskID,
		UserID:    r.actor,
		Action:    action,
		OldValue:  oldValue,
		NewValue:  newValue,
		CreatedAt: r.at,
	})
}

// Change records a single field transition under action.
func (r *Recorder) Change(taskID string, action models.Action, c FieldChange) {
	field := c.Field
	r.entries = append(r.entries, models.ActivityLog{
		TaskID:    taskID,
		UserID:    r.actor,
		Action:    action,
		Field:     &field,
		OldValue:  c.Old,
		NewValue:  c.New,
		CreatedAt: r.at,
	})
}

// At returns the timestamp shared by every entry of the batch.
func (r *Recorder) At() time.Time {
	return r.at
}

// Entries returns the recorded batch.
func (r *Recorder) Entries() []models.ActivityLog {
	return r.entries
}

// Len returns the number of recorded entries.
func (r *Recorder) Len() int {
	return len(r.entries)
}
