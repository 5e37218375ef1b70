package task

import (
	"time"

	"github.com/zulandar/tasktrail/internal/activity"
	"github.com/zulandar/tasktrail/internal/models"
)

// Attribute names recorded on TASK_UPDATED entries.
const (
	FieldTitle               = "title"
	FieldDescription         = "description"
	FieldParentTaskID        = "parent_task_id"
	FieldPriority            = "priority"
	FieldPredictedFinishDate = "predicted_finish_date"
	FieldCurrentStatusID     = "current_status_id"
)

// Patch holds the updatable task attributes. Fields left unset keep the
// stored value.
type Patch struct {
	Title               Optional[string]
	Description         Optional[string]
	ParentTaskID        Optional[string]
	Priority            Optional[models.Priority]
	PredictedFinishDate Optional[time.Time]
}

// Empty reports whether the patch touches no attribute.
func (p Patch) Empty() bool {
	return !p.Title.Set && !p.Description.Set && !p.ParentTaskID.Set &&
		!p.Priority.Set && !p.PredictedFinishDate.Set
}

// Apply returns a copy of t with the patch applied.
func Apply(t models.Task, p Patch) models.Task {
	if p.Title.Set && p.Title.Value != nil {
		t.Title = *p.Title.Value
	}
	if p.Description.Set {
		t.Description = p.Description.Value
	}
	if p.ParentTaskID.Set {
		t.ParentTaskID = p.ParentTaskID.Value
	}
	if p.Priority.Set {
		t.Priority = p.Priority.Value
	}
	if p.PredictedFinishDate.Set {
		t.PredictedFinishDate = p.PredictedFinishDate.Value
	}
	return t
}

// Diff lists the attributes whose values differ between old and updated,
// in a fixed order. Unset and nil compare equal to each other only.
func Diff(old, updated models.Task) []activity.FieldChange {
	var changes []activity.FieldChange
	add := func(field string, before, after *string) {
		if equalPtr(before, after) {
			return
		}
		changes = append(changes, activity.FieldChange{Field: field, Old: before, New: after})
	}

	add(FieldTitle, &old.Title, &updated.Title)
	add(FieldDescription, old.Description, updated.Description)
	add(FieldParentTaskID, old.ParentTaskID, updated.ParentTaskID)
	add(FieldPriority, priorityString(old.Priority), priorityString(updated.Priority))
	add(FieldPredictedFinishDate, dateString(old.PredictedFinishDate), dateString(updated.PredictedFinishDate))
	return changes
}

// Columns maps changes onto the task columns to write.
func Columns(updated models.Task, changes []activity.FieldChange) map[string]interface{} {
	cols := make(map[string]interface{}, len(changes))
	for _, c := range changes {
		switch c.Field {
		case FieldTitle:
			cols["title"] = updated.Title
		case FieldDescription:
			cols["description"] = updated.Description
		case FieldParentTaskID:
			cols["parent_task_id"] = updated.ParentTaskID
		case FieldPriority:
			cols["priority"] = updated.Priority
		case FieldPredictedFinishDate:
			cols["predicted_finish_date"] = updated.PredictedFinishDate
		}
	}
	return cols
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func priorityString(p *models.Priority) *string {
	if p == nil {
		return nil
	}
	s := string(*p)
	return &s
}

// dateString renders a date in UTC RFC 3339 so equal instants compare
// equal regardless of the location they were read in.
func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
