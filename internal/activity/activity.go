// Package activity is the append-only ledger of task audit records.
//
// Writes are never rejected for business reasons. Callers that need the
// log and the task mutation to commit together pass the same transaction.
package activity

import (
	"fmt"
	"time"

	"github.com/zulandar/tasktrail/internal/models"
	"gorm.io/gorm"
)

// DateRange bounds a query on created_at. Zero values are open ends.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Page selects a 1-indexed, offset-based window of results.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows skipped before this page.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// Append writes a single entry.
func Append(db *gorm.DB, entry *models.ActivityLog) error {
	if err := db.Create(entry).Error; err != nil {
		return fmt.Errorf("activity: append %s for %s: %w", entry.Action, entry.TaskID, err)
	}
	return nil
}

// AppendBatch writes entries in one INSERT, in slice order. An empty
// batch is a no-op.
func AppendBatch(db *gorm.DB, entries []models.ActivityLog) error {
	if len(entries) == 0 {
		return nil
	}
	if err := db.Create(&entries).Error; err != nil {
		return fmt.Errorf("activity: append batch of %d: %w", len(entries), err)
	}
	return nil
}

// FindByTask returns one page of a task's entries, newest first.
func FindByTask(db *gorm.DB, taskID string, page Page, dr DateRange) ([]models.ActivityLog, error) {
	var entries []models.ActivityLog
	q := applyRange(db.Model(&models.ActivityLog{}).Where("task_id = ?", taskID), dr)
	if err := newestFirst(q, page).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("activity: find by task %s: %w", taskID, err)
	}
	return entries, nil
}

// CountByTask counts a task's entries within dr.
func CountByTask(db *gorm.DB, taskID string, dr DateRange) (int64, error) {
	var count int64
	q := applyRange(db.Model(&models.ActivityLog{}).Where("task_id = ?", taskID), dr)
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("activity: count by task %s: %w", taskID, err)
	}
	return count, nil
}

// FindByTasks returns one page of entries across several tasks, newest
// first. No query is issued for an empty id set.
func FindByTasks(db *gorm.DB, taskIDs []string, page Page, dr DateRange) ([]models.ActivityLog, error) {
	if len(taskIDs) == 0 {
		return []models.ActivityLog{}, nil
	}
	var entries []models.ActivityLog
	q := applyRange(db.Model(&models.ActivityLog{}).Where("task_id IN ?", taskIDs), dr)
	if err := newestFirst(q, page).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("activity: find by %d tasks: %w", len(taskIDs), err)
	}
	return entries, nil
}

// CountByTasks counts entries across several tasks within dr.
func CountByTasks(db *gorm.DB, taskIDs []string, dr DateRange) (int64, error) {
	if len(taskIDs) == 0 {
		return 0, nil
	}
	var count int64
	q := applyRange(db.Model(&models.ActivityLog{}).Where("task_id IN ?", taskIDs), dr)
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("activity: count by %d tasks: %w", len(taskIDs), err)
	}
	return count, nil
}

func applyRange(q *gorm.DB, dr DateRange) *gorm.DB {
	if !dr.Start.IsZero() {
		q = q.Where("created_at >= ?", dr.Start.UTC())
	}
	if !dr.End.IsZero() {
		q = q.Where("created_at <= ?", dr.End.UTC())
	}
	return q
}

func newestFirst(q *gorm.DB, page Page) *gorm.DB {
	q = q.Order("created_at DESC").Order("id DESC")
	if page.Size > 0 {
		q = q.Offset(page.Offset()).Limit(page.Size)
	}
	return q
}
