// Package history answers activity-log queries for a task, optionally
// widened to the task's whole subtree.
package history

import (
	"context"

	"github.com/zulandar/tasktrail/internal/activity"
	"github.com/zulandar/tasktrail/internal/models"
	"github.com/zulandar/tasktrail/internal/task"
	"github.com/zulandar/tasktrail/internal/tree"
	"gorm.io/gorm"
)

// Page size bounds applied when a query leaves them unset.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Query selects one page of a task's activity.
type Query struct {
	TaskID          string
	Page            int
	Limit           int
	IncludeSubtasks bool
	Range           activity.DateRange
}

func (q *Query) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
}

// Result is one page of entries, newest first.
type Result struct {
	Items      []models.ActivityLog
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// Service reads the activity log.
type Service struct {
	db *gorm.DB
}

// NewService returns a Service reading from db.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns the page of entries selected by q. The task must be live.
func (s *Service) List(ctx context.Context, q Query) (*Result, error) {
	q.normalize()
	db := s.db.WithContext(ctx)

	if _, err := task.Get(db, q.TaskID); err != nil {
		return nil, err
	}

	page := activity.Page{Number: q.Page, Size: q.Limit}
	var (
		items []models.ActivityLog
		total int64
		err   error
	)
	if q.IncludeSubtasks {
		var ids []string
		if ids, err = s.subtree(db, q.TaskID); err != nil {
			return nil, err
		}
		if items, err = activity.FindByTasks(db, ids, page, q.Range); err != nil {
			return nil, err
		}
		if total, err = activity.CountByTasks(db, ids, q.Range); err != nil {
			return nil, err
		}
	} else {
		if items, err = activity.FindByTask(db, q.TaskID, page, q.Range); err != nil {
			return nil, err
		}
		if total, err = activity.CountByTask(db, q.TaskID, q.Range); err != nil {
			return nil, err
		}
	}
	if items == nil {
		items = []models.ActivityLog{}
	}

	return &Result{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: TotalPages(total, q.Limit),
	}, nil
}

func (s *Service) subtree(db *gorm.DB, rootID string) ([]string, error) {
	tasks, err := task.All(db)
	if err != nil {
		return nil, err
	}
	return tree.SubtreeIDs(rootID, tree.Nodes(tasks)), nil
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
