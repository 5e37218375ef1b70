// Package task owns task records, their association sets, and every
// mutation that changes them. Each mutation commits together with the
// activity entries describing it.
package task

import (
	"errors"
	"fmt"

	"github.com/zulandar/tasktrail/internal/apperr"
	"github.com/zulandar/tasktrail/internal/models"
	"gorm.io/gorm"
)

// Get retrieves a live task by ID.
func Get(db *gorm.DB, id string) (*models.Task, error) {
	var t models.Task
	if err := db.Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("task not found: %s", id)
		}
		return nil, fmt.Errorf("task: get %s: %w", id, err)
	}
	return &t, nil
}

// All returns every live task, oldest first.
func All(db *gorm.DB) ([]models.Task, error) {
	var tasks []models.Task
	if err := db.Order("created_at ASC, id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("task: list: %w", err)
	}
	return tasks, nil
}

func insert(db *gorm.DB, t *models.Task) error {
	if err := db.Create(t).Error; err != nil {
		return fmt.Errorf("task: create: %w", err)
	}
	return nil
}

func update(db *gorm.DB, id string, updates map[string]interface{}) error {
	if err := db.Model(&models.Task{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("task: update %s: %w", id, err)
	}
	return nil
}

// requireExists fails with NotFound unless a live row of model has id.
func requireExists(db *gorm.DB, model interface{}, noun, id string) error {
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("task: check %s %s: %w", noun, id, err)
	}
	if count == 0 {
		return apperr.NotFound("%s not found: %s", noun, id)
	}
	return nil
}

func requireTask(db *gorm.DB, id string) error {
	return requireExists(db, &models.Task{}, "task", id)
}

func requireUser(db *gorm.DB, id string) error {
	return requireExists(db, &models.User{}, "user", id)
}

func requireStatus(db *gorm.DB, id string) error {
	return requireExists(db, &models.Status{}, "status", id)
}

func requireLabel(db *gorm.DB, id string) error {
	return requireExists(db, &models.Label{}, "label", id)
}

// Set describes one task association table: task_id plus a member column.
type Set struct {
	noun    string
	column  string
	model   interface{}
	row     func(taskID, memberID string, position int) interface{}
	require func(db *gorm.DB, id string) error
}

// Assignees links users to tasks.
var Assignees = Set{
	noun:   "assignee",
	column: "user_id",
	model:  &models.TaskAssignee{},
	row: func(taskID, memberID string, position int) interface{} {
		return &models.TaskAssignee{TaskID: taskID, UserID: memberID, Position: position}
	},
	require: requireUser,
}

// PossibleStatuses is the set of statuses a task may be placed in.
var PossibleStatuses = Set{
	noun:   "possible status",
	column: "status_id",
	model:  &models.TaskStatus{},
	row: func(taskID, memberID string, position int) interface{} {
		return &models.TaskStatus{TaskID: taskID, StatusID: memberID, Position: position}
	},
	require: requireStatus,
}

// Labels links labels to tasks.
var Labels = Set{
	noun:   "label",
	column: "label_id",
	model:  &models.TaskLabel{},
	row: func(taskID, memberID string, position int) interface{} {
		return &models.TaskLabel{TaskID: taskID, LabelID: memberID, Position: position}
	},
	require: requireLabel,
}

// Has reports whether memberID belongs to the task's set.
func (s Set) Has(db *gorm.DB, taskID, memberID string) (bool, error) {
	var count int64
	err := db.Model(s.model).
		Where("task_id = ? AND "+s.column+" = ?", taskID, memberID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("task: check %s %s on %s: %w", s.noun, memberID, taskID, err)
	}
	return count > 0, nil
}

// Add appends memberID to the task's set. A member already present is a
// Conflict.
func (s Set) Add(db *gorm.DB, taskID, memberID string) error {
	present, err := s.Has(db, taskID, memberID)
	if err != nil {
		return err
	}
	if present {
		return apperr.Conflict("%s %s already on task %s", s.noun, memberID, taskID)
	}

	var last int
	err = db.Model(s.model).
		Where("task_id = ?", taskID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&last).Error
	if err != nil {
		return fmt.Errorf("task: next %s position on %s: %w", s.noun, taskID, err)
	}
	return s.insert(db, taskID, memberID, last+1)
}

// insert writes the join row. A concurrent add of the same member that got
// past Has trips the primary key and is reported as a Conflict too.
func (s Set) insert(db *gorm.DB, taskID, memberID string, position int) error {
	err := db.Create(s.row(taskID, memberID, position)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("%s %s already on task %s", s.noun, memberID, taskID)
	}
	if err != nil {
		return fmt.Errorf("task: add %s %s to %s: %w", s.noun, memberID, taskID, err)
	}
	return nil
}

// Remove deletes memberID from the task's set. A member not present is
// NotFound.
func (s Set) Remove(db *gorm.DB, taskID, memberID string) error {
	result := db.Where("task_id = ? AND "+s.column+" = ?", taskID, memberID).Delete(s.model)
	if result.Error != nil {
		return fmt.Errorf("task: remove %s %s from %s: %w", s.noun, memberID, taskID, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("%s %s not on task %s", s.noun, memberID, taskID)
	}
	return nil
}

// Members returns the task's member IDs in insertion order.
func (s Set) Members(db *gorm.DB, taskID string) ([]string, error) {
	ids := []string{}
	err := db.Model(s.model).
		Where("task_id = ?", taskID).
		Order("position ASC").
		Pluck(s.column, &ids).Error
	if err != nil {
		return nil, fmt.Errorf("task: list %s of %s: %w", s.noun, taskID, err)
	}
	return ids, nil
}

// MembersOf returns member IDs for several tasks at once, keyed by task.
func (s Set) MembersOf(db *gorm.DB, taskIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(taskIDs))
	if len(taskIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		TaskID   string
		MemberID string
	}
	err := db.Model(s.model).
		Select("task_id, "+s.column+" AS member_id").
		Where("task_id IN ?", taskIDs).
		Order("task_id ASC, position ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("task: list %s of %d tasks: %w", s.noun, len(taskIDs), err)
	}
	for _, r := range rows {
		out[r.TaskID] = append(out[r.TaskID], r.MemberID)
	}
	return out, nil
}
