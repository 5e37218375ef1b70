package task

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/zulandar/tasktrail/internal/activity"
	"github.com/zulandar/tasktrail/internal/apperr"
	"github.com/zulandar/tasktrail/internal/models"
	"gorm.io/gorm"
)

func getComment(db *gorm.DB, id string) (*models.Comment, error) {
	var c models.Comment
	if err := db.Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("comment not found: %s", id)
		}
		return nil, fmt.Errorf("task: get comment %s: %w", id, err)
	}
	return &c, nil
}

// ownComment loads a comment and checks that actor wrote it.
func ownComment(db *gorm.DB, actor, id string) (*models.Comment, error) {
	c, err := getComment(db, id)
	if err != nil {
		return nil, err
	}
	if c.CreatorID != actor {
		return nil, apperr.Forbidden("only the creator can modify comment %s", id)
	}
	return c, nil
}

// AddComment writes a comment on the task and logs its content.
func (s *Service) AddComment(ctx context.Context, actor, taskID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Invalid("content is required")
	}

	var c models.Comment
	err := s.mutate(ctx, actor, "add comment", func(tx *gorm.DB, rec *activity.Recorder) error {
		if err := requireTask(tx, taskID); err != nil {
			return err
		}
		c = models.Comment{
			ID:        uuid.NewString(),
			TaskID:    taskID,
			CreatorID: actor,
			Content:   content,
			CreatedAt: rec.At(),
			CreatedBy: &actor,
			UpdatedAt: rec.At(),
		}
		if err := tx.Create(&c).Error; err != nil {
			return fmt.Errorf("task: create comment on %s: %w", taskID, err)
		}
		body := content
		rec.Event(taskID, models.ActionCommentAdded, nil, &body)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Comments returns the live comments on a task, oldest first.
func (s *Service) Comments(ctx context.Context, taskID string) ([]models.Comment, error) {
	db := s.db.WithContext(ctx)
	if err := requireTask(db, taskID); err != nil {
		return nil, err
	}
	comments := []models.Comment{}
	if err := db.Where("task_id = ?", taskID).Order("created_at ASC, id ASC").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("task: list comments of %s: %w", taskID, err)
	}
	return comments, nil
}

// UpdateComment replaces the content of a comment actor wrote.
func (s *Service) UpdateComment(ctx context.Context, actor, id, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Invalid("content is required")
	}

	var c *models.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if c, err = ownComment(tx, actor, id); err != nil {
			return err
		}
		now := s.now().UTC()
		err = tx.Model(&models.Comment{}).Where("id = ?", id).Updates(map[string]interface{}{
			"content":    content,
			"updated_at": now,
			"updated_by": actor,
		}).Error
		if err != nil {
			return fmt.Errorf("task: update comment %s: %w", id, err)
		}
		c.Content = content
		c.UpdatedAt = now
		c.UpdatedBy = &actor
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteComment soft-deletes a comment actor wrote.
func (s *Service) DeleteComment(ctx context.Context, actor, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ownComment(tx, actor, id); err != nil {
			return err
		}
		err := tx.Model(&models.Comment{}).Where("id = ?", id).Updates(map[string]interface{}{
			"deleted_at": s.now().UTC(),
			"deleted_by": actor,
		}).Error
		if err != nil {
			return fmt.Errorf("task: delete comment %s: %w", id, err)
		}
		return nil
	})
}
