package api

import (
	"time"

	"github.com/zulandar/tasktrail/internal/history"
	"github.com/zulandar/tasktrail/internal/models"
	"github.com/zulandar/tasktrail/internal/task"
)

type taskResponse struct {
	ID                  string           `json:"id"`
	Title               string           `json:"title"`
	Description         *string          `json:"description"`
	ParentTaskID        *string          `json:"parent_task_id"`
	AssignorID          string           `json:"assignor_id"`
	CurrentStatusID     *string          `json:"current_status_id"`
	Priority            *models.Priority `json:"priority"`
	PredictedFinishDate *time.Time       `json:"predicted_finish_date"`
	CreatedAt           time.Time        `json:"created_at"`
	CreatedBy           *string          `json:"created_by"`
	UpdatedAt           time.Time        `json:"updated_at"`
	UpdatedBy           *string          `json:"updated_by"`
}

type taskDetailResponse struct {
	taskResponse
	PossibleStatusIDs []string `json:"possible_status_ids"`
	AssigneeIDs       []string `json:"assignee_ids"`
	LabelIDs          []string `json:"label_ids"`
	SubtaskCount      int      `json:"subtask_count"`
}

func newTaskResponse(t models.Task) taskResponse {
	return taskResponse{
		ID:                  t.ID,
		Title:               t.Title,
		Description:         t.Description,
		ParentTaskID:        t.ParentTaskID,
		AssignorID:          t.AssignorID,
		CurrentStatusID:     t.CurrentStatusID,
		Priority:            t.Priority,
		PredictedFinishDate: t.PredictedFinishDate,
		CreatedAt:           t.CreatedAt,
		CreatedBy:           t.CreatedBy,
		UpdatedAt:           t.UpdatedAt,
		UpdatedBy:           t.UpdatedBy,
	}
}

func newTaskDetail(v task.View) taskDetailResponse {
	return taskDetailResponse{
		taskResponse:      newTaskResponse(v.Task),
		PossibleStatusIDs: nonNil(v.PossibleStatusIDs),
		AssigneeIDs:       nonNil(v.AssigneeIDs),
		LabelIDs:          nonNil(v.LabelIDs),
		SubtaskCount:      v.SubtaskCount,
	}
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

type commentResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	CreatorID string    `json:"creator_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newCommentResponse(c models.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		TaskID:    c.TaskID,
		CreatorID: c.CreatorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type activityEntryResponse struct {
	ID        uint          `json:"id"`
	TaskID    string        `json:"task_id"`
	UserID    string        `json:"user_id"`
	Action    models.Action `json:"action"`
	Field     *string       `json:"field"`
	OldValue  *string       `json:"old_value"`
	NewValue  *string       `json:"new_value"`
	CreatedAt time.Time     `json:"created_at"`
}

type activityPageResponse struct {
	Items      []activityEntryResponse `json:"items"`
	Total      int64                   `json:"total"`
	Page       int                     `json:"page"`
	TotalPages int                     `json:"totalPages"`
}

func newActivityPage(r *history.Result) activityPageResponse {
	items := make([]activityEntryResponse, len(r.Items))
	for i, e := range r.Items {
		items[i] = activityEntryResponse{
			ID:        e.ID,
			TaskID:    e.TaskID,
			UserID:    e.UserID,
			Action:    e.Action,
			Field:     e.Field,
			OldValue:  e.OldValue,
			NewValue:  e.NewValue,
			CreatedAt: e.CreatedAt,
		}
	}
	return activityPageResponse{Items: items, Total: r.Total, Page: r.Page, TotalPages: r.TotalPages}
}
