package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zulandar/tasktrail/internal/models"
	"github.com/zulandar/tasktrail/internal/task"
)

type createTaskRequest struct {
	Title               string  `json:"title" binding:"required,max=255"`
	Description         *string `json:"description"`
	ParentTaskID        *string `json:"parent_task_id" binding:"omitempty,id"`
	Priority            *string `json:"priority" binding:"omitempty,priority"`
	PredictedFinishDate *string `json:"predicted_finish_date"`
}

type updateTaskRequest struct {
	Title               task.Optional[string] `json:"title"`
	Description         task.Optional[string] `json:"description"`
	ParentTaskID        task.Optional[string] `json:"parent_task_id"`
	Priority            task.Optional[string] `json:"priority"`
	PredictedFinishDate task.Optional[string] `json:"predicted_finish_date"`
}

// patch validates the request fields and converts them to a task.Patch.
func (r updateTaskRequest) patch() (task.Patch, string) {
	p := task.Patch{
		Title:       r.Title,
		Description: r.Description,
	}
	if r.ParentTaskID.Set {
		p.ParentTaskID = task.Null[string]()
		if r.ParentTaskID.Value != nil {
			id, err := uuid.Parse(*r.ParentTaskID.Value)
			if err != nil {
				return p, "parent_task_id must be a valid UUID"
			}
			p.ParentTaskID = task.Some(id.String())
		}
	}
	if r.Priority.Set {
		p.Priority = task.Null[models.Priority]()
		if r.Priority.Value != nil {
			prio := models.Priority(*r.Priority.Value)
			if !prio.Valid() {
				return p, "priority must be one of LOW, MEDIUM, HIGH, CRITICAL"
			}
			p.Priority = task.Some(prio)
		}
	}
	if r.PredictedFinishDate.Set {
		p.PredictedFinishDate = task.Null[time.Time]()
		if r.PredictedFinishDate.Value != nil {
			d, err := parseDate(*r.PredictedFinishDate.Value, false)
			if err != nil {
				return p, "predicted_finish_date: " + err.Error()
			}
			p.PredictedFinishDate = task.Some(d)
		}
	}
	return p, ""
}

type assigneeRequest struct {
	UserID string `json:"user_id" binding:"required,id"`
}

type statusRequest struct {
	StatusID string `json:"status_id" binding:"required,id"`
}

type labelRequest struct {
	LabelID string `json:"label_id" binding:"required,id"`
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *handler) listTasks(c *gin.Context) {
	views, err := h.tasks.List(c.Request.Context())
	if err != nil {
		h.failErr(c, err)
		return
	}
	out := make([]taskDetailResponse, len(views))
	for i, v := range views {
		out[i] = newTaskDetail(v)
	}
	ok(c, http.StatusOK, out)
}

func (h *handler) getTask(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	h.respondView(c, http.StatusOK, id)
}

// respondView answers with the current detail view of task id.
func (h *handler) respondView(c *gin.Context, status int, id string) {
	view, err := h.tasks.Get(c.Request.Context(), id)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, status, newTaskDetail(*view))
}

func (h *handler) createTask(c *gin.Context) {
	var req createTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	in := task.CreateInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.ParentTaskID != nil {
		parent := canonicalID(*req.ParentTaskID)
		in.ParentTaskID = &parent
	}
	if req.Priority != nil {
		prio := models.Priority(*req.Priority)
		in.Priority = &prio
	}
	if req.PredictedFinishDate != nil {
		d, err := parseDate(*req.PredictedFinishDate, false)
		if err != nil {
			fail(c, http.StatusBadRequest, "predicted_finish_date: "+err.Error())
			return
		}
		in.PredictedFinishDate = &d
	}

	created, err := h.tasks.Create(c.Request.Context(), actor(c), in)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, newTaskResponse(*created))
}

func (h *handler) updateTask(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req updateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	p, msg := req.patch()
	if msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.tasks.Update(c.Request.Context(), actor(c), id, p)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, newTaskResponse(*updated))
}

func (h *handler) deleteTask(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), actor(c), id); err != nil {
		h.failErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) cloneTask(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	view, err := h.tasks.Clone(c.Request.Context(), actor(c), id)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, newTaskDetail(*view))
}

// memberOp is one of the association add/remove operations.
type memberOp func(h *handler, c *gin.Context, taskID, memberID string) error

func (h *handler) addMember(c *gin.Context, memberID string, op memberOp) {
	taskID, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := op(h, c, taskID, memberID); err != nil {
		h.failErr(c, err)
		return
	}
	h.respondView(c, http.StatusCreated, taskID)
}

func (h *handler) removeMember(c *gin.Context, param string, op memberOp) {
	taskID, valid := pathID(c, "id")
	if !valid {
		return
	}
	memberID, valid := pathID(c, param)
	if !valid {
		return
	}
	if err := op(h, c, taskID, memberID); err != nil {
		h.failErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) addAssignee(c *gin.Context) {
	var req assigneeRequest
	if !bindJSON(c, &req) {
		return
	}
	h.addMember(c, canonicalID(req.UserID), func(h *handler, c *gin.Context, taskID, userID string) error {
		return h.tasks.AddAssignee(c.Request.Context(), actor(c), taskID, userID)
	})
}

func (h *handler) removeAssignee(c *gin.Context) {
	h.removeMember(c, "userId", func(h *handler, c *gin.Context, taskID, userID string) error {
		return h.tasks.RemoveAssignee(c.Request.Context(), actor(c), taskID, userID)
	})
}

func (h *handler) addStatus(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	h.addMember(c, canonicalID(req.StatusID), func(h *handler, c *gin.Context, taskID, statusID string) error {
		return h.tasks.AddPossibleStatus(c.Request.Context(), actor(c), taskID, statusID)
	})
}

func (h *handler) removeStatus(c *gin.Context) {
	h.removeMember(c, "statusId", func(h *handler, c *gin.Context, taskID, statusID string) error {
		return h.tasks.RemovePossibleStatus(c.Request.Context(), actor(c), taskID, statusID)
	})
}

func (h *handler) setCurrentStatus(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.tasks.SetCurrentStatus(c.Request.Context(), actor(c), id, canonicalID(req.StatusID))
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, newTaskResponse(*updated))
}

func (h *handler) addLabel(c *gin.Context) {
	var req labelRequest
	if !bindJSON(c, &req) {
		return
	}
	h.addMember(c, canonicalID(req.LabelID), func(h *handler, c *gin.Context, taskID, labelID string) error {
		return h.tasks.AddLabel(c.Request.Context(), actor(c), taskID, labelID)
	})
}

func (h *handler) removeLabel(c *gin.Context) {
	h.removeMember(c, "labelId", func(h *handler, c *gin.Context, taskID, labelID string) error {
		return h.tasks.RemoveLabel(c.Request.Context(), actor(c), taskID, labelID)
	})
}

func (h *handler) listComments(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	comments, err := h.tasks.Comments(c.Request.Context(), id)
	if err != nil {
		h.failErr(c, err)
		return
	}
	out := make([]commentResponse, len(comments))
	for i, cm := range comments {
		out[i] = newCommentResponse(cm)
	}
	ok(c, http.StatusOK, out)
}

func (h *handler) addComment(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req commentRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.tasks.AddComment(c.Request.Context(), actor(c), id, req.Content)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, newCommentResponse(*created))
}

func (h *handler) updateComment(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req commentRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.tasks.UpdateComment(c.Request.Context(), actor(c), id, req.Content)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, newCommentResponse(*updated))
}

func (h *handler) deleteComment(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.tasks.DeleteComment(c.Request.Context(), actor(c), id); err != nil {
		h.failErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
