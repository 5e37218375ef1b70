package api

import (
	"github.com/gin-gonic/gin"
	"github.com/zulandar/tasktrail/internal/history"
	"github.com/zulandar/tasktrail/internal/task"
	"go.uber.org/zap"
)

type handler struct {
	tasks   *task.Service
	history *history.Service
	log     *zap.Logger
}

// registerRoutes sets up every authenticated route.
func registerRoutes(r *gin.RouterGroup, h *handler) {
	r.GET("/tasks", h.listTasks)
	r.POST("/tasks", h.createTask)
	r.GET("/tasks/:id", h.getTask)
	r.PUT("/tasks/:id", h.updateTask)
	r.DELETE("/tasks/:id", h.deleteTask)
	r.POST("/tasks/:id/clone", h.cloneTask)

	r.POST("/tasks/:id/assignees", h.addAssignee)
	r.DELETE("/tasks/:id/assignees/:userId", h.removeAssignee)
	r.POST("/tasks/:id/statuses", h.addStatus)
	r.DELETE("/tasks/:id/statuses/:statusId", h.removeStatus)
	r.PUT("/tasks/:id/current-status", h.setCurrentStatus)
	r.POST("/tasks/:id/labels", h.addLabel)
	r.DELETE("/tasks/:id/labels/:labelId", h.removeLabel)

	r.GET("/tasks/:id/comments", h.listComments)
	r.POST("/tasks/:id/comments", h.addComment)
	r.PUT("/comments/:id", h.updateComment)
	r.DELETE("/comments/:id", h.deleteComment)

	r.GET("/tasks/:id/activity-logs", h.listActivity)
}
