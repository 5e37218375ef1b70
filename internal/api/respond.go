package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/tasktrail/internal/apperr"
	"go.uber.org/zap"
)

const internalMessage = "Internal server error"

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope{
		Error: &errorBody{Message: message, StatusCode: status},
	})
}

// failErr translates err to its HTTP status. Infrastructure failures are
// logged and answered with a generic message.
func (h *handler) failErr(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		fail(c, status, internalMessage)
		return
	}
	fail(c, status, err.Error())
}
