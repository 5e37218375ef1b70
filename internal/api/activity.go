package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/tasktrail/internal/activity"
	"github.com/zulandar/tasktrail/internal/history"
)

// activityQuery parses the activity-log query string. The message is
// empty when every parameter is valid.
func activityQuery(c *gin.Context, taskID string) (history.Query, string) {
	q := history.Query{TaskID: taskID, Page: 1, Limit: history.DefaultLimit}

	if raw, set := c.GetQuery("page"); set {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return q, "page must be an integer >= 1"
		}
		q.Page = n
	}
	if raw, set := c.GetQuery("limit"); set {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > history.MaxLimit {
			return q, "limit must be an integer between 1 and 100"
		}
		q.Limit = n
	}
	if raw, set := c.GetQuery("includeSubtasks"); set {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return q, "includeSubtasks must be a boolean"
		}
		q.IncludeSubtasks = b
	}

	var dr activity.DateRange
	if raw := c.Query("startDate"); raw != "" {
		t, err := parseDate(raw, false)
		if err != nil {
			return q, "startDate: " + err.Error()
		}
		dr.Start = t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := parseDate(raw, true)
		if err != nil {
			return q, "endDate: " + err.Error()
		}
		dr.End = t
	}
	if !dr.Start.IsZero() && !dr.End.IsZero() && dr.Start.After(dr.End) {
		return q, "startDate must not be after endDate"
	}
	q.Range = dr
	return q, ""
}

func (h *handler) listActivity(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	q, msg := activityQuery(c, id)
	if msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}

	res, err := h.history.List(c.Request.Context(), q)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, newActivityPage(res))
}
