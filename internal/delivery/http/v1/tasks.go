package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-sales-tracker/internal/models"
)

type createTaskRequest struct {
	ID        string  `json:"id,omitempty" binding:"max=255"`
	Title     string  `json:"title" binding:"required,max=255"`
	Revenue   float64 `json:"revenue"`
	TimeTaken float64 `json:"timeTaken"`
	Priority  string  `json:"priority,omitempty" binding:"max=32"`
	Status    string  `json:"status,omitempty" binding:"max=32"`
	Notes     string  `json:"notes,omitempty" binding:"max=4096"`
}

func (r createTaskRequest) toTask() models.Task {
	return models.Task{
		ID:        r.ID,
		Title:     r.Title,
		Revenue:   r.Revenue,
		TimeTaken: r.TimeTaken,
		Priority:  models.Priority(r.Priority),
		Status:    models.Status(r.Status),
		Notes:     r.Notes,
	}
}

type updateTaskRequest struct {
	Title       *string    `json:"title,omitempty" binding:"omitempty,max=255"`
	Revenue     *float64   `json:"revenue,omitempty"`
	TimeTaken   *float64   `json:"timeTaken,omitempty"`
	Priority    *string    `json:"priority,omitempty" binding:"omitempty,max=32"`
	Status      *string    `json:"status,omitempty" binding:"omitempty,max=32"`
	Notes       *string    `json:"notes,omitempty" binding:"omitempty,max=4096"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (r updateTaskRequest) toPatch() models.TaskPatch {
	patch := models.TaskPatch{
		Title:       r.Title,
		Revenue:     r.Revenue,
		TimeTaken:   r.TimeTaken,
		Notes:       r.Notes,
		CompletedAt: r.CompletedAt,
	}
	if r.Priority != nil {
		priority := models.Priority(*r.Priority)
		patch.Priority = &priority
	}
	if r.Status != nil {
		status := models.Status(*r.Status)
		patch.Status = &status
	}
	return patch
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	derived := h.dashboard.Derived()
	h.requestLogger(c).Debug().
		Int("count", len(derived)).
		Msg("fetched tasks")

	c.JSON(http.StatusOK, derived)
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	logger := h.requestLogger(c)

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task := h.dashboard.AddTask(req.toTask())
	logger.Debug().
		Str("task_id", task.ID).
		Msg("created task")

	c.JSON(http.StatusCreated, task)
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	logger := h.requestLogger(c)

	taskID := c.Param("id")
	if taskID == "" {
		logger.Error().Msg("no task id provided")
		abort(c, newBadRequestError(errMissingTaskID.Error()))
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, ok := h.dashboard.UpdateTask(taskID, req.toPatch())
	if !ok {
		logger.Warn().
			Str("task_id", taskID).
			Msg("task not found")
		c.Status(http.StatusNoContent)
		return
	}
	logger.Debug().
		Str("task_id", task.ID).
		Msg("updated task")

	c.JSON(http.StatusOK, task)
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	logger := h.requestLogger(c)

	taskID := c.Param("id")
	if taskID == "" {
		logger.Error().Msg("no task id provided")
		abort(c, newBadRequestError(errMissingTaskID.Error()))
		return
	}

	_, ok := h.dashboard.DeleteTask(taskID)
	if !ok {
		logger.Warn().
			Str("task_id", taskID).
			Msg("task not found")
	}

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleUndoDelete(c *gin.Context) {
	task, ok := h.dashboard.UndoDelete()
	if !ok {
		h.requestLogger(c).Debug().Msg("nothing to undo")
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *handlerImpl) HandleClearLastDeleted(c *gin.Context) {
	h.dashboard.ClearLastDeleted()
	c.Status(http.StatusNoContent)
}
