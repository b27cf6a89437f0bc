package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlerImpl) HandleGetDashboard(c *gin.Context) {
	state := h.dashboard.State()
	if state.Error != nil {
		h.requestLogger(c).Warn().
			Str("load_error", *state.Error).
			Msg("serving dashboard after failed load")
	}

	c.JSON(http.StatusOK, state)
}

func (h *handlerImpl) HandleGetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.Metrics())
}
