package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-sales-tracker/internal/services"
)

type Handler interface {
	HandleRequestLogMiddleware(c *gin.Context)

	HandleGetDashboard(c *gin.Context)
	HandleGetMetrics(c *gin.Context)

	HandleGetTasks(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleUndoDelete(c *gin.Context)
	HandleClearLastDeleted(c *gin.Context)
}

type handlerImpl struct {
	logger    zerolog.Logger
	dashboard services.DashboardService
}

func New(
	logger zerolog.Logger,
	dashboardService services.DashboardService,
) Handler {
	return &handlerImpl{
		logger:    logger,
		dashboard: dashboardService,
	}
}

func RegisterRoutes(router gin.IRouter, h Handler) {
	router.Use(h.HandleRequestLogMiddleware)

	router.GET("/dashboard", h.HandleGetDashboard)
	router.GET("/metrics", h.HandleGetMetrics)

	router.GET("/tasks", h.HandleGetTasks)
	router.POST("/tasks", h.HandleCreateTask)
	router.PATCH("/tasks/:id", h.HandleUpdateTask)
	router.DELETE("/tasks/:id", h.HandleDeleteTask)

	router.POST("/undo", h.HandleUndoDelete)
	router.DELETE("/last-deleted", h.HandleClearLastDeleted)
}
