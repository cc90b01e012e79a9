package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/wealthsync/wealthsync-backend/internal/core/ports/services"
	"github.com/wealthsync/wealthsync-backend/internal/middleware"
)

// jobsHandler exposes the scheduled-job entry points. Routes are guarded by
// the scheduler token, not user auth; an external cron invokes them.
type jobsHandler struct {
	autopilotService portssvc.AutopilotSvcFacade
}

func newJobsHandler(autopilotService portssvc.AutopilotSvcFacade) *jobsHandler {
	return &jobsHandler{autopilotService: autopilotService}
}

// registerJobRoutes wires the scheduler endpoints onto the token-guarded group.
func registerJobRoutes(rg *gin.RouterGroup, autopilotService portssvc.AutopilotSvcFacade) {
	h := newJobsHandler(autopilotService)

	rg.POST("/autopilot/run-daily", h.runDailyAutopilot)
}

// runDailyAutopilot godoc
// @Summary Run the daily autopilot job
// @Description Prepares payment orders for all users at the configured horizon, then executes all approved due orders
// @Tags jobs
// @Produce  json
// @Param   X-Scheduler-Token header string true "Scheduler token"
// @Success 200 {object} dto.DailyJobResponse
// @Failure 404 {object} map[string]string "Not found"
// @Router /jobs/autopilot/run-daily [post]
func (h *jobsHandler) runDailyAutopilot(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	result, err := h.autopilotService.RunDailyAutopilot(c.Request.Context())
	if err != nil {
		logger.Error("Daily autopilot job failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Daily autopilot job failed"})
		return
	}

	logger.Info("Daily autopilot job completed",
		slog.Int("users_processed", result.UsersProcessed),
		slog.Int("orders_created", result.OrdersCreated),
		slog.Int("executed", result.Executed),
		slog.Int("failed", result.Failed))
	c.JSON(http.StatusOK, result)
}
