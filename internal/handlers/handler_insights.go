package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/wealthsync/wealthsync-backend/internal/core/ports/services"
	"github.com/wealthsync/wealthsync-backend/internal/middleware"
)

const defaultFreeMoneyMinPercent = 20.0

// insightsHandler serves the derived dashboards: salary split, safe-to-spend
// and the timeline feed.
type insightsHandler struct {
	allocationService portssvc.AllocationSvcFacade
	spendingService   portssvc.SpendingSvcFacade
	timelineService   portssvc.TimelineSvcFacade
}

func newInsightsHandler(
	allocationService portssvc.AllocationSvcFacade,
	spendingService portssvc.SpendingSvcFacade,
	timelineService portssvc.TimelineSvcFacade,
) *insightsHandler {
	return &insightsHandler{
		allocationService: allocationService,
		spendingService:   spendingService,
		timelineService:   timelineService,
	}
}

// registerInsightsRoutes wires the read-only insight endpoints onto the
// authenticated autopilot group.
func registerInsightsRoutes(rg *gin.RouterGroup,
	allocationService portssvc.AllocationSvcFacade,
	spendingService portssvc.SpendingSvcFacade,
	timelineService portssvc.TimelineSvcFacade,
) {
	h := newInsightsHandler(allocationService, spendingService, timelineService)

	rg.GET("/safe-to-spend", h.getSafeToSpend)
	rg.GET("/safe-to-spend-daily", h.getDailySafeToSpend)
	rg.GET("/salary-rule-engine", h.getSalaryRuleEngine)
	rg.GET("/timeline", h.getTimeline)
}

// getSafeToSpend godoc
// @Summary Monthly safe-to-spend
// @Description Computes the monthly discretionary budget from income, commitments and spending so far
// @Tags autopilot
// @Produce  json
// @Success 200 {object} dto.SafeToSpendResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /autopilot/safe-to-spend [get]
func (h *insightsHandler) getSafeToSpend(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.spendingService.SafeToSpend(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to compute safe-to-spend", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute safe-to-spend"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// getDailySafeToSpend godoc
// @Summary Daily safe-to-spend
// @Description Spreads the remaining monthly budget over the days left in the month with an advisory color band
// @Tags autopilot
// @Produce  json
// @Success 200 {object} dto.DailySafeToSpendResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /autopilot/safe-to-spend-daily [get]
func (h *insightsHandler) getDailySafeToSpend(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.spendingService.DailySafeToSpend(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to compute daily safe-to-spend", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute daily safe-to-spend"})
		return
	}

	c.JSON(http.StatusOK, result)
}

type salaryRuleEngineQuery struct {
	SalaryOverride      *float64 `form:"salary_override" binding:"omitempty,gte=0"`
	FreeMoneyMinPercent *float64 `form:"free_money_min_percent" binding:"omitempty,gte=0,lte=80"`
}

// getSalaryRuleEngine godoc
// @Summary Salary rule split
// @Description Splits the resolved monthly salary across commitments, planned expenses and priority-ordered goals while reserving the free-money floor
// @Tags autopilot
// @Produce  json
// @Param   salary_override query number false "Override the resolved salary"
// @Param   free_money_min_percent query number false "Free-money floor percentage (0-80, default 20)"
// @Success 200 {object} dto.SalaryRuleSplitResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /autopilot/salary-rule-engine [get]
func (h *insightsHandler) getSalaryRuleEngine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query salaryRuleEngineQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	floorPercent := defaultFreeMoneyMinPercent
	if query.FreeMoneyMinPercent != nil {
		floorPercent = *query.FreeMoneyMinPercent
	}

	result, err := h.allocationService.SalaryRuleSplit(c.Request.Context(), userID, query.SalaryOverride, floorPercent)
	if err != nil {
		logger.Error("Failed to compute salary rule split", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute salary rule split"})
		return
	}

	c.JSON(http.StatusOK, result)
}

type timelineQuery struct {
	DaysPast   *int `form:"days_past" binding:"omitempty,gte=0,lte=90"`
	DaysFuture *int `form:"days_future" binding:"omitempty,gte=1,lte=365"`
}

// getTimeline godoc
// @Summary Financial timeline
// @Description Merges past transactions with projected bills, subscriptions, salary credits, goal contributions and the month-end balance projection
// @Tags autopilot
// @Produce  json
// @Param   days_past query int false "Days of history (0-90, default 7)"
// @Param   days_future query int false "Days to project ahead (1-365, default 30)"
// @Success 200 {object} dto.TimelineResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /autopilot/timeline [get]
func (h *insightsHandler) getTimeline(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query timelineQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	daysPast, daysFuture := 7, 30
	if query.DaysPast != nil {
		daysPast = *query.DaysPast
	}
	if query.DaysFuture != nil {
		daysFuture = *query.DaysFuture
	}

	result, err := h.timelineService.TimelineEvents(c.Request.Context(), userID, daysPast, daysFuture)
	if err != nil {
		logger.Error("Failed to build timeline", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build timeline"})
		return
	}

	c.JSON(http.StatusOK, result)
}
