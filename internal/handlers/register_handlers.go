package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/wealthsync/wealthsync-backend/cmd/docs"
	"github.com/wealthsync/wealthsync-backend/internal/core/domain"
	portssvc "github.com/wealthsync/wealthsync-backend/internal/core/ports/services"
	"github.com/wealthsync/wealthsync-backend/internal/middleware"
	"github.com/wealthsync/wealthsync-backend/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services)
	setupSwaggerRoutes(r, cfg)
}

// registerCustomValidators adds binding validations for domain enums.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("orderstatus", func(fl validator.FieldLevel) bool {
		switch domain.OrderStatus(fl.Field().String()) {
		case domain.OrderApprovalRequired, domain.OrderApproved, domain.OrderProcessing,
			domain.OrderSucceeded, domain.OrderFailed, domain.OrderCancelled:
			return true
		}
		return false
	})
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the
// per-feature route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")

	autopilot := v1.Group("/autopilot", middleware.AuthMiddleware(cfg.JWTSecret))
	RegisterAutopilotRoutes(autopilot, services.Autopilot, cfg.Autopilot)
	registerInsightsRoutes(autopilot, services.Allocation, services.Spending, services.Timeline)

	jobs := v1.Group("/jobs", middleware.SchedulerAuthMiddleware(cfg.SchedulerToken))
	registerJobRoutes(jobs, services.Autopilot)
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
