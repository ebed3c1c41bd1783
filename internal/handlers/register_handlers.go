package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/gullak-app/gullak_backend/internal/core/ports/services"
	"github.com/gullak-app/gullak_backend/internal/middleware"
	"github.com/gullak-app/gullak_backend/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	registerCustomValidations()

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Public endpoints: login and tenant onboarding.
	registerAuthRoutes(r, services.Auth)
	companyH := newCompanyHandler(services.Company)
	r.POST("/companies", companyH.createCompany)

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the authenticated /api/v1 group.
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerDepositRoutes(v1, services.Deposit)
	registerAccountRoutes(v1, services.Account)
	registerUserRoutes(v1, services.User)
	registerCompanyRoutes(v1, services.Company)
	registerAuditRoutes(v1, services.Audit)
}
