package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	portssvc "github.com/usamajaved138/erp-frontend/internal/core/ports/services"
	"github.com/usamajaved138/erp-frontend/internal/middleware"
	"github.com/usamajaved138/erp-frontend/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	setupCORS(r, cfg)

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	v1 := r.Group("/api/v1")

	var mutate []gin.HandlerFunc
	if cfg.MutationRateLimit != "" {
		l, err := middleware.NewMutationLimiter(cfg.MutationRateLimit)
		if err != nil {
			return fmt.Errorf("failed to configure mutation rate limit: %w", err)
		}
		mutate = append(mutate, middleware.RateLimit(l))
	}

	registerChartViewRoutes(v1, services.Views, mutate...)
	return nil
}

// setupCORS lets the browser UI call the view server. Outside production any
// origin is allowed; in production only the configured ones.
func setupCORS(r *gin.Engine, cfg *config.Config) {
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		if len(cfg.CORSAllowedOrigins) == 0 {
			return
		}
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods(http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions)
	corsConfig.AddAllowHeaders("Authorization", middleware.RequestIDHeader)
	corsConfig.AddExposeHeaders(middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining")

	r.Use(cors.New(corsConfig))
}
