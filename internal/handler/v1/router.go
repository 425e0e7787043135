package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/optivue/scheduling/internal/service"
	"github.com/optivue/scheduling/pkg/auth"
	"github.com/optivue/scheduling/pkg/metrics"
)

type RouterConfig struct {
	Booking    *service.BookingService
	Query      *service.QueryService
	JWTManager *auth.JWTManager
	Log        *zap.Logger
	Metrics    *metrics.Collector
	Env        string
	Version    string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(cfg.Log))
	if cfg.Metrics != nil {
		r.Use(MetricsMiddleware(cfg.Metrics))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.Version})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	handler := NewAppointmentHandler(cfg.Booking, cfg.Query)

	api := r.Group("/api/v1")
	api.Use(AuthMiddleware(cfg.JWTManager))
	{
		api.POST("/appointments", handler.Create)
		api.GET("/appointments", handler.List)
		api.GET("/appointments/upcoming", handler.ListUpcoming)
		api.GET("/appointments/:id", handler.Get)
		api.PATCH("/appointments/:id", handler.Update)
		api.PATCH("/appointments/:id/status", handler.UpdateStatus)
		api.DELETE("/appointments/:id", handler.Delete)
		api.POST("/appointments/:id/reminder", handler.SendReminder)

		api.GET("/patients/:patientId/appointments", handler.ListByPatient)
		api.GET("/availability", handler.Availability)
	}

	return r
}
