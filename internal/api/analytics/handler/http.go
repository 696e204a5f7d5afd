package analyticsHandler

import (
	analyticsService "ProjectKwik/internal/api/analytics/service"
	"ProjectKwik/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AnalyticsHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	analyticsService analyticsService.IAnalyticsService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	as analyticsService.IAnalyticsService,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		log:              log,
		validator:        validate,
		middleware:       middleware,
		analyticsService: as,
	}
}

func (h *AnalyticsHandler) Start(srv fiber.Router) {
	analytics := srv.Group("/analytics", h.middleware.NewTokenMiddleware)

	analytics.Get("/overview", h.GetOverview)
	analytics.Get("/conversion-rates", h.GetConversionRates)
	analytics.Get("/widgets", h.GetWidgetPerformance)
	analytics.Get("/dashboard", h.GetDashboard)
	analytics.Get("/trends", h.GetTrends)
	analytics.Get("/recent", h.GetRecentDetections)
	analytics.Get("/export", h.Export)
}
