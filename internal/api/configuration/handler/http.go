package configurationHandler

import (
	configurationService "ProjectKwik/internal/api/configuration/service"
	"ProjectKwik/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ConfigurationHandler struct {
	log           *logrus.Logger
	validator     *validator.Validate
	middleware    middleware.Middleware
	configService configurationService.IConfigurationService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cs configurationService.IConfigurationService,
) *ConfigurationHandler {
	return &ConfigurationHandler{
		log:           log,
		validator:     validate,
		middleware:    middleware,
		configService: cs,
	}
}

func (h *ConfigurationHandler) Start(srv fiber.Router) {
	configs := srv.Group("/configurations", h.middleware.NewTokenMiddleware)

	configs.Post("/", h.CreateConfig)
	configs.Get("/active", h.GetActiveConfig)
	configs.Get("/history", h.GetHistory)
	configs.Post("/validate", h.ValidateConfig)
	configs.Get("/export", h.ExportConfig)
	configs.Post("/import", h.ImportConfig)
	configs.Put("/:id", h.UpdateConfig)
	configs.Delete("/:id", h.DeleteConfig)
	configs.Post("/:id/activate", h.ActivateVersion)
}
