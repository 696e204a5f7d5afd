package widgetHandler

import (
	widgetService "ProjectKwik/internal/api/widget/service"
	"ProjectKwik/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type WidgetHandler struct {
	log           *logrus.Logger
	validator     *validator.Validate
	middleware    middleware.Middleware
	widgetService widgetService.IWidgetService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ws widgetService.IWidgetService,
) *WidgetHandler {
	return &WidgetHandler{
		log:           log,
		validator:     validate,
		middleware:    middleware,
		widgetService: ws,
	}
}

func (h *WidgetHandler) Start(srv fiber.Router) {
	widgets := srv.Group("/widgets", h.middleware.NewTokenMiddleware)

	widgets.Post("/", h.CreateWidget)
	widgets.Get("/", h.GetWidgets)
	widgets.Post("/bulk", h.BulkCreateWidgets)
	widgets.Put("/bulk", h.BulkUpdateWidgets)
	widgets.Delete("/bulk", h.BulkDeleteWidgets)
	widgets.Get("/intent/:intentType", h.GetWidgetsByIntentType)
	widgets.Post("/intent/:intentType/preview", h.PreviewWidget)
	widgets.Get("/:id", h.GetWidget)
	widgets.Put("/:id", h.UpdateWidget)
	widgets.Delete("/:id", h.DeleteWidget)
	widgets.Patch("/:id/active", h.SetWidgetActive)
	widgets.Post("/:id/test", h.TestWidget)
	widgets.Get("/:id/performance", h.GetPerformance)
}
