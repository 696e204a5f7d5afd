package intentRuleHandler

import (
	intentRuleService "ProjectKwik/internal/api/intentrule/service"
	"ProjectKwik/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type IntentRuleHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	ruleService intentRuleService.IIntentRuleService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	rs intentRuleService.IIntentRuleService,
) *IntentRuleHandler {
	return &IntentRuleHandler{
		log:         log,
		validator:   validate,
		middleware:  middleware,
		ruleService: rs,
	}
}

func (h *IntentRuleHandler) Start(srv fiber.Router) {
	rules := srv.Group("/intent-rules", h.middleware.NewTokenMiddleware)

	rules.Post("/", h.CreateRule)
	rules.Get("/", h.GetRules)
	rules.Get("/:id", h.GetRule)
	rules.Put("/:id", h.UpdateRule)
	rules.Delete("/:id", h.DeleteRule)
	rules.Patch("/:id/active", h.SetRuleActive)
	rules.Get("/:id/performance", h.GetRulePerformance)
	rules.Post("/:id/feedback", h.RecordFeedback)
}
