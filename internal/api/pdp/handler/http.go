package pdpHandler

import (
	merchantService "ProjectKwik/internal/api/merchant/service"
	pdpService "ProjectKwik/internal/api/pdp/service"
	"ProjectKwik/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// HeaderAPIKey carries the merchant key on every public tracking call.
const HeaderAPIKey = "X-Api-Key"

type PdpHandler struct {
	log             *logrus.Logger
	validator       *validator.Validate
	middleware      middleware.Middleware
	pdpService      pdpService.IPdpService
	merchantService merchantService.IMerchantService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ps pdpService.IPdpService,
	ms merchantService.IMerchantService,
) *PdpHandler {
	return &PdpHandler{
		log:             log,
		validator:       validate,
		middleware:      middleware,
		pdpService:      ps,
		merchantService: ms,
	}
}

func (h *PdpHandler) Start(srv fiber.Router) {
	pdp := srv.Group("/pdp", h.middleware.NewRateLimiter)

	pdp.Post("/poll", h.Poll)
	pdp.Post("/interaction", h.RecordInteraction)
	pdp.Post("/conversion/:sessionId", h.RecordConversion)
	pdp.Post("/event", h.TrackEvent)
	pdp.Get("/session/:sessionId", h.GetSession)
}
