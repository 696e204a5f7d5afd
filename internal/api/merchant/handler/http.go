package merchantHandler

import (
	merchantService "ProjectKwik/internal/api/merchant/service"
	"ProjectKwik/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type MerchantHandler struct {
	log             *logrus.Logger
	validator       *validator.Validate
	middleware      middleware.Middleware
	merchantService merchantService.IMerchantService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ms merchantService.IMerchantService,
) *MerchantHandler {
	return &MerchantHandler{
		log:             log,
		validator:       validate,
		middleware:      middleware,
		merchantService: ms,
	}
}

func (h *MerchantHandler) Start(srv fiber.Router) {
	merchants := srv.Group("/merchants")

	// Onboarding is open; everything else is scoped to the caller's
	// own merchant via the token.
	merchants.Post("/", h.middleware.NewRateLimiter, h.CreateMerchant)
	merchants.Get("/me", h.middleware.NewTokenMiddleware, h.GetMerchant)
	merchants.Put("/me/settings", h.middleware.NewTokenMiddleware, h.UpdateSettings)
	merchants.Post("/me/credentials/rotate", h.middleware.NewTokenMiddleware, h.RotateCredentials)
}
