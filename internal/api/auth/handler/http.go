package authHandler

import (
	authService "ProjectKwik/internal/api/auth/service"
	"ProjectKwik/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	authService authService.IAuthService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	as authService.IAuthService,
) *AuthHandler {
	return &AuthHandler{
		log:         log,
		validator:   validate,
		middleware:  middleware,
		authService: as,
	}
}

func (h *AuthHandler) Start(srv fiber.Router) {
	auth := srv.Group("/auth")

	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Get("/me", h.middleware.NewTokenMiddleware, h.GetProfile)
	auth.Put("/me", h.middleware.NewTokenMiddleware, h.UpdateProfile)
	auth.Post("/refresh", h.middleware.NewTokenMiddleware, h.RefreshToken)
}
