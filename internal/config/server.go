package config

import (
	"ProjectKwik/database/postgres"
	analyticsHandler "ProjectKwik/internal/api/analytics/handler"
	analyticsRepository "ProjectKwik/internal/api/analytics/repository"
	analyticsService "ProjectKwik/internal/api/analytics/service"
	authHandler "ProjectKwik/internal/api/auth/handler"
	authRepository "ProjectKwik/internal/api/auth/repository"
	authService "ProjectKwik/internal/api/auth/service"
	configurationHandler "ProjectKwik/internal/api/configuration/handler"
	configurationRepository "ProjectKwik/internal/api/configuration/repository"
	configurationService "ProjectKwik/internal/api/configuration/service"
	intentRuleHandler "ProjectKwik/internal/api/intentrule/handler"
	intentRuleRepository "ProjectKwik/internal/api/intentrule/repository"
	intentRuleService "ProjectKwik/internal/api/intentrule/service"
	merchantHandler "ProjectKwik/internal/api/merchant/handler"
	merchantRepository "ProjectKwik/internal/api/merchant/repository"
	merchantService "ProjectKwik/internal/api/merchant/service"
	pdpHandler "ProjectKwik/internal/api/pdp/handler"
	pdpRepository "ProjectKwik/internal/api/pdp/repository"
	pdpService "ProjectKwik/internal/api/pdp/service"
	widgetHandler "ProjectKwik/internal/api/widget/handler"
	widgetRepository "ProjectKwik/internal/api/widget/repository"
	widgetService "ProjectKwik/internal/api/widget/service"
	"ProjectKwik/internal/middleware"
	"ProjectKwik/pkg/bcrypt"
	"ProjectKwik/pkg/redis"
	"ProjectKwik/pkg/s3"
	"ProjectKwik/pkg/utils"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	bcryptUtils bcrypt.IBcrypt
	handlers    []handler
	redisServer redis.IRedis
	s3Client    s3.ItfS3

	// kept for the cleanup janitor started in main
	pdpServices pdpService.IPdpService
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Auth Domain
	authRepo := authRepository.New(s.db, s.log)
	merchantRepo := merchantRepository.New(s.db, s.log)
	authServices := authService.New(s.log, authRepo, merchantRepo, s.bcryptUtils, s.utils)
	authHandlers := authHandler.New(s.log, s.validator, s.middleware, authServices)

	// Merchant Domain
	merchantServices := merchantService.New(s.log, merchantRepo, s.bcryptUtils, s.utils)
	merchantHandlers := merchantHandler.New(s.log, s.validator, s.middleware, merchantServices)

	// Intent Rules
	ruleRepo := intentRuleRepository.New(s.db, s.log)
	ruleServices := intentRuleService.New(s.log, ruleRepo, s.redisServer, s.utils)
	ruleHandlers := intentRuleHandler.New(s.log, s.validator, s.middleware, ruleServices)

	// Widgets
	widgetRepo := widgetRepository.New(s.db, s.log)
	widgetServices := widgetService.New(s.log, widgetRepo, s.redisServer, s.utils)
	widgetHandlers := widgetHandler.New(s.log, s.validator, s.middleware, widgetServices)

	// Configurations
	configRepo := configurationRepository.New(s.db, s.log)
	configServices := configurationService.New(s.log, configRepo, s.s3Client, s.utils)
	configHandlers := configurationHandler.New(s.log, s.validator, s.middleware, configServices)

	// PDP Detection (public, API-key scoped)
	pdpRepo := pdpRepository.New(s.db, s.log)
	pdpServices := pdpService.New(s.log, pdpRepo, ruleRepo, widgetRepo, s.redisServer, s.utils)
	pdpHandlers := pdpHandler.New(s.log, s.validator, s.middleware, pdpServices, merchantServices)
	s.pdpServices = pdpServices

	// Analytics
	analyticsRepo := analyticsRepository.New(s.db, s.log)
	analyticsServices := analyticsService.New(s.log, analyticsRepo, s.s3Client)
	analyticsHandlers := analyticsHandler.New(s.log, s.validator, s.middleware, analyticsServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers,
		authHandlers,
		merchantHandlers,
		ruleHandlers,
		widgetHandlers,
		configHandlers,
		pdpHandlers,
		analyticsHandlers,
	)
}

// PdpService exposes the detection service so main can run the
// retention janitor outside the request path.
func (s *Server) PdpService() pdpService.IPdpService {
	return s.pdpServices
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
