package config

import (
	"context"
	"fmt"
	"os"
	"time"

	annotationHandler "DentalPlanner/internal/api/annotation/handler"
	annotationService "DentalPlanner/internal/api/annotation/service"
	consultationHandler "DentalPlanner/internal/api/consultation/handler"
	consultationRepository "DentalPlanner/internal/api/consultation/repository"
	consultationService "DentalPlanner/internal/api/consultation/service"
	exportHandler "DentalPlanner/internal/api/export/handler"
	exportService "DentalPlanner/internal/api/export/service"
	planHandler "DentalPlanner/internal/api/plan/handler"
	planService "DentalPlanner/internal/api/plan/service"
	"DentalPlanner/internal/middleware"
	"DentalPlanner/pkg/detector"
	"DentalPlanner/pkg/redis"
	"DentalPlanner/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	handlers    []handler
	redisServer redis.IRedis
	detector    detector.IDetector
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
	if server.detector == nil {
		return nil, fmt.Errorf("detector is required")
	}
	if server.redisServer == nil {
		return nil, fmt.Errorf("redis server is required")
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

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithDetector() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before detector")
		}
		d, err := NewDetector(s.log)
		if err != nil {
			s.log.Errorf("Failed to initialize detector: %v", err)
			return fmt.Errorf("failed to create detector: %w", err)
		}
		s.detector = d
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

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Plan
	planServices := planService.NewPlanService()
	planHandlers := planHandler.New(s.log, planServices)

	// Annotation
	annotationServices := annotationService.NewAnnotationService(s.log, s.detector, s.utils)
	annotationHandlers := annotationHandler.New(s.log, s.middleware, annotationServices, s.utils)

	// Export
	exportServices := exportService.NewExportService(s.log)
	exportHandlers := exportHandler.New(s.log, s.validator, s.middleware, exportServices, planServices)

	// Consultation
	consultationRepo := consultationRepository.New(s.redisServer, s.log, consultationService.SessionTTL())
	consultationServices := consultationService.NewConsultationService(s.log, consultationRepo, s.utils, annotationServices, planServices, exportServices)
	consultationHandlers := consultationHandler.New(s.log, s.validator, s.middleware, consultationServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, planHandlers, annotationHandlers, exportHandlers, consultationHandlers)
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown stops accepting requests, waits for in-flight ones and then
// releases the detector and Redis connections.
func (s *Server) Shutdown(timeout time.Duration) error {
	err := s.engine.ShutdownWithTimeout(timeout)

	if cerr := s.detector.Close(); cerr != nil {
		s.log.Errorf("Error closing detector: %v", cerr)
	}
	if cerr := s.redisServer.Close(); cerr != nil {
		s.log.Errorf("Error closing redis: %v", cerr)
	}

	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		c, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
		defer cancel()

		redisStatus := "ok"
		if err := s.redisServer.Ping(c); err != nil {
			redisStatus = "unavailable"
		}

		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
			"redis":   redisStatus,
		})
	})
}
