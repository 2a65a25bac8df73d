package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	verificationHandler "github.com/aoypsk8/FaceVerification/internal/api/verification/handler"
	verificationService "github.com/aoypsk8/FaceVerification/internal/api/verification/service"
	"github.com/aoypsk8/FaceVerification/internal/middleware"
	"github.com/aoypsk8/FaceVerification/pkg/hash"
	"github.com/aoypsk8/FaceVerification/pkg/rekognition"
	"github.com/aoypsk8/FaceVerification/pkg/utils"
)

type ServerOption func(*Server) error

type Server struct {
	engine            *fiber.App
	log               *logrus.Logger
	middleware        middleware.Middleware
	validator         *validator.Validate
	utils             utils.IUtils
	hashUtils         hash.IHash
	handlers          []handler
	rekognitionClient rekognition.IRekognition
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

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithRekognitionClient() ServerOption {
	return func(s *Server) error {
		client, err := rekognition.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize Rekognition client: %v", err)
			}
			return fmt.Errorf("failed to create Rekognition client: %w", err)
		}
		s.rekognitionClient = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithHashUtils() ServerOption {
	return func(s *Server) error {
		s.hashUtils = hash.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	verificationServices := verificationService.New(s.log, s.rekognitionClient, s.hashUtils, verificationService.DefaultThresholds())
	verificationHandlers := verificationHandler.New(s.log, s.validator, s.middleware, verificationServices, s.utils)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, verificationHandlers)
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

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

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})

	s.engine.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"status":    "ok",
			"message":   "Server is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
}
