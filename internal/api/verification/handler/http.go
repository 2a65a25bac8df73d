package verificationHandler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	verificationService "github.com/aoypsk8/FaceVerification/internal/api/verification/service"
	"github.com/aoypsk8/FaceVerification/internal/middleware"
	"github.com/aoypsk8/FaceVerification/pkg/utils"
)

type VerificationHandler struct {
	log                 *logrus.Logger
	validator           *validator.Validate
	middleware          middleware.Middleware
	verificationService verificationService.IVerificationService
	utils               utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	vs verificationService.IVerificationService,
	utils utils.IUtils,
) *VerificationHandler {
	return &VerificationHandler{
		log:                 log,
		validator:           validator,
		middleware:          middleware,
		verificationService: vs,
		utils:               utils,
	}
}

func (h *VerificationHandler) Start(srv fiber.Router) {
	srv.Post("/verify", h.middleware.NewRateLimiter, h.VerifyIdentity)
}
