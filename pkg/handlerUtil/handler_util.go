package handlerUtil

import (
	"errors"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/aoypsk8/FaceVerification/internal/api/verification"
	"github.com/aoypsk8/FaceVerification/internal/entity"
	"github.com/aoypsk8/FaceVerification/pkg/log"
	"github.com/aoypsk8/FaceVerification/pkg/rekognition"
	"github.com/aoypsk8/FaceVerification/pkg/utils"
)

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

// Handle maps typed failures raised by the port adapters and the upload layer
// to the response envelope. It is the single translation point at the request
// boundary; nothing below it writes responses.
func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}

	switch {
	case errors.Is(err, verification.ErrMissingFiles):
		h.logger.WithFields(fields).Warn("Missing selfie or id document upload")
		return renderReason(c, entity.ReasonMissingFiles)

	case errors.Is(err, rekognition.ErrInvalidImage):
		h.logger.WithFields(fields).Warn("Provider rejected image")
		return renderReason(c, entity.ReasonInvalidImage)

	case errors.Is(err, rekognition.ErrImageTooLarge):
		h.logger.WithFields(fields).Warn("Provider rejected oversize image")
		return renderReason(c, entity.ReasonFileTooLarge)

	case errors.Is(err, rekognition.ErrPermissionDenied):
		// Deployment misconfiguration, not a user error.
		h.logger.WithFields(fields).Error("Rekognition access denied, check the IAM policy for rekognition:CompareFaces and rekognition:DetectFaces")
		return renderReason(c, entity.ReasonPermissionDenied)

	case errors.Is(err, rekognition.ErrThrottled):
		// Transient on the provider side; the client can simply retry.
		h.logger.WithFields(fields).Warn("Rekognition throttled the request")
		return renderReason(c, entity.ReasonInternalError)

	case errors.Is(err, utils.ErrFileTooLarge):
		h.logger.WithFields(fields).Warn("Uploaded file exceeds the size limit")
		return renderReason(c, entity.ReasonFileSizeExceeded)

	case errors.Is(err, utils.ErrNotAnImage):
		h.logger.WithFields(fields).Warn("Uploaded file is not an image")
		return renderReason(c, entity.ReasonInvalidFileType)

	case errors.Is(err, utils.ErrNoFile):
		h.logger.WithFields(fields).Warn("Missing upload")
		return renderReason(c, entity.ReasonMissingFiles)
	}

	h.logger.WithFields(fields).Error("Unexpected error during face verification")

	if os.Getenv("APP_ENV") != "production" {
		status, body := verification.ShapeReasonWithDetails(entity.ReasonInternalError, err.Error())
		return c.Status(status).JSON(body)
	}
	return renderReason(c, entity.ReasonInternalError)
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return renderReason(c, entity.ReasonMissingFiles)
}

func renderReason(c *fiber.Ctx, reason entity.ReasonCode) error {
	status, body := verification.ShapeReason(reason)
	return c.Status(status).JSON(body)
}
