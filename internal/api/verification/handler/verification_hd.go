package verificationHandler

import (
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"

	"github.com/aoypsk8/FaceVerification/internal/api/verification"
	"github.com/aoypsk8/FaceVerification/internal/entity"
	contextPkg "github.com/aoypsk8/FaceVerification/pkg/context"
	"github.com/aoypsk8/FaceVerification/pkg/handlerUtil"
	"github.com/aoypsk8/FaceVerification/pkg/log"
)

const verifyTimeout = 30 * time.Second

// VerifyIdentity accepts the selfie and id document either as multipart file
// fields or as a JSON body with base64 payloads, and renders the verification
// envelope for every path.
func (h *VerificationHandler) VerifyIdentity(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), verifyTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing identity verification request")

	selfie, idDocument, done := h.readImages(ctx, requestID)
	if done {
		return nil
	}

	outcome, err := h.verificationService.VerifyIdentity(c, selfie, idDocument)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "verify_identity")
	}

	select {
	case <-c.Done():
		status, body := verification.ShapeReason(entity.ReasonInternalError)
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
		}).Error("Verification request timed out")
		return ctx.Status(status).JSON(body)
	default:
	}

	status, body := verification.ShapeOutcome(outcome)

	fields := log.Fields{
		"request_id":   requestID,
		"path":         ctx.Path(),
		"reason":       string(outcome.Reason),
		"similarity":   outcome.Similarity,
		"face_matches": outcome.MatchCount,
	}
	if outcome.Matched {
		h.log.WithFields(fields).Info("Identity verification matched")
	} else {
		h.log.WithFields(fields).Info("Identity verification did not match")
	}

	return ctx.Status(status).JSON(body)
}

// readImages extracts both image buffers from the request. It writes the
// response itself on failure and reports that via done, so the caller just
// returns.
func (h *VerificationHandler) readImages(ctx *fiber.Ctx, requestID string) (selfie, idDocument []byte, done bool) {
	if strings.HasPrefix(ctx.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return h.readMultipart(ctx, requestID)
	}
	return h.readBase64Body(ctx, requestID)
}

func (h *VerificationHandler) readMultipart(ctx *fiber.Ctx, requestID string) (selfie, idDocument []byte, done bool) {
	errHandler := handlerUtil.New(h.log)

	selfieFile, selfieErr := ctx.FormFile("selfie")
	documentFile, documentErr := ctx.FormFile("idDocument")
	if selfieErr != nil || documentErr != nil {
		_ = errHandler.Handle(ctx, requestID, verification.ErrMissingFiles, ctx.Path(), "parse_uploads")
		return nil, nil, true
	}

	for _, upload := range []struct {
		field string
		file  *multipart.FileHeader
	}{
		{field: "selfie", file: selfieFile},
		{field: "idDocument", file: documentFile},
	} {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"field":      upload.field,
			"file_name":  upload.file.Filename,
			"file_size":  upload.file.Size,
		}).Debug("Received upload")

		if err := h.utils.ValidateImageFile(upload.file); err != nil {
			_ = errHandler.Handle(ctx, requestID, err, ctx.Path(), "validate_"+upload.field)
			return nil, nil, true
		}
	}

	selfie, err := readFileHeader(selfieFile)
	if err != nil {
		_ = errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_selfie")
		return nil, nil, true
	}

	idDocument, err = readFileHeader(documentFile)
	if err != nil {
		_ = errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_id_document")
		return nil, nil, true
	}

	return selfie, idDocument, false
}

func (h *VerificationHandler) readBase64Body(ctx *fiber.Ctx, requestID string) (selfie, idDocument []byte, done bool) {
	errHandler := handlerUtil.New(h.log)

	var req verification.VerifyBase64Request
	if err := ctx.BodyParser(&req); err != nil {
		_ = errHandler.Handle(ctx, requestID, verification.ErrMissingFiles, ctx.Path(), "parse_request_body")
		return nil, nil, true
	}

	if err := h.validator.Struct(req); err != nil {
		_ = errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		return nil, nil, true
	}

	selfie, err := h.utils.DecodeBase64Image(req.SelfieBase64)
	if err != nil {
		_ = errHandler.Handle(ctx, requestID, err, ctx.Path(), "decode_selfie")
		return nil, nil, true
	}

	idDocument, err = h.utils.DecodeBase64Image(req.IDDocumentBase64)
	if err != nil {
		_ = errHandler.Handle(ctx, requestID, err, ctx.Path(), "decode_id_document")
		return nil, nil, true
	}

	return selfie, idDocument, false
}

func readFileHeader(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return io.ReadAll(src)
}
