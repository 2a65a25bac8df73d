package handlerUtil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/aoypsk8/FaceVerification/internal/api/verification"
	"github.com/aoypsk8/FaceVerification/pkg/rekognition"
	"github.com/aoypsk8/FaceVerification/pkg/utils"
)

func performHandle(t *testing.T, err error) (int, verification.VerifyResponse) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	errHandler := New(logger)

	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errHandler.Handle(c, "test-request", err, c.Path(), "test_op")
	})

	resp, testErr := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	if testErr != nil {
		t.Fatalf("unexpected transport error: %v", testErr)
	}
	defer resp.Body.Close()

	var body verification.VerifyResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr != nil {
		t.Fatalf("failed to decode envelope: %v", decodeErr)
	}

	return resp.StatusCode, body
}

func TestHandleMapsTypedFailures(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"missing files", verification.ErrMissingFiles, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"provider invalid image", fmt.Errorf("compare: %w", rekognition.ErrInvalidImage), http.StatusBadRequest, "INVALID_IMAGE"},
		{"provider image too large", fmt.Errorf("compare: %w", rekognition.ErrImageTooLarge), http.StatusBadRequest, "FILE_TOO_LARGE"},
		{"provider access denied", fmt.Errorf("compare: %w", rekognition.ErrPermissionDenied), http.StatusForbidden, "AWS_PERMISSION_DENIED"},
		{"provider throttled", fmt.Errorf("compare: %w", rekognition.ErrThrottled), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"upload too large", utils.ErrFileTooLarge, http.StatusBadRequest, "FILE_SIZE_EXCEEDED"},
		{"upload not an image", utils.ErrNotAnImage, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"upload missing", utils.ErrNoFile, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			status, body := performHandle(t, c.err)
			if status != c.wantStatus {
				t.Errorf("expected status %d, got %d", c.wantStatus, status)
			}
			if body.Code != c.wantCode {
				t.Errorf("expected code %s, got %s", c.wantCode, body.Code)
			}
			if body.Success {
				t.Error("failure envelopes must not be marked successful")
			}
		})
	}
}

func TestHandleUnknownErrorIncludesDetailsOutsideProduction(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	status, body := performHandle(t, errors.New("connection reset by peer"))
	if status != http.StatusInternalServerError || body.Code != "INTERNAL_SERVER_ERROR" {
		t.Fatalf("unknown error must render the internal row, got %d %s", status, body.Code)
	}
	if body.Details != "connection reset by peer" {
		t.Fatalf("expected error details outside production, got %q", body.Details)
	}
}

func TestHandleUnknownErrorHidesDetailsInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	status, body := performHandle(t, errors.New("connection reset by peer"))
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if body.Details != "" {
		t.Fatalf("details must be suppressed in production, got %q", body.Details)
	}
}

func TestHandleValidationErrorRendersMissingFilesRow(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	errHandler := New(logger)

	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errHandler.HandleValidationError(c, "test-request", errors.New("field required"), c.Path())
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	defer resp.Body.Close()

	var body verification.VerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest || body.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected 400 VALIDATION_ERROR, got %d %s", resp.StatusCode, body.Code)
	}
}
