package verification

import (
	"bytes"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aoypsk8/FaceVerification/internal/entity"
)

func TestShapeOutcomeTable(t *testing.T) {
	cases := []struct {
		reason     entity.ReasonCode
		wantStatus int
		wantCode   string
	}{
		{entity.ReasonMissingFiles, http.StatusBadRequest, "VALIDATION_ERROR"},
		{entity.ReasonInvalidFileType, http.StatusBadRequest, "VALIDATION_ERROR"},
		{entity.ReasonFileSizeExceeded, http.StatusBadRequest, "FILE_SIZE_EXCEEDED"},
		{entity.ReasonDuplicateUpload, http.StatusBadRequest, "VALIDATION_ERROR"},
		{entity.ReasonNoMatchFound, http.StatusOK, "NO_MATCH_FOUND"},
		{entity.ReasonSameImageDetected, http.StatusBadRequest, "SAME_IMAGE_DETECTED"},
		{entity.ReasonVerificationSuccess, http.StatusOK, "VERIFICATION_SUCCESS"},
		{entity.ReasonVerificationFailed, http.StatusOK, "VERIFICATION_FAILED"},
		{entity.ReasonInvalidImage, http.StatusBadRequest, "INVALID_IMAGE"},
		{entity.ReasonFileTooLarge, http.StatusBadRequest, "FILE_TOO_LARGE"},
		{entity.ReasonPermissionDenied, http.StatusForbidden, "AWS_PERMISSION_DENIED"},
		{entity.ReasonInternalError, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, c := range cases {
		status, resp := ShapeReason(c.reason)
		if status != c.wantStatus {
			t.Errorf("%s: status = %d, want %d", c.reason, status, c.wantStatus)
		}
		if resp.Code != c.wantCode {
			t.Errorf("%s: code = %s, want %s", c.reason, resp.Code, c.wantCode)
		}
		if resp.Message == "" {
			t.Errorf("%s: message must not be empty", c.reason)
		}
		if _, err := time.Parse(time.RFC3339, resp.Date); err != nil {
			t.Errorf("%s: date %q is not RFC3339: %v", c.reason, resp.Date, err)
		}
	}
}

func TestShapeOutcomeMatchedInvariant(t *testing.T) {
	status, resp := ShapeOutcome(entity.VerificationOutcome{
		Matched:    true,
		Similarity: 95.2,
		MatchCount: 1,
		Reason:     entity.ReasonVerificationSuccess,
	})

	if status != http.StatusOK {
		t.Fatalf("matched outcome must be HTTP 200, got %d", status)
	}
	if !resp.Success || resp.Status != "success" {
		t.Fatalf("matched outcome must be success, got %+v", resp)
	}
	if resp.Similarity != 95.2 || resp.FaceMatches != 1 {
		t.Fatalf("similarity and match count must round-trip: %+v", resp)
	}
	if resp.Data == nil || resp.Data.Similarity != 95.2 || resp.Data.FaceMatches != 1 {
		t.Fatalf("verdict responses carry a data object: %+v", resp.Data)
	}
}

func TestShapeOutcomeFailedVerdict(t *testing.T) {
	status, resp := ShapeOutcome(entity.VerificationOutcome{
		Similarity: 72.1,
		MatchCount: 1,
		Reason:     entity.ReasonVerificationFailed,
	})

	if status != http.StatusOK {
		t.Fatalf("a negative verdict is still HTTP 200, got %d", status)
	}
	if resp.Success {
		t.Fatal("failed verdict must not be success")
	}
	if resp.Status != "success" {
		t.Fatalf("failed verdict ran to completion, status label should be success, got %s", resp.Status)
	}
	if resp.Data == nil {
		t.Fatal("failed verdict still carries a data object")
	}
}

func TestShapeOutcomeErrorRows(t *testing.T) {
	_, resp := ShapeReason(entity.ReasonNoMatchFound)
	if resp.Success || resp.Status != "error" {
		t.Fatalf("no-match is a negative result: %+v", resp)
	}
	if resp.Data != nil {
		t.Fatal("failure rows must carry a null data object")
	}
}

func TestShapeOutcomeUnknownReasonFallsBack(t *testing.T) {
	var buf bytes.Buffer
	previous := logrus.StandardLogger().Out
	logrus.SetOutput(&buf)
	defer logrus.SetOutput(previous)

	status, resp := ShapeReason(entity.ReasonCode("NOT_A_REAL_REASON"))
	if status != http.StatusInternalServerError || resp.Code != "INTERNAL_SERVER_ERROR" {
		t.Fatalf("unknown reason must render the internal row, got %d %s", status, resp.Code)
	}
	if !strings.Contains(buf.String(), "NOT_A_REAL_REASON") {
		t.Fatal("a table miss must be logged at error level")
	}
}

func TestShapeReasonWithDetails(t *testing.T) {
	_, resp := ShapeReasonWithDetails(entity.ReasonInternalError, "connection reset")
	if resp.Details != "connection reset" {
		t.Fatalf("expected details to be attached, got %q", resp.Details)
	}
}
