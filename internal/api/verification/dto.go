package verification

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aoypsk8/FaceVerification/internal/entity"
)

type VerifyBase64Request struct {
	SelfieBase64     string `json:"selfie_base64" validate:"required"`
	IDDocumentBase64 string `json:"id_document_base64" validate:"required"`
}

// VerifyResponse is the fixed envelope returned by the verify endpoint,
// identical in shape for verdicts and failures.
type VerifyResponse struct {
	Success     bool        `json:"success"`
	Status      string      `json:"status"`
	Code        string      `json:"code"`
	Date        string      `json:"date"`
	Similarity  float64     `json:"similarity"`
	Message     string      `json:"message"`
	FaceMatches int         `json:"faceMatches"`
	Data        *VerifyData `json:"data"`
	Details     string      `json:"details,omitempty"`
}

type VerifyData struct {
	Similarity  float64 `json:"similarity"`
	FaceMatches int     `json:"faceMatches"`
}

type verdictRow struct {
	httpStatus int
	code       string
	message    string
	withData   bool
}

// verdictTable is the single mapping from reason codes to the external
// contract. Every reason the engine or the request boundary can produce
// must have a row here.
var verdictTable = map[entity.ReasonCode]verdictRow{
	entity.ReasonMissingFiles: {
		httpStatus: http.StatusBadRequest,
		code:       "VALIDATION_ERROR",
		message:    "Please upload both Selfie and ID/Passport",
	},
	entity.ReasonInvalidFileType: {
		httpStatus: http.StatusBadRequest,
		code:       "VALIDATION_ERROR",
		message:    "Please upload image files only",
	},
	entity.ReasonFileSizeExceeded: {
		httpStatus: http.StatusBadRequest,
		code:       "FILE_SIZE_EXCEEDED",
		message:    "Image file size exceeds 5MB",
	},
	entity.ReasonDuplicateUpload: {
		httpStatus: http.StatusBadRequest,
		code:       "VALIDATION_ERROR",
		message:    "Please upload different files - Cannot use the same file for both Selfie and ID/Passport",
	},
	entity.ReasonNoMatchFound: {
		httpStatus: http.StatusOK,
		code:       "NO_MATCH_FOUND",
		message:    "No matching faces found",
	},
	entity.ReasonSameImageDetected: {
		httpStatus: http.StatusBadRequest,
		code:       "SAME_IMAGE_DETECTED",
		message:    "Please upload different images - The uploaded images may be the same image taken with different cameras",
	},
	entity.ReasonVerificationSuccess: {
		httpStatus: http.StatusOK,
		code:       "VERIFICATION_SUCCESS",
		message:    "Identity verification successful - Faces match",
		withData:   true,
	},
	entity.ReasonVerificationFailed: {
		httpStatus: http.StatusOK,
		code:       "VERIFICATION_FAILED",
		message:    "Identity verification failed - Faces do not match",
		withData:   true,
	},
	entity.ReasonInvalidImage: {
		httpStatus: http.StatusBadRequest,
		code:       "INVALID_IMAGE",
		message:    "Invalid image or no face detected in image. Please try again",
	},
	entity.ReasonFileTooLarge: {
		httpStatus: http.StatusBadRequest,
		code:       "FILE_TOO_LARGE",
		message:    "Image file is too large. Please reduce file size",
	},
	entity.ReasonPermissionDenied: {
		httpStatus: http.StatusForbidden,
		code:       "AWS_PERMISSION_DENIED",
		message:    "No permission to access AWS Rekognition API. Please check IAM permissions",
	},
	entity.ReasonInternalError: {
		httpStatus: http.StatusInternalServerError,
		code:       "INTERNAL_SERVER_ERROR",
		message:    "An error occurred during face verification. Please try again",
	},
}

// ShapeOutcome renders an engine outcome into the response envelope.
func ShapeOutcome(outcome entity.VerificationOutcome) (int, VerifyResponse) {
	row := rowFor(outcome.Reason)

	resp := VerifyResponse{
		Success:     row.code == string(entity.ReasonVerificationSuccess),
		Status:      statusLabel(row.code),
		Code:        row.code,
		Date:        time.Now().UTC().Format(time.RFC3339),
		Similarity:  outcome.Similarity,
		Message:     row.message,
		FaceMatches: outcome.MatchCount,
	}

	if row.withData {
		resp.Data = &VerifyData{
			Similarity:  outcome.Similarity,
			FaceMatches: outcome.MatchCount,
		}
	}

	return row.httpStatus, resp
}

// ShapeReason renders a failure that carries no similarity information.
func ShapeReason(reason entity.ReasonCode) (int, VerifyResponse) {
	return ShapeOutcome(entity.VerificationOutcome{Reason: reason})
}

// ShapeReasonWithDetails adds internal detail to the envelope. Callers only
// use it outside production mode.
func ShapeReasonWithDetails(reason entity.ReasonCode, details string) (int, VerifyResponse) {
	status, resp := ShapeReason(reason)
	resp.Details = details
	return status, resp
}

// rowFor is total: a reason without a row is a programming error and is
// rendered as an internal failure instead of crashing the request.
func rowFor(reason entity.ReasonCode) verdictRow {
	if row, ok := verdictTable[reason]; ok {
		return row
	}
	logrus.WithField("reason", string(reason)).Error("No response row for reason code")
	return verdictTable[entity.ReasonInternalError]
}

func statusLabel(code string) string {
	if code == string(entity.ReasonVerificationSuccess) || code == string(entity.ReasonVerificationFailed) {
		return "success"
	}
	return "error"
}
