package entity

// FaceMatch is one candidate match returned by the face comparison provider,
// ordered by descending similarity.
type FaceMatch struct {
	Similarity float64 `json:"similarity"`
}

type ReasonCode string

const (
	ReasonMissingFiles        ReasonCode = "MISSING_FILES"
	ReasonInvalidFileType     ReasonCode = "INVALID_FILE_TYPE"
	ReasonFileSizeExceeded    ReasonCode = "FILE_SIZE_EXCEEDED"
	ReasonDuplicateUpload     ReasonCode = "DUPLICATE_UPLOAD"
	ReasonNoMatchFound        ReasonCode = "NO_MATCH_FOUND"
	ReasonSameImageDetected   ReasonCode = "SAME_IMAGE_DETECTED"
	ReasonVerificationSuccess ReasonCode = "VERIFICATION_SUCCESS"
	ReasonVerificationFailed  ReasonCode = "VERIFICATION_FAILED"
	ReasonInvalidImage        ReasonCode = "INVALID_IMAGE"
	ReasonFileTooLarge        ReasonCode = "FILE_TOO_LARGE"
	ReasonPermissionDenied    ReasonCode = "AWS_PERMISSION_DENIED"
	ReasonInternalError       ReasonCode = "INTERNAL_SERVER_ERROR"
)

// VerificationOutcome is the product of the decision engine for one request.
// Similarity is rounded to two decimals for display; threshold decisions are
// made on the raw provider value before rounding.
type VerificationOutcome struct {
	Matched    bool
	Similarity float64
	MatchCount int
	Reason     ReasonCode
}
