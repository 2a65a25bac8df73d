package verificationService

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/aoypsk8/FaceVerification/internal/entity"
	"github.com/aoypsk8/FaceVerification/pkg/hash"
	"github.com/aoypsk8/FaceVerification/pkg/rekognition"
)

type IVerificationService interface {
	VerifyIdentity(ctx context.Context, selfie, idDocument []byte) (entity.VerificationOutcome, error)
}

// Thresholds hold the decision constants. They are injected so tests and
// alternative deployments can tune them without touching the engine.
type Thresholds struct {
	// Match is the minimum similarity to declare a positive identity match.
	Match float64
	// SameImage is the similarity above which both uploads are suspected to
	// be the same photograph.
	SameImage float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Match:     90.0,
		SameImage: 98.0,
	}
}

type verificationService struct {
	log        *logrus.Logger
	recognizer rekognition.IRekognition
	hash       hash.IHash
	thresholds Thresholds
}

func New(
	log *logrus.Logger,
	recognizer rekognition.IRekognition,
	hashUtil hash.IHash,
	thresholds Thresholds,
) IVerificationService {
	return &verificationService{
		log:        log,
		recognizer: recognizer,
		hash:       hashUtil,
		thresholds: thresholds,
	}
}
