package verificationService

import (
	"math"

	"golang.org/x/net/context"

	"github.com/aoypsk8/FaceVerification/internal/entity"
	contextPkg "github.com/aoypsk8/FaceVerification/pkg/context"
	"github.com/aoypsk8/FaceVerification/pkg/log"
)

// VerifyIdentity runs the full verification flow for one pair of uploads:
// duplicate gate, face comparison, then the decision over the match list.
// Every returned error originates from the Rekognition ports; decision logic
// itself never fails.
func (s *verificationService) VerifyIdentity(ctx context.Context, selfie, idDocument []byte) (entity.VerificationOutcome, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.hash.SameContent(selfie, idDocument) {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
		}).Warn("Identical file uploaded for both selfie and id document")
		return entity.VerificationOutcome{Reason: entity.ReasonDuplicateUpload}, nil
	}

	matches, err := s.recognizer.CompareFaces(ctx, selfie, idDocument)
	if err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Face comparison call failed")
		return entity.VerificationOutcome{}, err
	}

	s.log.WithFields(log.Fields{
		"request_id":   requestID,
		"face_matches": len(matches),
	}).Debug("Face comparison completed")

	return s.decide(ctx, matches, selfie, idDocument)
}

// decide turns the ordered match list into a verdict. Branches are evaluated
// in order and the first satisfied one is terminal. Thresholds compare the
// raw similarity; the rounded value is only what the caller sees.
func (s *verificationService) decide(ctx context.Context, matches []entity.FaceMatch, selfie, idDocument []byte) (entity.VerificationOutcome, error) {
	if len(matches) == 0 {
		return entity.VerificationOutcome{Reason: entity.ReasonNoMatchFound}, nil
	}

	similarity := matches[0].Similarity
	matchCount := len(matches)
	rounded := roundSimilarity(similarity)

	if similarity >= s.thresholds.SameImage {
		selfieFaces, documentFaces, err := s.countFacesBoth(ctx, selfie, idDocument)
		if err != nil {
			return entity.VerificationOutcome{}, err
		}

		// A truly identical photo pair scores near 100 with exactly one
		// face on each side. Multi-face scenes at high similarity can be a
		// legitimate match, so they are not flagged.
		if selfieFaces == 1 && documentFaces == 1 && matchCount == 1 {
			s.log.WithFields(log.Fields{
				"request_id": contextPkg.GetRequestID(ctx),
				"similarity": rounded,
			}).Warn("Same image suspected for both uploads")
			return entity.VerificationOutcome{
				Similarity: rounded,
				MatchCount: matchCount,
				Reason:     entity.ReasonSameImageDetected,
			}, nil
		}
	}

	outcome := entity.VerificationOutcome{
		Matched:    similarity >= s.thresholds.Match,
		Similarity: rounded,
		MatchCount: matchCount,
	}
	if outcome.Matched {
		outcome.Reason = entity.ReasonVerificationSuccess
	} else {
		outcome.Reason = entity.ReasonVerificationFailed
	}

	return outcome, nil
}

type faceCount struct {
	count int
	err   error
}

// countFacesBoth issues the two detection calls concurrently and joins on
// both. Either failure fails the request, there is no partial result.
func (s *verificationService) countFacesBoth(ctx context.Context, selfie, idDocument []byte) (int, int, error) {
	selfieCh := make(chan faceCount, 1)
	documentCh := make(chan faceCount, 1)

	go func() {
		n, err := s.recognizer.CountFaces(ctx, selfie)
		selfieCh <- faceCount{count: n, err: err}
	}()
	go func() {
		n, err := s.recognizer.CountFaces(ctx, idDocument)
		documentCh <- faceCount{count: n, err: err}
	}()

	selfieResult := <-selfieCh
	documentResult := <-documentCh

	if selfieResult.err != nil {
		return 0, 0, selfieResult.err
	}
	if documentResult.err != nil {
		return 0, 0, documentResult.err
	}

	return selfieResult.count, documentResult.count, nil
}

// roundSimilarity rounds half-up to two decimal places for display.
func roundSimilarity(v float64) float64 {
	return math.Round(v*100) / 100
}
