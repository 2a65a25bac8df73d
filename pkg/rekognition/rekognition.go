package rekognition

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/rekognition"
	"golang.org/x/net/context"

	"github.com/aoypsk8/FaceVerification/internal/entity"
)

// Typed failures surfaced by the Rekognition adapter. The service and
// handler layers switch on these instead of inspecting AWS error strings.
var (
	ErrInvalidImage     = errors.New("invalid image or no detectable face")
	ErrImageTooLarge    = errors.New("image too large for analysis")
	ErrPermissionDenied = errors.New("no permission to call rekognition")
	ErrThrottled        = errors.New("rekognition request throttled")
)

type IRekognition interface {
	CompareFaces(ctx context.Context, source, target []byte) ([]entity.FaceMatch, error)
	CountFaces(ctx context.Context, image []byte) (int, error)
}

type rekognitionClient struct {
	client              *rekognition.Rekognition
	similarityThreshold float64
}

const defaultSimilarityThreshold = 90.0

func New() (IRekognition, error) {
	sess, err := newSession()
	if err != nil {
		return nil, err
	}

	threshold := defaultSimilarityThreshold
	if raw := os.Getenv("REKOGNITION_SIMILARITY_THRESHOLD"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid REKOGNITION_SIMILARITY_THRESHOLD: %w", err)
		}
		threshold = parsed
	}

	return &rekognitionClient{
		client:              rekognition.New(sess),
		similarityThreshold: threshold,
	}, nil
}

// CompareFaces sends both image buffers to Rekognition and returns the
// candidate matches ordered by descending similarity, as the API guarantees.
func (c *rekognitionClient) CompareFaces(ctx context.Context, source, target []byte) ([]entity.FaceMatch, error) {
	output, err := c.client.CompareFacesWithContext(ctx, &rekognition.CompareFacesInput{
		SourceImage:         &rekognition.Image{Bytes: source},
		TargetImage:         &rekognition.Image{Bytes: target},
		SimilarityThreshold: aws.Float64(c.similarityThreshold),
	})
	if err != nil {
		return nil, translateError(err)
	}

	matches := make([]entity.FaceMatch, 0, len(output.FaceMatches))
	for _, match := range output.FaceMatches {
		matches = append(matches, entity.FaceMatch{
			Similarity: aws.Float64Value(match.Similarity),
		})
	}

	return matches, nil
}

// CountFaces returns how many distinct faces Rekognition detects in the image.
func (c *rekognitionClient) CountFaces(ctx context.Context, image []byte) (int, error) {
	output, err := c.client.DetectFacesWithContext(ctx, &rekognition.DetectFacesInput{
		Image:      &rekognition.Image{Bytes: image},
		Attributes: []*string{aws.String(rekognition.AttributeDefault)},
	})
	if err != nil {
		return 0, translateError(err)
	}

	return len(output.FaceDetails), nil
}

// translateError re-expresses dynamic AWS SDK errors as the closed failure
// set above. Unrecognized errors pass through unchanged.
func translateError(err error) error {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return err
	}

	switch aerr.Code() {
	case rekognition.ErrCodeInvalidParameterException, rekognition.ErrCodeInvalidImageFormatException:
		return fmt.Errorf("%w: %s", ErrInvalidImage, aerr.Message())
	case rekognition.ErrCodeImageTooLargeException:
		return fmt.Errorf("%w: %s", ErrImageTooLarge, aerr.Message())
	case rekognition.ErrCodeAccessDeniedException:
		return fmt.Errorf("%w: %s", ErrPermissionDenied, aerr.Message())
	case rekognition.ErrCodeThrottlingException, rekognition.ErrCodeProvisionedThroughputExceededException:
		return fmt.Errorf("%w: %s", ErrThrottled, aerr.Message())
	}

	return err
}

func newSession() (*session.Session, error) {
	region := os.Getenv("AWS_REGION")
	accessKeyID := os.Getenv("AWS_ACCESS_KEY_ID")
	secretAccessKey := os.Getenv("AWS_SECRET_ACCESS_KEY")

	if region == "" || accessKeyID == "" || secretAccessKey == "" {
		return nil, errors.New("AWS credentials are incomplete, set AWS_REGION, AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY")
	}

	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewStaticCredentials(accessKeyID, secretAccessKey, ""),
	})
	if err != nil {
		return nil, err
	}

	return sess, nil
}
