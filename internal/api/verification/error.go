package verification

import (
	"net/http"

	"github.com/aoypsk8/FaceVerification/pkg/response"
)

var (
	ErrMissingFiles = response.NewError(http.StatusBadRequest, "both selfie and id document are required")
)
