package annotation

import (
	"DentalPlanner/pkg/response"
	"net/http"
)

var (
	ErrInvalidImage        = response.NewError(http.StatusBadRequest, "image could not be decoded")
	ErrDetectorUnavailable = response.NewError(http.StatusBadGateway, "detector unavailable")
	ErrDetectionFailed     = response.NewError(http.StatusBadGateway, "detector returned an invalid result")
	ErrEncodeImage         = response.NewError(http.StatusInternalServerError, "failed to encode annotated image")
)
