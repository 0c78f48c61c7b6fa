package consultation

import (
	"net/http"

	"DentalPlanner/pkg/response"
)

var (
	ErrConsultationNotFound   = response.NewError(http.StatusNotFound, "consultation not found or expired")
	ErrConsultationIncomplete = response.NewError(http.StatusPreconditionFailed, "consultation is incomplete")
	ErrNoPhotos               = response.NewError(http.StatusBadRequest, "at least one photograph is required")
	ErrTooManyPhotos          = response.NewError(http.StatusBadRequest, "too many photographs for one consultation")
	ErrNoRadiograph           = response.NewError(http.StatusBadRequest, "exactly one radiograph is required")
	ErrSessionStore           = response.NewError(http.StatusInternalServerError, "failed to access consultation session")
)
