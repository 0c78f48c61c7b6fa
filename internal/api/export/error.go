package export

import (
	"DentalPlanner/pkg/response"
	"net/http"
)

var (
	ErrExportFailed      = response.NewError(http.StatusInternalServerError, "failed to export treatment plan")
	ErrPatientNameNeeded = response.NewError(http.StatusBadRequest, "patient name is required")
)
