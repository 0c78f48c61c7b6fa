package export

type ExportRequest struct {
	PatientName string `json:"patient_name" validate:"required,max=256"`
}
