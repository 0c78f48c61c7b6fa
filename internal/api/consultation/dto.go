package consultation

import (
	"DentalPlanner/internal/api/annotation"
	"DentalPlanner/internal/entity"
)

const (
	MessageReady            = "All necessary files uploaded!"
	MessageIncomplete       = "Please enter the patient name and upload at least one photograph and the radiograph."
	MessageApproved         = "Thank you! Proceeding to schedule clinical appointments."
	MessageNotApproved      = "Please consult the dentist for alternative options."
	MessageConsultationEnds = "Consultation closed"
)

type PatientRequest struct {
	Name           string `json:"name" validate:"max=256"`
	Age            int    `json:"age" validate:"required,min=1,max=120"`
	ChiefComplaint string `json:"chief_complaint" validate:"max=2000"`
}

type ApprovalRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

type ConsultationStatus struct {
	entity.Consultation
	Gate    entity.Gate `json:"gate"`
	Message string      `json:"message"`
}

type ConsultationResponse struct {
	Data ConsultationStatus `json:"data"`
}

type AnalysisResponse struct {
	Data []annotation.AnnotationResult `json:"data"`
}

type ApprovalResult struct {
	Approved bool   `json:"approved"`
	Message  string `json:"message"`
}

type ApprovalResponse struct {
	Data ApprovalResult `json:"data"`
}

// NewConsultationStatus pairs a consultation with its gate and the
// message shown to the user for it.
func NewConsultationStatus(c entity.Consultation) ConsultationStatus {
	gate := c.Gate()
	message := MessageIncomplete
	if gate.Ready {
		message = MessageReady
	}

	return ConsultationStatus{
		Consultation: c,
		Gate:         gate,
		Message:      message,
	}
}

func ApprovalMessage(approved bool) string {
	if approved {
		return MessageApproved
	}
	return MessageNotApproved
}
