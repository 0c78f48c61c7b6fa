package planService

import (
	"slices"

	"DentalPlanner/internal/entity"
)

var (
	surgicalPhase = []string{
		"Extraction of non-restorable teeth.",
		"Surgical removal of impacted teeth if any.",
		"Ridge preservation grafting if needed.",
	}

	controlPhase = []string{
		"Full mouth scaling and root planing.",
		"Endodontic treatments for teeth with periapical lesions or deep caries.",
		"Temporary restorations where needed.",
	}

	prostheticPhase = []string{
		"Definitive crowns for structurally compromised teeth.",
		"Implant planning for missing teeth sites.",
		"Removable partial denture if implants are not an option.",
	}

	estimatedTimeline = []string{
		"Month 1-2: Initial therapy and extractions.",
		"Month 2-4: Healing and endodontic treatment.",
		"Month 4-6: Implant placement (if applicable).",
		"Month 7-9: Final prosthetic rehabilitation.",
	}
)

type IPlanService interface {
	Plan() entity.TreatmentPlan
}

type planService struct{}

func NewPlanService() IPlanService {
	return &planService{}
}

// Plan returns the standard treatment plan. It does not depend on the
// patient or on analysis findings; each call returns an independent copy.
func (s *planService) Plan() entity.TreatmentPlan {
	return entity.TreatmentPlan{
		Surgical:   slices.Clone(surgicalPhase),
		Control:    slices.Clone(controlPhase),
		Prosthetic: slices.Clone(prostheticPhase),
		Timeline:   slices.Clone(estimatedTimeline),
	}
}
