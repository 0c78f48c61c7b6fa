package plan

import "DentalPlanner/internal/entity"

type SectionResponse struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

type PlanResponse struct {
	Data     entity.TreatmentPlan `json:"data"`
	Sections []SectionResponse    `json:"sections"`
}

func NewPlanResponse(p entity.TreatmentPlan) PlanResponse {
	sections := make([]SectionResponse, 0, 4)
	for _, s := range p.Sections() {
		sections = append(sections, SectionResponse{Title: s.Title, Items: s.Items})
	}
	return PlanResponse{Data: p, Sections: sections}
}
