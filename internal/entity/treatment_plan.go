package entity

type TreatmentPlan struct {
	Surgical   []string `json:"surgical_phase"`
	Control    []string `json:"control_phase"`
	Prosthetic []string `json:"prosthetic_phase"`
	Timeline   []string `json:"estimated_timeline"`
}

type PlanSection struct {
	Title string
	Items []string
}

// Sections returns the plan phases in presentation order.
func (p TreatmentPlan) Sections() []PlanSection {
	return []PlanSection{
		{Title: "Surgical Phase", Items: p.Surgical},
		{Title: "Control Phase", Items: p.Control},
		{Title: "Prosthetic Phase", Items: p.Prosthetic},
		{Title: "Estimated Timeline", Items: p.Timeline},
	}
}

func (p TreatmentPlan) ItemCount() int {
	return len(p.Surgical) + len(p.Control) + len(p.Prosthetic) + len(p.Timeline)
}
