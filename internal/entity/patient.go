package entity

type Patient struct {
	Name           string `json:"name"`
	Age            int    `json:"age"`
	ChiefComplaint string `json:"chief_complaint"`
}
