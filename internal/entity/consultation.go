package entity

import "time"

const (
	RequirementName       = "name"
	RequirementPhotograph = "photograph"
	RequirementRadiograph = "radiograph"
)

// Consultation is the server side of one form session. It lives only as
// long as its session key and is never written anywhere else.
type Consultation struct {
	ID            string    `json:"id"`
	Patient       Patient   `json:"patient"`
	PhotoCount    int       `json:"photo_count"`
	HasRadiograph bool      `json:"has_radiograph"`
	Approved      *bool     `json:"approved,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Gate struct {
	Ready   bool     `json:"ready"`
	Missing []string `json:"missing,omitempty"`
}

// Gate reports whether analysis, plan, export and approval are available:
// a patient name, at least one photograph and the radiograph must be present.
func (c Consultation) Gate() Gate {
	var missing []string
	if c.Patient.Name == "" {
		missing = append(missing, RequirementName)
	}
	if c.PhotoCount < 1 {
		missing = append(missing, RequirementPhotograph)
	}
	if !c.HasRadiograph {
		missing = append(missing, RequirementRadiograph)
	}

	return Gate{
		Ready:   len(missing) == 0,
		Missing: missing,
	}
}
