package entity

import (
	"reflect"
	"testing"
)

func TestConsultationGate(t *testing.T) {
	tests := []struct {
		name        string
		c           Consultation
		wantReady   bool
		wantMissing []string
	}{
		{
			name:        "empty session",
			c:           Consultation{},
			wantMissing: []string{RequirementName, RequirementPhotograph, RequirementRadiograph},
		},
		{
			name:        "name only",
			c:           Consultation{Patient: Patient{Name: "Jane Doe"}},
			wantMissing: []string{RequirementPhotograph, RequirementRadiograph},
		},
		{
			name:        "no radiograph",
			c:           Consultation{Patient: Patient{Name: "Jane Doe"}, PhotoCount: 3},
			wantMissing: []string{RequirementRadiograph},
		},
		{
			name:        "no photographs",
			c:           Consultation{Patient: Patient{Name: "Jane Doe"}, HasRadiograph: true},
			wantMissing: []string{RequirementPhotograph},
		},
		{
			name:        "no name",
			c:           Consultation{PhotoCount: 1, HasRadiograph: true},
			wantMissing: []string{RequirementName},
		},
		{
			name:      "complete",
			c:         Consultation{Patient: Patient{Name: "Jane Doe"}, PhotoCount: 1, HasRadiograph: true},
			wantReady: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := tt.c.Gate()
			if gate.Ready != tt.wantReady {
				t.Errorf("Ready: got %v, want %v", gate.Ready, tt.wantReady)
			}
			if !reflect.DeepEqual(gate.Missing, tt.wantMissing) {
				t.Errorf("Missing: got %v, want %v", gate.Missing, tt.wantMissing)
			}
		})
	}
}

func TestCategoryCounts_AllKeysPresent(t *testing.T) {
	counts := NewCategoryCounts()
	for _, c := range Categories {
		n, ok := counts[c]
		if !ok {
			t.Errorf("missing key %q", c)
		}
		if n != 0 {
			t.Errorf("%q: got %d, want 0", c, n)
		}
	}
	if counts.Total() != 0 {
		t.Errorf("Total: got %d, want 0", counts.Total())
	}
}
