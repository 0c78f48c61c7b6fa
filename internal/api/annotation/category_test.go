package annotation

import (
	"testing"

	"DentalPlanner/internal/entity"
)

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		classID int
		want    entity.Category
	}{
		{0, entity.CategoryCaries},
		{1, entity.CategoryMissing},
		{2, entity.CategoryLesion},
		{3, entity.CategoryCaries},
		{4, entity.CategoryMissing},
		{5, entity.CategoryLesion},
		{79, entity.CategoryMissing},
		{-1, entity.CategoryLesion},
	}

	for _, tt := range tests {
		if got := CategoryFor(tt.classID); got != tt.want {
			t.Errorf("CategoryFor(%d): got %q, want %q", tt.classID, got, tt.want)
		}
	}
}

func TestCategoryFor_Deterministic(t *testing.T) {
	for k := 0; k < 300; k++ {
		first := CategoryFor(k)
		for i := 0; i < 3; i++ {
			if got := CategoryFor(k); got != first {
				t.Fatalf("CategoryFor(%d) changed between calls: %q then %q", k, first, got)
			}
		}
		if first != entity.Categories[k%3] {
			t.Fatalf("CategoryFor(%d): got %q, want %q", k, first, entity.Categories[k%3])
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName(entity.CategoryLesion); got != "Lesion" {
		t.Errorf("got %q, want Lesion", got)
	}
}

func TestCaption(t *testing.T) {
	counts := entity.NewCategoryCounts()
	counts[entity.CategoryCaries] = 2
	counts[entity.CategoryLesion] = 1

	want := "Findings: caries=2, missing=0, lesion=1"
	if got := Caption(counts); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
