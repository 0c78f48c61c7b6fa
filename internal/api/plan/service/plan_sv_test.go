package planService

import (
	"reflect"
	"testing"
)

func TestPlan_Constant(t *testing.T) {
	svc := NewPlanService()
	first := svc.Plan()

	for i := 0; i < 5; i++ {
		if got := svc.Plan(); !reflect.DeepEqual(got, first) {
			t.Fatalf("call %d returned a different plan", i)
		}
	}

	if len(first.Surgical) != 3 || len(first.Control) != 3 || len(first.Prosthetic) != 3 || len(first.Timeline) != 4 {
		t.Errorf("section sizes: got %d/%d/%d/%d, want 3/3/3/4",
			len(first.Surgical), len(first.Control), len(first.Prosthetic), len(first.Timeline))
	}
	if first.ItemCount() != 13 {
		t.Errorf("ItemCount: got %d, want 13", first.ItemCount())
	}
	if first.Timeline[3] != "Month 7-9: Final prosthetic rehabilitation." {
		t.Errorf("last timeline entry: got %q", first.Timeline[3])
	}
}

func TestPlan_CopiesAreIndependent(t *testing.T) {
	svc := NewPlanService()

	p := svc.Plan()
	p.Surgical[0] = "changed"
	p.Timeline = append(p.Timeline, "Month 10: extra")

	fresh := svc.Plan()
	if fresh.Surgical[0] != "Extraction of non-restorable teeth." {
		t.Errorf("constant mutated through a returned copy: %q", fresh.Surgical[0])
	}
	if len(fresh.Timeline) != 4 {
		t.Errorf("timeline length: got %d, want 4", len(fresh.Timeline))
	}
}

func TestPlan_SectionOrder(t *testing.T) {
	sections := NewPlanService().Plan().Sections()

	want := []string{"Surgical Phase", "Control Phase", "Prosthetic Phase", "Estimated Timeline"}
	if len(sections) != len(want) {
		t.Fatalf("got %d sections, want %d", len(sections), len(want))
	}
	for i, s := range sections {
		if s.Title != want[i] {
			t.Errorf("section %d: got %q, want %q", i, s.Title, want[i])
		}
	}
}
