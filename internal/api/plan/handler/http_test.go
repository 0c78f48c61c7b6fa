package planHandler

import (
	"io"
	"net/http/httptest"
	"testing"

	"DentalPlanner/internal/api/plan"
	planService "DentalPlanner/internal/api/plan/service"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

func TestGetPlan(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app := fiber.New()
	New(logger, planService.NewPlanService()).Start(app.Group("/api/v1"))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/plan", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("got %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var out plan.PlanResponse
	if err := jsoniter.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	wantTitles := []string{"Surgical Phase", "Control Phase", "Prosthetic Phase", "Estimated Timeline"}
	if len(out.Sections) != len(wantTitles) {
		t.Fatalf("sections: got %d", len(out.Sections))
	}
	for i, title := range wantTitles {
		if out.Sections[i].Title != title {
			t.Errorf("section %d: got %q, want %q", i, out.Sections[i].Title, title)
		}
	}
	if got := out.Data.Timeline[3]; got != "Month 7-9: Final prosthetic rehabilitation." {
		t.Errorf("last timeline item: got %q", got)
	}
}
