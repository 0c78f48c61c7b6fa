package gemini

import "testing"

func TestParseDetections(t *testing.T) {
	reply := "```json\n{\"detections\": [{\"box\": [0.1, -0.2, 1.3, 0.5], \"confidence\": 0.8, \"class_id\": 4}]}\n```"

	dets, err := parseDetections(reply)
	if err != nil {
		t.Fatalf("parseDetections failed: %v", err)
	}
	if len(dets) != 1 {
		t.Fatalf("got %d detections, want 1", len(dets))
	}

	want := [4]float64{0.1, 0, 1, 0.5}
	if dets[0].Box != want {
		t.Errorf("box: got %v, want %v", dets[0].Box, want)
	}
	if dets[0].ClassID != 4 {
		t.Errorf("class id: got %d, want 4", dets[0].ClassID)
	}
}

func TestParseDetections_Empty(t *testing.T) {
	dets, err := parseDetections(`{"detections": []}`)
	if err != nil {
		t.Fatalf("parseDetections failed: %v", err)
	}
	if len(dets) != 0 {
		t.Errorf("got %d detections, want 0", len(dets))
	}
}

func TestParseDetections_NoJSON(t *testing.T) {
	if _, err := parseDetections("I cannot see any teeth."); err == nil {
		t.Fatal("expected error when reply carries no JSON")
	}
}

func TestImageFormat(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	if got := imageFormat(png); got != "png" {
		t.Errorf("png: got %q", got)
	}
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	if got := imageFormat(jpeg); got != "jpeg" {
		t.Errorf("jpeg: got %q", got)
	}
}
