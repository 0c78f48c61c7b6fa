package annotationHandler

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"DentalPlanner/internal/api/annotation"
	annotationService "DentalPlanner/internal/api/annotation/service"
	"DentalPlanner/internal/entity"
	"DentalPlanner/internal/middleware"
	"DentalPlanner/pkg/detector"
	"DentalPlanner/pkg/utils"
	"github.com/gofiber/fiber/v2"
	gorillaws "github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"golang.org/x/time/rate"
)

type fakeDetector struct {
	detections []entity.Detection
	err        error
}

func (f *fakeDetector) Detect(context.Context, []byte) ([]entity.Detection, error) {
	return f.detections, f.err
}

func (f *fakeDetector) Close() error { return nil }

func newTestApp(det detector.IDetector) *fiber.App {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	u := utils.New()
	mw := middleware.NewWithLimits(logger, rate.Inf, 1)
	h := New(logger, mw, annotationService.NewAnnotationService(logger, det, u), u)

	app := fiber.New(fiber.Config{
		StrictRouting: true,
		JSONEncoder:   jsoniter.Marshal,
		JSONDecoder:   jsoniter.Unmarshal,
	})
	app.Use(mw.NewRequestIDMiddleware())
	h.Start(app.Group("/api/v1"))
	return app
}

func imageUpload(t *testing.T, field, name string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write(content)
	w.Close()

	req := httptest.NewRequest("POST", "/api/v1/annotations", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func pngImage(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 20, 10))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestAnnotateImage(t *testing.T) {
	app := newTestApp(&fakeDetector{detections: []entity.Detection{
		{Box: [4]float64{0.1, 0.1, 0.9, 0.9}, Confidence: 0.8, ClassID: 5},
	}})

	resp, err := app.Test(imageUpload(t, "image", "molar.png", pngImage(t)), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("got %d: %s", resp.StatusCode, body)
	}

	var out annotation.AnnotationResponse
	if err := jsoniter.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Data.Label != "molar.png" {
		t.Errorf("label: got %q", out.Data.Label)
	}
	if out.Data.Counts[entity.CategoryLesion] != 1 {
		t.Errorf("counts: got %v", out.Data.Counts)
	}
	if out.Data.Width != 20 || out.Data.Height != 10 {
		t.Errorf("size: got %dx%d", out.Data.Width, out.Data.Height)
	}
}

func TestAnnotateImageErrors(t *testing.T) {
	tests := []struct {
		name     string
		detector *fakeDetector
		field    string
		file     string
		content  []byte
		want     int
	}{
		{name: "missing field", detector: &fakeDetector{}, field: "other", file: "a.png", content: []byte("x"), want: fiber.StatusBadRequest},
		{name: "wrong extension", detector: &fakeDetector{}, field: "image", file: "scan.gif", content: []byte("x"), want: fiber.StatusBadRequest},
		{name: "undecodable", detector: &fakeDetector{}, field: "image", file: "scan.png", content: []byte("not an image"), want: fiber.StatusBadRequest},
		{name: "detector down", detector: &fakeDetector{err: detector.ErrUnavailable}, field: "image", file: "scan.png", want: fiber.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := tt.content
			if content == nil {
				content = pngImage(t)
			}

			resp, err := newTestApp(tt.detector).Test(imageUpload(t, tt.field, tt.file, content), -1)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("got %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

// startWSServer serves the annotation routes on a loopback port and returns
// the websocket URL together with a hook recording every log entry.
func startWSServer(t *testing.T, det detector.IDetector, reqRate rate.Limit, burst int, maxUpload int64) (string, *logtest.Hook) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	hook := logtest.NewLocal(logger)

	u := utils.NewWithLimit(maxUpload)
	mw := middleware.NewWithLimits(logger, reqRate, burst)
	h := New(logger, mw, annotationService.NewAnnotationService(logger, det, u), u)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(mw.NewRequestIDMiddleware())
	h.Start(app.Group("/api/v1"))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go app.Listener(ln)
	t.Cleanup(func() { app.Shutdown() })

	return "ws://" + ln.Addr().String() + "/api/v1/annotations/ws", hook
}

func dialWS(t *testing.T, url string, header http.Header) *gorillaws.Conn {
	t.Helper()

	conn, resp, err := gorillaws.DefaultDialer.Dial(url, header)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("dial failed (status %d): %v", status, err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	return conn
}

func TestAnnotationWebSocket(t *testing.T) {
	url, hook := startWSServer(t, &fakeDetector{detections: []entity.Detection{
		{Box: [4]float64{0.1, 0.1, 0.9, 0.9}, Confidence: 0.8, ClassID: 0},
	}}, rate.Inf, 1, 1<<20)

	conn := dialWS(t, url, http.Header{"X-Request-ID": {"ws-trace-1"}})

	if err := conn.WriteMessage(gorillaws.BinaryMessage, pngImage(t)); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	var result annotation.AnnotationResult
	if err := conn.ReadJSON(&result); err != nil {
		t.Fatalf("read result: %v", err)
	}
	if result.Width != 20 || result.Height != 10 {
		t.Errorf("size: got %dx%d", result.Width, result.Height)
	}
	if result.Counts[entity.CategoryCaries] != 1 {
		t.Errorf("counts: got %v", result.Counts)
	}

	if err := conn.WriteMessage(gorillaws.BinaryMessage, []byte("not an image")); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	var streamErr annotation.StreamError
	if err := conn.ReadJSON(&streamErr); err != nil {
		t.Fatalf("read error reply: %v", err)
	}
	if streamErr.Error == "" {
		t.Error("undecodable frame should be reported in-band")
	}

	annotated := false
	for _, e := range hook.AllEntries() {
		if e.Message == "Image annotated" {
			annotated = true
			if e.Data["request_id"] != "ws-trace-1" {
				t.Errorf("service log request_id: got %v, want ws-trace-1", e.Data["request_id"])
			}
		}
	}
	if !annotated {
		t.Error("no annotation was logged")
	}
}

func TestAnnotationWebSocketRejectsOversizedFrame(t *testing.T) {
	url, _ := startWSServer(t, &fakeDetector{}, rate.Inf, 1, 1024)
	conn := dialWS(t, url, nil)

	if err := conn.WriteMessage(gorillaws.BinaryMessage, make([]byte, 4096)); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	_, _, err := conn.ReadMessage()
	if err == nil {
		t.Fatal("oversized frame was accepted")
	}
	var closeErr *gorillaws.CloseError
	if errors.As(err, &closeErr) && closeErr.Code != gorillaws.CloseMessageTooBig {
		t.Errorf("close code: got %d, want %d", closeErr.Code, gorillaws.CloseMessageTooBig)
	}
}

func TestAnnotationWebSocketRateLimited(t *testing.T) {
	url, _ := startWSServer(t, &fakeDetector{}, 0.001, 2, 1<<20)

	// The upgrade takes the first token and the first frame the second.
	conn := dialWS(t, url, nil)

	conn.WriteMessage(gorillaws.BinaryMessage, pngImage(t))
	var result annotation.AnnotationResult
	if err := conn.ReadJSON(&result); err != nil {
		t.Fatalf("read result: %v", err)
	}
	if result.Width != 20 {
		t.Fatalf("first frame was not annotated: %+v", result)
	}

	conn.WriteMessage(gorillaws.BinaryMessage, pngImage(t))
	var streamErr annotation.StreamError
	if err := conn.ReadJSON(&streamErr); err != nil {
		t.Fatalf("read error reply: %v", err)
	}
	if streamErr.Error != middleware.ErrTooManyRequests.Error() {
		t.Errorf("got %q, want %q", streamErr.Error, middleware.ErrTooManyRequests.Error())
	}

	_, resp, err := gorillaws.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("upgrade should be refused once the bucket is empty")
	}
	if resp == nil || resp.StatusCode != fiber.StatusTooManyRequests {
		t.Errorf("upgrade status: got %v, want 429", resp)
	}
}
