package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"DentalPlanner/internal/entity"
	"DentalPlanner/pkg/detector"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const detectionPrompt = `
Detect every distinct object in this image.
Return ONLY a JSON object, without any additional text, in this format:
{
	"detections": [
		{"box": [x1, y1, x2, y2], "confidence": 0.87, "class_id": 0}
	]
}
Coordinates are normalized to the range 0..1 relative to image width and height,
(x1, y1) is the top-left corner and (x2, y2) the bottom-right corner.
class_id is the index of the object class in the COCO label set.
If nothing is found return {"detections": []}.
`

type geminiClient struct {
	modelName string
	client    *genai.Client
}

func New() (detector.IDetector, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	modelName := os.Getenv("GEMINI_MODEL_NAME")
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &geminiClient{
		modelName: modelName,
		client:    client,
	}, nil
}

func (g *geminiClient) Detect(ctx context.Context, image []byte) ([]entity.Detection, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.ResponseMIMEType = "application/json"

	res, err := model.GenerateContent(ctx, genai.Text(detectionPrompt), genai.ImageData(imageFormat(image), image))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", detector.ErrUnavailable, err)
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: no response from Gemini API", detector.ErrUnavailable)
	}

	text, ok := res.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, errors.New("unexpected response format from Gemini API")
	}

	return parseDetections(string(text))
}

func (g *geminiClient) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// parseDetections extracts the JSON object from a model reply, tolerating
// surrounding prose or code fences, and clamps boxes into [0, 1].
func parseDetections(reply string) ([]entity.Detection, error) {
	jsonStart := strings.Index(reply, "{")
	jsonEnd := strings.LastIndex(reply, "}")

	if jsonStart == -1 || jsonEnd == -1 || jsonEnd <= jsonStart {
		return nil, errors.New("cannot find valid JSON in response")
	}

	var resp detector.Response
	if err := json.Unmarshal([]byte(reply[jsonStart:jsonEnd+1]), &resp); err != nil {
		return nil, fmt.Errorf("decode detections: %w", err)
	}

	for i := range resp.Detections {
		for j, v := range resp.Detections[i].Box {
			resp.Detections[i].Box[j] = min(max(v, 0), 1)
		}
	}

	return resp.Detections, nil
}

// imageFormat returns the genai format name ("png", "jpeg") for data.
func imageFormat(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return "png"
	default:
		return "jpeg"
	}
}
