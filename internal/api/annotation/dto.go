package annotation

import "DentalPlanner/internal/entity"

type AnnotationResult struct {
	Label       string                      `json:"label,omitempty"`
	Width       int                         `json:"width"`
	Height      int                         `json:"height"`
	ImageBase64 string                      `json:"image_base64"`
	MimeType    string                      `json:"mime_type"`
	Detections  []entity.AnnotatedDetection `json:"detections"`
	Counts      entity.CategoryCounts       `json:"counts"`
	Caption     string                      `json:"caption"`
}

type AnnotationResponse struct {
	Data AnnotationResult `json:"data"`
}

type StreamError struct {
	Error string `json:"error"`
}
