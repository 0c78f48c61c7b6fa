package entity

import "time"

// UploadedImage is an image held for the lifetime of a consultation.
type UploadedImage struct {
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Data        []byte    `json:"data"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
