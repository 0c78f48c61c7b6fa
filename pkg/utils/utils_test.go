package utils

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{120, 80, 40, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

func header(name, contentType string, size int64) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &multipart.FileHeader{Filename: name, Header: h, Size: size}
}

func TestValidateImageFile(t *testing.T) {
	u := NewWithLimit(1024)

	tests := []struct {
		name string
		file *multipart.FileHeader
		want error
	}{
		{"nil", nil, ErrNoFile},
		{"png", header("pano.png", "image/png", 100), nil},
		{"jpg upper case", header("PHOTO.JPG", "image/jpeg", 100), nil},
		{"jpeg octet stream", header("photo.jpeg", "application/octet-stream", 100), nil},
		{"gif", header("anim.gif", "image/gif", 100), ErrUnsupportedType},
		{"pdf renamed", header("scan.png", "application/pdf", 100), ErrUnsupportedType},
		{"too large", header("pano.png", "image/png", 2048), ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := u.ValidateImageFile(tt.file)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestOptimizeImage_Downscales(t *testing.T) {
	u := New()
	data := encodePNG(t, 400, 200)

	out, err := u.OptimizeImage(data, 100)
	if err != nil {
		t.Fatalf("OptimizeImage failed: %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if format != "png" {
		t.Errorf("format: got %s, want png", format)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 50 {
		t.Errorf("dimensions: got %dx%d, want 100x50", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestOptimizeImage_WithinBounds(t *testing.T) {
	u := New()
	data := encodePNG(t, 40, 20)

	out, err := u.OptimizeImage(data, 100)
	if err != nil {
		t.Fatalf("OptimizeImage failed: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Error("image within bounds should be returned unchanged")
	}
}

func TestOptimizeImage_Corrupt(t *testing.T) {
	if _, err := New().OptimizeImage([]byte("not an image"), 100); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestNewULIDFromTimestamp(t *testing.T) {
	u := New()
	a, err := u.NewULIDFromTimestamp(time.Now())
	if err != nil {
		t.Fatalf("NewULIDFromTimestamp failed: %v", err)
	}
	b, _ := u.NewULIDFromTimestamp(time.Now())
	if len(a) != 26 || a == b {
		t.Errorf("unexpected ids %q, %q", a, b)
	}
}

func uploadedFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write(content)
	w.Close()

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["image"][0]
}

func TestReadFile(t *testing.T) {
	u := NewWithLimit(8)

	data, err := u.ReadFile(uploadedFile(t, "small.png", []byte("12345678")))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "12345678" {
		t.Errorf("got %q", data)
	}

	if _, err := u.ReadFile(uploadedFile(t, "big.png", []byte("123456789"))); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("got %v, want ErrFileTooLarge", err)
	}
}
