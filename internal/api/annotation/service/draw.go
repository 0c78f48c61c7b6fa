package annotationService

import (
	"image"
	"image/color"
	"math"

	"DentalPlanner/internal/api/annotation"
	"DentalPlanner/internal/entity"
	"github.com/anthonynsimon/bild/clone"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	boxThickness = 2
	labelOffset  = 10
)

var categoryColors = map[entity.Category]color.RGBA{
	entity.CategoryCaries:  mustHex("#00FF00"),
	entity.CategoryMissing: mustHex("#FF0000"),
	entity.CategoryLesion:  mustHex("#FFA500"),
}

func mustHex(hex string) color.RGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		panic(err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// render draws every detection onto a copy of img, regardless of
// confidence, and tallies them per category.
func render(img image.Image, detections []entity.Detection) (*image.RGBA, []entity.AnnotatedDetection, entity.CategoryCounts) {
	canvas := clone.AsRGBA(img)
	bounds := canvas.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	counts := entity.NewCategoryCounts()
	boxes := make([]entity.AnnotatedDetection, 0, len(detections))

	for _, d := range detections {
		box := toPixels(d.Box, width, height)
		box.X1 += bounds.Min.X
		box.X2 += bounds.Min.X
		box.Y1 += bounds.Min.Y
		box.Y2 += bounds.Min.Y
		box = clampBox(box, bounds)

		category := annotation.CategoryFor(d.ClassID)
		col := categoryColors[category]

		drawRect(canvas, box, col)
		drawLabel(canvas, box.X1, box.Y1-labelOffset, annotation.DisplayName(category), col)

		counts[category]++
		boxes = append(boxes, entity.AnnotatedDetection{
			Box:        box,
			Confidence: d.Confidence,
			ClassID:    d.ClassID,
			Category:   category,
		})
	}

	return canvas, boxes, counts
}

// toPixels scales a normalized box to image pixels, truncating toward zero.
// Coordinates outside [0, 1] are pinned to the image edge first.
func toPixels(box [4]float64, width, height int) entity.PixelBox {
	return entity.PixelBox{
		X1: int(unit(box[0]) * float64(width)),
		Y1: int(unit(box[1]) * float64(height)),
		X2: int(unit(box[2]) * float64(width)),
		Y2: int(unit(box[3]) * float64(height)),
	}
}

func unit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, 1)
}

// clampBox keeps every corner on a pixel inside bounds.
func clampBox(box entity.PixelBox, bounds image.Rectangle) entity.PixelBox {
	clampX := func(x int) int { return min(max(x, bounds.Min.X), bounds.Max.X-1) }
	clampY := func(y int) int { return min(max(y, bounds.Min.Y), bounds.Max.Y-1) }

	return entity.PixelBox{
		X1: clampX(box.X1),
		Y1: clampY(box.Y1),
		X2: clampX(box.X2),
		Y2: clampY(box.Y2),
	}
}

func drawRect(img *image.RGBA, box entity.PixelBox, col color.RGBA) {
	x1, x2 := min(box.X1, box.X2), max(box.X1, box.X2)
	y1, y2 := min(box.Y1, box.Y2), max(box.Y1, box.Y2)

	for t := 0; t < boxThickness; t++ {
		for x := x1; x <= x2; x++ {
			img.SetRGBA(x, y1+t, col)
			img.SetRGBA(x, y2-t, col)
		}
		for y := y1; y <= y2; y++ {
			img.SetRGBA(x1+t, y, col)
			img.SetRGBA(x2-t, y, col)
		}
	}
}

// drawLabel writes text with its baseline at y. The baseline is pushed down
// when the label would otherwise leave the top of the image.
func drawLabel(img *image.RGBA, x, y int, text string, col color.RGBA) {
	face := basicfont.Face7x13
	if minY := img.Bounds().Min.Y + face.Ascent; y < minY {
		y = minY
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
