package entity

// Detection is one raw output of the object-detection model. Box holds
// normalized x1, y1, x2, y2 coordinates in the [0, 1] range.
type Detection struct {
	Box        [4]float64 `json:"box"`
	Confidence float64    `json:"confidence"`
	ClassID    int        `json:"class_id"`
}

type Category string

const (
	CategoryCaries  Category = "caries"
	CategoryMissing Category = "missing"
	CategoryLesion  Category = "lesion"
)

// Categories lists the display categories in class-id order.
var Categories = []Category{CategoryCaries, CategoryMissing, CategoryLesion}

type PixelBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

type AnnotatedDetection struct {
	Box        PixelBox `json:"box"`
	Confidence float64  `json:"confidence"`
	ClassID    int      `json:"class_id"`
	Category   Category `json:"category"`
}

// CategoryCounts always carries a key for every category.
type CategoryCounts map[Category]int

func NewCategoryCounts() CategoryCounts {
	counts := make(CategoryCounts, len(Categories))
	for _, c := range Categories {
		counts[c] = 0
	}
	return counts
}

func (c CategoryCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}
