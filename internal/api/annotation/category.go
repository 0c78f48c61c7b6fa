package annotation

import (
	"fmt"
	"strings"

	"DentalPlanner/internal/entity"
)

// CategoryFor maps a detector class id onto a display category by
// class id modulo 3. The detector's label space has no dental meaning;
// this is a stand-in until a purpose-built classifier exists.
func CategoryFor(classID int) entity.Category {
	return entity.Categories[((classID%3)+3)%3]
}

// DisplayName is the label drawn next to a box, e.g. "Caries".
func DisplayName(c entity.Category) string {
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Caption renders counts as "Findings: caries=N, missing=N, lesion=N".
func Caption(counts entity.CategoryCounts) string {
	parts := make([]string, 0, len(entity.Categories))
	for _, c := range entity.Categories {
		parts = append(parts, fmt.Sprintf("%s=%d", c, counts[c]))
	}
	return "Findings: " + strings.Join(parts, ", ")
}
