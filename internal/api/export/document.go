package export

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"DentalPlanner/internal/entity"
)

const (
	fileNamePrefix = "treatment_plan_"
	fileNameSuffix = ".pdf"

	// MaxFileNameBytes is the longest name common filesystems accept.
	MaxFileNameBytes = 255
)

// FileName derives the download name from the patient name, replacing
// whitespace and path separators with underscores:
// "Jane Doe" becomes "treatment_plan_Jane_Doe.pdf". Long names are cut on
// a rune boundary so the result never exceeds MaxFileNameBytes.
func FileName(patientName string) string {
	sanitized := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, patientName)

	budget := MaxFileNameBytes - len(fileNamePrefix) - len(fileNameSuffix)
	if len(sanitized) > budget {
		cut := 0
		for cut < len(sanitized) {
			_, size := utf8.DecodeRuneInString(sanitized[cut:])
			if cut+size > budget {
				break
			}
			cut += size
		}
		sanitized = sanitized[:cut]
	}

	return fileNamePrefix + sanitized + fileNameSuffix
}

// Title is the heading line of the exported document.
func Title(patientName string) string {
	return "Dental Treatment Plan for " + patientName
}

type LineKind int

const (
	LineTitle LineKind = iota
	LineHeader
	LineItem
)

type Line struct {
	Text string
	Kind LineKind
}

// Document returns the document text in order: the title, then for every
// plan section a "<Title>:" header followed by "- <item>" bullets.
func Document(patientName string, plan entity.TreatmentPlan) []Line {
	lines := make([]Line, 0, 1+4+plan.ItemCount())
	lines = append(lines, Line{Text: Title(patientName), Kind: LineTitle})

	for _, section := range plan.Sections() {
		lines = append(lines, Line{Text: section.Title + ":", Kind: LineHeader})
		for _, item := range section.Items {
			lines = append(lines, Line{Text: "- " + item, Kind: LineItem})
		}
	}

	return lines
}

// Lines is Document without the line kinds.
func Lines(patientName string, plan entity.TreatmentPlan) []string {
	doc := Document(patientName, plan)
	lines := make([]string, len(doc))
	for i, l := range doc {
		lines[i] = l.Text
	}
	return lines
}
