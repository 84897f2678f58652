package pdf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func healthyPDF() []byte {
	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	b.WriteString("1 0 obj\n<< /Type /Catalog >>\nendobj\n")
	b.WriteString(strings.Repeat("stream data ", 20))
	b.WriteString("\n%%EOF")
	return []byte(b.String())
}

func TestCheckHealth(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		healthy bool
		issue   string
	}{
		{
			name:    "valid structure",
			content: healthyPDF(),
			healthy: true,
		},
		{
			name:    "empty buffer",
			content: nil,
			healthy: false,
			issue:   "empty buffer",
		},
		{
			name:    "too small",
			content: []byte("%PDF-1.4"),
			healthy: false,
			issue:   "too small",
		},
		{
			name:    "wrong header",
			content: []byte(strings.Repeat("x", 200)),
			healthy: false,
			issue:   "invalid PDF header",
		},
		{
			name:    "missing trailer",
			content: []byte("%PDF-1.4\n1 0 obj\nendobj\n" + strings.Repeat("x", 200)),
			healthy: false,
			issue:   "trailer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			healthy, issues := CheckHealth(tt.content)
			assert.Equal(t, tt.healthy, healthy)
			if tt.issue != "" {
				assert.Contains(t, strings.Join(issues, "; "), tt.issue)
			}
		})
	}
}

func TestExtractRequirementSectionsFindsHeadings(t *testing.T) {
	text := "Intro text.\n\nREQUIREMENTS: the system must handle 1000 users.\n\n" +
		"Deliverables include a web portal and an admin console."

	got := ExtractRequirementSections(text)

	assert.Contains(t, got, "REQUIREMENTS: the system must handle 1000 users")
	assert.Contains(t, got, "Deliverables include a web portal")
	assert.NotContains(t, got, "Intro text")
}

func TestExtractRequirementSectionsFallsBackToFullText(t *testing.T) {
	text := "Just a plain document   with\nno known   headings."

	got := ExtractRequirementSections(text)

	// Whitespace is normalized, nothing is dropped.
	assert.Equal(t, "Just a plain document with no known headings.", got)
}

func TestExtractRequirementSectionsCapsLength(t *testing.T) {
	text := strings.Repeat("word ", 4000)

	got := ExtractRequirementSections(text)

	assert.LessOrEqual(t, len(got), maxExtractedLen+3)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestExtractRequirementSectionsStripsControlChars(t *testing.T) {
	text := "requirements\x00must\x1fwork"

	got := ExtractRequirementSections(text)

	assert.NotContains(t, got, "\x00")
	assert.NotContains(t, got, "\x1f")
}
