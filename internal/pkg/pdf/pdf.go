package pdf

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/futig/proposal-backend/internal/entity"
)

// requirementSections are the headings that typically introduce the parts of
// an RFP worth feeding to the workflow.
var requirementSections = []string{
	"requirements",
	"scope of work",
	"project description",
	"deliverables",
	"specifications",
	"objectives",
	"goals",
	"expectations",
}

const (
	sectionWindow    = 2000
	maxExtractedLen  = 10000
	minHealthyLength = 100
)

// ExtractText extracts plain text from a PDF document.
func ExtractText(content []byte) (string, error) {
	reader, err := pdf.NewReader(newBytesReaderAt(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}

	var textBuilder strings.Builder

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Some pages may fail to parse, keep going
			continue
		}

		if text != "" {
			if textBuilder.Len() > 0 {
				textBuilder.WriteString("\n\n")
			}
			textBuilder.WriteString(text)
		}
	}

	extracted := textBuilder.String()
	if strings.TrimSpace(extracted) == "" {
		return "", fmt.Errorf("%w: no text content in %d pages, the PDF may be image-based", entity.ErrEmptyDocument, numPages)
	}

	return extracted, nil
}

// ExtractRequirementSections cleans raw PDF text and narrows it to the
// sections that usually carry requirements. When no known section heading is
// found the whole cleaned text is used. The result is capped to keep prompts
// within token limits.
func ExtractRequirementSections(text string) string {
	cleanText := strings.Join(strings.Fields(text), " ")
	cleanText = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return ' '
		}
		return r
	}, cleanText)

	var sections []string
	lowerText := strings.ToLower(cleanText)

	for _, section := range requirementSections {
		idx := strings.Index(lowerText, section)
		if idx == -1 {
			continue
		}
		end := idx + sectionWindow
		if end > len(cleanText) {
			end = len(cleanText)
		}
		sections = append(sections, cleanText[idx:end])
	}

	extracted := cleanText
	if len(sections) > 0 {
		extracted = strings.Join(sections, "\n\n")
	}

	if len(extracted) > maxExtractedLen {
		return extracted[:maxExtractedLen] + "..."
	}
	return extracted
}

// CheckHealth inspects the basic structure of a PDF buffer and reports
// anything that looks corrupted.
func CheckHealth(content []byte) (bool, []string) {
	var issues []string

	if len(content) == 0 {
		return false, []string{"empty buffer"}
	}

	if len(content) < minHealthyLength {
		return false, []string{"file too small to be a valid PDF"}
	}

	if !strings.HasPrefix(string(content[:8]), "%PDF-") {
		return false, []string{"invalid PDF header"}
	}

	trailer := string(content[len(content)-50:])
	if !strings.Contains(trailer, "%%EOF") {
		issues = append(issues, "missing or corrupted PDF trailer")
	}

	body := string(content)
	if !strings.Contains(body, "obj") && !strings.Contains(body, "endobj") {
		issues = append(issues, "missing PDF object structure")
	}

	return len(issues) == 0, issues
}

// bytesReaderAt implements io.ReaderAt for a byte slice.
type bytesReaderAt struct {
	data []byte
}

func newBytesReaderAt(data []byte) *bytesReaderAt {
	return &bytesReaderAt{data: data}
}

func (r *bytesReaderAt) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset")
	}
	if off >= int64(len(r.data)) {
		return 0, io.EOF
	}
	n = copy(p, r.data[off:])
	if n < len(p) {
		err = io.EOF
	}
	return n, err
}
