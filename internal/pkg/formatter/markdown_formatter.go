package formatter

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(text string) ([]byte, error) {
	var buf bytes.Buffer
	// Proposals usually arrive as markdown already; only add the title
	// when the text does not start with a heading of its own.
	if strings.HasPrefix(strings.TrimSpace(text), "#") {
		fmt.Fprintf(&buf, "%s\n", text)
	} else {
		fmt.Fprintf(&buf, "# %s\n\n%s\n", baseTitle, text)
	}
	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
