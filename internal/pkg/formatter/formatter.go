package formatter

import (
	"fmt"

	"github.com/futig/proposal-backend/internal/entity"
)

const baseTitle = "Business Proposal"

type Formatter interface {
	Format(plainText string) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

// Create returns a formatter for file-style renderings. The JSON format is
// served as a structured body by the API layer and is not produced here.
func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidFormat, format)
	}
}
