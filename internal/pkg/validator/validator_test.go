package validator

import (
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/futig/proposal-backend/internal/config"
	"github.com/futig/proposal-backend/internal/entity"
)

func newTestValidator() *Validator {
	return NewFileValidator(config.FileUploadConfig{MaxFileSize: 1024})
}

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	header := textproto.MIMEHeader{}
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return &multipart.FileHeader{
		Filename: name,
		Size:     size,
		Header:   header,
	}
}

func TestValidateGenerateProposal(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.ValidateGenerateProposal(&entity.GenerateProposalRequest{Requirements: "build it"}))

	err := v.ValidateGenerateProposal(&entity.GenerateProposalRequest{Requirements: "  \n "})
	assert.ErrorIs(t, err, entity.ErrMissingField)
}

func TestValidateAnalyzeDocuments(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.ValidateAnalyzeDocuments(&entity.AnalyzeDocumentsRequest{RFPText: "some rfp"}))

	err := v.ValidateAnalyzeDocuments(&entity.AnalyzeDocumentsRequest{RFPText: ""})
	assert.ErrorIs(t, err, entity.ErrMissingField)
}

func TestValidateUpload(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name string
		fh   *multipart.FileHeader
		want error
	}{
		{"valid pdf", fileHeader("rfp.pdf", "application/pdf", 512), nil},
		{"octet stream accepted", fileHeader("rfp.pdf", "application/octet-stream", 512), nil},
		{"no content type accepted", fileHeader("rfp.pdf", "", 512), nil},
		{"uppercase extension", fileHeader("RFP.PDF", "application/pdf", 512), nil},
		{"missing file", nil, entity.ErrMissingField},
		{"wrong extension", fileHeader("rfp.docx", "application/pdf", 512), entity.ErrInvalidExtension},
		{"too large", fileHeader("rfp.pdf", "application/pdf", 4096), entity.ErrFileTooLarge},
		{"wrong content type", fileHeader("rfp.pdf", "text/html", 512), entity.ErrInvalidFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpload(tt.fh)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestValidatePDFContent(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.ValidatePDFContent([]byte("%PDF-1.7 content")))
	assert.ErrorIs(t, v.ValidatePDFContent([]byte("PK\x03\x04 zip content")), entity.ErrInvalidPDF)
	assert.ErrorIs(t, v.ValidatePDFContent([]byte("%P")), entity.ErrInvalidPDF)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "my_rfp_v2.pdf", SanitizeFilename("my rfp (v2).pdf"))
	assert.Equal(t, "rfp.pdf", SanitizeFilename("../../etc/rfp.pdf"))
	assert.Equal(t, "final_draft.pdf", SanitizeFilename("final [draft].pdf"))
}
