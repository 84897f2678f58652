package validator

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/futig/proposal-backend/internal/config"
	"github.com/futig/proposal-backend/internal/entity"
)

const pdfHeaderLen = 5

// Validator validates incoming requests and file uploads
type Validator struct {
	cfg config.FileUploadConfig
}

func NewFileValidator(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateGenerateProposal validates the plain-text generation request
func (v *Validator) ValidateGenerateProposal(req *entity.GenerateProposalRequest) error {
	if strings.TrimSpace(req.Requirements) == "" {
		return fmt.Errorf("%w: requirements", entity.ErrMissingField)
	}
	return nil
}

// ValidateAnalyzeDocuments validates the context-analysis request
func (v *Validator) ValidateAnalyzeDocuments(req *entity.AnalyzeDocumentsRequest) error {
	if strings.TrimSpace(req.RFPText) == "" {
		return fmt.Errorf("%w: rfp_text", entity.ErrMissingField)
	}
	return nil
}

// ValidateUpload validates an uploaded RFP file header (PDF only)
func (v *Validator) ValidateUpload(fh *multipart.FileHeader) error {
	if fh == nil {
		return fmt.Errorf("%w: file", entity.ErrMissingField)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".pdf" {
		return fmt.Errorf("%w: %s (only .pdf files are allowed)", entity.ErrInvalidExtension, ext)
	}

	if fh.Size > v.cfg.MaxFileSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, fh.Filename, fh.Size, v.cfg.MaxFileSize)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType != "" &&
		contentType != "application/pdf" &&
		contentType != "application/octet-stream" {
		return fmt.Errorf("%w: content type '%s' (expected application/pdf)", entity.ErrInvalidFile, contentType)
	}

	return nil
}

// ValidatePDFContent checks the magic number of the uploaded bytes
func (v *Validator) ValidatePDFContent(content []byte) error {
	if len(content) < pdfHeaderLen {
		return fmt.Errorf("%w: file too small", entity.ErrInvalidPDF)
	}

	if !strings.HasPrefix(string(content[:pdfHeaderLen]), "%PDF-") {
		return fmt.Errorf("%w: missing PDF header", entity.ErrInvalidPDF)
	}

	return nil
}

// SanitizeFilename sanitizes a filename for safe storage
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
	)
	return replacer.Replace(filename)
}
