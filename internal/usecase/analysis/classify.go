package analysis

import (
	"strings"

	"github.com/futig/proposal-backend/internal/entity"
)

// ClassifyDocumentType derives a document type from the file name and, for
// some types, the content. Checks run in priority order so a file matching
// several rules gets the most specific type.
func ClassifyDocumentType(fileName, content string) entity.DocumentType {
	nameLower := strings.ToLower(fileName)
	contentLower := strings.ToLower(content)

	switch {
	case strings.Contains(nameLower, "rfp") || strings.Contains(nameLower, "request for proposal"):
		return entity.DocumentTypeRFP
	case strings.Contains(nameLower, "spec") || strings.Contains(nameLower, "specification") ||
		strings.Contains(contentLower, "technical specification"):
		return entity.DocumentTypeSpecification
	case strings.Contains(nameLower, "requirement") || strings.Contains(contentLower, "requirements"):
		return entity.DocumentTypeRequirement
	case strings.Contains(nameLower, "design") || strings.Contains(nameLower, "architecture") ||
		strings.Contains(contentLower, "system design"):
		return entity.DocumentTypeDesign
	case strings.Contains(nameLower, "contract") || strings.Contains(nameLower, "agreement") ||
		strings.Contains(contentLower, "terms and conditions"):
		return entity.DocumentTypeContract
	case strings.Contains(nameLower, "proposal") || strings.Contains(contentLower, "business proposal"):
		return entity.DocumentTypeProposal
	default:
		return entity.DocumentTypeOther
	}
}
