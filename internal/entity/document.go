package entity

// DocumentType is the classification label assigned to a discovered document.
type DocumentType string

const (
	DocumentTypeRFP           DocumentType = "rfp"
	DocumentTypeSpecification DocumentType = "specification"
	DocumentTypeRequirement   DocumentType = "requirement"
	DocumentTypeDesign        DocumentType = "design"
	DocumentTypeContract      DocumentType = "contract"
	DocumentTypeProposal      DocumentType = "proposal"
	DocumentTypeOther         DocumentType = "other"
)

// DocumentMetadata carries store-level attributes of a discovered file.
type DocumentMetadata struct {
	Size         string `json:"size,omitempty"`
	CreatedTime  string `json:"created_time"`
	ModifiedTime string `json:"modified_time"`
	WebViewLink  string `json:"web_view_link"`
}

// ProjectDocument is one candidate related file after deep processing. The
// originating RFP itself is represented with a fixed score of 100 and type rfp.
type ProjectDocument struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	MimeType       string           `json:"mime_type"`
	Content        string           `json:"content"`
	Metadata       DocumentMetadata `json:"metadata"`
	DocumentType   DocumentType     `json:"document_type"`
	RelevanceScore float64          `json:"relevance_score"`
}

// ProjectContext is the aggregate output of project-document analysis. It is
// immutable once constructed; RelatedDocuments is sorted by score descending.
type ProjectContext struct {
	ProjectName             string            `json:"project_name"`
	RFPDocument             ProjectDocument   `json:"rfp_document"`
	RelatedDocuments        []ProjectDocument `json:"related_documents"`
	TotalDocuments          int               `json:"total_documents"`
	ProjectSummary          string            `json:"project_summary"`
	KeyRequirements         []string          `json:"key_requirements"`
	TechnicalSpecifications []string          `json:"technical_specifications"`
	BusinessObjectives      []string          `json:"business_objectives"`
	Constraints             []string          `json:"constraints"`
}

// StorageFile is a raw file descriptor returned by the document-store search.
type StorageFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mime_type"`
	Size         string `json:"size,omitempty"`
	CreatedTime  string `json:"created_time"`
	ModifiedTime string `json:"modified_time"`
	WebViewLink  string `json:"web_view_link"`
}
