package entity

import "time"

// GenerateProposalRequest starts a run from plain requirements text.
type GenerateProposalRequest struct {
	Requirements string `json:"requirements"`
	Enhanced     bool   `json:"enhanced,omitempty"`
	CallbackURL  string `json:"callback_url,omitempty"`
}

// AnalyzeDocumentsRequest runs project-context aggregation only.
type AnalyzeDocumentsRequest struct {
	RFPText   string `json:"rfp_text"`
	RFPFileID string `json:"rfp_file_id,omitempty"`
}

// RunDTO is the polling view of a proposal run. Long stage outputs are exposed
// through the result endpoint, not here.
type RunDTO struct {
	ID             string     `json:"id"`
	Status         RunStatus  `json:"status"`
	Enhanced       bool       `json:"enhanced"`
	SourceFileName *string    `json:"source_file_name,omitempty"`
	ProjectName    *string    `json:"project_name,omitempty"`
	Progress       RunFlags   `json:"progress"`
	Error          *string    `json:"error,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// RunFlags reports which stage outputs exist so far.
type RunFlags struct {
	AnalysisCompleted bool `json:"analysis_completed"`
	OutlineGenerated  bool `json:"outline_generated"`
	ProposalGenerated bool `json:"proposal_generated"`
	ReviewCompleted   bool `json:"review_completed"`
	Finalized         bool `json:"finalized"`
}

// RunResultDTO is the full JSON rendering of a finished run.
type RunResultDTO struct {
	ID            string    `json:"id"`
	Requirements  string    `json:"requirements"`
	Analysis      *Analysis `json:"analysis,omitempty"`
	Outline       string    `json:"outline"`
	FullProposal  string    `json:"full_proposal"`
	Review        string    `json:"review"`
	FinalProposal string    `json:"final_proposal"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// ExtractRequirementsResponse is the reply of the extract-only endpoint.
type ExtractRequirementsResponse struct {
	OriginalFileName      string `json:"original_file_name"`
	ExtractedRequirements string `json:"extracted_requirements"`
	WordCount             int    `json:"word_count"`
}

// ErrorResponse is the uniform error body returned by the API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
