package entity

// WorkflowStage identifies one step of the five-stage proposal pipeline.
type WorkflowStage string

const (
	StageAnalyze  WorkflowStage = "analyze"
	StageOutline  WorkflowStage = "outline"
	StageGenerate WorkflowStage = "generate"
	StageReview   WorkflowStage = "review"
	StageFinalize WorkflowStage = "finalize"
)

// ProposalState is the accumulator threaded through the workflow. Each field is
// written exactly once by its stage; later stages receive all earlier fields
// verbatim in their prompts.
type ProposalState struct {
	Requirements  string    `json:"requirements"`
	Analysis      *Analysis `json:"analysis,omitempty"`
	Outline       string    `json:"outline"`
	FullProposal  string    `json:"full_proposal"`
	Review        string    `json:"review"`
	FinalProposal string    `json:"final_proposal"`
}

// NewProposalState creates a fresh state for one pipeline run.
func NewProposalState(requirements string) *ProposalState {
	return &ProposalState{Requirements: requirements}
}

// AnalysisRecord is the structured result of the Analyze stage. RawAnalysis is
// populated only when the LLM response failed to parse and the fixed defaults
// were substituted, so the unparsed text is never silently dropped.
type AnalysisRecord struct {
	ProjectOverview        string   `json:"project_overview"`
	KeyObjectives          []string `json:"key_objectives"`
	TechnicalRequirements  []string `json:"technical_requirements"`
	Deliverables           []string `json:"deliverables"`
	TimelineIndicators     string   `json:"timeline_indicators"`
	BudgetIndicators       string   `json:"budget_indicators"`
	ComplexityLevel        string   `json:"complexity_level"`
	IndustrySector         string   `json:"industry_sector"`
	Stakeholders           []string `json:"stakeholders"`
	SuccessCriteria        []string `json:"success_criteria"`
	RisksIdentified        []string `json:"risks_identified"`
	ComplianceRequirements []string `json:"compliance_requirements"`
	RawAnalysis            string   `json:"raw_analysis,omitempty"`
}

// Analysis is either the record parsed from the LLM response or the fallback
// record built by NewFallbackAnalysis. Consumers branch on Fallback instead of
// nil-checking individual fields.
type Analysis struct {
	AnalysisRecord
	Fallback bool `json:"-"`
}

// NewStructuredAnalysis wraps a successfully parsed record.
func NewStructuredAnalysis(record AnalysisRecord) *Analysis {
	return &Analysis{AnalysisRecord: record}
}

// NewFallbackAnalysis builds the fixed substitute record used when the Analyze
// stage response is not valid JSON. The raw response text is retained.
func NewFallbackAnalysis(raw string) *Analysis {
	return &Analysis{
		Fallback: true,
		AnalysisRecord: AnalysisRecord{
			ProjectOverview:        "Complex project requiring detailed analysis",
			KeyObjectives:          []string{"Meet RFP requirements", "Deliver quality solution", "Ensure client satisfaction"},
			TechnicalRequirements:  []string{"Technical solution", "Implementation", "Testing"},
			Deliverables:           []string{"Final product", "Documentation", "Support"},
			TimelineIndicators:     "To be determined based on scope",
			BudgetIndicators:       "Competitive pricing",
			ComplexityLevel:        "medium",
			IndustrySector:         "general",
			Stakeholders:           []string{"Client", "End users", "Technical team"},
			SuccessCriteria:        []string{"On-time delivery", "Quality standards", "Client approval"},
			RisksIdentified:        []string{"Technical challenges", "Timeline constraints"},
			ComplianceRequirements: []string{"Industry standards", "Best practices"},
			RawAnalysis:            raw,
		},
	}
}
