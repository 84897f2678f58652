package entity

import "time"

// RunStatus tracks a proposal run through the pipeline. Stage statuses mirror
// the workflow stages so clients can observe progress while polling.
type RunStatus string

const (
	RunStatusPending    RunStatus = "PENDING"
	RunStatusAnalyzing  RunStatus = "ANALYZING"
	RunStatusOutlining  RunStatus = "OUTLINING"
	RunStatusGenerating RunStatus = "GENERATING"
	RunStatusReviewing  RunStatus = "REVIEWING"
	RunStatusFinalizing RunStatus = "FINALIZING"
	RunStatusDone       RunStatus = "DONE"
	RunStatusFailed     RunStatus = "FAILED"
)

// StatusForStage maps a workflow stage to the in-progress run status.
func StatusForStage(stage WorkflowStage) RunStatus {
	switch stage {
	case StageAnalyze:
		return RunStatusAnalyzing
	case StageOutline:
		return RunStatusOutlining
	case StageGenerate:
		return RunStatusGenerating
	case StageReview:
		return RunStatusReviewing
	case StageFinalize:
		return RunStatusFinalizing
	default:
		return RunStatusPending
	}
}

// ProposalRun is the persisted record of one workflow invocation.
type ProposalRun struct {
	ID             string
	Status         RunStatus
	Enhanced       bool
	SourceFileName *string
	Requirements   string
	Analysis       *Analysis
	Outline        *string
	FullProposal   *string
	Review         *string
	FinalProposal  *string
	ProjectName    *string
	ErrorMessage   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ResultFormat selects the rendering of a finished proposal.
type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatJSON     ResultFormat = "json"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatJSON, FormatDOCX, FormatPDF:
		return true
	}
	return false
}
