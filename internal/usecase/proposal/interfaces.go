package proposal

import (
	"context"

	"github.com/futig/proposal-backend/internal/entity"
	"github.com/futig/proposal-backend/internal/usecase/workflow"
)

// WorkflowEngine runs the five-stage generation pipeline.
type WorkflowEngine interface {
	Run(ctx context.Context, requirements string, observer workflow.StageObserver) (*entity.ProposalState, error)
}

// ProjectAnalyzer aggregates project context for enhanced runs.
type ProjectAnalyzer interface {
	AnalyzeProjectDocuments(ctx context.Context, rfpContent, rfpFileID string) (*entity.ProjectContext, error)
}

// CallbackConnector delivers results to client-provided callback URLs.
// Delivery failures are logged by the connector, not surfaced.
type CallbackConnector interface {
	SendResult(ctx context.Context, callbackURL string, runID string, data *entity.RunResultDTO)
	SendError(ctx context.Context, callbackURL string, runID string, message string, details map[string]any)
}
