package proposal

import (
	"context"

	"github.com/futig/proposal-backend/internal/entity"
)

// ProposalUsecase is the run lifecycle the HTTP layer drives.
type ProposalUsecase interface {
	StartRun(ctx context.Context, req *entity.GenerateProposalRequest, sourceFileName *string) (*entity.ProposalRun, error)
	ExecuteRun(ctx context.Context, run *entity.ProposalRun, callbackURL string) error
	GetRun(ctx context.Context, id string) (*entity.ProposalRun, error)
	ListRuns(ctx context.Context, skip, limit int) ([]*entity.ProposalRun, error)
	GetResult(ctx context.Context, id string) (*entity.RunResultDTO, error)
	GetResultFile(ctx context.Context, id string, format entity.ResultFormat) (data []byte, contentType, filename string, err error)
	ExtractRequirements(ctx context.Context, fileName string, content []byte) (*entity.ExtractRequirementsResponse, error)
	AnalyzeDocuments(ctx context.Context, req *entity.AnalyzeDocumentsRequest) (*entity.ProjectContext, error)
}
