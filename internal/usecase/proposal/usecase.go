package proposal

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/futig/proposal-backend/internal/entity"
	"github.com/futig/proposal-backend/internal/pkg/formatter"
	pkgpdf "github.com/futig/proposal-backend/internal/pkg/pdf"
	"github.com/futig/proposal-backend/internal/pkg/validator"
	"github.com/futig/proposal-backend/internal/repository"
	"github.com/futig/proposal-backend/internal/usecase/analysis"
)

// ProposalUsecase orchestrates proposal runs: it persists run records, feeds
// the workflow engine, and reports progress and results.
type ProposalUsecase struct {
	runRepo          repository.RunRepository
	engine           WorkflowEngine
	analyzer         ProjectAnalyzer
	callback         CallbackConnector
	validator        *validator.Validator
	formatterFactory *formatter.Factory
	logger           *zap.Logger
}

func NewUsecase(
	runRepo repository.RunRepository,
	engine WorkflowEngine,
	analyzer ProjectAnalyzer,
	callback CallbackConnector,
	validator *validator.Validator,
	logger *zap.Logger,
) *ProposalUsecase {
	return &ProposalUsecase{
		runRepo:          runRepo,
		engine:           engine,
		analyzer:         analyzer,
		callback:         callback,
		validator:        validator,
		formatterFactory: formatter.NewFactory(),
		logger:           logger,
	}
}

// StartRun validates the request and creates a pending run record. The actual
// generation happens in ExecuteRun, typically from a background goroutine.
func (uc *ProposalUsecase) StartRun(ctx context.Context, req *entity.GenerateProposalRequest, sourceFileName *string) (*entity.ProposalRun, error) {
	if err := uc.validator.ValidateGenerateProposal(req); err != nil {
		return nil, err
	}

	run := entity.ProposalRun{
		ID:             uuid.New().String(),
		Status:         entity.RunStatusPending,
		Enhanced:       req.Enhanced,
		SourceFileName: sourceFileName,
		Requirements:   req.Requirements,
	}

	created, err := uc.runRepo.Create(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	ctxzap.Info(ctx, "proposal run created",
		zap.String("run_id", created.ID),
		zap.Bool("enhanced", created.Enhanced),
		zap.Int("requirements_length", len(created.Requirements)),
	)

	return created, nil
}

// ExecuteRun drives a run to completion: optional context enrichment, the
// five workflow stages with progress persistence, then result storage and
// callback delivery. Failures are recorded on the run; the returned error is
// for the caller's logging only.
func (uc *ProposalUsecase) ExecuteRun(ctx context.Context, run *entity.ProposalRun, callbackURL string) error {
	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(zap.String("run_id", run.ID)))

	requirements := run.Requirements

	if run.Enhanced {
		projectContext, err := uc.analyzer.AnalyzeProjectDocuments(ctx, run.Requirements, "")
		if err != nil {
			analysisErr := &entity.ProjectAnalysisError{Err: err}
			uc.failRun(ctx, run.ID, callbackURL, analysisErr)
			return analysisErr
		}

		if err := uc.runRepo.UpdateProjectName(ctx, run.ID, projectContext.ProjectName); err != nil {
			ctxzap.Warn(ctx, "failed to store project name", zap.Error(err))
		}

		requirements = analysis.BuildEnrichedPrompt(projectContext, run.Requirements)

		ctxzap.Info(ctx, "run enriched with project context",
			zap.String("project_name", projectContext.ProjectName),
			zap.Int("related_documents", projectContext.TotalDocuments),
		)
	}

	observer := func(ctx context.Context, stage entity.WorkflowStage, state *entity.ProposalState) {
		if err := uc.runRepo.UpdateStatus(ctx, run.ID, entity.StatusForStage(stage)); err != nil {
			ctxzap.Warn(ctx, "failed to update run status",
				zap.String("stage", string(stage)),
				zap.Error(err),
			)
		}
		if err := uc.runRepo.SaveProgress(ctx, run.ID, state); err != nil {
			ctxzap.Warn(ctx, "failed to save run progress",
				zap.String("stage", string(stage)),
				zap.Error(err),
			)
		}
	}

	state, err := uc.engine.Run(ctx, requirements, observer)
	if err != nil {
		// Keep the outputs of the stages that did complete.
		if saveErr := uc.runRepo.SaveProgress(ctx, run.ID, state); saveErr != nil {
			ctxzap.Warn(ctx, "failed to save partial progress", zap.Error(saveErr))
		}
		uc.failRun(ctx, run.ID, callbackURL, err)
		return err
	}

	if err := uc.runRepo.Complete(ctx, run.ID, state); err != nil {
		uc.failRun(ctx, run.ID, callbackURL, fmt.Errorf("store result: %w", err))
		return err
	}

	ctxzap.Info(ctx, "proposal run completed",
		zap.Int("final_proposal_length", len(state.FinalProposal)),
	)

	if callbackURL != "" {
		finished, err := uc.runRepo.Get(ctx, run.ID)
		if err != nil {
			ctxzap.Warn(ctx, "failed to load run for callback", zap.Error(err))
			return nil
		}
		uc.callback.SendResult(ctx, callbackURL, run.ID, ToRunResultDTO(finished))
	}

	return nil
}

func (uc *ProposalUsecase) failRun(ctx context.Context, runID, callbackURL string, cause error) {
	ctxzap.Error(ctx, "proposal run failed", zap.Error(cause))

	if err := uc.runRepo.Fail(ctx, runID, cause.Error()); err != nil {
		ctxzap.Error(ctx, "failed to mark run as failed", zap.Error(err))
	}

	if callbackURL != "" {
		uc.callback.SendError(ctx, callbackURL, runID, cause.Error(), nil)
	}
}

// GetRun returns the current state of a run.
func (uc *ProposalUsecase) GetRun(ctx context.Context, id string) (*entity.ProposalRun, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: invalid run ID format", entity.ErrInvalidParameter)
	}

	run, err := uc.runRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	return run, nil
}

// ListRuns retrieves runs with pagination.
func (uc *ProposalUsecase) ListRuns(ctx context.Context, skip, limit int) ([]*entity.ProposalRun, error) {
	runs, err := uc.runRepo.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	return runs, nil
}

// GetResult returns the structured result of a finished run.
func (uc *ProposalUsecase) GetResult(ctx context.Context, id string) (*entity.RunResultDTO, error) {
	run, err := uc.getFinishedRun(ctx, id)
	if err != nil {
		return nil, err
	}

	return ToRunResultDTO(run), nil
}

// GetResultFile renders the final proposal of a finished run in the requested
// file format.
func (uc *ProposalUsecase) GetResultFile(ctx context.Context, id string, format entity.ResultFormat) ([]byte, string, string, error) {
	run, err := uc.getFinishedRun(ctx, id)
	if err != nil {
		return nil, "", "", err
	}

	f, err := uc.formatterFactory.Create(format)
	if err != nil {
		return nil, "", "", err
	}

	data, err := f.Format(deref(run.FinalProposal))
	if err != nil {
		return nil, "", "", fmt.Errorf("format result: %w", err)
	}

	filename := "proposal-" + run.ID + f.FileExtension()

	return data, f.ContentType(), filename, nil
}

func (uc *ProposalUsecase) getFinishedRun(ctx context.Context, id string) (*entity.ProposalRun, error) {
	run, err := uc.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}

	switch run.Status {
	case entity.RunStatusDone:
	case entity.RunStatusFailed:
		return nil, entity.ErrRunFailed
	default:
		return nil, entity.ErrRunNotFinished
	}

	if run.FinalProposal == nil {
		return nil, entity.ErrNoResult
	}

	return run, nil
}

// ExtractRequirements validates an uploaded PDF and extracts the requirement
// sections used as workflow input.
func (uc *ProposalUsecase) ExtractRequirements(ctx context.Context, fileName string, content []byte) (*entity.ExtractRequirementsResponse, error) {
	if err := uc.validator.ValidatePDFContent(content); err != nil {
		return nil, err
	}

	if healthy, issues := pkgpdf.CheckHealth(content); !healthy {
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidPDF, strings.Join(issues, ", "))
	}

	text, err := pkgpdf.ExtractText(content)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	requirements := pkgpdf.ExtractRequirementSections(text)
	if strings.TrimSpace(requirements) == "" {
		return nil, entity.ErrEmptyDocument
	}

	ctxzap.Info(ctx, "requirements extracted from PDF",
		zap.String("file_name", fileName),
		zap.Int("requirements_length", len(requirements)),
	)

	return &entity.ExtractRequirementsResponse{
		OriginalFileName:      fileName,
		ExtractedRequirements: requirements,
		WordCount:             len(strings.Fields(requirements)),
	}, nil
}

// AnalyzeDocuments runs project-context aggregation without generating a
// proposal.
func (uc *ProposalUsecase) AnalyzeDocuments(ctx context.Context, req *entity.AnalyzeDocumentsRequest) (*entity.ProjectContext, error) {
	if err := uc.validator.ValidateAnalyzeDocuments(req); err != nil {
		return nil, err
	}

	projectContext, err := uc.analyzer.AnalyzeProjectDocuments(ctx, req.RFPText, req.RFPFileID)
	if err != nil {
		return nil, &entity.ProjectAnalysisError{Err: err}
	}

	return projectContext, nil
}
