package proposal

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/futig/proposal-backend/internal/config"
	"github.com/futig/proposal-backend/internal/entity"
	"github.com/futig/proposal-backend/internal/pkg/validator"
	"github.com/futig/proposal-backend/internal/usecase/workflow"
)

type fakeRunRepo struct {
	mu            sync.Mutex
	runs          map[string]*entity.ProposalRun
	statusHistory []entity.RunStatus
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{runs: make(map[string]*entity.ProposalRun)}
}

func (f *fakeRunRepo) Create(_ context.Context, run entity.ProposalRun) (*entity.ProposalRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run.CreatedAt = time.Now()
	run.UpdatedAt = run.CreatedAt
	stored := run
	f.runs[run.ID] = &stored
	return &stored, nil
}

func (f *fakeRunRepo) Get(_ context.Context, id string) (*entity.ProposalRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return nil, entity.ErrRunNotFound
	}
	copied := *run
	return &copied, nil
}

func (f *fakeRunRepo) List(_ context.Context, _, _ int) ([]*entity.ProposalRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var runs []*entity.ProposalRun
	for _, run := range f.runs {
		copied := *run
		runs = append(runs, &copied)
	}
	return runs, nil
}

func (f *fakeRunRepo) UpdateStatus(_ context.Context, id string, status entity.RunStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return entity.ErrRunNotFound
	}
	run.Status = status
	f.statusHistory = append(f.statusHistory, status)
	return nil
}

func (f *fakeRunRepo) UpdateProjectName(_ context.Context, id string, projectName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return entity.ErrRunNotFound
	}
	run.ProjectName = &projectName
	return nil
}

func (f *fakeRunRepo) SaveProgress(_ context.Context, id string, state *entity.ProposalState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return entity.ErrRunNotFound
	}
	applyState(run, state)
	return nil
}

func (f *fakeRunRepo) Complete(_ context.Context, id string, state *entity.ProposalState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return entity.ErrRunNotFound
	}
	applyState(run, state)
	run.Status = entity.RunStatusDone
	run.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRunRepo) Fail(_ context.Context, id string, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return entity.ErrRunNotFound
	}
	run.Status = entity.RunStatusFailed
	run.ErrorMessage = &message
	return nil
}

func applyState(run *entity.ProposalRun, state *entity.ProposalState) {
	if state.Analysis != nil {
		run.Analysis = state.Analysis
	}
	if state.Outline != "" {
		outline := state.Outline
		run.Outline = &outline
	}
	if state.FullProposal != "" {
		full := state.FullProposal
		run.FullProposal = &full
	}
	if state.Review != "" {
		review := state.Review
		run.Review = &review
	}
	if state.FinalProposal != "" {
		final := state.FinalProposal
		run.FinalProposal = &final
	}
}

type fakeEngine struct {
	requirements string
	run          func(ctx context.Context, requirements string, observer workflow.StageObserver) (*entity.ProposalState, error)
}

func (f *fakeEngine) Run(ctx context.Context, requirements string, observer workflow.StageObserver) (*entity.ProposalState, error) {
	f.requirements = requirements
	return f.run(ctx, requirements, observer)
}

func successEngine() *fakeEngine {
	return &fakeEngine{
		run: func(ctx context.Context, requirements string, observer workflow.StageObserver) (*entity.ProposalState, error) {
			state := entity.NewProposalState(requirements)
			stages := []entity.WorkflowStage{
				entity.StageAnalyze, entity.StageOutline, entity.StageGenerate,
				entity.StageReview, entity.StageFinalize,
			}
			for _, stage := range stages {
				if observer != nil {
					observer(ctx, stage, state)
				}
				switch stage {
				case entity.StageAnalyze:
					state.Analysis = entity.NewFallbackAnalysis("raw")
				case entity.StageOutline:
					state.Outline = "outline"
				case entity.StageGenerate:
					state.FullProposal = "full"
				case entity.StageReview:
					state.Review = "review"
				case entity.StageFinalize:
					state.FinalProposal = "# Final Proposal"
				}
			}
			return state, nil
		},
	}
}

type fakeAnalyzer struct {
	pc  *entity.ProjectContext
	err error
}

func (f *fakeAnalyzer) AnalyzeProjectDocuments(_ context.Context, _, _ string) (*entity.ProjectContext, error) {
	return f.pc, f.err
}

type fakeCallback struct {
	mu         sync.Mutex
	resultURL  string
	resultData *entity.RunResultDTO
	errorURL   string
	errorMsg   string
}

func (f *fakeCallback) SendResult(_ context.Context, callbackURL string, _ string, data *entity.RunResultDTO) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resultURL = callbackURL
	f.resultData = data
}

func (f *fakeCallback) SendError(_ context.Context, callbackURL string, _ string, message string, _ map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errorURL = callbackURL
	f.errorMsg = message
}

func newTestUsecase(repo *fakeRunRepo, engine WorkflowEngine, analyzer ProjectAnalyzer, cb CallbackConnector) *ProposalUsecase {
	v := validator.NewFileValidator(config.FileUploadConfig{MaxFileSize: 10 << 20})
	return NewUsecase(repo, engine, analyzer, cb, v, zap.NewNop())
}

func TestStartRun(t *testing.T) {
	repo := newFakeRunRepo()
	uc := newTestUsecase(repo, successEngine(), &fakeAnalyzer{}, &fakeCallback{})

	run, err := uc.StartRun(context.Background(), &entity.GenerateProposalRequest{
		Requirements: "build a portal",
		Enhanced:     true,
	}, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, entity.RunStatusPending, run.Status)
	assert.True(t, run.Enhanced)
	assert.Equal(t, "build a portal", run.Requirements)
}

func TestStartRunValidation(t *testing.T) {
	uc := newTestUsecase(newFakeRunRepo(), successEngine(), &fakeAnalyzer{}, &fakeCallback{})

	_, err := uc.StartRun(context.Background(), &entity.GenerateProposalRequest{Requirements: "   "}, nil)
	assert.ErrorIs(t, err, entity.ErrMissingField)
}

func TestExecuteRunSuccess(t *testing.T) {
	repo := newFakeRunRepo()
	cb := &fakeCallback{}
	uc := newTestUsecase(repo, successEngine(), &fakeAnalyzer{}, cb)

	run, err := uc.StartRun(context.Background(), &entity.GenerateProposalRequest{Requirements: "reqs"}, nil)
	require.NoError(t, err)

	require.NoError(t, uc.ExecuteRun(context.Background(), run, "https://client.example/cb"))

	stored, err := uc.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RunStatusDone, stored.Status)
	require.NotNil(t, stored.FinalProposal)
	assert.Equal(t, "# Final Proposal", *stored.FinalProposal)

	// Status moved through every stage in order.
	assert.Equal(t, []entity.RunStatus{
		entity.RunStatusAnalyzing,
		entity.RunStatusOutlining,
		entity.RunStatusGenerating,
		entity.RunStatusReviewing,
		entity.RunStatusFinalizing,
	}, repo.statusHistory)

	assert.Equal(t, "https://client.example/cb", cb.resultURL)
	require.NotNil(t, cb.resultData)
	assert.Equal(t, "# Final Proposal", cb.resultData.FinalProposal)
}

func TestExecuteRunEnhanced(t *testing.T) {
	repo := newFakeRunRepo()
	engine := successEngine()
	analyzer := &fakeAnalyzer{
		pc: &entity.ProjectContext{
			ProjectName:    "Portal",
			TotalDocuments: 2,
			ProjectSummary: "summary",
		},
	}
	uc := newTestUsecase(repo, engine, analyzer, &fakeCallback{})

	run, err := uc.StartRun(context.Background(), &entity.GenerateProposalRequest{
		Requirements: "original reqs",
		Enhanced:     true,
	}, nil)
	require.NoError(t, err)

	require.NoError(t, uc.ExecuteRun(context.Background(), run, ""))

	// The engine received the enriched prompt, not the raw requirements.
	assert.Contains(t, engine.requirements, "Project Name: Portal")
	assert.Contains(t, engine.requirements, "original reqs")

	stored, err := uc.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ProjectName)
	assert.Equal(t, "Portal", *stored.ProjectName)
}

func TestExecuteRunEngineFailure(t *testing.T) {
	repo := newFakeRunRepo()
	cb := &fakeCallback{}
	engine := &fakeEngine{
		run: func(ctx context.Context, requirements string, observer workflow.StageObserver) (*entity.ProposalState, error) {
			state := entity.NewProposalState(requirements)
			state.Analysis = entity.NewFallbackAnalysis("raw")
			return state, &entity.WorkflowError{Stage: entity.StageOutline, Err: errors.New("llm down")}
		},
	}
	uc := newTestUsecase(repo, engine, &fakeAnalyzer{}, cb)

	run, err := uc.StartRun(context.Background(), &entity.GenerateProposalRequest{Requirements: "reqs"}, nil)
	require.NoError(t, err)

	err = uc.ExecuteRun(context.Background(), run, "https://client.example/cb")
	require.Error(t, err)

	stored, err := uc.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RunStatusFailed, stored.Status)
	require.NotNil(t, stored.ErrorMessage)
	assert.Contains(t, *stored.ErrorMessage, "outline")
	assert.NotNil(t, stored.Analysis, "partial progress is kept")

	assert.Equal(t, "https://client.example/cb", cb.errorURL)
	assert.Contains(t, cb.errorMsg, "llm down")
}

func TestExecuteRunAnalyzerFailure(t *testing.T) {
	repo := newFakeRunRepo()
	analyzer := &fakeAnalyzer{err: errors.New("store unreachable")}
	uc := newTestUsecase(repo, successEngine(), analyzer, &fakeCallback{})

	run, err := uc.StartRun(context.Background(), &entity.GenerateProposalRequest{
		Requirements: "reqs",
		Enhanced:     true,
	}, nil)
	require.NoError(t, err)

	err = uc.ExecuteRun(context.Background(), run, "")
	require.Error(t, err)

	var analysisErr *entity.ProjectAnalysisError
	assert.ErrorAs(t, err, &analysisErr)

	stored, err := uc.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RunStatusFailed, stored.Status)
}

func TestGetRunInvalidID(t *testing.T) {
	uc := newTestUsecase(newFakeRunRepo(), successEngine(), &fakeAnalyzer{}, &fakeCallback{})

	_, err := uc.GetRun(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestGetResultStatusGating(t *testing.T) {
	repo := newFakeRunRepo()
	uc := newTestUsecase(repo, successEngine(), &fakeAnalyzer{}, &fakeCallback{})

	run, err := uc.StartRun(context.Background(), &entity.GenerateProposalRequest{Requirements: "reqs"}, nil)
	require.NoError(t, err)

	_, err = uc.GetResult(context.Background(), run.ID)
	assert.ErrorIs(t, err, entity.ErrRunNotFinished)

	require.NoError(t, repo.Fail(context.Background(), run.ID, "boom"))
	_, err = uc.GetResult(context.Background(), run.ID)
	assert.ErrorIs(t, err, entity.ErrRunFailed)
}

func TestGetResultAfterCompletion(t *testing.T) {
	repo := newFakeRunRepo()
	uc := newTestUsecase(repo, successEngine(), &fakeAnalyzer{}, &fakeCallback{})

	run, err := uc.StartRun(context.Background(), &entity.GenerateProposalRequest{Requirements: "reqs"}, nil)
	require.NoError(t, err)
	require.NoError(t, uc.ExecuteRun(context.Background(), run, ""))

	result, err := uc.GetResult(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, result.ID)
	assert.Equal(t, "# Final Proposal", result.FinalProposal)
	assert.Equal(t, "outline", result.Outline)
	assert.NotNil(t, result.Analysis)
}

func TestGetResultFile(t *testing.T) {
	repo := newFakeRunRepo()
	uc := newTestUsecase(repo, successEngine(), &fakeAnalyzer{}, &fakeCallback{})

	run, err := uc.StartRun(context.Background(), &entity.GenerateProposalRequest{Requirements: "reqs"}, nil)
	require.NoError(t, err)
	require.NoError(t, uc.ExecuteRun(context.Background(), run, ""))

	data, contentType, filename, err := uc.GetResultFile(context.Background(), run.ID, entity.FormatMarkdown)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Final Proposal")
	assert.Equal(t, "text/markdown; charset=utf-8", contentType)
	assert.Equal(t, "proposal-"+run.ID+".md", filename)

	_, _, _, err = uc.GetResultFile(context.Background(), run.ID, entity.ResultFormat("xml"))
	assert.ErrorIs(t, err, entity.ErrInvalidFormat)
}

func TestAnalyzeDocumentsValidation(t *testing.T) {
	uc := newTestUsecase(newFakeRunRepo(), successEngine(), &fakeAnalyzer{}, &fakeCallback{})

	_, err := uc.AnalyzeDocuments(context.Background(), &entity.AnalyzeDocumentsRequest{RFPText: ""})
	assert.ErrorIs(t, err, entity.ErrMissingField)
}

func TestToRunDTOProgressFlags(t *testing.T) {
	outline := "outline"
	run := &entity.ProposalRun{
		ID:       "id",
		Status:   entity.RunStatusGenerating,
		Analysis: entity.NewFallbackAnalysis("raw"),
		Outline:  &outline,
	}

	dto := ToRunDTO(run)
	assert.True(t, dto.Progress.AnalysisCompleted)
	assert.True(t, dto.Progress.OutlineGenerated)
	assert.False(t, dto.Progress.ProposalGenerated)
	assert.False(t, dto.Progress.ReviewCompleted)
	assert.False(t, dto.Progress.Finalized)
}

func TestExtractRequirementsRejectsNonPDF(t *testing.T) {
	uc := newTestUsecase(newFakeRunRepo(), successEngine(), &fakeAnalyzer{}, &fakeCallback{})

	_, err := uc.ExtractRequirements(context.Background(), "doc.pdf", []byte("plain text, not a pdf"))
	assert.ErrorIs(t, err, entity.ErrInvalidPDF)

	_, err = uc.ExtractRequirements(context.Background(), "doc.pdf", []byte("%PDF-1.4 "+strings.Repeat("x", 200)))
	assert.ErrorIs(t, err, entity.ErrInvalidPDF, "structurally broken PDF fails the health check")
}
