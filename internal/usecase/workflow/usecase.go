package workflow

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/futig/proposal-backend/internal/entity"
)

// StageObserver is invoked right before each stage starts. The state carries
// the outputs of all previously completed stages.
type StageObserver func(ctx context.Context, stage entity.WorkflowStage, state *entity.ProposalState)

type stage struct {
	name entity.WorkflowStage
	run  func(ctx context.Context, state *entity.ProposalState) error
}

// Engine runs the five-stage proposal generation pipeline. Stages are strictly
// sequential, each consuming the outputs of the previous ones. A stage failure
// aborts the pipeline, no stage is retried.
type Engine struct {
	llm    LLMConnector
	logger *zap.Logger
}

func NewEngine(llm LLMConnector, logger *zap.Logger) *Engine {
	return &Engine{
		llm:    llm,
		logger: logger,
	}
}

// Run executes the full pipeline for the given requirements text. The
// observer may be nil. On failure the partially filled state is returned
// together with a WorkflowError naming the failed stage.
func (e *Engine) Run(ctx context.Context, requirements string, observer StageObserver) (*entity.ProposalState, error) {
	state := entity.NewProposalState(requirements)

	ctxzap.Info(ctx, "starting proposal generation workflow",
		zap.Int("requirements_length", len(requirements)),
	)

	for _, s := range e.stages() {
		if err := ctx.Err(); err != nil {
			return state, &entity.WorkflowError{Stage: s.name, Err: err}
		}

		if observer != nil {
			observer(ctx, s.name, state)
		}

		ctxzap.Info(ctx, "workflow stage started", zap.String("stage", string(s.name)))

		if err := s.run(ctx, state); err != nil {
			ctxzap.Error(ctx, "workflow stage failed",
				zap.String("stage", string(s.name)),
				zap.Error(err),
			)
			return state, &entity.WorkflowError{Stage: s.name, Err: err}
		}

		ctxzap.Info(ctx, "workflow stage completed", zap.String("stage", string(s.name)))
	}

	ctxzap.Info(ctx, "proposal generation workflow completed",
		zap.Int("final_proposal_length", len(state.FinalProposal)),
	)

	return state, nil
}

func (e *Engine) stages() []stage {
	return []stage{
		{name: entity.StageAnalyze, run: e.analyzeRequirements},
		{name: entity.StageOutline, run: e.createOutline},
		{name: entity.StageGenerate, run: e.generateProposal},
		{name: entity.StageReview, run: e.reviewProposal},
		{name: entity.StageFinalize, run: e.finalizeProposal},
	}
}

// analyzeRequirements extracts a structured analysis from the raw
// requirements. A malformed completion falls back to a fixed record that
// keeps the raw text, so this stage only fails on transport errors.
func (e *Engine) analyzeRequirements(ctx context.Context, state *entity.ProposalState) error {
	text, err := e.llm.Complete(ctx, analyzeSystemPrompt, buildAnalyzePrompt(state.Requirements))
	if err != nil {
		return err
	}

	state.Analysis = parseAnalysis(text)
	if state.Analysis.Fallback {
		ctxzap.Warn(ctx, "analysis JSON parsing failed, using structured fallback")
	}

	return nil
}

func (e *Engine) createOutline(ctx context.Context, state *entity.ProposalState) error {
	prompt := buildOutlinePrompt(marshalAnalysis(state.Analysis), state.Requirements)

	outline, err := e.llm.Complete(ctx, outlineSystemPrompt, prompt)
	if err != nil {
		return err
	}

	state.Outline = outline
	return nil
}

func (e *Engine) generateProposal(ctx context.Context, state *entity.ProposalState) error {
	prompt := buildGeneratePrompt(marshalAnalysis(state.Analysis), state.Outline, state.Requirements)

	proposal, err := e.llm.Complete(ctx, generateSystemPrompt, prompt)
	if err != nil {
		return err
	}

	state.FullProposal = proposal
	return nil
}

func (e *Engine) reviewProposal(ctx context.Context, state *entity.ProposalState) error {
	prompt := buildReviewPrompt(state.Requirements, marshalAnalysis(state.Analysis), state.FullProposal)

	review, err := e.llm.Complete(ctx, reviewSystemPrompt, prompt)
	if err != nil {
		return err
	}

	state.Review = review
	return nil
}

func (e *Engine) finalizeProposal(ctx context.Context, state *entity.ProposalState) error {
	prompt := buildFinalizePrompt(state.Requirements, marshalAnalysis(state.Analysis), state.FullProposal, state.Review)

	final, err := e.llm.Complete(ctx, finalizeSystemPrompt, prompt)
	if err != nil {
		return err
	}

	state.FinalProposal = final
	return nil
}
