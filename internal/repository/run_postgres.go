package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/futig/proposal-backend/internal/entity"
)

// RunRepository defines the interface for proposal run persistence
type RunRepository interface {
	Create(ctx context.Context, run entity.ProposalRun) (*entity.ProposalRun, error)
	Get(ctx context.Context, id string) (*entity.ProposalRun, error)
	List(ctx context.Context, skip, limit int) ([]*entity.ProposalRun, error)
	UpdateStatus(ctx context.Context, id string, status entity.RunStatus) error
	UpdateProjectName(ctx context.Context, id string, projectName string) error
	SaveProgress(ctx context.Context, id string, state *entity.ProposalState) error
	Complete(ctx context.Context, id string, state *entity.ProposalState) error
	Fail(ctx context.Context, id string, message string) error
}

var _ RunRepository = &RunPostgres{}

// RunPostgres implements RunRepository using PostgreSQL
type RunPostgres struct {
	db *pgxpool.Pool
}

func NewRunPostgres(db *pgxpool.Pool) *RunPostgres {
	return &RunPostgres{db: db}
}

const runColumns = `id, status, enhanced, source_file_name, requirements, analysis,
	outline, full_proposal, review, final_proposal, project_name, error_message,
	created_at, updated_at`

func (r *RunPostgres) Create(ctx context.Context, run entity.ProposalRun) (*entity.ProposalRun, error) {
	runID, err := uuid.Parse(run.ID)
	if err != nil {
		return nil, fmt.Errorf("parse run ID: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO proposal_runs (id, status, enhanced, source_file_name, requirements)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+runColumns,
		pgtype.UUID{Bytes: runID, Valid: true},
		string(run.Status),
		run.Enhanced,
		run.SourceFileName,
		run.Requirements,
	)

	created, err := scanRun(row)
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	return created, nil
}

func (r *RunPostgres) Get(ctx context.Context, id string) (*entity.ProposalRun, error) {
	runID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse run ID: %w", err)
	}

	row := r.db.QueryRow(ctx,
		`SELECT `+runColumns+` FROM proposal_runs WHERE id = $1`,
		pgtype.UUID{Bytes: runID, Valid: true},
	)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrRunNotFound
		}
		return nil, fmt.Errorf("get run: %w", err)
	}

	return run, nil
}

func (r *RunPostgres) List(ctx context.Context, skip, limit int) ([]*entity.ProposalRun, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+runColumns+` FROM proposal_runs ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, skip,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*entity.ProposalRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	return runs, nil
}

func (r *RunPostgres) UpdateStatus(ctx context.Context, id string, status entity.RunStatus) error {
	return r.execOnRun(ctx, id,
		`UPDATE proposal_runs SET status = $2, updated_at = now() WHERE id = $1`,
		string(status),
	)
}

func (r *RunPostgres) UpdateProjectName(ctx context.Context, id string, projectName string) error {
	return r.execOnRun(ctx, id,
		`UPDATE proposal_runs SET project_name = $2, updated_at = now() WHERE id = $1`,
		projectName,
	)
}

// SaveProgress stores the stage outputs accumulated so far without touching
// the status.
func (r *RunPostgres) SaveProgress(ctx context.Context, id string, state *entity.ProposalState) error {
	analysisJSON, err := marshalStateAnalysis(state)
	if err != nil {
		return err
	}

	return r.execOnRun(ctx, id, `
		UPDATE proposal_runs SET
			analysis = COALESCE($2, analysis),
			outline = NULLIF($3, ''),
			full_proposal = NULLIF($4, ''),
			review = NULLIF($5, ''),
			final_proposal = NULLIF($6, ''),
			updated_at = now()
		WHERE id = $1`,
		analysisJSON,
		state.Outline,
		state.FullProposal,
		state.Review,
		state.FinalProposal,
	)
}

// Complete stores the final state and flips the status to DONE.
func (r *RunPostgres) Complete(ctx context.Context, id string, state *entity.ProposalState) error {
	analysisJSON, err := marshalStateAnalysis(state)
	if err != nil {
		return err
	}

	return r.execOnRun(ctx, id, `
		UPDATE proposal_runs SET
			status = $2,
			analysis = $3,
			outline = $4,
			full_proposal = $5,
			review = $6,
			final_proposal = $7,
			error_message = NULL,
			updated_at = now()
		WHERE id = $1`,
		string(entity.RunStatusDone),
		analysisJSON,
		state.Outline,
		state.FullProposal,
		state.Review,
		state.FinalProposal,
	)
}

func (r *RunPostgres) Fail(ctx context.Context, id string, message string) error {
	return r.execOnRun(ctx, id, `
		UPDATE proposal_runs SET
			status = $2,
			error_message = $3,
			updated_at = now()
		WHERE id = $1`,
		string(entity.RunStatusFailed),
		message,
	)
}

func (r *RunPostgres) execOnRun(ctx context.Context, id string, query string, args ...any) error {
	runID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("parse run ID: %w", err)
	}

	allArgs := append([]any{pgtype.UUID{Bytes: runID, Valid: true}}, args...)

	tag, err := r.db.Exec(ctx, query, allArgs...)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrRunNotFound
	}

	return nil
}

func marshalStateAnalysis(state *entity.ProposalState) ([]byte, error) {
	if state.Analysis == nil {
		return nil, nil
	}
	data, err := json.Marshal(state.Analysis)
	if err != nil {
		return nil, fmt.Errorf("marshal analysis: %w", err)
	}
	return data, nil
}
