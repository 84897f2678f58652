package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/futig/proposal-backend/internal/entity"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*entity.ProposalRun, error) {
	var (
		id             pgtype.UUID
		status         string
		enhanced       bool
		sourceFileName pgtype.Text
		requirements   string
		analysisJSON   []byte
		outline        pgtype.Text
		fullProposal   pgtype.Text
		review         pgtype.Text
		finalProposal  pgtype.Text
		projectName    pgtype.Text
		errorMessage   pgtype.Text
		createdAt      time.Time
		updatedAt      time.Time
	)

	err := row.Scan(
		&id, &status, &enhanced, &sourceFileName, &requirements, &analysisJSON,
		&outline, &fullProposal, &review, &finalProposal, &projectName,
		&errorMessage, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	run := &entity.ProposalRun{
		ID:             uuidString(id),
		Status:         entity.RunStatus(status),
		Enhanced:       enhanced,
		SourceFileName: textPtr(sourceFileName),
		Requirements:   requirements,
		Outline:        textPtr(outline),
		FullProposal:   textPtr(fullProposal),
		Review:         textPtr(review),
		FinalProposal:  textPtr(finalProposal),
		ProjectName:    textPtr(projectName),
		ErrorMessage:   textPtr(errorMessage),
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}

	if len(analysisJSON) > 0 {
		var record entity.AnalysisRecord
		if err := json.Unmarshal(analysisJSON, &record); err != nil {
			return nil, fmt.Errorf("decode stored analysis: %w", err)
		}
		run.Analysis = entity.NewStructuredAnalysis(record)
	}

	return run, nil
}

func uuidString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	b := id.Bytes
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}
