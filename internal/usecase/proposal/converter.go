package proposal

import (
	"github.com/futig/proposal-backend/internal/entity"
)

// ToRunDTO builds the polling view of a run.
func ToRunDTO(run *entity.ProposalRun) *entity.RunDTO {
	return &entity.RunDTO{
		ID:             run.ID,
		Status:         run.Status,
		Enhanced:       run.Enhanced,
		SourceFileName: run.SourceFileName,
		ProjectName:    run.ProjectName,
		Progress: entity.RunFlags{
			AnalysisCompleted: run.Analysis != nil,
			OutlineGenerated:  run.Outline != nil,
			ProposalGenerated: run.FullProposal != nil,
			ReviewCompleted:   run.Review != nil,
			Finalized:         run.FinalProposal != nil,
		},
		Error:     run.ErrorMessage,
		CreatedAt: run.CreatedAt,
		UpdatedAt: run.UpdatedAt,
	}
}

// ToRunResultDTO builds the full result rendering of a finished run.
func ToRunResultDTO(run *entity.ProposalRun) *entity.RunResultDTO {
	return &entity.RunResultDTO{
		ID:            run.ID,
		Requirements:  run.Requirements,
		Analysis:      run.Analysis,
		Outline:       deref(run.Outline),
		FullProposal:  deref(run.FullProposal),
		Review:        deref(run.Review),
		FinalProposal: deref(run.FinalProposal),
		GeneratedAt:   run.UpdatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
