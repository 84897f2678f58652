package analysis

import (
	"fmt"
	"strings"

	"github.com/futig/proposal-backend/internal/entity"
)

const (
	projectNameSystemPrompt = "You are a document analyst. Follow the instruction exactly and return only the requested value."
	summarySystemPrompt     = "You are a project analyst. Produce clear, factual summaries grounded in the provided documents."

	maxProjectNameLen     = 100
	maxSummaryLen         = 2000
	namePromptExcerptLen  = 2000
	summaryRFPExcerptLen  = 2000
	summaryDocExcerptLen  = 1000
	summaryDocCount       = 5
)

func buildProjectNamePrompt(rfpContent string) string {
	return fmt.Sprintf(`Analyze this RFP document and extract the project name or title.
Return only the project name, nothing else.

RFP Content:
%s...

Project Name:`, truncate(rfpContent, namePromptExcerptLen))
}

func buildSummaryPrompt(projectName, rfpContent string, documents []entity.ProjectDocument) string {
	var combined strings.Builder
	for i, doc := range documents {
		if i >= summaryDocCount {
			break
		}
		fmt.Fprintf(&combined, "Document: %s\nType: %s\n%s...\n\n",
			doc.Name, doc.DocumentType, truncate(doc.Content, summaryDocExcerptLen))
	}

	return fmt.Sprintf(`Create a comprehensive project summary based on the RFP and related documents.

Project Name: %s

RFP Content:
%s...

Related Documents:
%s

Generate a detailed project summary that includes:
1. Project overview and scope
2. Main objectives
3. Key stakeholders
4. Technology requirements
5. Timeline expectations
6. Budget considerations
7. Success criteria

Summary:`, projectName, truncate(rfpContent, summaryRFPExcerptLen), combined.String())
}

// BuildEnrichedPrompt turns a project context into the requirements text fed
// to the workflow for context-enhanced runs.
func BuildEnrichedPrompt(pc *entity.ProjectContext, requirements string) string {
	var docs strings.Builder
	for _, doc := range pc.RelatedDocuments {
		fmt.Fprintf(&docs, "- %s (%s) - Relevance: %.1f/100\n", doc.Name, doc.DocumentType, doc.RelevanceScore)
	}

	return fmt.Sprintf(`Based on the RFP and comprehensive project analysis, generate a detailed business proposal.

PROJECT CONTEXT:
- Project Name: %s
- Related Documents Analyzed: %d
- Project Summary: %s

KEY REQUIREMENTS:
%s

TECHNICAL SPECIFICATIONS:
%s

BUSINESS OBJECTIVES:
%s

CONSTRAINTS:
%s

RELATED DOCUMENTS ANALYZED:
%s
ORIGINAL RFP REQUIREMENTS:
%s

Generate a comprehensive business proposal that addresses all requirements and leverages insights from all project documents.`,
		pc.ProjectName,
		pc.TotalDocuments,
		pc.ProjectSummary,
		bulletList(pc.KeyRequirements),
		bulletList(pc.TechnicalSpecifications),
		bulletList(pc.BusinessObjectives),
		bulletList(pc.Constraints),
		docs.String(),
		requirements,
	)
}

func bulletList(items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "• "+item)
	}
	return strings.Join(lines, "\n")
}

func truncate(text string, limit int) string {
	if len(text) > limit {
		return text[:limit]
	}
	return text
}
