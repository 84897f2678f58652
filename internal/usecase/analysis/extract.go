package analysis

import (
	"fmt"
	"strings"

	"github.com/futig/proposal-backend/internal/entity"
)

const (
	maxKeyRequirements = 10
	maxTechnicalSpecs  = 5
	maxObjectives      = 8
	maxConstraints     = 6
	specExcerptLen     = 200
)

// extractKeyRequirements pulls requirement-looking lines from requirement and
// specification documents.
func extractKeyRequirements(documents []entity.ProjectDocument) []string {
	requirements := []string{}

	for _, doc := range documents {
		if doc.DocumentType != entity.DocumentTypeRequirement && doc.DocumentType != entity.DocumentTypeSpecification {
			continue
		}
		for _, line := range strings.Split(doc.Content, "\n") {
			lineLower := strings.ToLower(line)
			if strings.Contains(lineLower, "requirement") ||
				strings.Contains(lineLower, "must") ||
				strings.Contains(lineLower, "shall") {
				requirements = append(requirements, strings.TrimSpace(line))
			}
		}
	}

	return capSlice(requirements, maxKeyRequirements)
}

// extractTechnicalSpecifications collects excerpts of technology-oriented
// specification and design documents.
func extractTechnicalSpecifications(documents []entity.ProjectDocument) []string {
	specs := []string{}

	for _, doc := range documents {
		if doc.DocumentType != entity.DocumentTypeSpecification && doc.DocumentType != entity.DocumentTypeDesign {
			continue
		}
		contentLower := strings.ToLower(doc.Content)
		if strings.Contains(contentLower, "technology") ||
			strings.Contains(contentLower, "architecture") ||
			strings.Contains(contentLower, "platform") {
			excerpt := doc.Content
			if len(excerpt) > specExcerptLen {
				excerpt = excerpt[:specExcerptLen]
			}
			specs = append(specs, fmt.Sprintf("From %s: %s...", doc.Name, excerpt))
		}
	}

	return capSlice(specs, maxTechnicalSpecs)
}

// extractBusinessObjectives pulls objective and goal lines from any document
// that mentions them.
func extractBusinessObjectives(documents []entity.ProjectDocument) []string {
	objectives := []string{}

	for _, doc := range documents {
		contentLower := strings.ToLower(doc.Content)
		if !strings.Contains(contentLower, "objective") &&
			!strings.Contains(contentLower, "goal") &&
			!strings.Contains(contentLower, "outcome") {
			continue
		}
		for _, line := range strings.Split(doc.Content, "\n") {
			lineLower := strings.ToLower(line)
			if strings.Contains(lineLower, "objective") || strings.Contains(lineLower, "goal") {
				objectives = append(objectives, strings.TrimSpace(line))
			}
		}
	}

	return capSlice(objectives, maxObjectives)
}

// extractConstraints pulls constraint, budget and deadline lines.
func extractConstraints(documents []entity.ProjectDocument) []string {
	constraints := []string{}

	for _, doc := range documents {
		contentLower := strings.ToLower(doc.Content)
		if !strings.Contains(contentLower, "constraint") &&
			!strings.Contains(contentLower, "limitation") &&
			!strings.Contains(contentLower, "budget") &&
			!strings.Contains(contentLower, "timeline") {
			continue
		}
		for _, line := range strings.Split(doc.Content, "\n") {
			lineLower := strings.ToLower(line)
			if strings.Contains(lineLower, "constraint") ||
				strings.Contains(lineLower, "budget") ||
				strings.Contains(lineLower, "deadline") {
				constraints = append(constraints, strings.TrimSpace(line))
			}
		}
	}

	return capSlice(constraints, maxConstraints)
}

func capSlice(items []string, limit int) []string {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
