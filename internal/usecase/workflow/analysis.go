package workflow

import (
	"encoding/json"
	"strings"

	"github.com/futig/proposal-backend/internal/entity"
)

// parseAnalysis decodes the analyze-stage completion into a structured
// analysis. Responses wrapped in markdown code fences are unwrapped first.
// When decoding fails the raw text is preserved in a fallback record so the
// later stages still receive usable context.
func parseAnalysis(text string) *entity.Analysis {
	candidate := stripCodeFences(text)

	var record entity.AnalysisRecord
	if err := json.Unmarshal([]byte(candidate), &record); err != nil {
		return entity.NewFallbackAnalysis(text)
	}

	return entity.NewStructuredAnalysis(record)
}

// stripCodeFences removes a surrounding markdown code fence (``` or ```json)
// if present.
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx != -1 {
		// Drop the language tag line (e.g. "json")
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")

	return strings.TrimSpace(trimmed)
}

// marshalAnalysis renders the analysis as indented JSON for prompt embedding.
func marshalAnalysis(analysis *entity.Analysis) string {
	if analysis == nil {
		return "null"
	}

	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "null"
	}
	return string(data)
}
